package mcpapp

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/etnz/mcpgemini/expert"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/genai"
)

// Version is reported to the MCP server during the handshake.
const Version = "v0.1.0"

// App holds the application's configuration and its two collaborators: the
// model answering queries and the dialer reaching the MCP server.
type App struct {
	Config Config
	// Model generates the answers. New sets a Gemini generator.
	Model expert.Generator
	// Dial creates the transport to the server. New picks it from
	// Config.Transport.
	Dial Dialer
}

// New validates cfg and creates a fully initialized App.
func New(ctx context.Context, cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create genai client: %v", ErrConfiguration, err)
	}

	// The response header timeout bounds connection attempts without
	// cutting the long-lived event streams.
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.Timeout
	httpClient := &http.Client{Transport: transport}

	dial := SSEDialer(httpClient)
	if cfg.Transport == TransportStreamable {
		dial = StreamableDialer(httpClient)
	}

	return &App{
		Config: cfg,
		Model:  expert.NewGeminiGenerator(client, cfg.Model),
		Dial:   dial,
	}, nil
}

// Run connects to the MCP server, declares its tools to the model and runs
// the interactive shell on w and r until the operator quits.
//
// The session is always cleaned up before Run returns, including when the
// connection or the tool translation failed.
func (app *App) Run(ctx context.Context, w io.Writer, r io.Reader, inputs ...string) error {
	client := mcp.NewClient(&mcp.Implementation{Name: "mcpgemini", Version: Version}, nil)
	session := NewSession(client, app.Dial)
	session.CallTimeout = app.Config.Timeout
	defer session.Cleanup()

	log.Printf("connecting to %s over %s", app.Config.ServerURL, app.Config.Transport)
	descriptors, err := session.Connect(ctx, app.Config.ServerURL)
	if err != nil {
		return err
	}

	names := make([]string, len(descriptors))
	for i, d := range descriptors {
		names[i] = d.Name
	}
	fmt.Fprintf(w, "\nConnected to server with tools: %v\n", names)

	tools, err := Translate(descriptors)
	if err != nil {
		return err
	}

	e := expert.NewExpert("Gemini", app.Model, session, tools...)
	e.MaxRounds = app.Config.MaxRounds

	agent := NewAgent(e, w, r)
	if app.Config.ExitCommand != "" {
		agent.ExitCommand = app.Config.ExitCommand
	}
	if app.Config.Prompt != "" {
		agent.Prompt = app.Config.Prompt
	}
	return agent.Run(ctx, inputs...)
}
