package toolhost

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Name and Version identify the tool host during the MCP handshake.
const (
	Name    = "multi-tool-server"
	Version = "v0.1.0"
)

// tools implements every tool handler on top of the shared configuration.
type tools struct {
	cfg Config
}

// NewServer validates cfg, creates the workspace directory and returns an
// MCP server with all the tools registered.
func NewServer(cfg Config) (*mcp.Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	workspace, err := filepath.Abs(cfg.Workspace)
	if err != nil {
		return nil, fmt.Errorf("%w: workspace %s: %v", ErrConfiguration, cfg.Workspace, err)
	}
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create workspace %s: %w", workspace, err)
	}
	cfg.Workspace = workspace
	log.Printf("tool host workspace: %s", workspace)

	t := &tools{cfg: cfg}
	server := mcp.NewServer(&mcp.Implementation{Name: Name, Version: Version}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "web_search",
		Description: "Search the web using Tavily",
	}, t.webSearch)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_weather",
		Description: "Fetch weather data for a given location",
	}, t.getWeather)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_integers",
		Description: "Add two positive integers",
	}, t.addIntegers)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_numbers",
		Description: "Adds two numbers together.",
	}, t.addNumbers)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_command",
		Description: "Executes a shell command in the default workspace and returns the standard output or the error message.",
	}, t.runCommand)
	return server, nil
}

// Handler serves server over SSE at /sse and over streamable HTTP at /mcp.
func Handler(server *mcp.Server) http.Handler {
	getServer := func(*http.Request) *mcp.Server { return server }
	mux := http.NewServeMux()
	mux.Handle("/sse", mcp.NewSSEHandler(getServer, nil))
	mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(getServer, nil))
	return mux
}
