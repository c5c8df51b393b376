package mcpapp

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/etnz/mcpgemini/expert"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// State is the lifecycle state of a Session.
type State int

const (
	Unconnected State = iota
	Connecting
	Ready
	Closing
	Closed
)

func (s State) String() string {
	switch s {
	case Unconnected:
		return "unconnected"
	case Connecting:
		return "connecting"
	case Ready:
		return "ready"
	case Closing:
		return "closing"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Dialer creates the transport used to reach an MCP endpoint.
type Dialer func(endpoint string) mcp.Transport

// SSEDialer dials endpoints with the SSE transport of the 2024-11-05 protocol.
func SSEDialer(client *http.Client) Dialer {
	return func(endpoint string) mcp.Transport {
		return &mcp.SSEClientTransport{Endpoint: endpoint, HTTPClient: client}
	}
}

// StreamableDialer dials endpoints with the streamable HTTP transport.
func StreamableDialer(client *http.Client) Dialer {
	return func(endpoint string) mcp.Transport {
		return &mcp.StreamableClientTransport{Endpoint: endpoint, HTTPClient: client}
	}
}

// Session is the single MCP session of the process, layered on a streaming
// connection. It is created by Connect and torn down by Cleanup, which
// closes the session before the connection under it.
//
// Tools can only be called while the session is Ready.
type Session struct {
	// CallTimeout bounds each tool call. Zero means no bound beyond the
	// caller's context.
	CallTimeout time.Duration

	client *mcp.Client
	dial   Dialer

	mu      sync.Mutex
	state   State
	conn    mcp.Connection
	session *mcp.ClientSession
	tools   []ToolDescriptor
}

// NewSession returns an unconnected Session using client to speak MCP over
// transports created by dial.
func NewSession(client *mcp.Client, dial Dialer) *Session {
	return &Session{client: client, dial: dial}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Tools returns the tools listed at connect time.
func (s *Session) Tools() []ToolDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tools
}

// Connect opens the connection to endpoint, initializes the MCP session on
// it and lists the available tools.
//
// It fails with ErrConnection when the connection cannot be established and
// with ErrProtocol when the session is rejected. Whatever was created is
// kept for Cleanup.
func (s *Session) Connect(ctx context.Context, endpoint string) ([]ToolDescriptor, error) {
	s.mu.Lock()
	if s.state != Unconnected {
		state := s.state
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot connect a %s session", ErrConnection, state)
	}
	s.state = Connecting
	s.mu.Unlock()

	t := &trackedTransport{Transport: s.dial(endpoint)}
	cs, err := s.client.Connect(ctx, t, nil)

	s.mu.Lock()
	s.conn = t.conn
	if err != nil {
		s.mu.Unlock()
		if t.conn == nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrConnection, endpoint, err)
		}
		return nil, fmt.Errorf("%w: initializing session with %s: %v", ErrProtocol, endpoint, err)
	}
	if s.state != Connecting {
		// Cleanup started while the handshake was running.
		s.mu.Unlock()
		if err := cs.Close(); err != nil {
			log.Printf("closing session abandoned during connect: %v", err)
		}
		return nil, fmt.Errorf("%w: session closed while connecting", ErrConnection)
	}
	s.session = cs
	s.mu.Unlock()

	if res := cs.InitializeResult(); res != nil && res.ServerInfo != nil {
		log.Printf("initialized session with %s %s (protocol %s)", res.ServerInfo.Name, res.ServerInfo.Version, res.ProtocolVersion)
	}

	var tools []ToolDescriptor
	for tool, err := range cs.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("%w: listing tools: %v", ErrProtocol, err)
		}
		tools = append(tools, descriptorOf(tool))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Connecting {
		return nil, fmt.Errorf("%w: session closed while listing tools", ErrConnection)
	}
	s.tools = tools
	s.state = Ready
	return tools, nil
}

// CallTool implements expert.ToolCaller by forwarding the call to the MCP
// session. Every failure, including a result flagged as an error by the
// tool, wraps expert.ErrToolInvocation.
func (s *Session) CallTool(ctx context.Context, name string, args map[string]any) (expert.Result, error) {
	s.mu.Lock()
	cs, state := s.session, s.state
	s.mu.Unlock()
	if state != Ready || cs == nil {
		return expert.Result{}, fmt.Errorf("%w: %w: %s is %s", expert.ErrToolInvocation, ErrNotReady, name, state)
	}

	if s.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.CallTimeout)
		defer cancel()
	}

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return expert.Result{}, fmt.Errorf("%w: %s: %v", expert.ErrToolInvocation, name, err)
	}
	result := resultOf(res)
	if res.IsError {
		return expert.Result{}, fmt.Errorf("%w: %s: %s", expert.ErrToolInvocation, name, result)
	}
	return result, nil
}

// Cleanup closes the session and then the connection, whatever state they
// are in. It never fails: teardown errors are logged. It is safe to call
// several times and before Connect.
func (s *Session) Cleanup() {
	s.mu.Lock()
	if s.state == Closed || s.state == Closing {
		s.mu.Unlock()
		return
	}
	s.state = Closing
	cs, conn := s.session, s.conn
	s.session, s.conn = nil, nil
	s.mu.Unlock()

	if cs != nil {
		if err := cs.Close(); err != nil {
			log.Printf("closing MCP session: %v", err)
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			log.Printf("closing MCP connection: %v", err)
		}
	}

	s.mu.Lock()
	s.state = Closed
	s.mu.Unlock()
}

// trackedTransport remembers the connection it opened, so that it can be
// closed on its own when the session never came up.
type trackedTransport struct {
	mcp.Transport
	conn mcp.Connection
}

func (t *trackedTransport) Connect(ctx context.Context) (mcp.Connection, error) {
	conn, err := t.Transport.Connect(ctx)
	if err != nil {
		return nil, err
	}
	t.conn = conn
	return conn, nil
}
