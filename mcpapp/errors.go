package mcpapp

import "errors"

// Sentinel errors for the bridge. Tool and model failures use
// expert.ErrToolInvocation and expert.ErrGeneration.
var (
	// ErrConfiguration reports a missing credential or argument. It is fatal
	// before any connection is attempted.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrConnection reports a transport that could not be established.
	ErrConnection = errors.New("connection failed")
	// ErrProtocol reports a session whose initialization was rejected.
	ErrProtocol = errors.New("protocol error")
	// ErrSchema reports a tool descriptor that cannot be declared to the model.
	ErrSchema = errors.New("invalid tool schema")
	// ErrNotReady reports a tool call attempted outside the Ready state.
	ErrNotReady = errors.New("session not ready")
)
