package expert

import "errors"

var (
	// ErrGeneration is returned by Ask when the model could not produce a
	// response. The current query is abandoned, the conversation is not.
	ErrGeneration = errors.New("generation failed")
	// ErrToolInvocation marks a tool call that failed or whose result was
	// flagged as an error by the tool itself.
	ErrToolInvocation = errors.New("tool invocation failed")
)
