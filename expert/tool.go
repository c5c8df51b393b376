package expert

import (
	"context"
	"encoding/json"
	"fmt"
)

// ToolCaller is anything able to execute a function the AI asked for.
//
// The expert never knows how tools are implemented: it only forwards the
// name and arguments found in a function call and expects a Result back.
type ToolCaller interface {
	// CallTool executes the named tool. Errors must wrap ErrToolInvocation
	// when the tool itself failed.
	CallTool(ctx context.Context, name string, args map[string]any) (Result, error)
}

// Result is the outcome of a tool call: either plain text or a structured
// value. It is resolved to text once, by String, when it is sent back to the AI.
type Result struct {
	text       string
	structured any
	isJSON     bool
}

// TextResult returns a Result holding plain text.
func TextResult(text string) Result { return Result{text: text} }

// StructuredResult returns a Result holding a structured value (list, map,
// number...) that is serialized as JSON.
func StructuredResult(v any) Result { return Result{structured: v, isJSON: true} }

// IsStructured reports whether r holds a structured value.
func (r Result) IsStructured() bool { return r.isJSON }

// Value returns the raw value held by r.
func (r Result) Value() any {
	if r.isJSON {
		return r.structured
	}
	return r.text
}

// String serializes the result for the AI: structured values are encoded as
// JSON, text passes through as is.
func (r Result) String() string {
	if !r.isJSON {
		return r.text
	}
	if raw, ok := r.structured.(json.RawMessage); ok {
		return string(raw)
	}
	b, err := json.Marshal(r.structured)
	if err != nil {
		return fmt.Sprintf("%v", r.structured)
	}
	return string(b)
}
