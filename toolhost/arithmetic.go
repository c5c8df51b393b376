package toolhost

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddArgs are the arguments of add_integers.
type AddArgs struct {
	Num1 int `json:"num1" jsonschema:"first integer"`
	Num2 int `json:"num2" jsonschema:"second integer"`
}

// addIntegers answers {"result": sum}, or an {"error": ...} object when an
// operand is negative.
func (t *tools) addIntegers(ctx context.Context, req *mcp.CallToolRequest, args AddArgs) (*mcp.CallToolResult, map[string]any, error) {
	if args.Num1 < 0 || args.Num2 < 0 {
		return nil, map[string]any{"error": "Both integers must be positive"}, nil
	}
	return nil, map[string]any{"result": args.Num1 + args.Num2}, nil
}

// NumbersArgs are the arguments of add_numbers.
type NumbersArgs struct {
	A float64 `json:"a" jsonschema:"first number"`
	B float64 `json:"b" jsonschema:"second number"`
}

func (t *tools) addNumbers(ctx context.Context, req *mcp.CallToolRequest, args NumbersArgs) (*mcp.CallToolResult, map[string]any, error) {
	return nil, map[string]any{"result": args.A + args.B}, nil
}
