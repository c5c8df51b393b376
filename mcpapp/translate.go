package mcpapp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"google.golang.org/genai"
)

// ReturnsText is appended to every tool description: MCP tools answer with
// text, and the model would otherwise expect structured output.
const ReturnsText = " The tool returns its result as a string."

// ToolDescriptor is a tool as listed by the MCP server.
type ToolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// descriptorOf converts a listed MCP tool. A schema that is not a JSON object
// is dropped here and reported by Declare.
func descriptorOf(t *mcp.Tool) ToolDescriptor {
	d := ToolDescriptor{Name: t.Name, Description: t.Description}
	switch s := t.InputSchema.(type) {
	case map[string]any:
		d.InputSchema = s
	case nil:
	default:
		// servers built with this SDK may hand us typed schemas.
		var m map[string]any
		if b, err := json.Marshal(s); err == nil && json.Unmarshal(b, &m) == nil {
			d.InputSchema = m
		}
	}
	return d
}

// Translate converts tool descriptors into Gemini tools, one function
// declaration per tool, in the same order. Any unusable descriptor fails the
// whole translation with ErrSchema.
func Translate(descriptors []ToolDescriptor) ([]*genai.Tool, error) {
	tools := make([]*genai.Tool, 0, len(descriptors))
	for _, d := range descriptors {
		decl, err := Declare(d)
		if err != nil {
			return nil, err
		}
		tools = append(tools, &genai.Tool{FunctionDeclarations: []*genai.FunctionDeclaration{decl}})
	}
	return tools, nil
}

// Declare returns the function declaration for a single tool. The input
// schema is cleaned in place.
func Declare(d ToolDescriptor) (*genai.FunctionDeclaration, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("%w: tool without a name", ErrSchema)
	}
	if strings.TrimSpace(d.Description) == "" {
		return nil, fmt.Errorf("%w: tool %q has no description", ErrSchema, d.Name)
	}
	if d.InputSchema == nil {
		return nil, fmt.Errorf("%w: tool %q has no input schema", ErrSchema, d.Name)
	}

	params := CleanSchema(d.InputSchema)
	if err := validateSchema(params); err != nil {
		return nil, fmt.Errorf("%w: tool %q: %v", ErrSchema, d.Name, err)
	}

	return &genai.FunctionDeclaration{
		Name:                 d.Name,
		Description:          d.Description + ReturnsText,
		ParametersJsonSchema: params,
	}, nil
}

// validateSchema checks that schema compiles as a JSON schema.
func validateSchema(schema any) error {
	const url = "mem:///parameters.json"
	raw, err := json.Marshal(schema)
	if err != nil {
		return err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, bytes.NewReader(raw)); err != nil {
		return err
	}
	_, err = c.Compile(url)
	return err
}
