package mcpapp

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestTranslate(t *testing.T) {
	descriptors := []ToolDescriptor{
		{
			Name:        "get_weather",
			Description: "Fetch weather data for a given location",
			InputSchema: map[string]any{
				"type":  "object",
				"title": "get_weatherArguments",
				"properties": map[string]any{
					"location": map[string]any{"type": "string", "title": "Location"},
					"days":     map[string]any{"type": "integer", "title": "Days", "default": 1.0},
				},
				"required": []any{"location"},
			},
		},
		{
			Name:        "add_integers",
			Description: "Add two positive integers",
			InputSchema: map[string]any{"type": "object", "properties": map[string]any{
				"num1": map[string]any{"type": "integer"},
				"num2": map[string]any{"type": "integer"},
			}},
		},
		{
			Name:        "run_command",
			Description: "Run a shell command",
			InputSchema: map[string]any{"type": "object"},
		},
	}

	tools, err := Translate(descriptors)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(tools) != len(descriptors) {
		t.Fatalf("Translate returned %d tools, want %d", len(tools), len(descriptors))
	}
	for i, tool := range tools {
		if len(tool.FunctionDeclarations) != 1 {
			t.Fatalf("tool %d has %d declarations, want 1", i, len(tool.FunctionDeclarations))
		}
		decl := tool.FunctionDeclarations[0]
		if decl.Name != descriptors[i].Name {
			t.Errorf("tool %d name = %q, want %q", i, decl.Name, descriptors[i].Name)
		}
		if !strings.HasSuffix(decl.Description, ReturnsText) {
			t.Errorf("tool %d description = %q, want the return type hint", i, decl.Description)
		}
		if decl.Parameters != nil {
			t.Errorf("tool %d uses Parameters, want ParametersJsonSchema", i)
		}
	}

	want := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"location": map[string]any{"type": "string"},
			"days":     map[string]any{"type": "integer", "default": 1.0},
		},
		"required": []any{"location"},
	}
	if diff := cmp.Diff(want, tools[0].FunctionDeclarations[0].ParametersJsonSchema); diff != "" {
		t.Errorf("parameters mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslate_Empty(t *testing.T) {
	tools, err := Translate(nil)
	if err != nil || len(tools) != 0 {
		t.Errorf("Translate(nil) = %v, %v; want no tools", tools, err)
	}
}

func TestTranslate_Errors(t *testing.T) {
	schema := map[string]any{"type": "object"}
	tests := []struct {
		name string
		d    ToolDescriptor
	}{
		{"missing description", ToolDescriptor{Name: "a", InputSchema: schema}},
		{"blank description", ToolDescriptor{Name: "a", Description: "  ", InputSchema: schema}},
		{"missing name", ToolDescriptor{Description: "d", InputSchema: schema}},
		{"missing schema", ToolDescriptor{Name: "a", Description: "d"}},
		{"invalid schema", ToolDescriptor{Name: "a", Description: "d", InputSchema: map[string]any{"type": 5.0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok := ToolDescriptor{Name: "ok", Description: "fine", InputSchema: map[string]any{"type": "object"}}
			_, err := Translate([]ToolDescriptor{ok, tt.d})
			if !errors.Is(err, ErrSchema) {
				t.Errorf("Translate error = %v, want ErrSchema", err)
			}
		})
	}
}

func TestDescriptorOf(t *testing.T) {
	tests := []struct {
		name string
		tool *mcp.Tool
		want ToolDescriptor
	}{
		{
			name: "map schema",
			tool: &mcp.Tool{Name: "a", Description: "d", InputSchema: map[string]any{"type": "object"}},
			want: ToolDescriptor{Name: "a", Description: "d", InputSchema: map[string]any{"type": "object"}},
		},
		{
			name: "typed schema",
			tool: &mcp.Tool{Name: "b", Description: "d", InputSchema: struct {
				Type string `json:"type"`
			}{"object"}},
			want: ToolDescriptor{Name: "b", Description: "d", InputSchema: map[string]any{"type": "object"}},
		},
		{
			name: "no schema",
			tool: &mcp.Tool{Name: "c"},
			want: ToolDescriptor{Name: "c"},
		},
		{
			name: "not an object",
			tool: &mcp.Tool{Name: "d", InputSchema: "nope"},
			want: ToolDescriptor{Name: "d"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, descriptorOf(tt.tool)); diff != "" {
				t.Errorf("descriptorOf mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
