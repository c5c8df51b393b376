package mcpapp

import (
	"encoding/json"
	"strings"

	"github.com/etnz/mcpgemini/expert"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// resultOf converts an MCP tool result. Structured content is preferred,
// otherwise text contents are joined by newlines and other contents are
// kept as their JSON encoding.
func resultOf(res *mcp.CallToolResult) expert.Result {
	if res == nil {
		return expert.TextResult("")
	}
	if res.StructuredContent != nil {
		return expert.StructuredResult(res.StructuredContent)
	}
	parts := make([]string, 0, len(res.Content))
	for _, c := range res.Content {
		switch c := c.(type) {
		case *mcp.TextContent:
			parts = append(parts, c.Text)
		default:
			b, err := json.Marshal(c)
			if err != nil {
				continue
			}
			parts = append(parts, string(b))
		}
	}
	return expert.TextResult(strings.Join(parts, "\n"))
}
