package toolhost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tidwall/gjson"
)

// SearchArgs are the arguments of web_search.
type SearchArgs struct {
	Query string `json:"query" jsonschema:"the search query string"`
}

// webSearch returns the list of Tavily results as JSON text, or an
// {"error": ...} object.
func (t *tools) webSearch(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	results, err := t.search(ctx, args.Query)
	if err != nil {
		log.Printf("web_search %q: %v", args.Query, err)
		return textResult(errorJSON(err)), nil, nil
	}
	return textResult(results), nil, nil
}

// search posts query to the search API and returns the raw "results" array.
func (t *tools) search(ctx context.Context, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(map[string]any{
		"api_key": t.cfg.TavilyAPIKey,
		"query":   query,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.TavilyURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(data, "detail.error").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("search API returned %d: %s", resp.StatusCode, msg)
	}
	results := gjson.GetBytes(data, "results")
	if !results.IsArray() {
		return "", fmt.Errorf("search API response has no results")
	}
	return results.Raw, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func errorJSON(err error) string {
	b, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(b)
}
