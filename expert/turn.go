package expert

import (
	"fmt"

	"google.golang.org/genai"
)

// TurnKind tells which variant a Turn holds.
type TurnKind int

const (
	UserText TurnKind = iota
	FunctionCall
	ToolResult
	ModelText
)

func (k TurnKind) String() string {
	switch k {
	case UserText:
		return "user-text"
	case FunctionCall:
		return "function-call"
	case ToolResult:
		return "tool-result"
	case ModelText:
		return "model-text"
	default:
		return fmt.Sprintf("TurnKind(%d)", int(k))
	}
}

// Turn is one unit of the conversation sent to the AI.
//
// Only the fields relevant to Kind are set: Text for UserText and ModelText,
// Name and Args for FunctionCall, Name and Result (or Err) for ToolResult.
type Turn struct {
	Kind   TurnKind
	Text   string
	Name   string
	Args   map[string]any
	Result string
	Err    string
}

func UserTurn(text string) Turn { return Turn{Kind: UserText, Text: text} }

func CallTurn(name string, args map[string]any) Turn {
	return Turn{Kind: FunctionCall, Name: name, Args: args}
}

// ResultTurn is the answer to a FunctionCall turn. If err is not nil the AI
// receives its description instead of a result.
func ResultTurn(name, result string, err error) Turn {
	t := Turn{Kind: ToolResult, Name: name, Result: result}
	if err != nil {
		t.Err = fmt.Sprintf("Tool error: %v", err)
	}
	return t
}

// Content converts the turn to the Gemini representation.
func (t Turn) Content() *genai.Content {
	switch t.Kind {
	case FunctionCall:
		return genai.NewContentFromFunctionCall(t.Name, t.Args, genai.RoleModel)
	case ToolResult:
		response := map[string]any{"content": t.Result}
		if t.Err != "" {
			response = map[string]any{"error": t.Err}
		}
		// the Gemini API expects function responses in a user turn.
		return genai.NewContentFromFunctionResponse(t.Name, response, genai.RoleUser)
	case ModelText:
		return genai.NewContentFromText(t.Text, genai.RoleModel)
	default:
		return genai.NewContentFromText(t.Text, genai.RoleUser)
	}
}

// Contents converts a sequence of turns, preserving order.
func Contents(turns []Turn) []*genai.Content {
	contents := make([]*genai.Content, len(turns))
	for i, t := range turns {
		contents[i] = t.Content()
	}
	return contents
}
