package expert

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

// Expert answers queries by asking an AI that may request tool calls.
//
// Every function call found in a model response is executed through the
// ToolCaller, and its result is sent back to the AI in a continuation request.
// MaxRounds bounds how deep continuations are followed: with 1, the
// continuation's leading text is taken as the answer to the call, and any
// function call it contains is not serviced.
type Expert struct {
	// Name is the expert name, as shown in the conversation log.
	Name string `json:"name"`
	// MaxRounds is the number of tool rounds serviced per query. Values below 1
	// mean 1.
	MaxRounds int `json:"max_rounds"`
	// Tools made available to the model.
	Tools []*genai.Tool `json:"-"`

	model  Generator
	caller ToolCaller
	logger ConversationLogger
}

// NewExpert creates an expert asking model, executing function calls through caller.
func NewExpert(name string, model Generator, caller ToolCaller, tools ...*genai.Tool) *Expert {
	return &Expert{
		Name:      name,
		MaxRounds: 1,
		Tools:     tools,
		model:     model,
		caller:    caller,
		logger:    nopLogger{},
	}
}

// SetLogger sets the ConversationLogger receiving tool call notifications.
func (e *Expert) SetLogger(logger ConversationLogger) {
	if logger == nil {
		logger = nopLogger{}
	}
	e.logger = logger
}

// Ask sends query to the AI, in a fresh conversation, and returns the text
// of its answers joined by newlines in the order they were produced.
//
// Tool failures never abort the query, the AI receives the error description
// instead. Only a failure of the model itself is returned, as ErrGeneration.
func (e *Expert) Ask(ctx context.Context, query string) (string, error) {
	id := uuid.NewString()
	log.Printf("[%s] %s: query %q", id, e.Name, query)

	turns := []Turn{UserTurn(query)}
	resp, err := e.generate(ctx, turns)
	if err != nil {
		return "", err
	}
	var answers []string
	if err := e.process(ctx, id, turns, resp, 1, &answers); err != nil {
		return "", err
	}
	return strings.Join(answers, "\n"), nil
}

// process walks every part of resp, accumulating text and servicing function
// calls. history is the conversation that produced resp.
func (e *Expert) process(ctx context.Context, id string, history []Turn, resp *genai.GenerateContentResponse, depth int, answers *[]string) error {
	for _, candidate := range candidates(resp) {
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			if part.FunctionCall == nil {
				if part.Text != "" {
					*answers = append(*answers, part.Text)
				}
				continue
			}

			name := part.FunctionCall.Name
			args := coerceArgs(part.FunctionCall.Args)
			result, callErr := e.call(ctx, id, name, args)
			answer := ResultTurn(name, result, callErr)
			turns := append(slices.Clone(history), CallTurn(name, args), answer)

			next, err := e.generate(ctx, turns)
			if err != nil {
				return err
			}
			before := len(*answers)
			if depth < e.maxRounds() {
				if err := e.process(ctx, id, turns, next, depth+1, answers); err != nil {
					return err
				}
			} else {
				if text := leadingText(next); text != "" {
					*answers = append(*answers, text)
				}
				if n := countFunctionCalls(next); n > 0 {
					log.Printf("[%s] %s: %d function call(s) requested after %q were not serviced (max rounds %d)", id, e.Name, n, name, e.maxRounds())
				}
			}
			// a failed call is never silent, even when the AI has nothing to say.
			if callErr != nil && len(*answers) == before {
				*answers = append(*answers, answer.Err)
			}
		}
	}
	return nil
}

// call executes a function call and serializes its result. The returned
// error is meant for the AI, not for the caller.
func (e *Expert) call(ctx context.Context, id, name string, args map[string]any) (string, error) {
	e.logger.LogResponse(e.Name, fmt.Sprintf("Calling %s with args %v", name, args))
	log.Printf("[%s] %s: calling %s %v", id, e.Name, name, args)

	if e.caller == nil {
		err := fmt.Errorf("%w: %s: no tool caller", ErrToolInvocation, name)
		e.logger.LogQuestion(e.Name, fmt.Sprintf("%s failed: %v", name, err))
		return "", err
	}
	result, err := e.caller.CallTool(ctx, name, args)
	if err != nil {
		log.Printf("[%s] %s: %s failed: %v", id, e.Name, name, err)
		e.logger.LogQuestion(e.Name, fmt.Sprintf("%s failed: %v", name, err))
		return "", err
	}
	text := result.String()
	e.logger.LogQuestion(e.Name, fmt.Sprintf("Processing %s's response", name))
	return text, nil
}

func (e *Expert) generate(ctx context.Context, turns []Turn) (*genai.GenerateContentResponse, error) {
	if e.model == nil {
		return nil, fmt.Errorf("%w: expert %s has no model", ErrGeneration, e.Name)
	}
	resp, err := e.model.Generate(ctx, Contents(turns), e.Tools)
	if err != nil {
		if !errors.Is(err, ErrGeneration) {
			err = fmt.Errorf("%w: %v", ErrGeneration, err)
		}
		return nil, err
	}
	return resp, nil
}

func (e *Expert) maxRounds() int {
	if e.MaxRounds < 1 {
		return 1
	}
	return e.MaxRounds
}

// candidates returns the candidates of resp that carry content.
func candidates(resp *genai.GenerateContentResponse) []*genai.Candidate {
	if resp == nil {
		return nil
	}
	var out []*genai.Candidate
	for _, c := range resp.Candidates {
		if c != nil && c.Content != nil {
			out = append(out, c)
		}
	}
	return out
}

// leadingText returns the text of the first answer part of the first
// candidate. Thought parts are skipped.
func leadingText(resp *genai.GenerateContentResponse) string {
	cs := candidates(resp)
	if len(cs) == 0 {
		return ""
	}
	for _, p := range cs[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		return p.Text
	}
	return ""
}

func countFunctionCalls(resp *genai.GenerateContentResponse) int {
	n := 0
	for _, c := range candidates(resp) {
		for _, p := range c.Content.Parts {
			if p != nil && p.FunctionCall != nil {
				n++
			}
		}
	}
	return n
}

// coerceArgs returns a copy of args that is safe to keep in the conversation.
// Missing arguments become an empty map.
func coerceArgs(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	return out
}
