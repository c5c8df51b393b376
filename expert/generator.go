package expert

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Generator produces the next model response for a conversation, given the
// tools the model is allowed to call.
type Generator interface {
	Generate(ctx context.Context, contents []*genai.Content, tools []*genai.Tool) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator is the Generator backed by the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	// ModelName to use.
	ModelName string
	// Config holds the model config. Its Tools section is replaced on each call.
	Config *genai.GenerateContentConfig
}

// NewGeminiGenerator returns a Generator calling modelName through client.
func NewGeminiGenerator(client *genai.Client, modelName string) *GeminiGenerator {
	return &GeminiGenerator{client: client, ModelName: modelName}
}

// Generate implements Generator. Any failure is reported as ErrGeneration.
func (g *GeminiGenerator) Generate(ctx context.Context, contents []*genai.Content, tools []*genai.Tool) (*genai.GenerateContentResponse, error) {
	config := &genai.GenerateContentConfig{}
	if g.Config != nil {
		c := *g.Config
		config = &c
	}
	config.Tools = tools

	resp, err := g.client.Models.GenerateContent(ctx, g.ModelName, contents, config)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrGeneration, g.ModelName, err)
	}
	return resp, nil
}
