package llm

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

// GeminiModel is the default Gemini model.
const GeminiModel = "gemini-2.5-flash"

// GeminiGenerator generates text with the Google GenAI API.
type GeminiGenerator struct {
	client      *genai.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewGeminiGenerator creates a Gemini backed generator.
func NewGeminiGenerator(ctx context.Context, apiKey string, opts Options) (generator *GeminiGenerator, err error) {
	if apiKey == "" {
		err = errors.New("Gemini API key is required")
		return generator, err
	}

	model := opts.Model
	if model == "" {
		model = GeminiModel
	}

	var client *genai.Client
	client, err = genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		err = errors.Wrap(err, "failed to create GenAI client")
		return generator, err
	}

	generator = &GeminiGenerator{
		client:      client,
		model:       model,
		temperature: opts.Temperature,
		maxTokens:   maxTokensOrDefault(opts.MaxTokens),
	}
	return generator, err
}

// Generate sends prompt as a single user turn.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (text string, err error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(g.temperature)),
		MaxOutputTokens: int32(g.maxTokens),
	}

	var resp *genai.GenerateContentResponse
	resp, err = g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		err = errors.Wrap(err, "Gemini request failed")
		return text, err
	}

	text = resp.Text()
	if text == "" {
		err = errors.New("no text content in Gemini response")
		return text, err
	}

	return text, err
}
