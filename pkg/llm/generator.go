package llm

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Provider names accepted by NewGenerator.
const (
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// DefaultMaxTokens caps the length of a single completion.
const DefaultMaxTokens = 4096

// Generator is a single text generation request/response exchange.
type Generator interface {
	Generate(ctx context.Context, prompt string) (text string, err error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (text string, err error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (text string, err error) {
	text, err = f(ctx, prompt)
	return text, err
}

// Options tunes a generator backend. Zero values select backend defaults.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// NewGenerator creates the backend for provider.
func NewGenerator(ctx context.Context, provider, apiKey string, opts Options) (generator Generator, err error) {
	if apiKey == "" {
		err = errors.Errorf("API key is required for provider %q", provider)
		return generator, err
	}

	switch strings.ToLower(provider) {
	case ProviderGroq, "":
		generator = NewClient(apiKey, opts)
	case ProviderAnthropic:
		generator = NewAnthropicGenerator(apiKey, opts)
	case ProviderGemini:
		generator, err = NewGeminiGenerator(ctx, apiKey, opts)
		if err != nil {
			err = errors.Wrap(err, "failed to create Gemini generator")
			return generator, err
		}
	default:
		err = errors.Errorf("unknown provider %q (expected groq, anthropic or gemini)", provider)
	}

	return generator, err
}

func maxTokensOrDefault(n int) (maxTokens int) {
	maxTokens = n
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return maxTokens
}
