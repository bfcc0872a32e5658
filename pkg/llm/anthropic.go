package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
)

// AnthropicModel is the default Claude model.
const AnthropicModel = "claude-sonnet-4-20250514"

// AnthropicGenerator generates text with the Anthropic Messages API.
type AnthropicGenerator struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewAnthropicGenerator creates a Claude backed generator. Extra request
// options (base URL, retries) are passed through to the SDK.
func NewAnthropicGenerator(apiKey string, opts Options, requestOpts ...option.RequestOption) (generator *AnthropicGenerator) {
	model := opts.Model
	if model == "" {
		model = AnthropicModel
	}

	requestOpts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, requestOpts...)

	generator = &AnthropicGenerator{
		client:      anthropic.NewClient(requestOpts...),
		model:       model,
		temperature: opts.Temperature,
		maxTokens:   maxTokensOrDefault(opts.MaxTokens),
	}
	return generator
}

// Generate sends prompt as a single user turn and joins the returned text blocks.
func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string) (text string, err error) {
	var msg *anthropic.Message
	msg, err = g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(g.model),
		MaxTokens:   int64(g.maxTokens),
		Temperature: anthropic.Float(g.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		err = errors.Wrap(err, "Claude API request failed")
		return text, err
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	text = b.String()
	if text == "" {
		err = errors.New("no text content in Claude response")
		return text, err
	}

	return text, err
}
