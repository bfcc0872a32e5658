package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const (
	// GroqAPIEndpoint is the Groq OpenAI-compatible chat completions endpoint.
	GroqAPIEndpoint = "https://api.groq.com/openai/v1/chat/completions"
	// GroqModel is the default model, a reasoning model that emits <think> blocks.
	GroqModel = "qwen/qwen3-32b"
)

// Client represents an OpenAI-compatible chat completions client, Groq by default.
type Client struct {
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	endpoint    string
}

// NewClient creates a new chat completions client.
func NewClient(apiKey string, opts Options) (client *Client) {
	model := opts.Model
	if model == "" {
		model = GroqModel
	}
	client = &Client{
		apiKey:      apiKey,
		model:       model,
		temperature: opts.Temperature,
		maxTokens:   maxTokensOrDefault(opts.MaxTokens),
		endpoint:    GroqAPIEndpoint,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	return client
}

// Generate sends prompt as a single user message and returns the completion text.
func (c *Client) Generate(ctx context.Context, prompt string) (responseText string, err error) {
	// Build request
	chatReq := ChatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []Message{
			{
				Role:    "user",
				Content: prompt,
			},
		},
	}

	var reqBody []byte
	reqBody, err = json.Marshal(chatReq)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal request")
		return responseText, err
	}

	// Create HTTP request
	var httpReq *http.Request
	httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return responseText, err
	}

	// Set headers
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	// Send request
	var resp *http.Response
	resp, err = c.httpClient.Do(httpReq)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return responseText, err
	}
	defer resp.Body.Close()

	// Read response body
	var respBody []byte
	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return responseText, err
	}

	// Check status code
	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
		return responseText, err
	}

	// Parse chat response
	var chatResp ChatResponse
	err = json.Unmarshal(respBody, &chatResp)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse chat response: %s", string(respBody))
		return responseText, err
	}

	if chatResp.Error != nil {
		err = errors.Errorf("API error (%s): %s", chatResp.Error.Type, chatResp.Error.Message)
		return responseText, err
	}

	// Extract text content
	if len(chatResp.Choices) == 0 {
		err = errors.New("no choices in chat response")
		return responseText, err
	}

	responseText = chatResp.Choices[0].Message.Content

	return responseText, err
}
