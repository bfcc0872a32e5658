package llm

// Sender is the person signing generated emails.
type Sender struct {
	Name    string `json:"name" yaml:"name"`
	Title   string `json:"title" yaml:"title"`
	Company string `json:"company" yaml:"company"`
}

// DefaultSender returns the signature used when none is configured.
func DefaultSender() (sender Sender) {
	sender = Sender{
		Name:    "Taniya",
		Title:   "Business Development Executive",
		Company: "XYZ Solutions",
	}
	return sender
}

// ChatRequest represents the OpenAI-compatible chat completions request format.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// ChatResponse represents the OpenAI-compatible chat completions response format.
type ChatResponse struct {
	ID      string     `json:"id"`
	Object  string     `json:"object"`
	Model   string     `json:"model"`
	Choices []Choice   `json:"choices"`
	Usage   Usage      `json:"usage"`
	Error   *ChatError `json:"error,omitempty"`
}

// Message represents a message in the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Choice represents one completion candidate.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage represents token usage information.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatError is the error envelope returned by OpenAI-compatible APIs.
type ChatError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}
