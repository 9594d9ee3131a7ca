// Package llm abstracts the text-generation collaborator. The core never
// inspects model internals; it hands over an assembled prompt and receives
// plain text or an error.
package llm

import "context"

// GenerateRequest encapsulates the input for a single model call.
type GenerateRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Options Options `json:"options"`
}

// Options are the sampling knobs the core recognizes. Temperature controls
// sampling variance; MaxOutputTokens truncates the output length.
type Options struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"max_output_tokens,omitempty"`
}

// GenerateResponse is the model output.
type GenerateResponse struct {
	Text  string `json:"text"`
	Usage Usage  `json:"usage"`
}

// Usage tracks token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Provider defines the interface for interacting with LLM backends.
type Provider interface {
	// Generate sends a prompt to the model and returns the generated text.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}
