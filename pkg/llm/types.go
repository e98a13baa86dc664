package llm

import (
	"context"
	"strings"
)

// Message roles understood by chat-completion models.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged message in a prompt.
type Message struct {
	// Role identifies the message sender (system, user, assistant).
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`
}

// CompletionRequest is a provider-agnostic completion request.
type CompletionRequest struct {
	// Model is the model identifier (e.g. "gpt-3.5-turbo").
	Model string `json:"model"`

	// Messages is the role-tagged prompt, in order.
	Messages []Message `json:"messages"`

	// Temperature controls sampling randomness. Zero means provider default.
	Temperature float64 `json:"temperature,omitempty"`

	// MaxTokens caps the completion length. Zero means provider default.
	MaxTokens int `json:"max_tokens,omitempty"`
}

// Usage is the token consumption reported by the provider for one call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionResponse is the normalized result of one model call.
type CompletionResponse struct {
	// Content is the completion text of the first choice.
	Content string

	// Model is the model that produced the completion.
	Model string

	// Usage is the token consumption for the whole call.
	Usage Usage
}

// Completer is the remote model call consumed by the orchestrator.
// Implementations must respect context cancellation.
type Completer interface {
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)
}

// RenderMessages flattens a prompt into plain text. The orchestrator uses
// this to measure the token overhead of a prompt template.
func RenderMessages(msgs []Message) string {
	var sb strings.Builder
	for _, m := range msgs {
		sb.WriteString(m.Role)
		sb.WriteString(": ")
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
