package chat

import "context"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one message in a model conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TokenUsage reports model token consumption for one completion.
type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// LLMRequest is a provider-neutral completion request.
type LLMRequest struct {
	System      string
	Messages    []Message
	MaxTokens   int32
	Temperature float32
}

// LLMResponse is a provider-neutral completion result.
type LLMResponse struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// LLMClient is the external generative-model boundary. Implementations make
// a single fallible call with no retry; resilience policy belongs to callers.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}
