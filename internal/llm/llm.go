package llm

import "context"

type MessageRole string

const (
	RoleSystem MessageRole = "system"
	RoleUser   MessageRole = "user"
)

type Message struct {
	Role    MessageRole
	Content string
}

// ChatRequest mirrors the wire contract of OpenAI-compatible chat endpoints,
// including the ark endpoint the news search and rewrite features talk to:
// {model, messages, max_tokens, temperature} in, choices[0].message.content out.
type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

type ChatResponse struct {
	Content string
}

type Client interface {
	ChatCompletion(ctx context.Context, request ChatRequest) (ChatResponse, error)
}
