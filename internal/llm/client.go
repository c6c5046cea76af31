package llm

import (
	"context"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is one completion call. ImageURL, when set, is attached to the
// last user message; it may be an http(s) URL or a data: URL.
type Request struct {
	System      string
	Messages    []Message
	ImageURL    string
	Temperature float32
	MaxTokens   int
}

// Client returns the model's text reply for a request.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}
