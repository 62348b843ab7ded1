package domain

import "context"

// Provider is the chat-completion boundary. Model output is treated as
// opaque text; the dispatcher decides what to do with it.
type Provider interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Name() string
	Models(ctx context.Context) ([]string, error)
	Healthy(ctx context.Context) error
}
