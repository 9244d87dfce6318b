// Package llm wraps chat completion providers behind one small interface.
package llm

import (
	"context"
	"fmt"
	"net/http"
)

// Role defines the role of the message sender (system, user, assistant).
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a chat conversation.
type Message struct {
	Role    Role
	Content string
}

// Usage reports token consumption of one completion.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Completion is the text returned by a provider.
type Completion struct {
	Text  string
	Usage Usage
}

// Completer generates a chat completion.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (Completion, error)
	Name() string      // Provider name (e.g., "openai", "gemini")
	ModelName() string // Specific model used
}

// APIError is a provider failure carrying the upstream HTTP status.
type APIError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %v", e.Provider, e.StatusCode, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// Unauthorized reports an authentication failure.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// RateLimited reports a 429 response.
func (e *APIError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// Overloaded reports a temporarily unavailable service (503, or 529 as
// some providers use).
func (e *APIError) Overloaded() bool {
	return e.StatusCode == http.StatusServiceUnavailable || e.StatusCode == 529
}
