// Package provider implements the candidate translation backends: OpenAI,
// DeepSeek and Anthropic. All three receive the source text with bracket
// placeholders swapped for numbered markers, are instructed to keep the
// markers, and have their output cleaned of LLM artifacts before the
// placeholders are restored.
package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/valpere/lingoval/internal/lang"
)

// Config carries the per-backend settings. Zero values fall back to the
// backend's defaults.
type Config struct {
	APIKey  string        `mapstructure:"api_key" json:"api_key"`
	Model   string        `mapstructure:"model" json:"model"`
	BaseURL string        `mapstructure:"base_url" json:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
}

// Request is one translation task for a provider.
type Request struct {
	Text   string
	Target lang.Language
}

// Result is a successful provider response.
type Result struct {
	Provider       string
	ModelID        string
	TranslatedText string
	// PlaceholdersPreserved reports whether the placeholder multiset of the
	// source survived translation (presence and multiplicity; position is
	// free).
	PlaceholdersPreserved bool
	Latency               time.Duration
	Metadata              map[string]string
}

// Error is the failure type for any provider call: API errors, timeouts,
// and malformed or empty responses. Callers mark the affected row failed
// and keep processing the batch.
type Error struct {
	ModelID string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider error [%s]: %v", e.ModelID, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Provider is one candidate translation backend bound to a model.
type Provider interface {
	Name() string
	ModelID() string
	Translate(ctx context.Context, req Request) (*Result, error)
	IsAvailable(ctx context.Context) error
}
