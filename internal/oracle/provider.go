// Package oracle abstracts the external reasoning service the agent loop
// consults for decisions and free-text answers.
package oracle

import "context"

// Provider defines the reasoning oracle contract: synchronous text in,
// text out, no streaming.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete returns a text completion for the given prompt
	Complete(ctx context.Context, prompt string) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}
