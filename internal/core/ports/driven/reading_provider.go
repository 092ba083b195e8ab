package driven

import (
	"context"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
)

// ReadingProvider generates tarot interpretations. Backends are
// interchangeable (Anthropic, OpenAI, Ollama) and selected via config.
type ReadingProvider interface {
	// Generate produces an interpretation for the drawn cards and
	// question in the given language. Returns domain.ErrAuthRequired
	// when the backend rejected its credential.
	Generate(ctx context.Context, cards []domain.Card, question, language string) (string, error)

	// Name identifies the backend, e.g. "anthropic".
	Name() string
}
