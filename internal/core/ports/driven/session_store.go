package driven

import (
	"context"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
)

// SessionStore durably persists the session bundle (token, profile,
// resource handles) locally. No network calls.
//
// Reads fail safe: corrupt or unreadable storage is discarded and
// reported as "no session". Writes fail silent at call sites because a
// lost persistence write is recovered on the next state-changing
// operation.
type SessionStore interface {
	// Load returns the previously saved session, or nil if none exists
	// or the stored data could not be parsed.
	Load(ctx context.Context) (*domain.Session, error)

	// Save persists the full session bundle.
	Save(ctx context.Context, session domain.Session) error

	// Clear removes the persisted session.
	Clear(ctx context.Context) error
}
