package driving

import (
	"context"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
)

// SessionService is the public entry point for sign-in, sign-out and
// reading persistence. Every read/write operation first ensures the
// token is fresh; on failure the typed condition is propagated to the
// caller rather than forcing a logout.
type SessionService interface {
	// SignIn runs the interactive authorization flow, fetches the
	// profile, and persists the new session.
	SignIn(ctx context.Context) (*domain.Session, error)

	// SignOut revokes the token (best effort) and clears the persisted
	// session. The only code path that destroys credentials.
	SignOut(ctx context.Context) error

	// Session returns the current in-memory session, or nil.
	Session() *domain.Session

	// SaveReading appends a reading to the user's spreadsheet,
	// provisioning the folder and spreadsheet on first use.
	SaveReading(ctx context.Context, reading domain.Reading) error

	// Readings lists all well-formed readings, degrading malformed rows
	// to defaults instead of failing the whole read.
	Readings(ctx context.Context) ([]domain.Reading, error)

	// DeleteReading removes the reading with the given id.
	// Returns domain.ErrRecordNotFound if absent.
	DeleteReading(ctx context.Context, id string) error

	// CleanupMalformedRows removes all malformed rows in one pass and
	// returns how many were removed.
	CleanupMalformedRows(ctx context.Context) (int, error)

	// CheckAuthStatus verifies both the token and the remote existence
	// of the provisioned spreadsheet, returning a structured reason.
	CheckAuthStatus(ctx context.Context) domain.AuthStatus
}

// ReadingService generates interpretations for drawn cards.
type ReadingService interface {
	// Generate produces a reading for the cards and question.
	Generate(ctx context.Context, cards []domain.Card, question, language string) (string, error)
}
