package google

import (
	"golang.org/x/oauth2"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
)

// TokenFunc returns the current session's access token, or "" when no
// session is signed in. It is called on every API request so the client
// always sees the token the lifecycle manager last persisted.
type TokenFunc func() string

// funcTokenSource adapts a TokenFunc to oauth2.TokenSource so Google API
// clients can be constructed once and still pick up refreshed tokens.
type funcTokenSource struct {
	fn TokenFunc
}

// NewTokenSource creates an oauth2.TokenSource from a TokenFunc.
// The returned TokenSource can be used with option.WithTokenSource() when
// creating Google API services.
func NewTokenSource(fn TokenFunc) oauth2.TokenSource {
	return &funcTokenSource{fn: fn}
}

// Token implements oauth2.TokenSource.
// Called by Google API clients when they need an access token.
func (s *funcTokenSource) Token() (*oauth2.Token, error) {
	accessToken := s.fn()
	if accessToken == "" {
		return nil, domain.ErrAuthRequired
	}

	return &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}, nil
}
