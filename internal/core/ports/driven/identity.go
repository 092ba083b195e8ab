package driven

import (
	"context"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
)

// IdentityProvider abstracts the OAuth identity provider.
//
// Implementations must keep authorization failures distinguishable from
// transport failures: ProbeToken and RefreshSilently return
// domain.ErrAuthRequired (possibly wrapped) when the provider rejected the
// credential, and any other error means the outcome is unknown. Callers
// never sign the user out on an unknown outcome.
type IdentityProvider interface {
	// ProbeToken issues a cheap authenticated request to check whether the
	// token is still accepted. Returns nil if valid, domain.ErrAuthRequired
	// if the provider rejected it, any other error for transport failures.
	ProbeToken(ctx context.Context, accessToken string) error

	// RefreshSilently renews the access token without user interaction.
	// Returns domain.ErrAuthRequired when the provider requires an
	// interactive sign-in (revoked grant, expired refresh token).
	RefreshSilently(ctx context.Context, refreshToken string) (*domain.OAuthToken, error)

	// SignInInteractive runs the full interactive authorization flow.
	// Returns domain.ErrUserCancelled if the user aborted.
	SignInInteractive(ctx context.Context) (*domain.OAuthToken, error)

	// Profile fetches the signed-in user's identity.
	Profile(ctx context.Context, accessToken string) (*domain.Profile, error)

	// Revoke invalidates the token with the provider. Best effort.
	Revoke(ctx context.Context, accessToken string) error
}
