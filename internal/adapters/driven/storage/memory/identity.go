package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
	"github.com/custodia-labs/arcana-cli/internal/core/ports/driven"
)

// Ensure IdentityProvider implements the interface.
var _ driven.IdentityProvider = (*IdentityProvider)(nil)

// IdentityProvider is a configurable in-memory identity provider.
// The zero-value-plus-NewIdentityProvider setup accepts every token; set
// the error fields to script probe, refresh and sign-in outcomes.
type IdentityProvider struct {
	mu sync.Mutex

	// ProbeErr is returned by ProbeToken when set.
	ProbeErr error
	// RefreshErr is returned by RefreshSilently when set.
	RefreshErr error
	// SignInErr is returned by SignInInteractive when set.
	SignInErr error

	// RefreshedToken is handed out by a successful RefreshSilently.
	RefreshedToken domain.OAuthToken
	// InteractiveToken is handed out by a successful SignInInteractive.
	InteractiveToken domain.OAuthToken
	// UserProfile is returned by Profile.
	UserProfile domain.Profile

	ProbeCalls   int
	RefreshCalls int
	RevokeCalls  int
}

// NewIdentityProvider creates a provider that accepts every token and
// answers with the given profile.
func NewIdentityProvider(profile domain.Profile) *IdentityProvider {
	return &IdentityProvider{
		UserProfile:      profile,
		RefreshedToken:   domain.OAuthToken{AccessToken: "refreshed-token", TokenType: "Bearer"},
		InteractiveToken: domain.OAuthToken{AccessToken: "interactive-token", RefreshToken: "refresh-token", TokenType: "Bearer"},
	}
}

// ProbeToken reports the scripted probe outcome.
func (p *IdentityProvider) ProbeToken(_ context.Context, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ProbeCalls++
	return p.ProbeErr
}

// RefreshSilently reports the scripted refresh outcome.
func (p *IdentityProvider) RefreshSilently(_ context.Context, _ string) (*domain.OAuthToken, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.RefreshCalls++
	if p.RefreshErr != nil {
		return nil, p.RefreshErr
	}
	token := p.RefreshedToken
	return &token, nil
}

// SignInInteractive reports the scripted sign-in outcome.
func (p *IdentityProvider) SignInInteractive(_ context.Context) (*domain.OAuthToken, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.SignInErr != nil {
		return nil, p.SignInErr
	}
	token := p.InteractiveToken
	return &token, nil
}

// Profile returns the configured profile.
func (p *IdentityProvider) Profile(_ context.Context, _ string) (*domain.Profile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	profile := p.UserProfile
	return &profile, nil
}

// Revoke counts revocations and always succeeds.
func (p *IdentityProvider) Revoke(_ context.Context, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.RevokeCalls++
	return nil
}
