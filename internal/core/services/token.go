package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
	"github.com/custodia-labs/arcana-cli/internal/core/ports/driven"
	"github.com/custodia-labs/arcana-cli/internal/logger"
)

// TokenService checks and silently renews the session's access token.
//
// The service never signs the user out. A failed silent renewal yields
// domain.TokenNeedsSignIn and a transport failure yields
// domain.TokenTransientFailure; the decision to prompt interactively
// belongs to the caller. Conflating "token stale" with "user logged out"
// produces spurious forced sign-outs, so the distinction is kept in the
// type system.
type TokenService struct {
	identity driven.IdentityProvider
	sessions driven.SessionStore

	// sessionMu guards the fields of the shared session, together with
	// every other service that mutates it.
	sessionMu *sync.Mutex
}

// NewTokenService creates a token lifecycle service. sessionMu may be
// nil when no other service shares the session.
func NewTokenService(identity driven.IdentityProvider, sessions driven.SessionStore, sessionMu *sync.Mutex) *TokenService {
	if sessionMu == nil {
		sessionMu = &sync.Mutex{}
	}
	return &TokenService{
		identity:  identity,
		sessions:  sessions,
		sessionMu: sessionMu,
	}
}

// EnsureFresh validates the session's access token, attempting a silent
// renewal if the provider rejected it. On successful renewal the session
// is mutated in place and persisted (write-through). No session field is
// ever cleared here, regardless of outcome.
func (s *TokenService) EnsureFresh(ctx context.Context, session *domain.Session) domain.TokenState {
	if session == nil {
		return domain.TokenNeedsSignIn
	}

	s.sessionMu.Lock()
	accessToken := session.AccessToken
	s.sessionMu.Unlock()

	if accessToken == "" {
		return domain.TokenNeedsSignIn
	}

	err := s.identity.ProbeToken(ctx, accessToken)
	if err == nil {
		return domain.TokenValid
	}
	if !errors.Is(err, domain.ErrAuthRequired) {
		logger.Warn("token probe failed: %v", err)
		return domain.TokenTransientFailure
	}

	return s.refresh(ctx, session)
}

// refresh attempts a silent renewal after an unauthorized probe.
func (s *TokenService) refresh(ctx context.Context, session *domain.Session) domain.TokenState {
	s.sessionMu.Lock()
	refreshToken := session.RefreshToken
	s.sessionMu.Unlock()

	if refreshToken == "" {
		return domain.TokenNeedsSignIn
	}

	token, err := s.identity.RefreshSilently(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrAuthRequired) || errors.Is(err, domain.ErrTokenRefreshFailed) {
			logger.Info("silent renewal unavailable, interactive sign-in required")
			return domain.TokenNeedsSignIn
		}
		logger.Warn("silent renewal failed: %v", err)
		return domain.TokenTransientFailure
	}

	s.sessionMu.Lock()
	session.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		session.RefreshToken = token.RefreshToken
	}
	session.UpdatedAt = time.Now()
	snapshot := *session
	s.sessionMu.Unlock()

	if err := s.sessions.Save(ctx, snapshot); err != nil {
		// A lost persistence write is recovered on the next operation.
		logger.Warn("persist refreshed session: %v", err)
	}

	return domain.TokenValid
}
