package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
	"github.com/custodia-labs/arcana-cli/internal/core/ports/driven"
	"github.com/custodia-labs/arcana-cli/internal/core/ports/driving"
	"github.com/custodia-labs/arcana-cli/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService composes the token lifecycle, resource provisioner and
// record repository behind the public session operations.
//
// Failure handling is deliberately non-destructive: AuthRequired and
// TransientNetwork conditions are propagated to the caller unchanged,
// and sign-out happens only on explicit user request. No failure branch
// in this service reaches sign-out code.
type SessionService struct {
	identity    driven.IdentityProvider
	sessions    driven.SessionStore
	store       driven.TabularStore
	tokens      *TokenService
	provisioner *Provisioner
	repo        *Repository

	mu      sync.RWMutex
	session *domain.Session

	// sessionMu guards the fields of the shared session. The token
	// service and provisioner mutate the session in place, so all three
	// hold the same mutex.
	sessionMu *sync.Mutex
}

// NewSessionService wires the session facade from its collaborators.
// All provisioning and save operations share one keyed lock, and all
// in-place session mutation shares one mutex.
func NewSessionService(
	identity driven.IdentityProvider,
	store driven.TabularStore,
	sessions driven.SessionStore,
) *SessionService {
	locks := NewKeyedLock()
	sessionMu := &sync.Mutex{}
	return &SessionService{
		identity:    identity,
		sessions:    sessions,
		store:       store,
		tokens:      NewTokenService(identity, sessions, sessionMu),
		provisioner: NewProvisioner(store, sessions, locks, sessionMu),
		repo:        NewRepository(store, locks),
		sessionMu:   sessionMu,
	}
}

// Restore loads the persisted session at startup. A missing or corrupt
// session file leaves the service signed out.
func (s *SessionService) Restore(ctx context.Context) {
	session, err := s.sessions.Load(ctx)
	if err != nil {
		logger.Warn("restore session: %v", err)
		return
	}
	if session == nil {
		return
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	logger.Debug("restored session for %s", session.Profile.Email)
}

// Session returns the current in-memory session, or nil.
func (s *SessionService) Session() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// SignIn runs the interactive authorization flow, fetches the profile,
// and persists the new session. Resource handles from a previous session
// of the same account carry over.
func (s *SessionService) SignIn(ctx context.Context) (*domain.Session, error) {
	token, err := s.identity.SignInInteractive(ctx)
	if err != nil {
		return nil, fmt.Errorf("interactive sign-in: %w", err)
	}

	profile, err := s.identity.Profile(ctx, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	session := &domain.Session{
		AccessToken:   token.AccessToken,
		RefreshToken:  token.RefreshToken,
		Profile:       *profile,
		Authenticated: true,
		UpdatedAt:     time.Now(),
	}

	s.mu.Lock()
	if prev := s.session; prev != nil && prev.Profile.Email == profile.Email {
		s.sessionMu.Lock()
		session.Handles = prev.Handles
		s.sessionMu.Unlock()
	}
	s.session = session
	s.mu.Unlock()

	if err := s.sessions.Save(ctx, *session); err != nil {
		logger.Warn("persist session after sign-in: %v", err)
	}
	logger.Info("signed in as %s", profile.Email)
	return session, nil
}

// SignOut revokes the token (best effort), clears the persisted session,
// and drops the in-memory state. This is the only code path that
// destroys credentials, and it runs only on explicit user request.
func (s *SessionService) SignOut(ctx context.Context) error {
	s.mu.Lock()
	session := s.session
	s.session = nil
	s.mu.Unlock()

	if session != nil && session.AccessToken != "" {
		if err := s.identity.Revoke(ctx, session.AccessToken); err != nil {
			logger.Warn("revoke token: %v", err)
		}
	}

	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	logger.Info("signed out")
	return nil
}

// SaveReading appends a reading to the spreadsheet, provisioning the
// folder and spreadsheet on first use.
func (s *SessionService) SaveReading(ctx context.Context, reading domain.Reading) error {
	session, err := s.freshSession(ctx)
	if err != nil {
		return err
	}

	spreadsheetID, err := s.provisioner.EnsureSpreadsheet(ctx, session)
	if err != nil {
		return err
	}

	return s.repo.Append(ctx, spreadsheetID, reading)
}

// Readings lists all readings, degrading malformed rows to defaults.
func (s *SessionService) Readings(ctx context.Context) ([]domain.Reading, error) {
	session, err := s.freshSession(ctx)
	if err != nil {
		return nil, err
	}

	spreadsheetID, err := s.provisioner.EnsureSpreadsheet(ctx, session)
	if err != nil {
		return nil, err
	}

	return s.repo.ListAll(ctx, spreadsheetID)
}

// DeleteReading removes the reading with the given id.
func (s *SessionService) DeleteReading(ctx context.Context, id string) error {
	session, err := s.freshSession(ctx)
	if err != nil {
		return err
	}

	spreadsheetID := s.provisioner.cachedSpreadsheet(session)
	if spreadsheetID == "" {
		// Nothing was ever provisioned, so nothing was ever saved.
		return domain.ErrRecordNotFound
	}

	return s.repo.Delete(ctx, spreadsheetID, id)
}

// CleanupMalformedRows removes all malformed rows in one pass.
func (s *SessionService) CleanupMalformedRows(ctx context.Context) (int, error) {
	session, err := s.freshSession(ctx)
	if err != nil {
		return 0, err
	}

	spreadsheetID := s.provisioner.cachedSpreadsheet(session)
	if spreadsheetID == "" {
		return 0, nil
	}

	return s.repo.CleanupMalformed(ctx, spreadsheetID)
}

// CheckAuthStatus verifies the token and the remote existence of the
// provisioned spreadsheet. Transport failures count as valid: with no
// evidence of invalidity, reporting invalid would push the caller toward
// destructive recovery.
func (s *SessionService) CheckAuthStatus(ctx context.Context) domain.AuthStatus {
	session := s.Session()
	if session == nil || !session.Authenticated {
		return domain.AuthStatus{Reason: domain.AuthStatusNotAuthenticated}
	}

	switch s.tokens.EnsureFresh(ctx, session) {
	case domain.TokenNeedsSignIn:
		return domain.AuthStatus{Reason: domain.AuthStatusTokenInvalid}
	case domain.TokenTransientFailure:
		return domain.AuthStatus{Valid: true, Reason: domain.AuthStatusOK}
	}

	spreadsheetID := s.provisioner.cachedSpreadsheet(session)
	if spreadsheetID != "" {
		exists, err := s.store.Exists(ctx, spreadsheetID)
		if err != nil {
			logger.Warn("check spreadsheet existence: %v", err)
		} else if !exists {
			return domain.AuthStatus{Reason: domain.AuthStatusSpreadsheetNotFound}
		}
	}

	return domain.AuthStatus{Valid: true, Reason: domain.AuthStatusOK}
}

// freshSession returns the current session after ensuring its token is
// usable, mapping the token states onto the error taxonomy. The session
// itself is never altered on failure.
func (s *SessionService) freshSession(ctx context.Context) (*domain.Session, error) {
	session := s.Session()
	if session == nil {
		return nil, domain.ErrAuthRequired
	}

	switch s.tokens.EnsureFresh(ctx, session) {
	case domain.TokenValid:
		return session, nil
	case domain.TokenNeedsSignIn:
		return nil, domain.ErrAuthRequired
	default:
		return nil, domain.ErrTransientNetwork
	}
}

// IsAuthError reports whether err calls for an interactive sign-in.
func IsAuthError(err error) bool {
	return errors.Is(err, domain.ErrAuthRequired)
}
