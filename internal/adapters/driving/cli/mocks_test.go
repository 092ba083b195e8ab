package cli

import (
	"context"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
)

// mockSessionService implements driving.SessionService for testing.
type mockSessionService struct {
	session    *domain.Session
	readings   []domain.Reading
	authStatus domain.AuthStatus
	cleanedUp  int

	signInErr  error
	signOutErr error
	saveErr    error
	readErr    error
	deleteErr  error

	saved   []domain.Reading
	deleted []string
}

func (m *mockSessionService) SignIn(_ context.Context) (*domain.Session, error) {
	if m.signInErr != nil {
		return nil, m.signInErr
	}
	return m.session, nil
}

func (m *mockSessionService) SignOut(_ context.Context) error {
	if m.signOutErr != nil {
		return m.signOutErr
	}
	m.session = nil
	return nil
}

func (m *mockSessionService) Session() *domain.Session {
	return m.session
}

func (m *mockSessionService) SaveReading(_ context.Context, reading domain.Reading) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, reading)
	return nil
}

func (m *mockSessionService) Readings(_ context.Context) ([]domain.Reading, error) {
	return m.readings, m.readErr
}

func (m *mockSessionService) DeleteReading(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockSessionService) CleanupMalformedRows(_ context.Context) (int, error) {
	return m.cleanedUp, m.readErr
}

func (m *mockSessionService) CheckAuthStatus(_ context.Context) domain.AuthStatus {
	return m.authStatus
}

// mockReadingService implements driving.ReadingService for testing.
type mockReadingService struct {
	answer string
	err    error
}

func (m *mockReadingService) Generate(_ context.Context, _ []domain.Card, _, _ string) (string, error) {
	return m.answer, m.err
}

// setupCLITest swaps in mock services and returns a restore func.
func setupCLITest(session *mockSessionService, reading *mockReadingService) func() {
	oldSession := sessionService
	oldReading := readingService
	if session != nil {
		sessionService = session
	} else {
		sessionService = nil
	}
	if reading != nil {
		readingService = reading
	} else {
		readingService = nil
	}
	return func() {
		sessionService = oldSession
		readingService = oldReading
	}
}
