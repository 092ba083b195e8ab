package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
)

// stubReadingService returns a canned answer.
type stubReadingService struct {
	answer string
	err    error

	gotCards    []domain.Card
	gotQuestion string
	gotLanguage string
}

func (s *stubReadingService) Generate(_ context.Context, cards []domain.Card, question, language string) (string, error) {
	s.gotCards = cards
	s.gotQuestion = question
	s.gotLanguage = language
	return s.answer, s.err
}

// stubSessionService records saves and serves canned readings.
type stubSessionService struct {
	session  *domain.Session
	readings []domain.Reading
	saved    []domain.Reading
	deleted  []string
	err      error
}

func (s *stubSessionService) SignIn(context.Context) (*domain.Session, error) { return s.session, nil }
func (s *stubSessionService) SignOut(context.Context) error                   { return nil }
func (s *stubSessionService) Session() *domain.Session                        { return s.session }

func (s *stubSessionService) SaveReading(_ context.Context, reading domain.Reading) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, reading)
	return nil
}

func (s *stubSessionService) Readings(context.Context) ([]domain.Reading, error) {
	return s.readings, s.err
}

func (s *stubSessionService) DeleteReading(_ context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubSessionService) CleanupMalformedRows(context.Context) (int, error) { return 0, s.err }

func (s *stubSessionService) CheckAuthStatus(context.Context) domain.AuthStatus {
	return domain.AuthStatus{Valid: s.session != nil}
}

func newTestServer(t *testing.T, reading *stubReadingService, session *stubSessionService) *Server {
	t.Helper()

	ports := &Ports{Reading: reading}
	if session != nil {
		ports.Session = session
	}

	srv, err := NewServer(ports)
	require.NoError(t, err)
	return srv
}

func TestNewServer_RequiresReadingService(t *testing.T) {
	_, err := NewServer(&Ports{})
	assert.ErrorIs(t, err, ErrMissingReadingService)
}

func TestDrawReading_GeneratesWithoutSaving(t *testing.T) {
	reading := &stubReadingService{answer: "A fresh start."}
	srv := newTestServer(t, reading, nil)

	_, output, err := srv.handleDrawReading(context.Background(), nil, DrawReadingInput{
		Question: "What now?",
		Cards:    1,
	})
	require.NoError(t, err)

	assert.Len(t, output.Cards, 1)
	assert.Equal(t, "A fresh start.", output.Answer)
	assert.False(t, output.Saved)
	assert.Empty(t, output.ID)

	assert.Equal(t, "What now?", reading.gotQuestion)
	assert.Equal(t, "en", reading.gotLanguage)
	assert.Len(t, reading.gotCards, 1)
}

func TestDrawReading_SavesWhenSignedIn(t *testing.T) {
	reading := &stubReadingService{answer: "Patience."}
	session := &stubSessionService{session: &domain.Session{AccessToken: "tok", Authenticated: true}}
	srv := newTestServer(t, reading, session)

	_, output, err := srv.handleDrawReading(context.Background(), nil, DrawReadingInput{
		Question: "When?",
		Save:     true,
	})
	require.NoError(t, err)

	assert.True(t, output.Saved)
	assert.NotEmpty(t, output.ID)
	require.Len(t, session.saved, 1)
	assert.Equal(t, output.ID, session.saved[0].ID)
	assert.Equal(t, "When?", session.saved[0].Question)
	assert.Len(t, session.saved[0].Cards, domain.MaxCards)
}

func TestDrawReading_SaveSkippedWhenSignedOut(t *testing.T) {
	reading := &stubReadingService{answer: "Patience."}
	session := &stubSessionService{}
	srv := newTestServer(t, reading, session)

	_, output, err := srv.handleDrawReading(context.Background(), nil, DrawReadingInput{Save: true})
	require.NoError(t, err)

	assert.False(t, output.Saved)
	assert.Empty(t, session.saved)
}

func TestDrawReading_GenerateError(t *testing.T) {
	reading := &stubReadingService{err: errors.New("backend down")}
	srv := newTestServer(t, reading, nil)

	_, _, err := srv.handleDrawReading(context.Background(), nil, DrawReadingInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend down")
}

func TestListReadings_ReturnsSaved(t *testing.T) {
	session := &stubSessionService{readings: []domain.Reading{
		{ID: "r1", Date: "2024-01-15", Time: "14:30:00", Question: "first?", Answer: "yes"},
		{ID: "r2", Date: "2024-01-16", Time: "09:00:00", Answer: "no"},
	}}
	srv := newTestServer(t, &stubReadingService{}, session)

	_, output, err := srv.handleListReadings(context.Background(), nil, ListReadingsInput{})
	require.NoError(t, err)

	assert.Equal(t, 2, output.Count)
	assert.Equal(t, "r1", output.Readings[0].ID)
	assert.Equal(t, "first?", output.Readings[0].Question)
}

func TestListReadings_LimitKeepsNewest(t *testing.T) {
	session := &stubSessionService{readings: []domain.Reading{
		{ID: "r1"}, {ID: "r2"}, {ID: "r3"},
	}}
	srv := newTestServer(t, &stubReadingService{}, session)

	_, output, err := srv.handleListReadings(context.Background(), nil, ListReadingsInput{Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, output.Count)
	assert.Equal(t, "r2", output.Readings[0].ID)
	assert.Equal(t, "r3", output.Readings[1].ID)
}

func TestListReadings_WithoutSession(t *testing.T) {
	srv := newTestServer(t, &stubReadingService{}, nil)

	_, _, err := srv.handleListReadings(context.Background(), nil, ListReadingsInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not signed in")
}

func TestDeleteReading_Deletes(t *testing.T) {
	session := &stubSessionService{}
	srv := newTestServer(t, &stubReadingService{}, session)

	_, output, err := srv.handleDeleteReading(context.Background(), nil, DeleteReadingInput{ID: "r1"})
	require.NoError(t, err)

	assert.True(t, output.Deleted)
	assert.Equal(t, []string{"r1"}, session.deleted)
}

func TestDeleteReading_PropagatesNotFound(t *testing.T) {
	session := &stubSessionService{err: domain.ErrRecordNotFound}
	srv := newTestServer(t, &stubReadingService{}, session)

	_, _, err := srv.handleDeleteReading(context.Background(), nil, DeleteReadingInput{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}
