package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
)

func TestReadingCmd_Use(t *testing.T) {
	assert.Equal(t, "reading", readingCmd.Use)
	assert.Equal(t, "list", readingListCmd.Use)
	assert.Equal(t, "show [reading-id]", readingShowCmd.Use)
	assert.Equal(t, "delete [reading-id]", readingDeleteCmd.Use)
	assert.Equal(t, "cleanup", readingCleanupCmd.Use)
}

func TestReadingList_Empty(t *testing.T) {
	cleanup := setupCLITest(&mockSessionService{}, nil)
	defer cleanup()

	out, err := executeCommand("reading", "list")

	assert.NoError(t, err)
	assert.Contains(t, out, "No saved readings.")
}

func TestReadingList_PrintsRows(t *testing.T) {
	cleanup := setupCLITest(&mockSessionService{readings: []domain.Reading{
		{ID: "20240115-143000-9f8a3c21", Date: "2024-01-15", Time: "14:30:00", Question: "New job?"},
		{ID: "20240116-090000-11bb22cc", Date: "2024-01-16", Time: "09:00:00"},
	}}, nil)
	defer cleanup()

	out, err := executeCommand("reading", "list")

	assert.NoError(t, err)
	assert.Contains(t, out, "20240115-143000-9f8a3c21")
	assert.Contains(t, out, "New job?")
	assert.Contains(t, out, "2 reading(s)")
}

func TestReadingList_TruncatesLongQuestions(t *testing.T) {
	long := "Will the long and winding question about everything be truncated for display?"
	cleanup := setupCLITest(&mockSessionService{readings: []domain.Reading{
		{ID: "r1", Question: long},
	}}, nil)
	defer cleanup()

	out, err := executeCommand("reading", "list")

	assert.NoError(t, err)
	assert.NotContains(t, out, long)
	assert.Contains(t, out, "...")
}

func TestReadingList_SessionExpired(t *testing.T) {
	cleanup := setupCLITest(&mockSessionService{readErr: domain.ErrAuthRequired}, nil)
	defer cleanup()

	_, err := executeCommand("reading", "list")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "session expired; run: arcana auth sign-in")
}

func TestReadingShow_PrintsReading(t *testing.T) {
	cleanup := setupCLITest(&mockSessionService{readings: []domain.Reading{
		{
			ID:       "20240115-143000-9f8a3c21",
			Date:     "2024-01-15",
			Time:     "14:30:00",
			Question: "New job?",
			Cards: []domain.Card{
				{Number: 0, Name: "The Fool"},
				{Number: 16, Name: "The Tower", Reversed: true},
			},
			Answer: "A leap worth taking.",
		},
	}}, nil)
	defer cleanup()

	out, err := executeCommand("reading", "show", "20240115-143000-9f8a3c21")

	assert.NoError(t, err)
	assert.Contains(t, out, "Question: New job?")
	assert.Contains(t, out, "The Fool, The Tower (reversed)")
	assert.Contains(t, out, "A leap worth taking.")
}

func TestReadingShow_NotFound(t *testing.T) {
	cleanup := setupCLITest(&mockSessionService{}, nil)
	defer cleanup()

	_, err := executeCommand("reading", "show", "missing-id")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reading not found: missing-id")
}

func TestReadingDelete_Deletes(t *testing.T) {
	mock := &mockSessionService{}
	cleanup := setupCLITest(mock, nil)
	defer cleanup()

	out, err := executeCommand("reading", "delete", "r1")

	assert.NoError(t, err)
	assert.Contains(t, out, "Deleted reading r1")
	assert.Equal(t, []string{"r1"}, mock.deleted)
}

func TestReadingDelete_NotFound(t *testing.T) {
	cleanup := setupCLITest(&mockSessionService{deleteErr: domain.ErrRecordNotFound}, nil)
	defer cleanup()

	_, err := executeCommand("reading", "delete", "ghost")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reading not found: ghost")
}

func TestReadingCleanup_ReportsCount(t *testing.T) {
	cleanup := setupCLITest(&mockSessionService{cleanedUp: 2}, nil)
	defer cleanup()

	out, err := executeCommand("reading", "cleanup")

	assert.NoError(t, err)
	assert.Contains(t, out, "Removed 2 malformed row(s).")
}

func TestReadingCleanup_NothingToRemove(t *testing.T) {
	cleanup := setupCLITest(&mockSessionService{}, nil)
	defer cleanup()

	out, err := executeCommand("reading", "cleanup")

	assert.NoError(t, err)
	assert.Contains(t, out, "No malformed rows found.")
}
