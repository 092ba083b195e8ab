package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReadingID_Format(t *testing.T) {
	now := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)

	id := NewReadingID(now)

	parts := strings.Split(id, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "20240115", parts[0])
	assert.Equal(t, "143000", parts[1])
	assert.Len(t, parts[2], 8)
}

func TestNewReadingID_Unique(t *testing.T) {
	now := time.Now()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewReadingID(now)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestNewReading(t *testing.T) {
	now := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)
	cards := []Card{
		{Name: "The Fool", Arcana: ArcanaMajor, Number: 0},
		{Name: "The Tower", Arcana: ArcanaMajor, Number: 16, Reversed: true},
		{Name: "The Star", Arcana: ArcanaMajor, Number: 17},
	}

	reading := NewReading("Will I find clarity?", cards, "You will.", "en", now)

	assert.NotEmpty(t, reading.ID)
	assert.Equal(t, "2024-01-15", reading.Date)
	assert.Equal(t, "14:30:00", reading.Time)
	assert.Equal(t, "Will I find clarity?", reading.Question)
	assert.Len(t, reading.Cards, 3)
	assert.Equal(t, "You will.", reading.Answer)
	assert.Equal(t, "en", reading.Language)
}

func TestNewReading_ZeroPaddedTime(t *testing.T) {
	now := time.Date(2024, 3, 5, 9, 4, 7, 0, time.UTC)

	reading := NewReading("", nil, "", "en", now)

	assert.Equal(t, "2024-03-05", reading.Date)
	assert.Equal(t, "09:04:07", reading.Time)
}

func TestNewReading_TruncatesExtraCards(t *testing.T) {
	cards := []Card{
		{Name: "The Fool"},
		{Name: "The Magician"},
		{Name: "The Empress"},
		{Name: "The Emperor"},
	}

	reading := NewReading("q", cards, "a", "en", time.Now())

	assert.Len(t, reading.Cards, MaxCards)
}

func TestNewReading_EmptyQuestionAllowed(t *testing.T) {
	reading := NewReading("", []Card{{Name: "Death"}}, "change comes", "es", time.Now())

	assert.Empty(t, reading.Question)
	assert.NotEmpty(t, reading.ID)
}
