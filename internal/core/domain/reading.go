package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxCards is the spread size: past, present, future.
const MaxCards = 3

// Row timestamp layouts. Date and time are captured locally at save time
// and stored as two separate, zero-padded, 24-hour columns.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Reading is one persisted tarot reading: a row in the user's spreadsheet.
type Reading struct {
	// ID is a client-generated unique token combining date, time and a
	// random suffix. Row position is mutable, so ID is the stable key.
	ID string `json:"id"`
	// Date is the local save date, formatted with DateLayout.
	Date string `json:"date"`
	// Time is the local save time, formatted with TimeLayout.
	Time string `json:"time"`
	// Question is the user's question. May be empty.
	Question string `json:"question"`
	// Cards holds up to MaxCards drawn card snapshots.
	Cards []Card `json:"cards"`
	// Answer is the generated interpretation text.
	Answer string `json:"answer"`
	// Language is the locale tag the reading was generated in.
	Language string `json:"language"`
}

// NewReadingID builds a record id from the given timestamp plus a random
// suffix, e.g. "20240115-143000-9f8a3c21".
func NewReadingID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return now.Format("20060102-150405") + "-" + suffix
}

// NewReading assembles a Reading stamped with the given local time.
func NewReading(question string, cards []Card, answer, language string, now time.Time) Reading {
	if len(cards) > MaxCards {
		cards = cards[:MaxCards]
	}
	return Reading{
		ID:       NewReadingID(now),
		Date:     now.Format(DateLayout),
		Time:     now.Format(TimeLayout),
		Question: question,
		Cards:    cards,
		Answer:   answer,
		Language: language,
	}
}
