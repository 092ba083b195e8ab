package services

import (
	"encoding/json"
	"strings"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
)

// ReadingHeader is the spreadsheet header row. Column order is the wire
// format for reading records and must not change.
var ReadingHeader = []string{
	"ID", "Date", "Time", "Question", "Card 1", "Card 2", "Card 3", "Answer", "Language",
}

// Column indices within a reading row.
const (
	colID       = 0
	colDate     = 1
	colTime     = 2
	colQuestion = 3
	colCard1    = 4
	colAnswer   = colCard1 + domain.MaxCards
	colLanguage = colAnswer + 1
	columnCount = colLanguage + 1
)

// EncodeRow serializes a reading into one spreadsheet row. Card cells are
// independent JSON snapshots; missing cards leave their cells empty.
func EncodeRow(reading domain.Reading) []string {
	row := make([]string, columnCount)
	row[colID] = reading.ID
	row[colDate] = reading.Date
	row[colTime] = reading.Time
	row[colQuestion] = reading.Question
	for i := 0; i < domain.MaxCards && i < len(reading.Cards); i++ {
		row[colCard1+i] = encodeCard(reading.Cards[i])
	}
	row[colAnswer] = reading.Answer
	row[colLanguage] = reading.Language
	return row
}

// ParseRow deserializes one spreadsheet row into a Reading. It never
// fails: missing cells degrade to zero values and unparseable card cells
// fall back to treating the raw text as a bare card name. Cards without
// a name are dropped.
func ParseRow(row []string) domain.Reading {
	reading := domain.Reading{
		ID:       cell(row, colID),
		Date:     cell(row, colDate),
		Time:     cell(row, colTime),
		Question: cell(row, colQuestion),
		Answer:   cell(row, colAnswer),
		Language: cell(row, colLanguage),
	}

	for i := 0; i < domain.MaxCards; i++ {
		card := parseCard(cell(row, colCard1+i))
		if card.IsValid() {
			reading.Cards = append(reading.Cards, card)
		}
	}

	return reading
}

// IsMalformedRow classifies a row per the well-formedness invariant: a
// row is well-formed iff it has a non-empty id and at least two populated
// cells. Malformed rows can exist after partial-write failures and are
// removed by cleanup.
func IsMalformedRow(row []string) bool {
	if strings.TrimSpace(cell(row, colID)) == "" {
		return true
	}
	return populatedCells(row) < 2
}

func encodeCard(card domain.Card) string {
	data, err := json.Marshal(card)
	if err != nil {
		return card.Name
	}
	return string(data)
}

// parseCard decodes a card cell. A cell that does not parse as JSON is
// treated as a bare card name.
func parseCard(raw string) domain.Card {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Card{}
	}

	var card domain.Card
	if err := json.Unmarshal([]byte(raw), &card); err == nil {
		return card
	}
	return domain.Card{Name: raw}
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func populatedCells(row []string) int {
	n := 0
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			n++
		}
	}
	return n
}
