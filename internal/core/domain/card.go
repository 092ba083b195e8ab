package domain

import "fmt"

// Arcana identifies which arcana a tarot card belongs to.
type Arcana string

const (
	// ArcanaMajor is one of the 22 trump cards.
	ArcanaMajor Arcana = "major"
	// ArcanaMinor is one of the 56 suit cards.
	ArcanaMinor Arcana = "minor"
)

// Card is a snapshot of a drawn tarot card as stored in a reading record.
// Cards are serialized independently per spread position, so a record may
// hold fewer cards than a full spread.
type Card struct {
	// Name is the card's canonical English name, e.g. "The Fool".
	Name string `json:"name"`
	// Arcana identifies the card group.
	Arcana Arcana `json:"arcana,omitempty"`
	// Number is the card's position within its arcana (0 for The Fool).
	Number int `json:"number"`
	// Reversed is true when the card was drawn upside down.
	Reversed bool `json:"reversed,omitempty"`
}

// DisplayName returns the card name with its orientation.
func (c Card) DisplayName() string {
	if c.Reversed {
		return fmt.Sprintf("%s (reversed)", c.Name)
	}
	return c.Name
}

// IsValid returns true if the card carries at least a name.
// Cards without a name are dropped when parsing rows.
func (c Card) IsValid() bool {
	return c.Name != ""
}
