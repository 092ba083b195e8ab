package domain

import "math/rand/v2"

// majorArcanaNames are the 22 trumps in traditional order.
var majorArcanaNames = []string{
	"The Fool",
	"The Magician",
	"The High Priestess",
	"The Empress",
	"The Emperor",
	"The Hierophant",
	"The Lovers",
	"The Chariot",
	"Strength",
	"The Hermit",
	"Wheel of Fortune",
	"Justice",
	"The Hanged Man",
	"Death",
	"Temperance",
	"The Devil",
	"The Tower",
	"The Star",
	"The Moon",
	"The Sun",
	"Judgement",
	"The World",
}

// MajorArcana returns a fresh copy of the 22-card major arcana deck,
// all cards upright.
func MajorArcana() []Card {
	deck := make([]Card, len(majorArcanaNames))
	for i, name := range majorArcanaNames {
		deck[i] = Card{
			Name:   name,
			Arcana: ArcanaMajor,
			Number: i,
		}
	}
	return deck
}

// Draw shuffles the major arcana and returns n distinct cards, each with
// an independent 50% chance of being reversed. n is clamped to the spread
// size and the deck size.
func Draw(n int) []Card {
	if n < 1 {
		n = 1
	}
	if n > MaxCards {
		n = MaxCards
	}

	deck := MajorArcana()
	rand.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	drawn := deck[:n]
	for i := range drawn {
		drawn[i].Reversed = rand.IntN(2) == 1
	}
	return drawn
}
