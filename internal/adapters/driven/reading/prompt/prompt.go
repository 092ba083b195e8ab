// Package prompt builds the interpretation prompts shared by every
// reading provider backend.
package prompt

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
	"github.com/custodia-labs/arcana-cli/internal/core/ports/driven"
)

// Embedded fallbacks, used when no prompt store is configured or a
// template fails to load. Kept in sync with the file store's defaults.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const (
	defaultSystem = `You are an experienced tarot reader. You interpret three-card spreads as past, present and future. You speak warmly and directly, ground every statement in the drawn cards, and never predict medical, legal or financial outcomes.`

	defaultReading = `The querent drew the following cards, in order: %s

Their question: %s

Give a three-card reading covering past, present and future. Connect the cards to the question. End with one short piece of practical advice. Answer in the language with locale tag %q.`
)

// System returns the system prompt for the interpretation request.
func System(store driven.PromptStore) string {
	return load(store, driven.PromptReadingSystem, defaultSystem)
}

// Reading returns the user prompt for the given spread.
func Reading(store driven.PromptStore, cards []domain.Card, question, language string) string {
	template := load(store, driven.PromptReading, defaultReading)
	return fmt.Sprintf(template, FormatCards(cards), question, language)
}

// FormatCards renders the spread as a comma-separated list, reversed
// cards marked.
func FormatCards(cards []domain.Card) string {
	names := make([]string, len(cards))
	for i, card := range cards {
		names[i] = card.DisplayName()
	}
	return strings.Join(names, ", ")
}

// load fetches a template from the store, falling back to the default.
func load(store driven.PromptStore, name, fallback string) string {
	if store == nil {
		return fallback
	}
	template, err := store.Load(name)
	if err != nil || template == "" {
		return fallback
	}
	return template
}
