package services

import (
	"context"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
	"github.com/custodia-labs/arcana-cli/internal/core/ports/driven"
	"github.com/custodia-labs/arcana-cli/internal/core/ports/driving"
)

// Ensure ReadingService implements the interface.
var _ driving.ReadingService = (*ReadingService)(nil)

// ReadingService generates interpretations through the configured
// provider backend. The provider is optional; without one, generation
// is disabled but saving and browsing readings still work.
type ReadingService struct {
	provider driven.ReadingProvider
}

// NewReadingService creates a reading generation service.
// provider may be nil.
func NewReadingService(provider driven.ReadingProvider) *ReadingService {
	return &ReadingService{provider: provider}
}

// Generate produces a reading for the cards and question.
func (s *ReadingService) Generate(ctx context.Context, cards []domain.Card, question, language string) (string, error) {
	if s.provider == nil {
		return "", domain.ErrReadingUnavailable
	}
	if len(cards) == 0 {
		return "", domain.ErrInvalidInput
	}
	return s.provider.Generate(ctx, cards, question, language)
}
