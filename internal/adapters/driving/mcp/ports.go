package mcp

import (
	"github.com/custodia-labs/arcana-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Reading generates interpretations for drawn spreads.
	Reading driving.ReadingService

	// Session manages sign-in state and the saved reading history.
	// Optional; without it readings are generated but not saved.
	Session driving.SessionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Reading == nil {
		return ErrMissingReadingService
	}
	return nil
}
