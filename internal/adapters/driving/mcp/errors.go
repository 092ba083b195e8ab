// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants draw spreads, generate readings and manage the
// saved reading history.
package mcp

import "errors"

// ErrMissingReadingService is returned when the reading service is not provided.
var ErrMissingReadingService = errors.New("mcp: reading service is required")
