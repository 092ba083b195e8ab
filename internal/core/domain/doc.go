// Package domain contains the core business entities for Arcana.
// These types have no dependencies on adapters or external services,
// following hexagonal architecture principles.
package domain
