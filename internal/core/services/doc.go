// Package services contains the core business logic for Arcana: token
// lifecycle, remote resource provisioning, the reading record repository,
// and the session facade that composes them.
//
// Services depend only on domain types and driven ports, never on
// concrete adapters.
package services
