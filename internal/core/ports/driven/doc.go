// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - IdentityProvider: Token probe, silent refresh, interactive sign-in
//   - TabularStore: The remote tabular record store (folder + spreadsheet)
//   - SessionStore: Durable local persistence of the session bundle
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - ReadingProvider: AI interpretation backend. Without it, saving and
//     browsing readings still works; generation is disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
