// Package sqlite provides a local SQLite-backed tabular store.
//
// It implements the same TabularStore contract as the Google connector,
// including positional row deletion, so the rest of the application can
// run fully offline against a single database file. Schema changes are
// applied through embedded SQL migrations on open.
package sqlite
