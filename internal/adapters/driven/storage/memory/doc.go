// Package memory provides in-memory implementations of the driven
// storage and identity ports. They are used as test doubles and as the
// backing store for ephemeral runs.
package memory
