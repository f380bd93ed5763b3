// Package ingest loads user documents into the vault. Text is split into
// overlapping chunks, embedded concurrently through a bounded worker pool,
// persisted to the chunk repository, and the scope's index partition is
// rebuilt so the new chunks become searchable atomically.
package ingest
