// Package blobs provides the durable key/value blob store behind the entity
// store: a handful of named slots, each holding one whole serialized
// collection.
//
// # Contract
//
// Get returns (nil, nil) for an absent slot; absence is the valid "first run"
// state, not an error. SetAll writes several slots at once and is atomic on
// the SQL backends. Values are opaque bytes.
//
// # Backends
//
//   - SQLiteRepository: local file (modernc.org/sqlite), goose migrations
//   - PostgresRepository: remote database (pgx stdlib), goose migrations
//   - S3Repository: one object per slot under a key prefix
//   - MemoryRepository: process-local map, for tests and throwaway sessions
//
// Open selects a backend from Options.
package blobs
