// Package store provides SQLite-backed durable storage for itinerary records.
//
// The store is the only reader and writer of records and owns the pairing of
// records with their image files:
//   - Create commits the record first, then writes the photo through the
//     image store. A failed photo write leaves a committed record without an
//     image and is reported in CreateResult.ImageErr.
//   - Delete removes the record and its image file. Both steps are attempted
//     even if one fails.
//   - MigrateInlineImages moves legacy inline photos into image files and
//     clears the inline column. It is idempotent.
//
// # Ordering
//
// Reads return records by timestamp ascending. Undated records come last and
// ties break on id, so results are deterministic:
//
//	ORDER BY timestamp IS NULL, timestamp ASC, id COLLATE BINARY ASC
//
// # Failure Semantics
//
// Engine failures are wrapped with ErrStorage. Read paths return an empty,
// non-nil slice alongside the error so callers can tell "empty" from "failed"
// without handling nil.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
