// Package store provides a SQLite-backed change journal for Mementor sessions.
//
// The journal is append-only and write-only from the engine's point of view:
//   - Sessions: one row per journaled Mementor (usually one scenario run)
//   - Changes: one row per change notification (mark, undo, redo, reset)
//
// It records what happened for inspection with `memento trace`; it is never
// read back into a Mementor.
//
// # Ordering
//
//   - All ordering uses seq INTEGER (logical clock), never timestamps
//   - Queries order by seq ASC, id ASC so results are identical across reads
//   - UNIQUE(session_id, seq) makes repeated writes of the same change no-ops
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
