// Package storage defines the durable keyed store behind the balance
// ledger and provides two backends.
//
// MemoryBackend keeps everything in process memory and is suitable for
// tests and ephemeral deployments. SQLiteBackend persists users and their
// transaction logs in a single SQLite file (created if absent) using WAL
// mode and a single-writer connection pool: SQLite supports concurrent
// readers but only one writer process, which matches the ledger's
// single-writer discipline.
//
// Backends store state; they do not enforce ledger invariants. Per-user
// serialization of read-modify-write cycles is the ledger's job.
package storage
