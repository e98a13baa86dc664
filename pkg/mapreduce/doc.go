// Package mapreduce implements the token-bounded map-reduce orchestration
// engine that lets a token-limited model operate on arbitrarily long text.
//
// A map pass chunks the input to the model's effective per-call budget,
// dispatches one completion per chunk concurrently (each wrapped in the
// backoff executor), and collects responses in chunk order regardless of
// completion order. A reduce run re-applies the map pass to its own output
// until the output stops shrinking meaningfully, a single result remains,
// or a hard round cap trips.
//
// Failure semantics: the first permanent error (or a transient error that
// exhausts its backoff budget) cancels all in-flight sibling calls and
// aborts the whole pass; partial results are never returned, so callers
// can safely bill only completed work.
package mapreduce
