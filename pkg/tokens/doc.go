// Package tokens provides token counting and per-call token budgets.
//
// Every budget in the system (chunk sizes, price quotes, context-window
// headroom) is derived from a Counter. Two implementations are provided:
//
//   - Tokenizer: exact BPE counts via tiktoken, tied to the target model
//     family. This is the default and what production deployments use.
//   - SimpleCounter: a characters-per-token estimate for environments where
//     the BPE vocabulary cannot be loaded (offline builds, tests).
//
// The Budget type converts a model's fixed context window into the effective
// number of tokens one chunk may consume, accounting for the measured prompt
// overhead and the fraction of the window reserved for the completion.
package tokens
