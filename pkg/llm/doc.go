// Package llm defines the remote model call consumed by the orchestrator
// and provides an OpenAI chat-completions client.
//
// The client performs exactly one HTTP request per Complete call and maps
// provider failures onto a typed error taxonomy:
//
//   - RateLimitError: HTTP 429, the only transient class the orchestrator
//     retries through the backoff executor (together with transport-level
//     RequestErrors).
//   - AuthError: HTTP 401/403, never retried.
//   - ProviderError: any other non-2xx status, never retried.
//   - ParseError: a 2xx response whose body could not be decoded.
//
// Retry policy deliberately lives outside this package (see pkg/backoff);
// the client itself never sleeps or retries.
package llm
