// Package chunk splits long inputs into token-budgeted pieces for the
// map phase of the orchestrator.
//
// Two strategies are provided:
//
//   - Fixed-window (Text inputs): the whole text is tokenized once and
//     sliced into windows of the budget size, each window overlapping the
//     previous one by a configurable number of tokens so information at
//     window boundaries appears in both neighbors.
//   - Boundary-preserving (Lines inputs): the longest prefix of the
//     remaining lines whose join fits the budget is emitted as one chunk.
//     Lines are only split mid-unit when a single line alone exceeds the
//     budget, in which case that line falls back to fixed-window slicing.
//
// Both strategies guarantee that no emitted chunk exceeds the budget and
// that chunks appear in document order.
package chunk
