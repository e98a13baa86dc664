package tokens

// Counter converts text to a token count.
// Implementations must be deterministic pure functions of the text.
type Counter interface {
	// Count returns the number of tokens in text. Always >= 0.
	Count(text string) int
}

// Encoder extends Counter with access to the underlying token ids.
// The fixed-window chunker needs Encode/Decode to slice text on exact
// token boundaries.
type Encoder interface {
	Counter

	// Encode converts text to its token id sequence.
	Encode(text string) []int

	// Decode converts a token id sequence back to text.
	Decode(ids []int) string
}
