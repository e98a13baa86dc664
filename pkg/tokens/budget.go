package tokens

import "math"

// overheadMargin pads the measured prompt overhead to absorb the tokens
// the provider adds for message framing.
const overheadMargin = 1.1

// Budget derives the effective per-chunk token budget from a model's
// fixed context window.
type Budget struct {
	// ContextWindow is the model's total context length in tokens.
	ContextWindow int

	// AnswerReserve is the fraction of the usable window kept free for
	// the completion (0 <= AnswerReserve < 1).
	AnswerReserve float64
}

// PromptOverhead measures the token cost of a rendered prompt template,
// padded by a safety margin. Callers pass the prompt rendered with an
// empty chunk so only the fixed parts are measured.
func PromptOverhead(c Counter, rendered string) int {
	return int(math.Ceil(float64(c.Count(rendered)) * overheadMargin))
}

// ChunkTokens returns the number of tokens one chunk may consume:
// (ContextWindow - overhead) * (1 - AnswerReserve).
// Returns 0 if the overhead alone exceeds the context window.
func (b Budget) ChunkTokens(overhead int) int {
	usable := b.ContextWindow - overhead
	if usable <= 0 {
		return 0
	}
	n := int(float64(usable) * (1 - b.AnswerReserve))
	if n < 0 {
		n = 0
	}
	return n
}
