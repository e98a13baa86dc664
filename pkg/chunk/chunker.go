package chunk

import (
	"strings"

	"infomat-hq/infomat/pkg/tokens"
)

// DefaultOverlapRatio is the fraction of the window shared between
// consecutive fixed-window chunks when no overlap is specified.
const DefaultOverlapRatio = 0.1

// Options controls how an Input is split.
type Options struct {
	// MaxTokens is the token budget per chunk. Required, must be > 0.
	MaxTokens int

	// Overlap is the number of tokens consecutive fixed-window chunks
	// share. If zero and OverlapRatio is zero, MaxTokens/10 is used.
	Overlap int

	// OverlapRatio expresses the overlap as a fraction of MaxTokens.
	// Ignored when Overlap is set.
	OverlapRatio float64

	// JoinChar separates lines joined into one boundary-preserving chunk.
	JoinChar string
}

func (o Options) overlapTokens() int {
	if o.Overlap > 0 {
		return o.Overlap
	}
	if o.OverlapRatio > 0 {
		return int(float64(o.MaxTokens) * o.OverlapRatio)
	}
	return int(float64(o.MaxTokens) * DefaultOverlapRatio)
}

// Split dispatches to the strategy matching the input variant.
// Empty inputs yield no chunks.
func Split(enc tokens.Encoder, in Input, opts Options) []string {
	if in.IsEmpty() {
		return nil
	}
	if in.IsLines() {
		return SplitLines(enc, in.Units(), opts.MaxTokens, opts.JoinChar)
	}
	return SplitText(enc, in.Join(""), opts.MaxTokens, opts.overlapTokens())
}

// SplitText tokenizes text once and yields windows of maxTokens tokens,
// advancing by maxTokens-overlap each step. Every input token appears in
// at least one chunk and consecutive chunks share exactly overlap tokens;
// the last window may be shorter. Decoded windows are whitespace-trimmed.
func SplitText(enc tokens.Encoder, text string, maxTokens, overlap int) []string {
	if maxTokens <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxTokens {
		overlap = maxTokens - 1
	}

	ids := enc.Encode(text)
	if len(ids) == 0 {
		return nil
	}

	step := maxTokens - overlap
	chunks := make([]string, 0, (len(ids)+step-1)/step)
	for i := 0; i < len(ids); i += step {
		end := i + maxTokens
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, strings.TrimSpace(enc.Decode(ids[i:end])))
	}
	return chunks
}

// SplitLines emits the longest prefix of the remaining lines whose join
// fits maxTokens, then continues with the rest. A single line that alone
// exceeds the budget is split with SplitText before resuming. The scan is
// an explicit loop, so arbitrarily long inputs cannot exhaust the stack.
//
// No emitted chunk exceeds maxTokens, and the emitted chunks cover the
// whole input in order.
func SplitLines(enc tokens.Encoder, lines []string, maxTokens int, joinChar string) []string {
	if maxTokens <= 0 {
		return nil
	}

	var chunks []string
	rest := lines
	for len(rest) > 0 {
		prefix := 0
		for i := len(rest); i >= 2; i-- {
			if enc.Count(strings.Join(rest[:i], joinChar)) <= maxTokens {
				prefix = i
				break
			}
		}
		if prefix > 0 {
			chunks = append(chunks, strings.Join(rest[:prefix], joinChar))
			rest = rest[prefix:]
			continue
		}
		// No multi-line prefix fits: the head line goes through the
		// fixed-window path (which also handles the single-line case).
		chunks = append(chunks, SplitText(enc, rest[0], maxTokens, maxTokens/10)...)
		rest = rest[1:]
	}
	return chunks
}
