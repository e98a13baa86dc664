package chunk

import "strings"

// Input is a chunking input: either raw text or an ordered list of
// line-like units (sentences, caption cues). The two variants select the
// chunking strategy: Text uses fixed-window slicing, Lines preserves unit
// boundaries.
type Input struct {
	text  string
	lines []string
	split bool
}

// Text wraps a raw string for fixed-window chunking.
func Text(s string) Input {
	return Input{text: s}
}

// Lines wraps an ordered list of line-like units for boundary-preserving
// chunking.
func Lines(units []string) Input {
	return Input{lines: units, split: true}
}

// IsLines reports whether the input is the Lines variant.
func (in Input) IsLines() bool {
	return in.split
}

// Units returns the line units for a Lines input, or nil for Text.
func (in Input) Units() []string {
	return in.lines
}

// Join returns the input as a single string, joining Lines variants with
// sep. Used to measure token length before and after a reduce pass.
func (in Input) Join(sep string) string {
	if in.split {
		return strings.Join(in.lines, sep)
	}
	return in.text
}

// IsEmpty reports whether the input contains no content.
func (in Input) IsEmpty() bool {
	if in.split {
		return len(in.lines) == 0
	}
	return in.text == ""
}
