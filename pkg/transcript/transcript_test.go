package transcript

import (
	"strings"
	"testing"
	"time"
)

// wordCounter treats every whitespace-separated word as one token.
type wordCounter struct{}

func (wordCounter) Count(text string) int { return len(strings.Fields(text)) }

func TestDocument_Lines(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want int
	}{
		{"empty document", Document{}, 0},
		{"text only", Document{Text: "hello"}, 1},
		{"segments win over text", Document{
			Text:     "a b",
			Segments: []Segment{{Text: "a"}, {Text: "b"}},
		}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.doc.Lines(); len(got) != tt.want {
				t.Errorf("Lines() has %d units, want %d", len(got), tt.want)
			}
		})
	}
}

func TestDocument_Pages(t *testing.T) {
	doc := Document{
		Segments: []Segment{
			{Start: 0, Text: "one two three"},
			{Start: 10 * time.Second, Text: "four five"},
			{Start: 20 * time.Second, Text: "six"},
			{Start: 30 * time.Second, Text: "seven eight nine ten"},
		},
	}

	pages := doc.Pages(wordCounter{}, 4)
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	// First page overflows with the second segment included.
	if len(pages[0]) != 2 || pages[0][0].Start != 0 {
		t.Errorf("unexpected first page: %+v", pages[0])
	}
	if len(pages[1]) != 2 || pages[1][0].Start != 20*time.Second {
		t.Errorf("unexpected second page: %+v", pages[1])
	}

	// All segments appear exactly once, in order.
	var total int
	for _, p := range pages {
		total += len(p)
	}
	if total != len(doc.Segments) {
		t.Errorf("pages cover %d segments, want %d", total, len(doc.Segments))
	}
}

func TestDocument_PagesEmpty(t *testing.T) {
	doc := Document{}
	if got := doc.Pages(wordCounter{}, 10); got != nil {
		t.Errorf("expected no pages, got %v", got)
	}
}

func TestTimecode(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{65 * time.Second, "01:05"},
		{59 * time.Minute, "59:00"},
		{3661 * time.Second, "1:01:01"},
	}
	for _, tt := range tests {
		if got := Timecode(tt.d); got != tt.want {
			t.Errorf("Timecode(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
