package main

import (
	"strings"
	"testing"
	"time"
)

func TestParseSegments(t *testing.T) {
	input := "0.0\twelcome to the show\n\n12.48\ttoday we talk about gardening\n90\tclosing remarks\n"

	segments, err := parseSegments(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseSegments: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(segments))
	}
	if segments[0].Start != 0 || segments[0].Text != "welcome to the show" {
		t.Errorf("unexpected first segment: %+v", segments[0])
	}
	if segments[1].Start != 12480*time.Millisecond {
		t.Errorf("second start = %v, want 12.48s", segments[1].Start)
	}
	if segments[2].Start != 90*time.Second {
		t.Errorf("third start = %v, want 90s", segments[2].Start)
	}
}

func TestParseSegments_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing tab", "12.48 no tab here\n"},
		{"non-numeric offset", "soon\tthe text\n"},
		{"negative offset", "-5\tthe text\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseSegments(strings.NewReader(tt.input)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseSegments_Empty(t *testing.T) {
	segments, err := parseSegments(strings.NewReader(""))
	if err != nil {
		t.Fatalf("parseSegments: %v", err)
	}
	if len(segments) != 0 {
		t.Errorf("got %d segments, want 0", len(segments))
	}
}
