// Package transcript models the documents the engine answers questions
// about: long texts with optional timed segments (video captions).
//
// Acquisition (caption scraping, transcription) lives behind the Source
// interface and is out of scope here; the engine only needs text, or an
// ordered list of line-like units with stable order.
package transcript

import (
	"context"
	"fmt"
	"time"

	"infomat-hq/infomat/pkg/tokens"
)

// Segment is one timed unit of a transcript.
type Segment struct {
	// Start is the offset of the segment from the document start.
	Start time.Duration

	// Text is the segment's text.
	Text string
}

// Document is a transcript: the full text plus, when available, its
// ordered timed segments.
type Document struct {
	// ID identifies the document (e.g. a video id).
	ID string

	// Title is a human-readable title, may be empty.
	Title string

	// Text is the full document text.
	Text string

	// Segments are the timed units in document order; may be empty for
	// plain-text documents.
	Segments []Segment
}

// Source supplies documents by identifier.
type Source interface {
	Fetch(ctx context.Context, id string) (*Document, error)
}

// Lines returns the segment texts as ordered line-like units, falling
// back to the whole text as a single unit when no segments exist.
func (d *Document) Lines() []string {
	if len(d.Segments) == 0 {
		if d.Text == "" {
			return nil
		}
		return []string{d.Text}
	}
	lines := make([]string, len(d.Segments))
	for i, s := range d.Segments {
		lines[i] = s.Text
	}
	return lines
}

// Pages batches segments greedily: segments accumulate into a page until
// the page's token count exceeds pageSize, at which point the page (with
// the overflowing segment included) is emitted and a new one starts.
// Used by timecode summaries, where each page keeps the start time of its
// first segment.
func (d *Document) Pages(counter tokens.Counter, pageSize int) [][]Segment {
	if len(d.Segments) == 0 {
		return nil
	}

	var pages [][]Segment
	var page []Segment
	cost := 0
	for _, s := range d.Segments {
		cost += counter.Count(s.Text)
		page = append(page, s)
		if cost > pageSize {
			pages = append(pages, page)
			page = nil
			cost = 0
		}
	}
	if len(page) > 0 {
		pages = append(pages, page)
	}
	return pages
}

// Timecode formats an offset as [h:]mm:ss for display next to a page
// summary.
func Timecode(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
