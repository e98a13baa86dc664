package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"infomat-hq/infomat/pkg/transcript"
)

// readDocument loads a transcript from path, or stdin when path is "-"
// or empty. Files ending in .tsv are parsed as timed segments; anything
// else is treated as plain text.
func readDocument(path, docID, title string) (*transcript.Document, error) {
	var reader io.Reader
	if path == "" || path == "-" {
		reader = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		reader = f
	}

	doc := &transcript.Document{ID: docID, Title: title}
	if strings.HasSuffix(path, ".tsv") {
		segments, err := parseSegments(reader)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", path, err)
		}
		doc.Segments = segments
		doc.Text = strings.Join(doc.Lines(), "\n")
		return doc, nil
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	doc.Text = strings.TrimSpace(string(data))
	return doc, nil
}

// parseSegments reads timed segments, one per line: the start offset in
// seconds, a tab, then the segment text. Blank lines are skipped.
//
//	0.0	welcome to the show
//	12.48	today we talk about gardening
func parseSegments(r io.Reader) ([]transcript.Segment, error) {
	var segments []transcript.Segment

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		offset, text, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: expected <seconds><TAB><text>", lineNo)
		}
		seconds, err := strconv.ParseFloat(strings.TrimSpace(offset), 64)
		if err != nil || seconds < 0 {
			return nil, fmt.Errorf("line %d: invalid start offset %q", lineNo, offset)
		}

		segments = append(segments, transcript.Segment{
			Start: time.Duration(seconds * float64(time.Second)),
			Text:  strings.TrimSpace(text),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return segments, nil
}
