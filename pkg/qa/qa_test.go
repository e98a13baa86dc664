package qa

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"infomat-hq/infomat/pkg/billing"
	"infomat-hq/infomat/pkg/llm"
	"infomat-hq/infomat/pkg/mapreduce"
	"infomat-hq/infomat/pkg/transcript"
)

// runeEncoder treats every rune as one token.
type runeEncoder struct{}

func (runeEncoder) Count(text string) int { return len([]rune(text)) }

func (runeEncoder) Encode(text string) []int {
	runes := []rune(text)
	ids := make([]int, len(runes))
	for i, r := range runes {
		ids[i] = int(r)
	}
	return ids
}

func (runeEncoder) Decode(ids []int) string {
	runes := make([]rune, len(ids))
	for i, id := range ids {
		runes[i] = rune(id)
	}
	return string(runes)
}

// recordingCompleter records every request and answers via reply.
type recordingCompleter struct {
	mu    sync.Mutex
	reqs  []*llm.CompletionRequest
	reply func(req *llm.CompletionRequest) string
}

func (r *recordingCompleter) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	r.mu.Lock()
	r.reqs = append(r.reqs, req)
	r.mu.Unlock()
	return &llm.CompletionResponse{
		Content: r.reply(req),
		Model:   req.Model,
		Usage:   llm.Usage{TotalTokens: 7},
	}, nil
}

func (r *recordingCompleter) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reqs)
}

func newTestAnswerer(t *testing.T, completer llm.Completer, opts Options) *Answerer {
	t.Helper()
	orch := mapreduce.New(completer, runeEncoder{}, mapreduce.Config{
		Model:         "test-model",
		ContextWindow: 2000,
	}, nil)
	a, err := New(orch, runeEncoder{}, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

// answerReply distinguishes the gather pass (three messages) from the
// combine pass (two messages).
func answerReply(req *llm.CompletionRequest) string {
	if len(req.Messages) == 3 {
		return "a gathered fact"
	}
	return "the final answer"
}

func TestAnswerer_Answer(t *testing.T) {
	completer := &recordingCompleter{reply: answerReply}
	a := newTestAnswerer(t, completer, Options{})

	doc := &transcript.Document{Text: "the quick brown fox jumps over the lazy dog"}
	answer, used, err := a.Answer(context.Background(), "what jumps?", doc)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer != "the final answer" {
		t.Errorf("answer = %q", answer)
	}
	// One gather call plus one combine call, 7 tokens each.
	if used != 14 {
		t.Errorf("tokens used = %d, want 14", used)
	}

	gather := completer.reqs[0]
	if len(gather.Messages) != 3 {
		t.Fatalf("gather prompt has %d messages, want 3", len(gather.Messages))
	}
	if !strings.HasPrefix(gather.Messages[1].Content, "Excerpt from the text\n\n") {
		t.Errorf("gather excerpt message: %q", gather.Messages[1].Content)
	}
	if gather.Messages[2].Content != "what jumps?" {
		t.Errorf("gather user message: %q", gather.Messages[2].Content)
	}
}

func TestAnswerer_AnswerVideoFramesContext(t *testing.T) {
	completer := &recordingCompleter{reply: answerReply}
	a := newTestAnswerer(t, completer, Options{})

	doc := &transcript.Document{Title: "A Day in the Life", Text: "some captions here"}
	if _, _, err := a.AnswerVideo(context.Background(), "what is it about?", doc); err != nil {
		t.Fatalf("AnswerVideo: %v", err)
	}

	gather := completer.reqs[0]
	if !strings.Contains(gather.Messages[0].Content, `"A Day in the Life"`) {
		t.Errorf("system context misses the title: %q", gather.Messages[0].Content)
	}
	if !strings.HasPrefix(gather.Messages[1].Content, "Excerpt from the video") {
		t.Errorf("excerpt message: %q", gather.Messages[1].Content)
	}
}

func TestAnswerer_SummarizeMemoizesByDocumentID(t *testing.T) {
	completer := &recordingCompleter{reply: func(*llm.CompletionRequest) string { return "sum" }}
	a := newTestAnswerer(t, completer, Options{})
	ctx := context.Background()

	doc := &transcript.Document{ID: "vid-1", Text: "a long transcript worth summarizing"}
	first, used, err := a.Summarize(ctx, doc)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if first != "sum" || used == 0 {
		t.Errorf("first call: (%q, %d)", first, used)
	}

	before := completer.calls()
	second, used, err := a.Summarize(ctx, doc)
	if err != nil {
		t.Fatalf("Summarize (cached): %v", err)
	}
	if second != first || used != 0 {
		t.Errorf("cached call: (%q, %d), want (%q, 0)", second, used, first)
	}
	if completer.calls() != before {
		t.Errorf("cached call hit the model: %d -> %d calls", before, completer.calls())
	}

	// Documents without an ID are never memoized.
	anon := &transcript.Document{Text: "another transcript"}
	a.Summarize(ctx, anon)
	calls := completer.calls()
	a.Summarize(ctx, anon)
	if completer.calls() == calls {
		t.Error("anonymous document was memoized")
	}
}

func TestAnswerer_PurgeCache(t *testing.T) {
	completer := &recordingCompleter{reply: func(*llm.CompletionRequest) string { return "sum" }}
	a := newTestAnswerer(t, completer, Options{})
	ctx := context.Background()

	doc := &transcript.Document{ID: "vid-1", Text: "some text"}
	a.Summarize(ctx, doc)
	a.PurgeCache()

	before := completer.calls()
	a.Summarize(ctx, doc)
	if completer.calls() == before {
		t.Error("purged entry still served from cache")
	}
}

func TestAnswerer_TimecodeSummary(t *testing.T) {
	completer := &recordingCompleter{reply: func(*llm.CompletionRequest) string { return "sum" }}
	// Page budget of 3 rune-tokens: each 4-rune segment overflows its
	// own page.
	a := newTestAnswerer(t, completer, Options{PageSize: 3})

	doc := &transcript.Document{
		ID: "vid-1",
		Segments: []transcript.Segment{
			{Start: 0, Text: "aaaa"},
			{Start: 90 * time.Second, Text: "bbbb"},
		},
	}
	text, used, err := a.TimecodeSummary(context.Background(), doc)
	if err != nil {
		t.Fatalf("TimecodeSummary: %v", err)
	}
	want := "[00:00] sum\n\n[01:30] sum"
	if text != want {
		t.Errorf("summary = %q, want %q", text, want)
	}
	if used == 0 {
		t.Error("expected nonzero token usage")
	}
}

func TestAnswerer_TimecodeSummaryFallsBackWithoutSegments(t *testing.T) {
	completer := &recordingCompleter{reply: func(*llm.CompletionRequest) string { return "plain summary" }}
	a := newTestAnswerer(t, completer, Options{})

	doc := &transcript.Document{Text: "no segments at all"}
	text, _, err := a.TimecodeSummary(context.Background(), doc)
	if err != nil {
		t.Fatalf("TimecodeSummary: %v", err)
	}
	if text != "plain summary" {
		t.Errorf("summary = %q", text)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
		excludes string
	}{
		{
			name:     "insufficient funds reported verbatim",
			err:      &billing.InsufficientFundsError{Price: 45, Balance: 10},
			contains: "costs 45",
		},
		{
			name:     "convergence failure reported",
			err:      &mapreduce.ConvergenceError{Rounds: 8},
			contains: "could not be condensed",
		},
		{
			name:     "internal errors never leak",
			err:      errors.New("pq: connection refused"),
			contains: "try again",
			excludes: "connection refused",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := UserMessage(tt.err)
			if !strings.Contains(strings.ToLower(msg), strings.ToLower(tt.contains)) {
				t.Errorf("UserMessage = %q, want substring %q", msg, tt.contains)
			}
			if tt.excludes != "" && strings.Contains(msg, tt.excludes) {
				t.Errorf("UserMessage leaked internals: %q", msg)
			}
		})
	}
}
