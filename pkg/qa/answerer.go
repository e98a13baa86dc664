// Package qa is the question-answering and summarization layer on top
// of the map-reduce orchestrator. It owns the prompts, joins partial
// results into user-facing text, memoizes per-document work in a
// bounded LRU cache, and translates internal failures into messages
// safe to show end users.
package qa

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"infomat-hq/infomat/pkg/chunk"
	"infomat-hq/infomat/pkg/mapreduce"
	"infomat-hq/infomat/pkg/tokens"
	"infomat-hq/infomat/pkg/transcript"
)

// Defaults for Answerer options.
const (
	DefaultCacheSize = 512
	DefaultPageSize  = 2048
)

// Options tunes an Answerer. Zero values select the defaults above.
type Options struct {
	// CacheSize bounds the memo cache, in entries.
	CacheSize int

	// PageSize is the token budget of one timecode page.
	PageSize int
}

// cached is one memoized result. A cache hit reports zero tokens used
// because no completion ran for it.
type cached struct {
	text string
}

// Answerer answers questions about documents and summarizes them.
type Answerer struct {
	orch     *mapreduce.Orchestrator
	counter  tokens.Counter
	pageSize int
	cache    *lru.Cache[string, cached]
}

// New creates an Answerer over the orchestrator. counter is used for
// paging timed segments and should match the orchestrator's encoder.
func New(orch *mapreduce.Orchestrator, counter tokens.Counter, opts Options) (*Answerer, error) {
	if opts.CacheSize == 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.PageSize == 0 {
		opts.PageSize = DefaultPageSize
	}
	cache, err := lru.New[string, cached](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("qa: create memo cache: %w", err)
	}
	return &Answerer{
		orch:     orch,
		counter:  counter,
		pageSize: opts.PageSize,
		cache:    cache,
	}, nil
}

// PurgeCache drops all memoized results, e.g. after a model change.
func (a *Answerer) PurgeCache() {
	a.cache.Purge()
}

// Answer answers a free-form question about the document: one map pass
// gathering relevant information per chunk, then a reduce run combining
// the findings into a single answer. Returns the answer and the total
// tokens consumed.
func (a *Answerer) Answer(ctx context.Context, question string, doc *transcript.Document) (string, int, error) {
	return a.answer(ctx, "answer", question, doc, defaultContext, "text")
}

// AnswerVideo is Answer with the document framed as a video, so the
// model knows excerpts are spoken captions of the titled video.
func (a *Answerer) AnswerVideo(ctx context.Context, question string, doc *transcript.Document) (string, int, error) {
	systemContext := fmt.Sprintf("You are answering questions on a video called %q", doc.Title)
	return a.answer(ctx, "answer_video", question, doc, systemContext, "video")
}

func (a *Answerer) answer(ctx context.Context, op, question string, doc *transcript.Document, systemContext, sourceType string) (string, int, error) {
	key, memoize := a.cacheKey(op, doc, question)
	if memoize {
		if hit, ok := a.cache.Get(key); ok {
			return hit.text, 0, nil
		}
	}

	gathered, mapTokens, err := a.orch.Map(ctx, gatherPrompt(question, systemContext, sourceType), docInput(doc))
	if err != nil {
		return "", mapTokens, err
	}

	combined, reduceTokens, err := a.orch.Reduce(ctx, combinePrompt(question, systemContext), chunk.Lines(gathered))
	used := mapTokens + reduceTokens
	if err != nil {
		return "", used, err
	}

	text := strings.TrimSpace(strings.Join(combined, "\n"))
	if memoize {
		a.cache.Add(key, cached{text: text})
	}
	return text, used, nil
}

// Summarize reduces the whole document to a summary.
func (a *Answerer) Summarize(ctx context.Context, doc *transcript.Document) (string, int, error) {
	key, memoize := a.cacheKey("summarize", doc, "")
	if memoize {
		if hit, ok := a.cache.Get(key); ok {
			return hit.text, 0, nil
		}
	}

	results, used, err := a.orch.Reduce(ctx, summarizePrompt(), docInput(doc))
	if err != nil {
		return "", used, err
	}

	text := strings.TrimSpace(strings.Join(results, "\n"))
	if memoize {
		a.cache.Add(key, cached{text: text})
	}
	return text, used, nil
}

// TimecodeSummary summarizes the document page by page, prefixing each
// page's summary with the timecode of its first segment. Documents
// without timed segments fall back to a plain summary.
func (a *Answerer) TimecodeSummary(ctx context.Context, doc *transcript.Document) (string, int, error) {
	pages := doc.Pages(a.counter, a.pageSize)
	if len(pages) == 0 {
		return a.Summarize(ctx, doc)
	}

	key, memoize := a.cacheKey("timecodes", doc, "")
	if memoize {
		if hit, ok := a.cache.Get(key); ok {
			return hit.text, 0, nil
		}
	}

	entries := make([]string, 0, len(pages))
	total := 0
	for _, page := range pages {
		texts := make([]string, len(page))
		for i, s := range page {
			texts[i] = s.Text
		}
		results, used, err := a.orch.Map(ctx, summarizePrompt(), chunk.Lines(texts))
		total += used
		if err != nil {
			return "", total, err
		}
		entry := fmt.Sprintf("[%s] %s",
			transcript.Timecode(page[0].Start),
			strings.TrimSpace(strings.Join(results, "\n")))
		entries = append(entries, entry)
	}

	text := strings.Join(entries, "\n\n")
	if memoize {
		a.cache.Add(key, cached{text: text})
	}
	return text, total, nil
}

// cacheKey builds the memo key for an operation on a document. Only
// documents with a stable ID are memoized.
func (a *Answerer) cacheKey(op string, doc *transcript.Document, question string) (string, bool) {
	if doc.ID == "" {
		return "", false
	}
	q := strings.ToLower(strings.TrimSpace(question))
	return op + "\x00" + doc.ID + "\x00" + q, true
}

// docInput picks the chunking strategy for a document: segment-boundary
// chunking when timed segments exist, fixed-window otherwise.
func docInput(doc *transcript.Document) chunk.Input {
	if len(doc.Segments) > 0 {
		return chunk.Lines(doc.Lines())
	}
	return chunk.Text(doc.Text)
}
