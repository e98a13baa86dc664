package mapreduce

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"infomat-hq/infomat/pkg/backoff"
	"infomat-hq/infomat/pkg/chunk"
	"infomat-hq/infomat/pkg/llm"
	"infomat-hq/infomat/pkg/tokens"
)

// Defaults for orchestration parameters.
const (
	DefaultAnswerReserve  = 1.0 / 3.0
	DefaultOverlapRatio   = 0.1
	DefaultMinImprovement = 0.3
	DefaultMaxRounds      = 8
	DefaultMaxInFlight    = 16
)

// PromptFunc builds the role-tagged prompt for one chunk. Called with the
// empty string to measure the template's fixed token overhead.
type PromptFunc func(chunkText string) []llm.Message

// Config tunes the orchestrator. Zero values select the defaults above.
type Config struct {
	// Model is the model identifier sent with every completion.
	Model string

	// ContextWindow is the model's context length in tokens.
	ContextWindow int

	// AnswerReserve is the fraction of the usable window reserved for
	// the completion.
	AnswerReserve float64

	// OverlapRatio is the fixed-window chunk overlap as a fraction of
	// the chunk budget.
	OverlapRatio float64

	// MinImprovement is the minimum per-pass compression ratio for a
	// reduce run to continue (0.3 means a pass must shrink the text by
	// more than 30% to warrant another pass).
	MinImprovement float64

	// MaxRounds caps reduce passes as defense in depth against prompts
	// that shrink forever without converging.
	MaxRounds int

	// MaxInFlight bounds concurrent completions per map pass.
	MaxInFlight int

	// Backoff is the retry policy for each chunk call. Its Retryable
	// classifier defaults to llm.IsRetryable.
	Backoff backoff.Policy
}

func (c Config) withDefaults() Config {
	if c.AnswerReserve == 0 {
		c.AnswerReserve = DefaultAnswerReserve
	}
	if c.OverlapRatio == 0 {
		c.OverlapRatio = DefaultOverlapRatio
	}
	if c.MinImprovement == 0 {
		c.MinImprovement = DefaultMinImprovement
	}
	if c.MaxRounds == 0 {
		c.MaxRounds = DefaultMaxRounds
	}
	if c.MaxInFlight == 0 {
		c.MaxInFlight = DefaultMaxInFlight
	}
	if c.Backoff.Retryable == nil {
		c.Backoff.Retryable = llm.IsRetryable
	}
	return c
}

// Observer receives orchestration measurements. Implemented by the
// telemetry metrics package; a nil Observer disables instrumentation.
type Observer interface {
	// ObserveMapPass records one completed map pass.
	ObserveMapPass(chunks, tokensUsed int)

	// ObserveReduceRun records one completed reduce run.
	ObserveReduceRun(rounds int)
}

// Orchestrator runs map and reduce passes against a Completer.
type Orchestrator struct {
	completer llm.Completer
	enc       tokens.Encoder
	config    Config
	observer  Observer
}

// New creates an Orchestrator. observer may be nil.
func New(completer llm.Completer, enc tokens.Encoder, cfg Config, observer Observer) *Orchestrator {
	return &Orchestrator{
		completer: completer,
		enc:       enc,
		config:    cfg.withDefaults(),
		observer:  observer,
	}
}

// chunkBudget computes the effective per-chunk token budget for a prompt
// template: the context window minus the measured template overhead,
// scaled down by the answer reserve.
func (o *Orchestrator) chunkBudget(promptFn PromptFunc) (int, error) {
	overhead := tokens.PromptOverhead(o.enc, llm.RenderMessages(promptFn("")))
	budget := tokens.Budget{
		ContextWindow: o.config.ContextWindow,
		AnswerReserve: o.config.AnswerReserve,
	}
	n := budget.ChunkTokens(overhead)
	if n <= 0 {
		return 0, fmt.Errorf("mapreduce: prompt overhead %d tokens exceeds context window %d",
			overhead, o.config.ContextWindow)
	}
	return n, nil
}

// Map chunks the input, dispatches one completion per chunk concurrently,
// and returns the responses in chunk order together with the total tokens
// consumed. An empty input returns no results and no error.
func (o *Orchestrator) Map(ctx context.Context, promptFn PromptFunc, in chunk.Input) ([]string, int, error) {
	budget, err := o.chunkBudget(promptFn)
	if err != nil {
		return nil, 0, err
	}

	chunks := chunk.Split(o.enc, in, chunk.Options{
		MaxTokens:    budget,
		OverlapRatio: o.config.OverlapRatio,
	})
	if len(chunks) == 0 {
		return nil, 0, nil
	}

	slog.Debug("dispatching map pass",
		"chunks", len(chunks),
		"chunk_budget", budget,
		"model", o.config.Model,
	)

	// Cancel siblings on first unrecoverable error: a partial map result
	// is never billed, so there is no point finishing it.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]string, len(chunks))
	used := make([]int, len(chunks))
	sem := make(chan struct{}, o.config.MaxInFlight)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for i, c := range chunks {
		wg.Add(1)
		go func(i int, c string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				errOnce.Do(func() { firstErr = ctx.Err() })
				return
			}

			resp, err := backoff.Do(ctx, o.config.Backoff,
				func(ctx context.Context) (*llm.CompletionResponse, error) {
					return o.completer.Complete(ctx, &llm.CompletionRequest{
						Model:    o.config.Model,
						Messages: promptFn(c),
					})
				})
			if err != nil {
				errOnce.Do(func() {
					firstErr = err
					cancel()
				})
				return
			}
			results[i] = resp.Content
			used[i] = resp.Usage.TotalTokens
		}(i, c)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, 0, &MapAbortedError{Chunks: len(chunks), Cause: firstErr}
	}

	total := 0
	for _, n := range used {
		total += n
	}
	if o.observer != nil {
		o.observer.ObserveMapPass(len(chunks), total)
	}
	return results, total, nil
}

// Reduce re-applies the map pass to its own output until the output stops
// compressing by more than MinImprovement per pass, a single result
// remains, or MaxRounds is reached (ConvergenceError). Token usage is
// accumulated across all passes.
func (o *Orchestrator) Reduce(ctx context.Context, promptFn PromptFunc, in chunk.Input) ([]string, int, error) {
	total := 0
	for round := 0; ; round++ {
		if round >= o.config.MaxRounds {
			return nil, total, &ConvergenceError{Rounds: round}
		}

		before := o.enc.Count(in.Join(" "))
		results, used, err := o.Map(ctx, promptFn, in)
		total += used
		if err != nil {
			return nil, total, err
		}
		after := o.enc.Count(strings.Join(results, " "))

		slog.Debug("reduce pass finished",
			"round", round,
			"tokens_before", before,
			"tokens_after", after,
			"results", len(results),
		)

		// Converged: nothing left to shrink, or this pass did not shrink
		// the content enough to warrant another one.
		if len(results) <= 1 || float64(after) > (1-o.config.MinImprovement)*float64(before) {
			if o.observer != nil {
				o.observer.ObserveReduceRun(round + 1)
			}
			return results, total, nil
		}

		in = chunk.Lines(results)
	}
}
