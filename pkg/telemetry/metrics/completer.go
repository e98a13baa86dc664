package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"infomat-hq/infomat/pkg/llm"
)

// InstrumentedCompleter wraps a Completer and counts provider calls by
// outcome. Each retry is its own call, so rate-limit retries are visible
// as repeated rate_limited outcomes.
type InstrumentedCompleter struct {
	next  llm.Completer
	calls *prometheus.CounterVec
}

// InstrumentCompleter registers the call counter on the collector's
// registry and returns the wrapped completer.
func (c *Collector) InstrumentCompleter(next llm.Completer) *InstrumentedCompleter {
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "llm_calls_total",
		Help:      "Total provider calls by outcome",
	}, []string{"outcome"})
	c.registry.MustRegister(calls)

	return &InstrumentedCompleter{next: next, calls: calls}
}

// Complete delegates to the wrapped completer and records the outcome.
func (ic *InstrumentedCompleter) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	resp, err := ic.next.Complete(ctx, req)
	ic.calls.WithLabelValues(outcome(err)).Inc()
	return resp, err
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	var (
		rateLimit *llm.RateLimitError
		auth      *llm.AuthError
		provider  *llm.ProviderError
		parse     *llm.ParseError
		request   *llm.RequestError
	)
	switch {
	case errors.As(err, &rateLimit):
		return "rate_limited"
	case errors.As(err, &auth):
		return "auth"
	case errors.As(err, &provider):
		return "provider"
	case errors.As(err, &parse):
		return "parse"
	case errors.As(err, &request):
		return "transport"
	default:
		return "other"
	}
}
