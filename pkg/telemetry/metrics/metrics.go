// Package metrics exposes the engine's Prometheus metrics. The
// Collector implements the observer interfaces of the orchestration and
// billing packages, so those packages stay free of Prometheus imports.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "infomat"

// Collector holds all engine metrics registered against one registry.
type Collector struct {
	registry *prometheus.Registry

	mapPasses     prometheus.Counter
	mapChunks     prometheus.Histogram
	tokensTotal   prometheus.Counter
	reduceRounds  prometheus.Histogram
	chargesTotal  *prometheus.CounterVec
	chargedAmount *prometheus.CounterVec
	rejections    prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics. If
// registry is nil a fresh one is used, keeping the engine's metrics
// separate from Go runtime collectors the caller may register
// elsewhere.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,

		mapPasses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "map_passes_total",
			Help:      "Total number of completed map passes",
		}),

		mapChunks: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "map_chunks",
			Help:      "Number of chunks dispatched per map pass",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10), // 1 to 512
		}),

		tokensTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_total",
			Help:      "Total number of provider tokens consumed",
		}),

		reduceRounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reduce_rounds",
			Help:      "Number of passes per reduce run",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 7, 8},
		}),

		chargesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charges_total",
			Help:      "Total number of successful charges",
		}, []string{"reason"}),

		chargedAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charged_amount_total",
			Help:      "Total charged amount in minor currency units",
		}, []string{"reason"}),

		rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insufficient_funds_total",
			Help:      "Total number of operations rejected for insufficient funds",
		}),
	}

	registry.MustRegister(
		c.mapPasses,
		c.mapChunks,
		c.tokensTotal,
		c.reduceRounds,
		c.chargesTotal,
		c.chargedAmount,
		c.rejections,
	)

	return c
}

// ObserveMapPass records one completed map pass.
func (c *Collector) ObserveMapPass(chunks, tokensUsed int) {
	c.mapPasses.Inc()
	c.mapChunks.Observe(float64(chunks))
	c.tokensTotal.Add(float64(tokensUsed))
}

// ObserveReduceRun records one completed reduce run.
func (c *Collector) ObserveReduceRun(rounds int) {
	c.reduceRounds.Observe(float64(rounds))
}

// ObserveCharge records a successful debit.
func (c *Collector) ObserveCharge(reason string, amount int64) {
	c.chargesTotal.WithLabelValues(reason).Inc()
	c.chargedAmount.WithLabelValues(reason).Add(float64(amount))
}

// ObserveRejection records an insufficient-funds rejection.
func (c *Collector) ObserveRejection() {
	c.rejections.Inc()
}

// Handler returns the HTTP handler serving the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry, e.g. for additional
// application-level collectors.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
