package billing

import (
	"math"
	"sync"

	"infomat-hq/infomat/pkg/tokens"
)

// Reference pricing constants: the upstream per-1K-token rate in USD, a
// fixed USD exchange rate into the billing currency, and the markup
// multiplier applied on top.
const (
	DefaultRatePer1K = 0.002
	DefaultFxRate    = 75.0
	DefaultMarkup    = 3.0
)

// Pricing holds the constants the estimator prices with. Values are in
// major currency units; prices come out in minor units (cents).
type Pricing struct {
	// RatePer1K is the upstream cost per 1000 tokens in USD.
	RatePer1K float64

	// FxRate converts USD into the billing currency.
	FxRate float64

	// Markup is the multiplier applied over upstream cost.
	Markup float64
}

func (p Pricing) withDefaults() Pricing {
	if p.RatePer1K == 0 {
		p.RatePer1K = DefaultRatePer1K
	}
	if p.FxRate == 0 {
		p.FxRate = DefaultFxRate
	}
	if p.Markup == 0 {
		p.Markup = DefaultMarkup
	}
	return p
}

// Estimator converts token counts (or text) into prices in integer minor
// currency units. Safe for concurrent use; pricing can be swapped at
// runtime for configuration hot reload.
type Estimator struct {
	mu      sync.RWMutex
	pricing Pricing
	counter tokens.Counter
}

// NewEstimator creates an Estimator. Zero pricing fields select the
// reference defaults.
func NewEstimator(pricing Pricing, counter tokens.Counter) *Estimator {
	return &Estimator{pricing: pricing.withDefaults(), counter: counter}
}

// SetPricing atomically replaces the pricing constants (hot reload).
func (e *Estimator) SetPricing(pricing Pricing) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pricing = pricing.withDefaults()
}

// Price returns the price of a token count in minor currency units:
// ceil(tokens/1000 * rate * fx * markup * 100).
func (e *Estimator) Price(tokenCount int) int64 {
	e.mu.RLock()
	p := e.pricing
	e.mu.RUnlock()
	return int64(math.Ceil(float64(tokenCount) / 1000.0 * p.RatePer1K * p.FxRate * p.Markup * 100))
}

// PriceText tokenizes text and prices it. Callers that already hold a
// token count should use Price instead.
func (e *Estimator) PriceText(text string) int64 {
	return e.Price(e.counter.Count(text))
}
