package main

import (
	"fmt"
	"os"

	"infomat-hq/infomat/pkg/backoff"
	"infomat-hq/infomat/pkg/billing"
	"infomat-hq/infomat/pkg/config"
	"infomat-hq/infomat/pkg/ledger"
	"infomat-hq/infomat/pkg/ledger/storage"
	"infomat-hq/infomat/pkg/llm"
	"infomat-hq/infomat/pkg/mapreduce"
	"infomat-hq/infomat/pkg/qa"
	"infomat-hq/infomat/pkg/telemetry/logging"
	"infomat-hq/infomat/pkg/telemetry/metrics"
	"infomat-hq/infomat/pkg/tokens"
)

// app carries the wired components a command needs. Engine components
// (tokenizer, orchestrator, answerer, gate) are only present after
// buildEngine.
type app struct {
	cfg     *config.Config
	backend storage.Backend
	ledger  *ledger.Ledger
	service *billing.Service

	collector *metrics.Collector
	estimator *billing.Estimator
	gate      *billing.Gate
	answerer  *qa.Answerer
}

// newApp loads configuration, installs logging, and opens the ledger.
func newApp(withMetrics bool) (*app, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, err
	}

	logCfg := logging.Config{
		Level:  cfg.Telemetry.Logging.Level,
		Format: cfg.Telemetry.Logging.Format,
	}
	if verbose {
		logCfg.Level = "debug"
	}
	if _, err := logging.Setup(logCfg); err != nil {
		return nil, err
	}

	var backend storage.Backend
	switch cfg.Storage.Backend {
	case "memory":
		backend = storage.NewMemoryBackend()
	default:
		backend, err = storage.NewSQLiteBackend(storage.SQLiteConfig{
			Path:        cfg.Storage.Path,
			BusyTimeout: cfg.Storage.BusyTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("open ledger storage: %w", err)
		}
	}

	a := &app{
		cfg:     cfg,
		backend: backend,
		ledger:  ledger.New(backend),
	}
	a.service = billing.NewService(a.ledger)
	if withMetrics && cfg.Telemetry.Metrics.Enabled {
		a.collector = metrics.NewCollector(nil)
	}
	return a, nil
}

// buildEngine wires the tokenizer, provider client, orchestrator,
// billing gate, and answerer. Requires the provider API key in the
// environment.
func (a *app) buildEngine() error {
	apiKey := os.Getenv(a.cfg.Model.APIKeyEnv)
	if apiKey == "" {
		return fmt.Errorf("missing provider API key: set %s", a.cfg.Model.APIKeyEnv)
	}

	tokenizer, err := tokens.NewTokenizer(a.cfg.Model.Name)
	if err != nil {
		return err
	}

	var completer llm.Completer = llm.NewClient(llm.ClientConfig{
		APIKey:  apiKey,
		BaseURL: a.cfg.Model.BaseURL,
		Timeout: a.cfg.Model.Timeout,
	})

	var orchObserver mapreduce.Observer
	var gateObserver billing.Observer
	if a.collector != nil {
		orchObserver = a.collector
		gateObserver = a.collector
		completer = a.collector.InstrumentCompleter(completer)
	}

	orch := mapreduce.New(completer, tokenizer, mapreduce.Config{
		Model:          a.cfg.Model.Name,
		ContextWindow:  a.cfg.Model.ContextWindow,
		AnswerReserve:  a.cfg.Model.AnswerReserve,
		OverlapRatio:   a.cfg.Orchestrator.OverlapRatio,
		MinImprovement: a.cfg.Orchestrator.MinImprovement,
		MaxRounds:      a.cfg.Orchestrator.MaxRounds,
		MaxInFlight:    a.cfg.Orchestrator.MaxInFlight,
		Backoff: backoff.Policy{
			MaxWait:      a.cfg.Backoff.MaxWait,
			InitialDelay: a.cfg.Backoff.InitialDelay,
			Base:         a.cfg.Backoff.Base,
		},
	}, orchObserver)

	a.estimator = billing.NewEstimator(billing.Pricing{
		RatePer1K: a.cfg.Pricing.RatePer1K,
		FxRate:    a.cfg.Pricing.FxRate,
		Markup:    a.cfg.Pricing.Markup,
	}, tokenizer)
	a.gate = billing.NewGate(a.ledger, a.estimator, gateObserver)

	a.answerer, err = qa.New(orch, tokenizer, qa.Options{
		CacheSize: a.cfg.Cache.Size,
		// Timecode pages target half the context window, leaving room
		// for the summary prompt and the answer.
		PageSize: a.cfg.Model.ContextWindow / 2,
	})
	return err
}

// Close releases the ledger storage.
func (a *app) Close() error {
	return a.backend.Close()
}
