package config

import "time"

// Config is the root configuration structure for the engine. It covers
// the model and its provider endpoint, pricing, orchestration tuning,
// retry policy, ledger storage, the ops HTTP server, telemetry, and the
// summary memo cache.
type Config struct {
	// Model contains the model identity and provider endpoint settings.
	Model ModelConfig `yaml:"model"`

	// Pricing contains the price formula parameters and the welcome
	// balance granted to new users.
	Pricing PricingConfig `yaml:"pricing"`

	// Orchestrator tunes the map-reduce engine.
	Orchestrator OrchestratorConfig `yaml:"orchestrator"`

	// Backoff is the retry policy for provider calls.
	Backoff BackoffConfig `yaml:"backoff"`

	// Storage selects and configures the ledger backend.
	Storage StorageConfig `yaml:"storage"`

	// Server configures the ops HTTP server.
	Server ServerConfig `yaml:"server"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Cache configures the summary memo cache.
	Cache CacheConfig `yaml:"cache"`
}

// ModelConfig contains the model identity and provider endpoint.
type ModelConfig struct {
	// Name is the model identifier sent with every completion.
	// Default: "gpt-3.5-turbo"
	Name string `yaml:"name"`

	// BaseURL is the provider's API base URL.
	// Default: "https://api.openai.com/v1"
	BaseURL string `yaml:"base_url"`

	// APIKeyEnv names the environment variable holding the API key. The
	// key itself never appears in configuration files.
	// Default: "OPENAI_API_KEY"
	APIKeyEnv string `yaml:"api_key_env"`

	// Timeout is the per-request HTTP timeout toward the provider.
	// Default: 120s
	Timeout time.Duration `yaml:"timeout"`

	// ContextWindow is the model's context length in tokens.
	// Default: 4096
	ContextWindow int `yaml:"context_window"`

	// AnswerReserve is the fraction of the usable window reserved for
	// the completion. Must be in [0, 1).
	// Default: 0.3333
	AnswerReserve float64 `yaml:"answer_reserve"`
}

// PricingConfig contains the price formula parameters. The price of a
// request is ceil(tokens/1000 * rate_per_1k * fx_rate * markup * 100)
// minor currency units.
type PricingConfig struct {
	// RatePer1K is the provider's price per thousand tokens in major
	// provider-currency units.
	// Default: 0.002
	RatePer1K float64 `yaml:"rate_per_1k"`

	// FxRate converts provider currency to billing currency.
	// Default: 75
	FxRate float64 `yaml:"fx_rate"`

	// Markup is the margin multiplier applied on top of cost.
	// Default: 3
	Markup float64 `yaml:"markup"`

	// WelcomeBalance is the balance, in minor units, granted to a user
	// created on first contact.
	// Default: 10000
	WelcomeBalance int64 `yaml:"welcome_balance"`

	// HotReload enables watching the configuration file and applying
	// pricing changes to the running estimator without a restart.
	// Default: false
	HotReload bool `yaml:"hot_reload"`
}

// OrchestratorConfig tunes the map-reduce engine.
type OrchestratorConfig struct {
	// MinImprovement is the minimum per-pass compression ratio for a
	// reduce run to continue. Must be in (0, 1).
	// Default: 0.3
	MinImprovement float64 `yaml:"min_improvement"`

	// MaxRounds caps reduce passes per run.
	// Default: 8
	MaxRounds int `yaml:"max_rounds"`

	// MaxInFlight bounds concurrent completions per map pass.
	// Default: 16
	MaxInFlight int `yaml:"max_in_flight"`

	// OverlapRatio is the fixed-window chunk overlap as a fraction of
	// the chunk budget. Must be in [0, 0.5].
	// Default: 0.1
	OverlapRatio float64 `yaml:"overlap_ratio"`
}

// BackoffConfig is the retry policy for provider calls.
type BackoffConfig struct {
	// MaxWait is the wall-clock budget for one logical call including
	// all retries.
	// Default: 60s
	MaxWait time.Duration `yaml:"max_wait"`

	// InitialDelay is the delay before the first retry.
	// Default: 1s
	InitialDelay time.Duration `yaml:"initial_delay"`

	// Base is the exponential growth factor. Must be > 1.
	// Default: 1.5
	Base float64 `yaml:"base"`
}

// StorageConfig selects and configures the ledger backend.
type StorageConfig struct {
	// Backend is "sqlite" or "memory".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// Path is the SQLite database file path.
	// Default: "data/ledger.db"
	Path string `yaml:"path"`

	// BusyTimeout is the SQLite busy timeout.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// CheckpointSchedule is a cron expression for periodic WAL
	// checkpoints. Empty disables scheduled checkpoints.
	// Default: "@hourly"
	CheckpointSchedule string `yaml:"checkpoint_schedule"`
}

// ServerConfig configures the ops HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8090"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TelemetryConfig configures logging and metrics.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path the metrics are served on.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// CacheConfig configures the summary memo cache.
type CacheConfig struct {
	// Size bounds the cache, in entries.
	// Default: 512
	Size int `yaml:"size"`

	// PurgeSchedule is a cron expression for periodic cache purges.
	// Empty disables scheduled purges.
	// Default: "0 4 * * *"
	PurgeSchedule string `yaml:"purge_schedule"`
}
