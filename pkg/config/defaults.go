package config

import "time"

// Default values for configuration fields.
const (
	// Model defaults
	DefaultModelName     = "gpt-3.5-turbo"
	DefaultBaseURL       = "https://api.openai.com/v1"
	DefaultAPIKeyEnv     = "OPENAI_API_KEY"
	DefaultModelTimeout  = 120 * time.Second
	DefaultContextWindow = 4096
	DefaultAnswerReserve = 1.0 / 3.0

	// Pricing defaults
	DefaultRatePer1K      = 0.002
	DefaultFxRate         = 75.0
	DefaultMarkup         = 3.0
	DefaultWelcomeBalance = int64(10000)

	// Orchestrator defaults
	DefaultMinImprovement = 0.3
	DefaultMaxRounds      = 8
	DefaultMaxInFlight    = 16
	DefaultOverlapRatio   = 0.1

	// Backoff defaults
	DefaultBackoffMaxWait      = 60 * time.Second
	DefaultBackoffInitialDelay = 1 * time.Second
	DefaultBackoffBase         = 1.5

	// Storage defaults
	DefaultStorageBackend     = "sqlite"
	DefaultStoragePath        = "data/ledger.db"
	DefaultBusyTimeout        = 5 * time.Second
	DefaultCheckpointSchedule = "@hourly"

	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8090"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel   = "info"
	DefaultLoggingFormat  = "json"
	DefaultMetricsEnabled = true
	DefaultMetricsPath    = "/metrics"

	// Cache defaults
	DefaultCacheSize     = 512
	DefaultPurgeSchedule = "0 4 * * *"
)

// ApplyDefaults fills zero-valued fields with the defaults above. It is
// called by LoadConfig before validation; callers constructing a Config
// by hand can call it directly.
func ApplyDefaults(cfg *Config) {
	// Model defaults
	if cfg.Model.Name == "" {
		cfg.Model.Name = DefaultModelName
	}
	if cfg.Model.BaseURL == "" {
		cfg.Model.BaseURL = DefaultBaseURL
	}
	if cfg.Model.APIKeyEnv == "" {
		cfg.Model.APIKeyEnv = DefaultAPIKeyEnv
	}
	if cfg.Model.Timeout == 0 {
		cfg.Model.Timeout = DefaultModelTimeout
	}
	if cfg.Model.ContextWindow == 0 {
		cfg.Model.ContextWindow = DefaultContextWindow
	}
	if cfg.Model.AnswerReserve == 0 {
		cfg.Model.AnswerReserve = DefaultAnswerReserve
	}

	// Pricing defaults
	if cfg.Pricing.RatePer1K == 0 {
		cfg.Pricing.RatePer1K = DefaultRatePer1K
	}
	if cfg.Pricing.FxRate == 0 {
		cfg.Pricing.FxRate = DefaultFxRate
	}
	if cfg.Pricing.Markup == 0 {
		cfg.Pricing.Markup = DefaultMarkup
	}
	if cfg.Pricing.WelcomeBalance == 0 {
		cfg.Pricing.WelcomeBalance = DefaultWelcomeBalance
	}

	// Orchestrator defaults
	if cfg.Orchestrator.MinImprovement == 0 {
		cfg.Orchestrator.MinImprovement = DefaultMinImprovement
	}
	if cfg.Orchestrator.MaxRounds == 0 {
		cfg.Orchestrator.MaxRounds = DefaultMaxRounds
	}
	if cfg.Orchestrator.MaxInFlight == 0 {
		cfg.Orchestrator.MaxInFlight = DefaultMaxInFlight
	}
	if cfg.Orchestrator.OverlapRatio == 0 {
		cfg.Orchestrator.OverlapRatio = DefaultOverlapRatio
	}

	// Backoff defaults
	if cfg.Backoff.MaxWait == 0 {
		cfg.Backoff.MaxWait = DefaultBackoffMaxWait
	}
	if cfg.Backoff.InitialDelay == 0 {
		cfg.Backoff.InitialDelay = DefaultBackoffInitialDelay
	}
	if cfg.Backoff.Base == 0 {
		cfg.Backoff.Base = DefaultBackoffBase
	}

	// Storage defaults
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultStorageBackend
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultStoragePath
	}
	if cfg.Storage.BusyTimeout == 0 {
		cfg.Storage.BusyTimeout = DefaultBusyTimeout
	}
	if cfg.Storage.CheckpointSchedule == "" {
		cfg.Storage.CheckpointSchedule = DefaultCheckpointSchedule
	}

	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	applyMetricsDefaults(cfg)

	// Cache defaults
	if cfg.Cache.Size == 0 {
		cfg.Cache.Size = DefaultCacheSize
	}
	if cfg.Cache.PurgeSchedule == "" {
		cfg.Cache.PurgeSchedule = DefaultPurgeSchedule
	}
}

// applyMetricsDefaults handles the metrics section, where the enabled
// flag should default to true unless the section was configured
// explicitly.
func applyMetricsDefaults(cfg *Config) {
	metrics := &cfg.Telemetry.Metrics

	if !metrics.Enabled && metrics.Path == "" {
		metrics.Enabled = DefaultMetricsEnabled
	}
	if metrics.Path == "" {
		metrics.Path = DefaultMetricsPath
	}
}
