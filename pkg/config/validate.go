package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "model.name").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. All field errors are collected and reported together.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a
// ValidationError if any rule fails, nil otherwise.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateModel(&cfg.Model)...)
	errs = append(errs, validatePricing(&cfg.Pricing)...)
	errs = append(errs, validateOrchestrator(&cfg.Orchestrator)...)
	errs = append(errs, validateBackoff(&cfg.Backoff)...)
	errs = append(errs, validateStorage(&cfg.Storage)...)
	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validateCache(&cfg.Cache)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateModel(cfg *ModelConfig) []FieldError {
	var errs []FieldError

	if cfg.Name == "" {
		errs = append(errs, FieldError{
			Field:   "model.name",
			Message: "model name is required",
		})
	}
	if u, err := url.Parse(cfg.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, FieldError{
			Field:   "model.base_url",
			Message: fmt.Sprintf("must be a valid URL, got %q", cfg.BaseURL),
		})
	}
	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "model.timeout",
			Message: "timeout must be positive",
		})
	}
	if cfg.ContextWindow <= 0 {
		errs = append(errs, FieldError{
			Field:   "model.context_window",
			Message: "context window must be positive",
		})
	}
	if cfg.AnswerReserve < 0 || cfg.AnswerReserve >= 1 {
		errs = append(errs, FieldError{
			Field:   "model.answer_reserve",
			Message: fmt.Sprintf("must be in [0, 1), got %g", cfg.AnswerReserve),
		})
	}

	return errs
}

func validatePricing(cfg *PricingConfig) []FieldError {
	var errs []FieldError

	if cfg.RatePer1K <= 0 {
		errs = append(errs, FieldError{
			Field:   "pricing.rate_per_1k",
			Message: "rate must be positive",
		})
	}
	if cfg.FxRate <= 0 {
		errs = append(errs, FieldError{
			Field:   "pricing.fx_rate",
			Message: "fx rate must be positive",
		})
	}
	if cfg.Markup <= 0 {
		errs = append(errs, FieldError{
			Field:   "pricing.markup",
			Message: "markup must be positive",
		})
	}
	if cfg.WelcomeBalance < 0 {
		errs = append(errs, FieldError{
			Field:   "pricing.welcome_balance",
			Message: "welcome balance must be non-negative",
		})
	}

	return errs
}

func validateOrchestrator(cfg *OrchestratorConfig) []FieldError {
	var errs []FieldError

	if cfg.MinImprovement <= 0 || cfg.MinImprovement >= 1 {
		errs = append(errs, FieldError{
			Field:   "orchestrator.min_improvement",
			Message: fmt.Sprintf("must be in (0, 1), got %g", cfg.MinImprovement),
		})
	}
	if cfg.MaxRounds < 1 {
		errs = append(errs, FieldError{
			Field:   "orchestrator.max_rounds",
			Message: "must be at least 1",
		})
	}
	if cfg.MaxInFlight < 1 {
		errs = append(errs, FieldError{
			Field:   "orchestrator.max_in_flight",
			Message: "must be at least 1",
		})
	}
	if cfg.OverlapRatio < 0 || cfg.OverlapRatio > 0.5 {
		errs = append(errs, FieldError{
			Field:   "orchestrator.overlap_ratio",
			Message: fmt.Sprintf("must be in [0, 0.5], got %g", cfg.OverlapRatio),
		})
	}

	return errs
}

func validateBackoff(cfg *BackoffConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxWait <= 0 {
		errs = append(errs, FieldError{
			Field:   "backoff.max_wait",
			Message: "must be positive",
		})
	}
	if cfg.InitialDelay <= 0 {
		errs = append(errs, FieldError{
			Field:   "backoff.initial_delay",
			Message: "must be positive",
		})
	}
	if cfg.Base <= 1 {
		errs = append(errs, FieldError{
			Field:   "backoff.base",
			Message: fmt.Sprintf("must be greater than 1, got %g", cfg.Base),
		})
	}

	return errs
}

func validateStorage(cfg *StorageConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "sqlite", "memory":
	default:
		errs = append(errs, FieldError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("must be one of: sqlite, memory; got %q", cfg.Backend),
		})
	}
	if cfg.Backend == "sqlite" && cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "storage.path",
			Message: "path is required for the sqlite backend",
		})
	}
	if cfg.BusyTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "storage.busy_timeout",
			Message: "must be positive",
		})
	}
	if cfg.CheckpointSchedule != "" {
		if _, err := cron.ParseStandard(cfg.CheckpointSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "storage.checkpoint_schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	return errs
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "must be positive",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "must be positive",
		})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("must be one of: debug, info, warn, error; got %q", cfg.Logging.Level),
		})
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("must be one of: json, text; got %q", cfg.Logging.Format),
		})
	}
	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: fmt.Sprintf("must start with /, got %q", cfg.Metrics.Path),
		})
	}

	return errs
}

func validateCache(cfg *CacheConfig) []FieldError {
	var errs []FieldError

	if cfg.Size < 1 {
		errs = append(errs, FieldError{
			Field:   "cache.size",
			Message: "must be at least 1",
		})
	}
	if cfg.PurgeSchedule != "" {
		if _, err := cron.ParseStandard(cfg.PurgeSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "cache.purge_schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	return errs
}
