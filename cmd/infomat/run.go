package main

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"infomat-hq/infomat/pkg/billing"
	"infomat-hq/infomat/pkg/config"
	"infomat-hq/infomat/pkg/server"
	"infomat-hq/infomat/pkg/telemetry/logging"
)

var runFlags struct {
	listenAddress string
	logLevel      string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the ops server and maintenance jobs",
	Long: `Start the ops HTTP server (health, metrics, read-only billing queries)
together with the scheduled maintenance jobs: ledger WAL checkpoints and
summary cache purges. If pricing hot reload is enabled, the configuration
file is watched and pricing changes take effect without a restart.

Examples:
  # Start with default config
  infomat run

  # Start with custom config
  infomat run --config /etc/infomat/config.yaml

  # Override listen address
  infomat run --listen 0.0.0.0:8090`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func runServer(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	if runFlags.listenAddress != "" {
		a.cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		a.cfg.Telemetry.Logging.Level = runFlags.logLevel
		if _, err := logging.Setup(logging.Config{
			Level:  a.cfg.Telemetry.Logging.Level,
			Format: a.cfg.Telemetry.Logging.Format,
		}); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The engine is only needed to keep the estimator and cache warm
	// for pricing hot reload and scheduled purges. Without an API key
	// the ops surface still works.
	if err := a.buildEngine(); err != nil {
		slog.Warn("engine not available, serving ops endpoints only", "error", err)
	}

	scheduler := cron.New()
	if a.cfg.Storage.CheckpointSchedule != "" {
		_, err := scheduler.AddFunc(a.cfg.Storage.CheckpointSchedule, func() {
			if err := a.backend.Checkpoint(context.Background()); err != nil {
				slog.Error("ledger checkpoint failed", "error", err)
				return
			}
			slog.Debug("ledger checkpoint complete")
		})
		if err != nil {
			return err
		}
	}
	if a.answerer != nil && a.cfg.Cache.PurgeSchedule != "" {
		_, err := scheduler.AddFunc(a.cfg.Cache.PurgeSchedule, func() {
			a.answerer.PurgeCache()
			slog.Debug("summary cache purged")
		})
		if err != nil {
			return err
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	if a.estimator != nil && a.cfg.Pricing.HotReload {
		go func() {
			err := config.WatchPricing(ctx, cfgFile, func(p config.PricingConfig) {
				a.estimator.SetPricing(billing.Pricing{
					RatePer1K: p.RatePer1K,
					FxRate:    p.FxRate,
					Markup:    p.Markup,
				})
			})
			if err != nil {
				slog.Error("pricing watcher stopped", "error", err)
			}
		}()
	}

	var metricsHandler http.Handler
	if a.collector != nil {
		metricsHandler = a.collector.Handler()
	}
	srv := server.NewServer(&a.cfg.Server, a.service, metricsHandler, a.cfg.Telemetry.Metrics.Path)
	return srv.Start(ctx)
}
