package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is the quiet period after a file event before the
// configuration is reloaded, so editors that write in several steps
// trigger a single reload.
const watchDebounce = 100 * time.Millisecond

// WatchPricing watches the configuration file and calls apply with the
// new pricing section whenever the file changes and still validates.
// Invalid intermediate states are logged and skipped; the previous
// pricing stays in effect. Blocks until the context is cancelled.
func WatchPricing(ctx context.Context, path string, apply func(PricingConfig)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files by
	// rename, which drops a watch placed on the file itself.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	slog.Info("pricing hot reload enabled", "path", path)

	var debounce *time.Timer
	var reloadCh <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
				reloadCh = debounce.C
			} else {
				debounce.Reset(watchDebounce)
			}

		case <-reloadCh:
			debounce = nil
			reloadCh = nil

			cfg, err := LoadConfigWithEnvOverrides(path)
			if err != nil {
				slog.Warn("configuration reload skipped", "path", path, "error", err)
				continue
			}
			apply(cfg.Pricing)
			slog.Info("pricing reloaded",
				"rate_per_1k", cfg.Pricing.RatePer1K,
				"fx_rate", cfg.Pricing.FxRate,
				"markup", cfg.Pricing.Markup,
			)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			slog.Warn("configuration watcher error", "error", err)
		}
	}
}
