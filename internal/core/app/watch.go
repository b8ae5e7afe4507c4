package app

import (
	"context"
	"errors"
	"log/slog"

	"funcmetrics/internal/core/watcher"
	"funcmetrics/internal/shared/util"
)

// Watch rescans the project whenever a batch of source changes settles and
// hands every outcome to onReport. Bursts of batches collapse into one
// pending rescan and rescans are rate limited. Watch blocks until ctx is
// cancelled.
func (a *App) Watch(ctx context.Context, onReport func(*Report, error)) error {
	changes := make(chan []string, 1)
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		func(paths []string) {
			select {
			case changes <- paths:
			default:
				slog.Debug("rescan already pending", "changed", len(paths))
			}
		},
	)
	if err != nil {
		return err
	}
	defer w.Close()
	w.SetExtensions(a.parser.SupportedExtensions())
	if err := w.Watch(a.Config.ScanPaths); err != nil {
		return err
	}

	limiter := util.NewLimiter(a.Config.Watch.MaxRunsPerSecond, 1)
	slog.Info("watching for changes", "paths", a.Config.ScanPaths)
	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-changes:
			if err := limiter.Wait(ctx, 1); err != nil {
				if errors.Is(err, context.Canceled) || ctx.Err() != nil {
					return nil
				}
				return err
			}
			slog.Debug("rescanning after changes", "changed", paths)
			report, err := a.Scan(ctx)
			onReport(report, err)
		}
	}
}
