package app

import (
	"context"
	"errors"

	"go.trai.ch/incc/internal/adapters/watcher" //nolint:depguard // Debouncer is shared with the watcher adapter
	"go.trai.ch/incc/internal/core/domain"
	"go.trai.ch/incc/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Watch runs a build, then rebuilds whenever a source under the source root changes.
// Builds never overlap. A failed build is reported and the session continues.
// It returns when ctx is canceled.
func (a *App) Watch(ctx context.Context, opts ConfigOptions) error {
	cfg, err := a.resolveConfig(opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.telemetry.Close()
	}()

	w, err := a.watchers.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to create watcher")
	}
	defer func() {
		_ = w.Stop()
	}()

	g, ctx := errgroup.WithContext(ctx)
	if err := w.Start(ctx, cfg.SourceRoot); err != nil {
		return err
	}

	trigger := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(cfg.Debounce, func([]string) {
		select {
		case trigger <- struct{}{}:
		default:
		}
	})

	namer := cfg.Namer()

	// Event pump
	g.Go(func() error {
		for ev := range w.Events() {
			if namer.MatchesSource(ev.Path) || ev.Operation == ports.OpRemove || ev.Operation == ports.OpRename {
				debouncer.Add(ev.Path)
			}
		}
		if ctx.Err() == nil {
			return zerr.New("file watcher stopped unexpectedly")
		}
		return nil
	})

	// Build loop
	g.Go(func() error {
		a.runWatchBuild(ctx, cfg)
		a.logger.Info("watching " + cfg.SourceRoot + " for changes")
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-trigger:
				a.logger.Info("change detected, rebuilding")
				a.runWatchBuild(ctx, cfg)
			}
		}
	})

	return g.Wait()
}

// runWatchBuild runs one build of a watch session and logs its fatal errors.
func (a *App) runWatchBuild(ctx context.Context, cfg *domain.Config) {
	err := a.buildAndReport(ctx, cfg)
	if err == nil || errors.Is(err, domain.ErrCompilationFailed) || ctx.Err() != nil {
		return
	}
	a.logger.Error(err)
}
