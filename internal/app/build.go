package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.trai.ch/incc/internal/core/domain"
	"go.trai.ch/incc/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// Build runs one incremental build and prints its report.
// It returns domain.ErrCompilationFailed when any unit was rejected.
func (a *App) Build(ctx context.Context, opts ConfigOptions) error {
	cfg, err := a.resolveConfig(opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.telemetry.Close()
	}()

	return a.buildAndReport(ctx, cfg)
}

func (a *App) buildAndReport(ctx context.Context, cfg *domain.Config) error {
	report, err := a.build(ctx, cfg)
	if err != nil {
		return err
	}

	if err := a.reporter.Report(report); err != nil {
		return err
	}

	if n := report.Count(domain.UnitStatusFailed); n > 0 {
		return errors.Join(domain.ErrCompilationFailed, zerr.With(zerr.New("units were rejected by the compiler"), "count", n))
	}
	return nil
}

// build runs the scheduler inside one store transaction.
// The graph is committed only when the scheduler completes.
func (a *App) build(ctx context.Context, cfg *domain.Config) (*domain.BuildReport, error) {
	if err := os.MkdirAll(cfg.ArtifactRoot, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create artifact directory"), "path", cfg.ArtifactRoot)
	}

	namer := cfg.Namer()
	paths, err := a.lister.List(cfg.SourceRoot, namer.SourceExt, cfg.Ignore)
	if err != nil {
		return nil, err
	}
	units := make([]domain.SourceUnit, 0, len(paths))
	for _, p := range paths {
		unit, err := namer.Unit(cfg.SourceRoot, cfg.ArtifactRoot, p)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}

	compiler, err := a.compilers.NewInvoker(cfg.Compiler)
	if err != nil {
		return nil, err
	}

	store, err := a.opener.Open(cfg.ArtifactRoot, cfg.State)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = store.Close()
	}()

	if err := store.Begin(ctx); err != nil {
		return nil, err
	}

	prior, err := store.LoadGraph(ctx)
	if err != nil {
		_ = store.Rollback()
		return nil, err
	}
	if prior != nil && prior.SourceRoot != cfg.SourceRoot {
		a.logger.Warn(fmt.Sprintf("source root changed from %s to %s", prior.SourceRoot, cfg.SourceRoot))
	}

	res, err := a.scheduler.Run(ctx, scheduler.Request{
		SourceRoot:   cfg.SourceRoot,
		ArtifactRoot: cfg.ArtifactRoot,
		Namer:        namer,
		Units:        units,
		Prior:        prior,
		Compiler:     compiler,
	})
	if err != nil {
		_ = store.Rollback()
		return nil, zerr.Wrap(err, "build aborted")
	}

	if err := store.ReplaceGraph(res.Graph); err != nil {
		_ = store.Rollback()
		return nil, err
	}
	if err := store.Commit(); err != nil {
		return nil, err
	}
	return res.Report, nil
}
