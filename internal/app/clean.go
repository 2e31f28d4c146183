package app

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/incc/internal/core/domain"
	"go.trai.ch/zerr"
)

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	ConfigOptions
	// All also removes every artifact below the artifact root.
	All bool
}

// Clean removes the build state of the artifact root, and with All its artifacts.
// It holds the writer lock throughout and refuses to run while a build holds it.
// The next build after a clean compiles every unit.
func (a *App) Clean(_ context.Context, opts CleanOptions) (err error) {
	cfg, err := a.resolveConfig(opts.ConfigOptions)
	if err != nil {
		return err
	}

	unlock, err := a.opener.Lock(cfg.ArtifactRoot)
	if err != nil {
		return err
	}
	defer func() {
		if unlockErr := unlock(); unlockErr != nil {
			err = errors.Join(err, zerr.Wrap(unlockErr, "failed to release lock"))
		}
	}()

	var errs error

	if opts.All {
		n, err := a.removeArtifacts(cfg)
		if err != nil {
			errs = errors.Join(errs, err)
		}
		a.logger.Info(fmt.Sprintf("removed %d artifacts", n))
	}

	// The lock file goes with the state directory; the flock stays held on the unlinked file.
	a.logger.Info("removing build state...")
	if err := os.RemoveAll(domain.StatePath(cfg.ArtifactRoot)); err != nil {
		errs = errors.Join(errs, zerr.With(zerr.Wrap(err, "failed to remove build state"), "path", cfg.ArtifactRoot))
	} else {
		a.logger.Info("removed build state")
	}

	return errs
}

func (a *App) removeArtifacts(cfg *domain.Config) (int, error) {
	if _, err := os.Stat(cfg.ArtifactRoot); errors.Is(err, iofs.ErrNotExist) {
		return 0, nil
	}

	paths, err := a.lister.List(cfg.ArtifactRoot, cfg.Namer().ArtifactExt, nil)
	if err != nil {
		return 0, err
	}

	var errs error
	removed := 0
	for _, p := range paths {
		path := filepath.Join(cfg.ArtifactRoot, filepath.FromSlash(p))
		if err := os.Remove(path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, "failed to remove artifact"), "path", path))
			continue
		}
		removed++
	}
	return removed, errs
}
