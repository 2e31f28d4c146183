// Package app implements the application layer for incc.
package app

import (
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/incc/internal/adapters/config" //nolint:depguard // Validation of overridden settings
	"go.trai.ch/incc/internal/core/domain"
	"go.trai.ch/incc/internal/core/ports"
	"go.trai.ch/incc/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	lister       ports.SourceLister
	opener       ports.StateStoreOpener
	compilers    ports.CompilerFactory
	watchers     ports.WatcherFactory
	scheduler    *scheduler.Scheduler
	reporter     ports.Reporter
	logger       ports.Logger
	telemetry    ports.Telemetry
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	lister ports.SourceLister,
	opener ports.StateStoreOpener,
	compilers ports.CompilerFactory,
	watchers ports.WatcherFactory,
	sched *scheduler.Scheduler,
	reporter ports.Reporter,
	log ports.Logger,
	telemetry ports.Telemetry,
) *App {
	return &App{
		configLoader: loader,
		lister:       lister,
		opener:       opener,
		compilers:    compilers,
		watchers:     watchers,
		scheduler:    sched,
		reporter:     reporter,
		logger:       log,
		telemetry:    telemetry,
	}
}

// ConfigOptions are the command-line settings layered over incc.yaml.
// Zero values leave the file's setting in place.
type ConfigOptions struct {
	ConfigFile  string
	SourceDir   string
	ArtifactDir string
	State       string
	Debounce    time.Duration
}

// resolveConfig loads incc.yaml and applies the command-line overrides.
// Relative override paths are resolved against the working directory.
func (a *App) resolveConfig(opts ConfigOptions) (*domain.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to get working directory")
	}

	cfg, err := a.configLoader.Load(cwd, opts.ConfigFile)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if opts.SourceDir != "" {
		cfg.SourceRoot = absolute(cwd, opts.SourceDir)
	}
	if opts.ArtifactDir != "" {
		cfg.ArtifactRoot = absolute(cwd, opts.ArtifactDir)
	}
	if opts.State != "" {
		cfg.State = domain.StateBackend(opts.State)
	}
	if opts.Debounce > 0 {
		cfg.Debounce = opts.Debounce
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func absolute(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
