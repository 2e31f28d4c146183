// Package config provides the configuration loader for incc.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/incc/internal/core/domain"
	"go.trai.ch/incc/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// supportedVersion is the only incc.yaml schema version.
const supportedVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load resolves the configuration for a build started in cwd.
func (l *Loader) Load(cwd, file string) (*domain.Config, error) {
	path := file
	if path == "" {
		path = findConfiguration(cwd)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}

	cfg := domain.DefaultConfig()
	baseDir := cwd

	if path != "" {
		inccfile, err := readInccfile(path)
		if err != nil {
			return nil, err
		}
		if inccfile.Version == "" {
			l.Logger.Warn("incc.yaml has no version, assuming " + supportedVersion)
		}
		if err := apply(cfg, inccfile); err != nil {
			return nil, invalid(err, path)
		}
		baseDir = filepath.Dir(path)
	}

	cfg.SourceRoot = absolute(baseDir, cfg.SourceRoot)
	cfg.ArtifactRoot = absolute(baseDir, cfg.ArtifactRoot)
	if cfg.Compiler.EnvFile != "" {
		cfg.Compiler.EnvFile = absolute(baseDir, cfg.Compiler.EnvFile)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfiguration walks from cwd up to the filesystem root looking for incc.yaml.
func findConfiguration(cwd string) string {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

func readInccfile(path string) (*Inccfile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, invalid(zerr.Wrap(err, "failed to read config file"), path)
	}

	var inccfile Inccfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&inccfile); err != nil && !errors.Is(err, io.EOF) {
		return nil, invalid(zerr.Wrap(err, "failed to parse config file"), path)
	}
	return &inccfile, nil
}

// apply overlays the file's settings onto cfg.
func apply(cfg *domain.Config, f *Inccfile) error {
	if f.Version != "" && f.Version != supportedVersion {
		return zerr.With(zerr.New("unsupported config version"), "version", f.Version)
	}

	setIfNotEmpty(&cfg.SourceRoot, f.SourceDir)
	setIfNotEmpty(&cfg.ArtifactRoot, f.ArtifactDir)
	setIfNotEmpty(&cfg.SourceExt, f.SourceExt)
	setIfNotEmpty(&cfg.ArtifactExt, f.ArtifactExt)
	setIfNotEmpty(&cfg.Compiler.EnvFile, f.Compiler.EnvFile)

	if len(f.Ignore) > 0 {
		cfg.Ignore = slices.Compact(slices.Sorted(slices.Values(f.Ignore)))
	}
	if len(f.Compiler.Command) > 0 {
		cfg.Compiler.Command = slices.Clone(f.Compiler.Command)
	}
	if len(f.Compiler.Env) > 0 {
		cfg.Compiler.Env = make(map[string]string, len(f.Compiler.Env))
		for k, v := range f.Compiler.Env {
			cfg.Compiler.Env[k] = v
		}
	}
	if f.State.Backend != "" {
		cfg.State = domain.StateBackend(strings.ToLower(f.State.Backend))
	}
	if f.Watch.Debounce != "" {
		d, err := time.ParseDuration(f.Watch.Debounce)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "invalid watch.debounce"), "value", f.Watch.Debounce)
		}
		cfg.Debounce = d
	}
	return nil
}

// Validate checks a resolved configuration.
// It is also applied after command-line overrides.
func Validate(cfg *domain.Config) error {
	switch cfg.State {
	case domain.StateBackendFile, domain.StateBackendSQLite:
	default:
		return zerr.With(zerr.Wrap(domain.ErrUnknownStateBackend, "invalid state.backend"), "backend", string(cfg.State))
	}

	var problem error
	switch {
	case cfg.SourceRoot == "":
		problem = zerr.New("source directory is empty")
	case cfg.ArtifactRoot == "":
		problem = zerr.New("artifact directory is empty")
	case strings.Trim(cfg.SourceExt, ".") == "" || strings.Trim(cfg.ArtifactExt, ".") == "":
		problem = zerr.New("source and artifact extensions must be set")
	case cfg.Namer().SourceExt == cfg.Namer().ArtifactExt:
		problem = zerr.With(zerr.New("source and artifact extensions must differ"), "extension", cfg.SourceExt)
	case len(cfg.Compiler.Command) == 0 || cfg.Compiler.Command[0] == "":
		problem = zerr.New("compiler command is empty")
	case cfg.Debounce < 0:
		problem = zerr.With(zerr.New("debounce must not be negative"), "debounce", cfg.Debounce.String())
	}
	if problem != nil {
		return errors.Join(domain.ErrInvalidConfig, problem)
	}

	for _, pattern := range cfg.Ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return errors.Join(domain.ErrInvalidConfig, zerr.With(zerr.Wrap(err, "invalid ignore pattern"), "pattern", pattern))
		}
	}
	return nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func absolute(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

func invalid(err error, path string) error {
	return errors.Join(domain.ErrInvalidConfig, zerr.With(err, "path", path))
}
