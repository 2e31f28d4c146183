package ports

import "go.trai.ch/incc/internal/core/domain"

// ConfigLoader defines the interface for loading the build configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load resolves the configuration for a build started in cwd.
	// An empty file searches cwd and its parents for incc.yaml; finding none yields the defaults.
	// A non-empty file must exist. Relative paths in the result are made absolute.
	Load(cwd, file string) (*domain.Config, error)
}
