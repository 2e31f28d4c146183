package ports

import "go.trai.ch/incc/internal/core/domain"

// DependencyExtractor reads the identity and references out of a compiled artifact.
//
//go:generate go run go.uber.org/mock/mockgen -source=extractor.go -destination=mocks/mock_extractor.go -package=mocks
type DependencyExtractor interface {
	// Extract parses the artifact at path whose content digest is artifactHash.
	// Results may be cached per (path, artifactHash); domain.NoDigest disables the cache.
	// It fails with domain.ErrUnreadableArtifact if the artifact is missing or malformed.
	Extract(path string, artifactHash domain.Digest) (*domain.DependencyInfo, error)
}
