package classfile

import (
	"errors"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/incc/internal/core/domain"
	"go.trai.ch/incc/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DependencyExtractor = (*Extractor)(nil)

// DefaultCacheSize is the number of parsed class files kept in memory.
const DefaultCacheSize = 4096

type cacheKey struct {
	path   string
	digest domain.Digest
}

// Extractor implements ports.DependencyExtractor for JVM class files.
// Results are cached by path and content digest.
type Extractor struct {
	cache *lru.Cache[cacheKey, *domain.DependencyInfo]
}

// NewExtractor creates an Extractor with a cache of the given size.
func NewExtractor(cacheSize int) (*Extractor, error) {
	cache, err := lru.New[cacheKey, *domain.DependencyInfo](cacheSize)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create extraction cache")
	}
	return &Extractor{cache: cache}, nil
}

// Extract parses the class file at path.
// An artifact without a digest is always parsed and never cached.
func (e *Extractor) Extract(path string, artifactHash domain.Digest) (*domain.DependencyInfo, error) {
	key := cacheKey{path: path, digest: artifactHash}
	cacheable := !artifactHash.Missing()
	if cacheable {
		if cached, ok := e.cache.Get(key); ok {
			return cached, nil
		}
	}

	//nolint:gosec // Artifact paths are derived from the artifact root
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, unreadable(zerr.Wrap(err, "failed to read artifact"), path)
	}

	dep, err := Parse(data)
	if err != nil {
		return nil, unreadable(zerr.Wrap(err, "failed to parse class file"), path)
	}

	if cacheable {
		e.cache.Add(key, dep)
	}
	return dep, nil
}

func unreadable(err error, path string) error {
	return errors.Join(domain.ErrUnreadableArtifact, zerr.With(err, "path", path))
}
