package fs

import (
	"errors"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/incc/internal/core/domain"
	"go.trai.ch/incc/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceLister = (*Lister)(nil)

// Lister lists the source units of a tree.
type Lister struct {
	walker *Walker
}

// NewLister creates a new Lister.
func NewLister(walker *Walker) *Lister {
	return &Lister{walker: walker}
}

// List returns the slash-separated relative paths of the files under root carrying ext.
func (l *Lister) List(root, ext string, ignores []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Join(domain.ErrSourceRootUnreadable, zerr.With(zerr.Wrap(err, "failed to stat source root"), "path", root))
	}
	if !info.IsDir() {
		return nil, errors.Join(domain.ErrSourceRootUnreadable, zerr.With(zerr.New("source root is not a directory"), "path", root))
	}

	var paths []string
	for path, err := range l.walker.WalkFiles(root, ignores) {
		if err != nil {
			return nil, errors.Join(domain.ErrSourceRootUnreadable, zerr.With(zerr.Wrap(err, "failed to list source root"), "path", path))
		}
		if filepath.Ext(path) != ext {
			continue
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", path)
		}
		paths = append(paths, filepath.ToSlash(rel))
	}

	slices.Sort(paths)
	return paths, nil
}
