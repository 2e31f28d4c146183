package state

import (
	"path/filepath"

	"go.trai.ch/incc/internal/core/domain"
	"go.trai.ch/incc/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.StateStoreOpener = (*Opener)(nil)

// Opener selects the BuildStateStore backend of an artifact root.
type Opener struct{}

// NewOpener creates a new Opener.
func NewOpener() *Opener {
	return &Opener{}
}

// Open returns the store of the artifact root for the given backend.
func (o *Opener) Open(artifactRoot string, backend domain.StateBackend) (ports.BuildStateStore, error) {
	switch backend {
	case domain.StateBackendFile, "":
		return NewFileStore(artifactRoot), nil
	case domain.StateBackendSQLite:
		store, err := OpenSQLiteStore(artifactRoot)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownStateBackend, "cannot open build state"), "backend", string(backend))
	}
}

// Lock takes the writer lock of the artifact root, the one Begin takes.
func (o *Opener) Lock(artifactRoot string) (func() error, error) {
	lock, err := acquireLock(filepath.Clean(domain.LockPath(artifactRoot)))
	if err != nil {
		return nil, err
	}
	return lock.release, nil
}
