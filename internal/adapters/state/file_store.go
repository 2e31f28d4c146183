package state

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/incc/internal/core/domain"
	"go.trai.ch/incc/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildStateStore = (*FileStore)(nil)

// FileStore implements ports.BuildStateStore with a single JSON file.
// Commit writes a temporary file next to the graph and renames it over the old one,
// so readers only ever observe a complete graph.
type FileStore struct {
	path     string
	lockPath string

	mu     sync.Mutex
	lock   *writerLock
	staged []byte
}

// NewFileStore creates a FileStore for the given artifact root.
func NewFileStore(artifactRoot string) *FileStore {
	return &FileStore{
		path:     filepath.Clean(domain.GraphFilePath(artifactRoot)),
		lockPath: filepath.Clean(domain.LockPath(artifactRoot)),
	}
}

// LoadGraph reads the last committed graph.
func (s *FileStore) LoadGraph(_ context.Context) (*domain.BuildGraph, error) {
	//nolint:gosec // Path is cleaned and derived from the artifact root
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, storeFault(zerr.Wrap(err, "failed to read build graph"), s.path)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var dto graphDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, storeFault(zerr.Wrap(err, "failed to unmarshal build graph"), s.path)
	}
	if dto.Version != schemaVersion {
		return nil, storeFault(zerr.With(zerr.New("unsupported build graph version"), "version", dto.Version), s.path)
	}

	g, err := fromDTO(dto)
	if err != nil {
		return nil, storeFault(zerr.Wrap(err, "build graph is inconsistent"), s.path)
	}
	return g, nil
}

// Begin takes the writer lock.
func (s *FileStore) Begin(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lock != nil {
		return zerr.With(zerr.New("transaction already active"), "path", s.path)
	}

	lock, err := acquireLock(s.lockPath)
	if err != nil {
		return err
	}
	s.lock = lock
	s.staged = nil
	return nil
}

// ReplaceGraph serializes the graph for the pending commit.
func (s *FileStore) ReplaceGraph(graph *domain.BuildGraph) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lock == nil {
		return domain.ErrNoActiveTransaction
	}

	data, err := json.MarshalIndent(toDTO(graph), "", "  ")
	if err != nil {
		return storeFault(zerr.Wrap(err, "failed to marshal build graph"), s.path)
	}
	s.staged = data
	return nil
}

// Commit publishes the staged graph and releases the lock.
// Without a staged graph the previous graph stays in place.
func (s *FileStore) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lock == nil {
		return domain.ErrNoActiveTransaction
	}

	var writeErr error
	if s.staged != nil {
		writeErr = s.writeAtomic(s.staged)
	}
	s.staged = nil

	releaseErr := s.lock.release()
	s.lock = nil

	if writeErr != nil {
		return writeErr
	}
	if releaseErr != nil {
		return storeFault(zerr.Wrap(releaseErr, "failed to release lock"), s.lockPath)
	}
	return nil
}

// Rollback drops the staged graph and releases the lock.
func (s *FileStore) Rollback() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.staged = nil
	if s.lock == nil {
		return nil
	}
	err := s.lock.release()
	s.lock = nil
	return err
}

// Close rolls back an active transaction.
func (s *FileStore) Close() error {
	return s.Rollback()
}

func (s *FileStore) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return storeFault(zerr.Wrap(err, "failed to create state directory"), dir)
	}

	tmp, err := os.CreateTemp(dir, domain.GraphFileName+".*.tmp")
	if err != nil {
		return storeFault(zerr.Wrap(err, "failed to create temporary graph file"), dir)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // Already renamed on success

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return storeFault(zerr.Wrap(err, "failed to write build graph"), tmpName)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return storeFault(zerr.Wrap(err, "failed to sync build graph"), tmpName)
	}
	if err := tmp.Close(); err != nil {
		return storeFault(zerr.Wrap(err, "failed to close build graph"), tmpName)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return storeFault(zerr.Wrap(err, "failed to set graph permissions"), tmpName)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return storeFault(zerr.Wrap(err, "failed to publish build graph"), s.path)
	}

	if d, err := os.Open(dir); err == nil { //nolint:gosec // Directory derived from the artifact root
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

func storeFault(err error, path string) error {
	return errors.Join(domain.ErrStoreFault, zerr.With(err, "path", path))
}
