package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"go.trai.ch/incc/internal/core/domain"
	"go.trai.ch/zerr"
)

// writerLock is an advisory flock on the artifact root's lock file.
// The kernel releases it when the holding process exits.
type writerLock struct {
	f *os.File
}

func acquireLock(path string) (*writerLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil, zerr.Wrap(err, "failed to create state directory")
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, domain.PrivateFilePerm) //nolint:gosec // Path is derived from the artifact root
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open lock file"), "path", path)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return nil, zerr.With(zerr.Wrap(domain.ErrStoreLocked, "build state is in use by another process"), "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to lock state"), "path", path)
	}

	_ = f.Truncate(0)
	_, _ = fmt.Fprintf(f, "%d\n", os.Getpid())

	return &writerLock{f: f}, nil
}

func (l *writerLock) release() error {
	if l == nil || l.f == nil {
		return nil
	}
	unlockErr := syscall.Flock(int(l.f.Fd()), syscall.LOCK_UN)
	closeErr := l.f.Close()
	l.f = nil
	return errors.Join(unlockErr, closeErr)
}
