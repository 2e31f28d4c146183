package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/incc/internal/adapters/watcher"
	"go.trai.ch/incc/internal/core/ports"
	"go.trai.ch/incc/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func waitForEvent(t *testing.T, events <-chan ports.WatchEvent, path string) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "event stream closed before %s was seen", path)
			if ev.Path == path {
				return
			}
		case <-timeout:
			t.Fatalf("no event for %s", path)
		}
	}
}

func TestWatcher_ReportsChangesInNewDirectories(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	root := t.TempDir()
	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, root))
	defer func() { _ = w.Stop() }()

	events := make(chan ports.WatchEvent, 100)
	go func() {
		defer close(events)
		for ev := range w.Events() {
			events <- ev
		}
	}()

	top := filepath.Join(root, "Main.java")
	require.NoError(t, os.WriteFile(top, []byte("class Main {}"), 0o600))
	waitForEvent(t, events, top)

	pkg := filepath.Join(root, "pkg")
	require.NoError(t, os.Mkdir(pkg, 0o750))
	waitForEvent(t, events, pkg)

	// Give the watcher a moment to register the new directory.
	nested := filepath.Join(pkg, "Util.java")
	require.Eventually(t, func() bool {
		if err := os.WriteFile(nested, []byte("class Util {}"), 0o600); err != nil {
			return false
		}
		select {
		case ev := <-events:
			return ev.Path == nested
		case <-time.After(200 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	w, err := watcher.NewWatcher(mocks.NewMockLogger(ctrl))
	require.NoError(t, err)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
