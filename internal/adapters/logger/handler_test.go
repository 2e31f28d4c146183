package logger_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/incc/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func newTestHandler(t *testing.T) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	return slog.New(logger.NewHandler(buf, nil)), buf
}

func TestHandler_Handle(t *testing.T) {
	tests := []struct {
		name       string
		log        func(*slog.Logger)
		goldenName string
	}{
		{
			name: "attributes follow the message",
			log: func(lg *slog.Logger) {
				lg.Info("listing sources", slog.String("root", "my sources"), slog.Int("units", 3))
			},
			goldenName: "handler_attrs",
		},
		{
			name: "groups qualify keys",
			log: func(lg *slog.Logger) {
				lg.WithGroup("store").With(slog.String("backend", "sqlite")).
					Warn("retrying", slog.Group("lock", slog.String("path", "classes/.incc/lock")))
			},
			goldenName: "handler_group",
		},
		{
			name: "error attribute expands into its chain",
			log: func(lg *slog.Logger) {
				err := zerr.With(zerr.Wrap(errors.New("exit status 2"), "compiler crashed"), "unit", "com/acme/Main.java")
				lg.Error("build aborted", slog.Any(logger.ErrorKey, err), slog.Int("compiled", 4))
			},
			goldenName: "handler_error_attr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestHandler(t)
			tt.log(lg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestHandler_Enabled(t *testing.T) {
	h := logger.NewHandler(new(bytes.Buffer), &slog.HandlerOptions{Level: slog.LevelWarn})

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestHandler_DebugFiltered(t *testing.T) {
	lg, buf := newTestHandler(t)
	lg.Debug("resolved classpath")
	assert.Empty(t, buf.String())
}

func TestHandler_WithAttrsDoesNotLeak(t *testing.T) {
	lg, buf := newTestHandler(t)

	lg.With(slog.String("unit", "A.java")).Info("compiling")
	lg.Info("compiling")

	require.Equal(t, "compiling unit=A.java\ncompiling\n", buf.String())
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestHandler_Handle_ReturnsWriteError(t *testing.T) {
	h := logger.NewHandler(brokenWriter{}, nil)
	err := h.Handle(context.Background(), slog.NewRecord(time.Time{}, slog.LevelWarn, "cannot hash A.java", 0))
	require.Error(t, err)
}
