// Package telemetry holds telemetry adapters that need no external backend.
package telemetry

import (
	"context"
	"io"
	"time"

	"go.trai.ch/incc/internal/core/ports"
)

var _ ports.Telemetry = (*Noop)(nil)

// Noop is a ports.Telemetry that records nothing.
type Noop struct{}

// NewNoop creates a new Noop telemetry.
func NewNoop() *Noop {
	return &Noop{}
}

// Record returns ctx unchanged and a vertex that discards everything.
func (n *Noop) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, noopVertex{}
}

// Durations returns nil.
func (n *Noop) Durations() map[string]time.Duration {
	return nil
}

// Close does nothing.
func (n *Noop) Close() error {
	return nil
}

type noopVertex struct{}

func (noopVertex) Stdout() io.Writer { return io.Discard }
func (noopVertex) Stderr() io.Writer { return io.Discard }
func (noopVertex) Complete(error)    {}
func (noopVertex) Cached()           {}
