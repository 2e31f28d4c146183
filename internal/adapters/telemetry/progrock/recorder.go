// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"
	"sync"
	"time"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/incc/internal/core/ports"
)

var _ ports.Telemetry = (*Recorder)(nil)

// Recorder implements the ports.Telemetry interface using the vito/progrock library.
// Vertices are recorded onto a tape that Durations reads back and replaces.
type Recorder struct {
	mu   sync.Mutex
	w    progrock.Writer
	tape *progrock.Tape
	rec  *progrock.Recorder
}

// New creates a new Recorder with a default tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a new Recorder with the given writer.
// Durations reports nothing unless w is a *progrock.Tape.
func NewRecorder(w progrock.Writer) *Recorder {
	tape, _ := w.(*progrock.Tape)
	return &Recorder{
		w:    w,
		tape: tape,
		rec:  progrock.NewRecorder(w),
	}
}

// Record starts recording a new vertex.
// The vertex digest is derived from the name, so a unit keeps its vertex across rebuilds of a watch session.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	r.mu.Lock()
	rec := r.rec
	r.mu.Unlock()

	v := rec.Vertex(digest.FromString(name), name)
	vertex := &Vertex{vertex: v}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Durations reads the completed vertices off the current tape and swaps in a fresh one,
// so a long watch session does not accumulate vertices.
func (r *Recorder) Durations() map[string]time.Duration {
	r.mu.Lock()
	tape := r.tape
	if tape != nil {
		r.tape = progrock.NewTape()
		r.w = r.tape
		r.rec = progrock.NewRecorder(r.tape)
	}
	r.mu.Unlock()

	if tape == nil {
		return nil
	}
	defer func() {
		_ = tape.Close()
	}()

	out := make(map[string]time.Duration)
	for _, v := range tape.Vertices() {
		if v.Cached || v.Started == nil || v.Completed == nil {
			continue
		}
		out[v.Name] = v.Completed.AsTime().Sub(v.Started.AsTime())
	}
	return out
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
