package ports

import (
	"context"
	"io"
	"time"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records one vertex per compiler invocation of a build.
type Telemetry interface {
	// Record starts a vertex with the given name.
	// The returned context carries the vertex.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Durations returns the run time of each vertex completed since the previous call,
	// keyed by name, and starts a new recording. Cached vertices are left out.
	Durations() map[string]time.Duration
	// Close flushes the recording session.
	Close() error
}

// Vertex is the recording of a single unit of work.
type Vertex interface {
	// Stdout returns a writer for the work's standard output.
	Stdout() io.Writer
	// Stderr returns a writer for the work's diagnostics.
	Stderr() io.Writer
	// Complete marks the vertex as finished, failed when err is non-nil.
	Complete(err error)
	// Cached marks the vertex as satisfied by the previous build.
	Cached()
}

type vertexKey struct{}

// ContextWithVertex returns a copy of ctx that carries v.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex carried by ctx, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexKey{}).(Vertex)
	return v, ok
}
