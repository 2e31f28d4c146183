package progrock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vprogrock "github.com/vito/progrock"
	"go.trai.ch/incc/internal/adapters/telemetry/progrock"
	"go.trai.ch/incc/internal/core/ports"
)

func fakeClock(t *testing.T) clockwork.FakeClock {
	t.Helper()
	clock := clockwork.NewFakeClock()
	prev := vprogrock.Clock
	vprogrock.Clock = clock
	t.Cleanup(func() { vprogrock.Clock = prev })
	return clock
}

func TestNew(t *testing.T) {
	recorder := progrock.New()
	assert.NotNil(t, recorder)
}

func TestRecorder_RecordCarriesVertex(t *testing.T) {
	recorder := progrock.New()

	ctx, vertex := recorder.Record(context.Background(), "compile com/acme/Main.java")
	require.NotNil(t, vertex)

	fromCtx, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, vertex, fromCtx)

	_, err := vertex.Stdout().Write([]byte("Standard Output\n"))
	require.NoError(t, err)
	_, err = vertex.Stderr().Write([]byte("Main.java:1: error\n"))
	require.NoError(t, err)

	vertex.Complete(errors.New("compilation failed"))

	_, cached := recorder.Record(context.Background(), "compile Util.java")
	cached.Cached()
	cached.Complete(nil)

	require.NoError(t, recorder.Close())
}

func TestRecorder_Durations(t *testing.T) {
	clock := fakeClock(t)
	recorder := progrock.New()

	_, compiled := recorder.Record(context.Background(), "Main.java")
	clock.Advance(250 * time.Millisecond)
	compiled.Complete(nil)

	_, broken := recorder.Record(context.Background(), "Broken.java")
	clock.Advance(40 * time.Millisecond)
	broken.Complete(errors.New("compiler rejected unit"))

	_, util := recorder.Record(context.Background(), "Util.java")
	util.Cached()
	util.Complete(nil)

	_, running := recorder.Record(context.Background(), "Slow.java")

	assert.Equal(t, map[string]time.Duration{
		"Main.java":   250 * time.Millisecond,
		"Broken.java": 40 * time.Millisecond,
	}, recorder.Durations())

	running.Complete(nil)
	assert.Empty(t, recorder.Durations(), "each call starts a new recording")

	_, again := recorder.Record(context.Background(), "Main.java")
	clock.Advance(time.Second)
	again.Complete(nil)
	assert.Equal(t, map[string]time.Duration{"Main.java": time.Second}, recorder.Durations())

	require.NoError(t, recorder.Close())
}

func TestRecorder_DurationsWithoutTape(t *testing.T) {
	recorder := progrock.NewRecorder(vprogrock.Discard{})

	_, v := recorder.Record(context.Background(), "Main.java")
	v.Complete(nil)

	assert.Nil(t, recorder.Durations())
}
