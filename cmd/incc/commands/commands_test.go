package commands_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/incc/cmd/incc/commands"
	"go.trai.ch/incc/internal/app"
	"go.trai.ch/incc/internal/build"
)

type mockApp struct {
	buildFunc func(ctx context.Context, opts app.ConfigOptions) error
	watchFunc func(ctx context.Context, opts app.ConfigOptions) error
	cleanFunc func(ctx context.Context, opts app.CleanOptions) error
	graphFunc func(ctx context.Context, opts app.GraphOptions, w io.Writer) error
}

func (m *mockApp) Build(ctx context.Context, opts app.ConfigOptions) error {
	if m.buildFunc != nil {
		return m.buildFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Watch(ctx context.Context, opts app.ConfigOptions) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Clean(ctx context.Context, opts app.CleanOptions) error {
	if m.cleanFunc != nil {
		return m.cleanFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Graph(ctx context.Context, opts app.GraphOptions, w io.Writer) error {
	if m.graphFunc != nil {
		return m.graphFunc(ctx, opts, w)
	}
	return nil
}

func TestCommands_Build(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.ConfigOptions
		called := false

		mock := &mockApp{
			buildFunc: func(_ context.Context, opts app.ConfigOptions) error {
				captured = opts
				called = true
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{
			"build",
			"--source-dir", "java",
			"--artifact-dir", "out",
			"--config", "custom.yaml",
			"--state", "sqlite",
		})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, app.ConfigOptions{
			ConfigFile:  "custom.yaml",
			SourceDir:   "java",
			ArtifactDir: "out",
			State:       "sqlite",
		}, captured)
	})

	t.Run("defaults leave configuration untouched", func(t *testing.T) {
		var captured app.ConfigOptions
		mock := &mockApp{
			buildFunc: func(_ context.Context, opts app.ConfigOptions) error {
				captured = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"build"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, app.ConfigOptions{}, captured)
	})

	t.Run("returns error on build failure", func(t *testing.T) {
		mock := &mockApp{
			buildFunc: func(_ context.Context, _ app.ConfigOptions) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"build"})
		// Silence output to avoid polluting test logs
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("rejects positional arguments", func(t *testing.T) {
		mock := &mockApp{
			buildFunc: func(_ context.Context, _ app.ConfigOptions) error {
				panic("should not be called")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"build", "Main.java"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		require.Error(t, cli.Execute(context.Background()))
	})
}

func TestCommands_Watch(t *testing.T) {
	var captured app.ConfigOptions
	mock := &mockApp{
		watchFunc: func(_ context.Context, opts app.ConfigOptions) error {
			captured = opts
			return nil
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"watch", "-s", "src", "--debounce", "500ms"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "src", captured.SourceDir)
	assert.Equal(t, 500*time.Millisecond, captured.Debounce)
}

func TestCommands_Clean(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want app.CleanOptions
	}{
		{
			name: "state only",
			args: []string{"clean"},
			want: app.CleanOptions{},
		},
		{
			name: "all",
			args: []string{"clean", "--all", "--artifact-dir", "out"},
			want: app.CleanOptions{ConfigOptions: app.ConfigOptions{ArtifactDir: "out"}, All: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured app.CleanOptions
			mock := &mockApp{
				cleanFunc: func(_ context.Context, opts app.CleanOptions) error {
					captured = opts
					return nil
				},
			}

			cli := commands.New(mock)
			cli.SetArgs(tt.args)

			require.NoError(t, cli.Execute(context.Background()))
			assert.Equal(t, tt.want, captured)
		})
	}
}

func TestCommands_Graph(t *testing.T) {
	t.Run("defaults to text", func(t *testing.T) {
		var captured app.GraphOptions
		mock := &mockApp{
			graphFunc: func(_ context.Context, opts app.GraphOptions, w io.Writer) error {
				captured = opts
				_, err := io.WriteString(w, "Main.java (Main)\n")
				return err
			},
		}

		cli := commands.New(mock)
		buf := new(bytes.Buffer)
		cli.SetOutput(buf, new(bytes.Buffer))
		cli.SetArgs([]string{"graph"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, app.GraphFormatText, captured.Format)
		assert.Equal(t, "Main.java (Main)\n", buf.String())
	})

	t.Run("yaml format", func(t *testing.T) {
		var captured app.GraphOptions
		mock := &mockApp{
			graphFunc: func(_ context.Context, opts app.GraphOptions, _ io.Writer) error {
				captured = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"graph", "--format", "yaml", "-d", "classes"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, app.GraphFormatYAML, captured.Format)
		assert.Equal(t, "classes", captured.ArtifactDir)
	})
}

func TestCommands_Version(t *testing.T) {
	mock := &mockApp{}
	cli := commands.New(mock)

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	err := cli.Execute(context.Background())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), build.Version)
}
