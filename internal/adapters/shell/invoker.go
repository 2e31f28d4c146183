// Package shell runs the external compiler as a child process.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"go.trai.ch/incc/internal/core/domain"
	"go.trai.ch/incc/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.CompilerInvoker = (*Invoker)(nil)
	_ ports.CompilerFactory = (*Factory)(nil)
)

// Factory implements ports.CompilerFactory.
type Factory struct{}

// NewFactory creates a new Factory.
func NewFactory() *Factory {
	return &Factory{}
}

// NewInvoker resolves the compiler environment of spec and returns its invoker.
func (f *Factory) NewInvoker(spec domain.CompilerSpec) (ports.CompilerInvoker, error) {
	inv, err := NewInvoker(spec)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Invoker implements ports.CompilerInvoker using os/exec.
type Invoker struct {
	command []string
	env     []string
}

// NewInvoker creates an Invoker for the given compiler spec.
// The environment is resolved once with the following priority (low to high):
// 1. os.Environ() (System base)
// 2. spec.EnvFile (dotenv file; its PATH is prepended to the system PATH)
// 3. spec.Env (User-defined overrides)
func NewInvoker(spec domain.CompilerSpec) (*Invoker, error) {
	if len(spec.Command) == 0 || spec.Command[0] == "" {
		return nil, errors.Join(domain.ErrInvalidConfig, zerr.New("compiler command is empty"))
	}

	var fileEnv map[string]string
	if spec.EnvFile != "" {
		var err error
		fileEnv, err = godotenv.Read(spec.EnvFile)
		if err != nil {
			err = zerr.With(zerr.Wrap(err, "failed to read compiler env file"), "path", spec.EnvFile)
			return nil, errors.Join(domain.ErrInvalidConfig, err)
		}
	}

	return &Invoker{
		command: slices.Clone(spec.Command),
		env:     resolveEnvironment(os.Environ(), fileEnv, spec.Env),
	}, nil
}

// Compile runs the compiler on one unit and captures its combined output.
// A non-zero exit is a rejected unit, not an error.
func (i *Invoker) Compile(
	ctx context.Context,
	unit domain.SourceUnit,
	sourceRoot, artifactRoot string,
) (domain.CompileResult, error) {
	argv := expandCommand(i.command, unit, sourceRoot, artifactRoot)
	name := argv[0]

	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, i.env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, argv[1:]...) //nolint:gosec // user provided command
	// exec.CommandContext sets Args[0] to the executable path; keep the name as configured.
	cmd.Args[0] = name
	cmd.Env = i.env

	out := &lockedBuffer{}
	var stdout, stderr io.Writer = out, out
	if v, ok := ports.VertexFromContext(ctx); ok {
		stdout = io.MultiWriter(out, v.Stdout())
		stderr = io.MultiWriter(out, v.Stderr())
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.CompileResult{}, zerr.With(zerr.Wrap(ctxErr, "compiler interrupted"), "unit", unit.RelativePath)
		}
		err = zerr.With(zerr.Wrap(err, "failed to start compiler"), "command", name)
		return domain.CompileResult{}, errors.Join(domain.ErrCompilerUnavailable, err)
	}

	err := cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.CompileResult{}, zerr.With(zerr.Wrap(ctxErr, "compiler interrupted"), "unit", unit.RelativePath)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return domain.CompileResult{}, zerr.With(zerr.Wrap(err, "failed to wait for compiler"), "unit", unit.RelativePath)
		}
		return domain.CompileResult{Success: false, Diagnostics: out.String()}, nil
	}

	return domain.CompileResult{Success: true, Diagnostics: out.String()}, nil
}

func expandCommand(template []string, unit domain.SourceUnit, sourceRoot, artifactRoot string) []string {
	r := strings.NewReplacer(
		"{source}", unit.SourcePath,
		"{source_root}", sourceRoot,
		"{artifact_root}", artifactRoot,
	)
	argv := make([]string, len(template))
	for i, arg := range template {
		argv[i] = r.Replace(arg)
	}
	return argv
}

// lockedBuffer collects stdout and stderr into one stream.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// resolveEnvironment merges environment variables with the defined priority.
func resolveEnvironment(sysEnv []string, fileEnv, specEnv map[string]string) []string {
	// 1. Start with System Environment
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			envMap[k] = v
		}
	}

	// 2. Apply the env file (Prepend PATH)
	for k, v := range fileEnv {
		if k == "PATH" {
			if sysPath, exists := envMap["PATH"]; exists && sysPath != "" {
				envMap[k] = v + string(os.PathListSeparator) + sysPath
				continue
			}
		}
		envMap[k] = v
	}

	// 3. Apply compiler.env overrides
	for k, v := range specEnv {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
