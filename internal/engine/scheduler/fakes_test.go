package scheduler_test

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/incc/internal/adapters/fs" //nolint:depguard // real hashing in tests
	"go.trai.ch/incc/internal/adapters/telemetry"
	"go.trai.ch/incc/internal/core/domain"
	"go.trai.ch/incc/internal/core/ports"
	"go.trai.ch/incc/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// Sources of the fake toolchain are line based:
//
//	class <identity>
//	uses <identity>
//	broken       the compiler rejects the unit
//	noartifact   the compiler succeeds without writing an artifact
//	garbled      the compiler writes an artifact the extractor cannot read
type fakeSource struct {
	identity   string
	uses       []string
	broken     bool
	noArtifact bool
	garbled    bool
}

func parseFakeSource(data []byte) fakeSource {
	var src fakeSource
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "class "):
			src.identity = strings.TrimPrefix(line, "class ")
		case strings.HasPrefix(line, "uses "):
			src.uses = append(src.uses, strings.TrimPrefix(line, "uses "))
		case line == "broken":
			src.broken = true
		case line == "noartifact":
			src.noArtifact = true
		case line == "garbled":
			src.garbled = true
		}
	}
	return src
}

// fakeCompiler resolves references against the sources in the source root,
// the way javac does with -sourcepath. Identities under java/ belong to the platform.
type fakeCompiler struct {
	mu       sync.Mutex
	compiled []string
	startErr error
}

func (c *fakeCompiler) Compile(_ context.Context, unit domain.SourceUnit, sourceRoot, _ string) (domain.CompileResult, error) {
	c.mu.Lock()
	c.compiled = append(c.compiled, unit.RelativePath)
	c.mu.Unlock()

	if c.startErr != nil {
		return domain.CompileResult{}, c.startErr
	}

	data, err := os.ReadFile(unit.SourcePath)
	if err != nil {
		return domain.CompileResult{}, err
	}
	src := parseFakeSource(data)

	if src.broken {
		return domain.CompileResult{Diagnostics: unit.RelativePath + ": error: broken\n"}, nil
	}

	declared, err := declaredIdentities(sourceRoot)
	if err != nil {
		return domain.CompileResult{}, err
	}
	for _, ref := range src.uses {
		if strings.HasPrefix(ref, "java/") {
			continue
		}
		broken, ok := declared[ref]
		if !ok {
			return domain.CompileResult{Diagnostics: unit.RelativePath + ": error: cannot find symbol " + ref + "\n"}, nil
		}
		if broken {
			return domain.CompileResult{Diagnostics: unit.RelativePath + ": error: " + ref + " does not compile\n"}, nil
		}
	}

	if src.noArtifact {
		_ = os.Remove(unit.ArtifactPath)
		return domain.CompileResult{Success: true}, nil
	}

	content := "class " + src.identity + "\n"
	for _, ref := range src.uses {
		content += "uses " + ref + "\n"
	}
	if src.garbled {
		content = "\xca\xfe"
	}

	if err := os.MkdirAll(filepath.Dir(unit.ArtifactPath), 0o750); err != nil {
		return domain.CompileResult{}, err
	}
	if err := os.WriteFile(unit.ArtifactPath, []byte(content), 0o600); err != nil {
		return domain.CompileResult{}, err
	}
	return domain.CompileResult{Success: true}, nil
}

func (c *fakeCompiler) reset() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.compiled
	c.compiled = nil
	return out
}

// editingCompiler runs fakeCompiler and then calls edit with the compiled unit,
// like an editor saving the source while the compiler is still running.
type editingCompiler struct {
	*fakeCompiler
	edit func(unit domain.SourceUnit)
}

func (c *editingCompiler) Compile(ctx context.Context, unit domain.SourceUnit, sourceRoot, artifactRoot string) (domain.CompileResult, error) {
	res, err := c.fakeCompiler.Compile(ctx, unit, sourceRoot, artifactRoot)
	c.edit(unit)
	return res, err
}

// declaredIdentities maps every identity declared under root to whether its source is broken.
func declaredIdentities(root string) (map[string]bool, error) {
	out := make(map[string]bool)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		src := parseFakeSource(data)
		out[src.identity] = src.broken
		return nil
	})
	return out, err
}

// fakeExtractor reads artifacts written by fakeCompiler.
// Like a real class file, every artifact lists its own identity among its references.
type fakeExtractor struct{}

func (fakeExtractor) Extract(path string, _ domain.Digest) (*domain.DependencyInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(domain.ErrUnreadableArtifact, zerr.With(err, "path", path))
	}
	if !strings.HasPrefix(string(data), "class ") {
		return nil, errors.Join(domain.ErrUnreadableArtifact, zerr.With(zerr.New("bad magic"), "path", path))
	}
	src := parseFakeSource(data)
	info := &domain.DependencyInfo{Identity: domain.NewInternedString(src.identity)}
	info.References = append(info.References, info.Identity)
	info.References = append(info.References, domain.NewInternedStrings(src.uses)...)
	return info, nil
}

type fakeLogger struct {
	mu    sync.Mutex
	infos []string
	warns []string
	errs  []error
}

func (l *fakeLogger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *fakeLogger) Warn(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *fakeLogger) Error(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, err)
}

// faultyHasher fails to hash the paths listed in faults.
type faultyHasher struct {
	ports.ContentHasher
	faults map[string]bool
}

func (h *faultyHasher) HashFile(path string) (domain.Digest, error) {
	if h.faults[path] {
		return domain.NoDigest, zerr.With(zerr.New("input/output error"), "path", path)
	}
	return h.ContentHasher.HashFile(path)
}

// project is a source tree with an artifact root and the graph of its last build.
type project struct {
	t         *testing.T
	src       string
	out       string
	namer     domain.ArtifactNamer
	compiler  *fakeCompiler
	logger    *fakeLogger
	hasher    ports.ContentHasher
	telemetry ports.Telemetry
	lister    *fs.Lister
	graph     *domain.BuildGraph
}

func newProject(t *testing.T) *project {
	t.Helper()
	root := t.TempDir()
	walker := fs.NewWalker()
	return &project{
		t:         t,
		src:       filepath.Join(root, "src"),
		out:       filepath.Join(root, "classes"),
		namer:     domain.NewArtifactNamer(".java", ".class"),
		compiler:  &fakeCompiler{},
		logger:    &fakeLogger{},
		hasher:    fs.NewHasher(walker),
		telemetry: telemetry.NewNoop(),
		lister:    fs.NewLister(walker),
	}
}

func (p *project) write(rel string, lines ...string) {
	p.t.Helper()
	path := filepath.Join(p.src, filepath.FromSlash(rel))
	require.NoError(p.t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(p.t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
}

func (p *project) remove(rel string) {
	p.t.Helper()
	require.NoError(p.t, os.Remove(filepath.Join(p.src, filepath.FromSlash(rel))))
}

func (p *project) artifact(rel string) string {
	p.t.Helper()
	unit, err := p.namer.Unit(p.src, p.out, rel)
	require.NoError(p.t, err)
	return unit.ArtifactPath
}

func (p *project) request() scheduler.Request {
	p.t.Helper()
	rels, err := p.lister.List(p.src, p.namer.SourceExt, nil)
	require.NoError(p.t, err)

	units := make([]domain.SourceUnit, 0, len(rels))
	for _, rel := range rels {
		unit, err := p.namer.Unit(p.src, p.out, rel)
		require.NoError(p.t, err)
		units = append(units, unit)
	}
	return scheduler.Request{
		SourceRoot:   p.src,
		ArtifactRoot: p.out,
		Namer:        p.namer,
		Units:        units,
		Prior:        p.graph,
		Compiler:     p.compiler,
	}
}

func (p *project) scheduler() *scheduler.Scheduler {
	return scheduler.NewScheduler(p.hasher, fakeExtractor{}, p.logger, p.telemetry)
}

// build runs the scheduler and keeps the resulting graph as the prior of the next build.
func (p *project) build() *scheduler.Result {
	p.t.Helper()
	p.compiler.reset()
	res, err := p.scheduler().Run(context.Background(), p.request())
	require.NoError(p.t, err)
	require.NoError(p.t, res.Graph.Validate())
	p.graph = res.Graph
	return res
}

// cleanBuild compiles the current sources from scratch into a new artifact root
// and returns the digest of the artifacts it produced.
func (p *project) cleanBuild() domain.Digest {
	p.t.Helper()
	fresh := *p
	fresh.out = p.t.TempDir()
	fresh.graph = nil
	fresh.compiler = &fakeCompiler{}
	fresh.build()
	return fresh.digest()
}

func (p *project) digest() domain.Digest {
	p.t.Helper()
	d, err := p.hasher.HashTree(p.out, []string{p.namer.ArtifactExt})
	require.NoError(p.t, err)
	return d
}

// edges lists every reverse edge of g as "target <- dependent".
func edges(g *domain.BuildGraph) []string {
	var out []string
	for rec := range g.Records() {
		for _, dep := range rec.Dependents() {
			out = append(out, rec.RelativePath+" <- "+dep)
		}
	}
	return out
}
