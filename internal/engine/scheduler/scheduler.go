// Package scheduler implements the incremental compilation scheduler.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"slices"

	"go.trai.ch/incc/internal/core/domain"
	"go.trai.ch/incc/internal/core/ports"
	"go.trai.ch/zerr"
)

// Scheduler decides which units of a source tree must be recompiled,
// drives the compiler over them and rebuilds the reverse-dependency graph.
type Scheduler struct {
	hasher    ports.ContentHasher
	extractor ports.DependencyExtractor
	logger    ports.Logger
	telemetry ports.Telemetry
}

// NewScheduler creates a new Scheduler.
func NewScheduler(
	hasher ports.ContentHasher,
	extractor ports.DependencyExtractor,
	logger ports.Logger,
	telemetry ports.Telemetry,
) *Scheduler {
	return &Scheduler{
		hasher:    hasher,
		extractor: extractor,
		logger:    logger,
		telemetry: telemetry,
	}
}

// Request describes one build run.
type Request struct {
	SourceRoot   string
	ArtifactRoot string
	Namer        domain.ArtifactNamer
	// Units is the current listing of the source root.
	Units []domain.SourceUnit
	// Prior is the graph committed by the previous build. It may be nil.
	Prior    *domain.BuildGraph
	Compiler ports.CompilerInvoker
}

// Result is the outcome of a completed run.
type Result struct {
	Graph  *domain.BuildGraph
	Report *domain.BuildReport
}

// Run performs one incremental build.
// A unit rejected by the compiler is reported, not returned as an error.
// An error means the run was aborted and its graph must not be committed.
func (s *Scheduler) Run(ctx context.Context, req Request) (*Result, error) {
	cc := s.newCompilationContext(req)

	if err := cc.cleanRemoved(); err != nil {
		return nil, err
	}
	if err := cc.compileNewAndChanged(ctx); err != nil {
		return nil, err
	}
	if err := cc.compileRequired(ctx); err != nil {
		return nil, err
	}
	cc.markSkipped(ctx)

	return &Result{
		Graph:  cc.rebuildGraph(),
		Report: cc.buildReport(),
	}, nil
}

// compilationContext is the state of a single run.
type compilationContext struct {
	s     *Scheduler
	req   Request
	prior *domain.BuildGraph
	units map[string]domain.SourceUnit
	order []string

	recompiled map[string]bool
	succeeded  map[string]bool
	// sourceHashes holds the source digests taken right before each compile.
	sourceHashes map[string]domain.Digest

	required    []string
	requiredSet map[string]bool

	removed     []string
	outcomes    map[string]domain.UnitOutcome
	invocations int
}

func (s *Scheduler) newCompilationContext(req Request) *compilationContext {
	prior := req.Prior
	if prior == nil {
		prior = domain.NewBuildGraph(req.SourceRoot)
	}

	units := make(map[string]domain.SourceUnit, len(req.Units))
	order := make([]string, 0, len(req.Units))
	for _, u := range req.Units {
		if _, dup := units[u.RelativePath]; !dup {
			order = append(order, u.RelativePath)
		}
		units[u.RelativePath] = u
	}
	slices.Sort(order)

	return &compilationContext{
		s:            s,
		req:          req,
		prior:        prior,
		units:        units,
		order:        order,
		recompiled:   make(map[string]bool),
		succeeded:    make(map[string]bool),
		sourceHashes: make(map[string]domain.Digest),
		requiredSet:  make(map[string]bool),
		outcomes:     make(map[string]domain.UnitOutcome, len(units)),
	}
}

// require appends path to the required list. It reports whether path was new.
func (cc *compilationContext) require(path string) bool {
	if cc.requiredSet[path] {
		return false
	}
	cc.requiredSet[path] = true
	cc.required = append(cc.required, path)
	return true
}

// presentDependents returns the prior dependents of path that are still in the listing.
func (cc *compilationContext) presentDependents(path string) []string {
	var out []string
	for _, dep := range cc.prior.Dependents(path) {
		if _, ok := cc.units[dep]; ok {
			out = append(out, dep)
		}
	}
	return out
}

// cleanRemoved deletes the artifacts of units whose source disappeared
// and requires their direct dependents.
func (cc *compilationContext) cleanRemoved() error {
	for _, path := range cc.prior.Paths() {
		if _, ok := cc.units[path]; ok {
			continue
		}

		unit, err := cc.req.Namer.Unit(cc.req.SourceRoot, cc.req.ArtifactRoot, path)
		if err != nil {
			cc.s.logger.Warn(fmt.Sprintf("cannot locate artifact of removed unit %s: %v", path, err))
		} else if err := removeArtifact(unit.ArtifactPath); err != nil {
			return err
		}

		cc.s.logger.Info("removed " + path)
		cc.removed = append(cc.removed, path)

		for _, dep := range cc.presentDependents(path) {
			cc.require(dep)
		}
	}
	return nil
}

// compileNewAndChanged compiles every unit that is new or out of date,
// scheduling its prior dependents before the compile.
func (cc *compilationContext) compileNewAndChanged(ctx context.Context) error {
	for _, path := range cc.order {
		unit := cc.units[path]

		if rec, ok := cc.prior.Get(path); ok && !cc.requiresRecompilation(unit, rec) {
			continue
		}

		cc.scheduleDependents(path)

		if _, err := cc.compile(ctx, path); err != nil {
			return err
		}
	}
	return nil
}

// scheduleDependents requires the prior dependents of path transitively.
// A dependent is expanded only the first time it enters the required list.
func (cc *compilationContext) scheduleDependents(path string) {
	worklist := cc.presentDependents(path)
	for len(worklist) > 0 {
		dep := worklist[0]
		worklist = worklist[1:]
		if !cc.require(dep) {
			continue
		}
		worklist = append(worklist, cc.presentDependents(dep)...)
	}
}

// compileRequired compiles the required units not compiled yet.
// A failure cascades through the failed unit's prior dependents.
func (cc *compilationContext) compileRequired(ctx context.Context) error {
	for i := 0; i < len(cc.required); i++ {
		path := cc.required[i]
		if cc.recompiled[path] {
			continue
		}

		ok, err := cc.compile(ctx, path)
		if err != nil {
			return err
		}
		if !ok {
			if err := cc.cascade(ctx, path); err != nil {
				return err
			}
		}
	}
	return nil
}

// cascade compiles the dependents of a failed unit, following further failures.
func (cc *compilationContext) cascade(ctx context.Context, failed string) error {
	stack := cc.presentDependents(failed)
	for len(stack) > 0 {
		path := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cc.recompiled[path] {
			continue
		}

		ok, err := cc.compile(ctx, path)
		if err != nil {
			return err
		}
		if !ok {
			stack = append(stack, cc.presentDependents(path)...)
		}
	}
	return nil
}

// compile invokes the compiler on one unit and marks it recompiled.
// It reports whether the compiler accepted the unit.
func (cc *compilationContext) compile(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, zerr.Wrap(err, "build interrupted")
	}

	unit := cc.units[path]
	cc.s.logger.Info("compiling " + path)
	cc.sourceHashes[path] = cc.hash(unit.SourcePath)

	vctx, vertex := cc.s.telemetry.Record(ctx, path)
	res, err := cc.req.Compiler.Compile(vctx, unit, cc.req.SourceRoot, cc.req.ArtifactRoot)
	cc.invocations++
	if err != nil {
		vertex.Complete(err)
		return false, err
	}

	cc.recompiled[path] = true

	if res.Success {
		vertex.Complete(nil)
		cc.succeeded[path] = true
		cc.outcomes[path] = domain.UnitOutcome{RelativePath: path, Status: domain.UnitStatusCompiled}
		return true, nil
	}

	vertex.Complete(zerr.With(zerr.New("compiler rejected unit"), "unit", path))
	cc.outcomes[path] = domain.UnitOutcome{
		RelativePath: path,
		Status:       domain.UnitStatusFailed,
		Diagnostics:  res.Diagnostics,
	}
	if err := removeArtifact(unit.ArtifactPath); err != nil {
		cc.s.logger.Warn(fmt.Sprintf("cannot delete artifact of failed unit %s: %v", path, err))
	}
	return false, nil
}

// markSkipped records every unit that no phase recompiled as up to date.
func (cc *compilationContext) markSkipped(ctx context.Context) {
	for _, path := range cc.order {
		if cc.recompiled[path] {
			continue
		}
		cc.s.logger.Info(path + " is up to date")
		_, vertex := cc.s.telemetry.Record(ctx, path)
		vertex.Cached()
		vertex.Complete(nil)
		cc.outcomes[path] = domain.UnitOutcome{RelativePath: path, Status: domain.UnitStatusSkipped}
	}
}

// requiresRecompilation compares the unit's current files against its prior record.
func (cc *compilationContext) requiresRecompilation(unit domain.SourceUnit, rec *domain.UnitRecord) bool {
	sourceHash := cc.hash(unit.SourcePath)
	if sourceHash.Missing() {
		return true
	}
	artifactHash := cc.hash(unit.ArtifactPath)
	if artifactHash.Missing() {
		return true
	}
	return sourceHash != rec.SourceHash || artifactHash != rec.ArtifactHash
}

// hash returns the digest of path. A read fault counts as a missing file.
func (cc *compilationContext) hash(path string) domain.Digest {
	d, err := cc.s.hasher.HashFile(path)
	if err != nil {
		cc.s.logger.Warn(fmt.Sprintf("cannot hash %s: %v", path, err))
		return domain.NoDigest
	}
	return d
}

// rebuildGraph assembles the graph to commit from carried-forward and fresh records.
func (cc *compilationContext) rebuildGraph() *domain.BuildGraph {
	next := domain.NewBuildGraph(cc.req.SourceRoot)
	references := make(map[string][]domain.InternedString)

	for _, path := range cc.order {
		if !cc.recompiled[path] {
			if rec, ok := cc.prior.Get(path); ok {
				next.CarryForward(rec)
			}
			continue
		}
		if !cc.succeeded[path] {
			continue
		}

		rec, refs, ok := cc.freshRecord(cc.units[path])
		if !ok {
			continue
		}
		next.Put(rec)
		references[path] = refs
	}

	byIdentity := make(map[domain.InternedString]string, next.Len())
	for rec := range next.Records() {
		if _, taken := byIdentity[rec.Identity]; !taken {
			byIdentity[rec.Identity] = rec.RelativePath
		}
	}

	for _, path := range next.Paths() {
		for _, ref := range references[path] {
			if target, ok := byIdentity[ref]; ok {
				next.AddEdge(target, path)
			}
		}
	}

	for prior := range cc.prior.Records() {
		for _, dependent := range prior.Dependents() {
			if cc.recompiled[dependent] {
				continue
			}
			next.AddEdge(prior.RelativePath, dependent)
		}
	}

	return next
}

// freshRecord hashes and extracts a successfully compiled unit.
// The record carries the source digest taken before the compile.
func (cc *compilationContext) freshRecord(unit domain.SourceUnit) (*domain.UnitRecord, []domain.InternedString, bool) {
	sourceHash := cc.sourceHashes[unit.RelativePath]
	artifactHash := cc.hash(unit.ArtifactPath)
	if sourceHash.Missing() || artifactHash.Missing() {
		cc.s.logger.Warn(fmt.Sprintf("dropping record of %s: source or artifact vanished after compile", unit.RelativePath))
		return nil, nil, false
	}
	if current := cc.hash(unit.SourcePath); current != sourceHash {
		cc.s.logger.Warn(fmt.Sprintf("%s changed while compiling; the next build recompiles it", unit.RelativePath))
	}

	info, err := cc.s.extractor.Extract(unit.ArtifactPath, artifactHash)
	if err != nil {
		cc.s.logger.Warn(fmt.Sprintf("dropping record of %s: %v", unit.RelativePath, err))
		return nil, nil, false
	}

	rec := domain.NewUnitRecord(unit.RelativePath, info.Identity, sourceHash, artifactHash)
	return rec, info.ReferencesOthers(), true
}

// buildReport collects the outcomes of the run.
// Compiled and failed units carry the compile time recorded by telemetry.
func (cc *compilationContext) buildReport() *domain.BuildReport {
	durations := cc.s.telemetry.Durations()

	report := &domain.BuildReport{Invocations: cc.invocations}
	for _, path := range cc.removed {
		report.Add(domain.UnitOutcome{RelativePath: path, Status: domain.UnitStatusRemoved})
	}
	for _, path := range cc.order {
		o, ok := cc.outcomes[path]
		if !ok {
			continue
		}
		if cc.recompiled[path] {
			o.Duration = durations[path]
		}
		report.Add(o)
	}
	report.Sort()
	return report
}

// removeArtifact deletes path. A missing file is not an error.
func removeArtifact(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to delete artifact"), "path", path)
	}
	return nil
}
