// Package domain contains the core domain models of the incremental build:
// source units, the reverse-dependency graph and the build configuration.
package domain

import (
	"iter"
	"maps"
	"slices"

	"go.trai.ch/zerr"
)

// UnitRecord is the persisted state of one unit compiled by a previous build.
type UnitRecord struct {
	// RelativePath is the unit's key inside its owning graph.
	RelativePath string
	// Identity is the name the unit's artifact declares for itself.
	Identity InternedString
	// SourceHash is the digest of the source at the time it was compiled.
	SourceHash Digest
	// ArtifactHash is the digest of the artifact the compile produced.
	ArtifactHash Digest
	// DependedOnBy holds the keys of the units that reference this one.
	DependedOnBy map[string]struct{}
}

// NewUnitRecord creates a record without reverse edges.
func NewUnitRecord(relPath string, identity InternedString, sourceHash, artifactHash Digest) *UnitRecord {
	return &UnitRecord{
		RelativePath: relPath,
		Identity:     identity,
		SourceHash:   sourceHash,
		ArtifactHash: artifactHash,
		DependedOnBy: make(map[string]struct{}),
	}
}

// Dependents returns the keys of the units that reference this one, sorted.
func (r *UnitRecord) Dependents() []string {
	return slices.Sorted(maps.Keys(r.DependedOnBy))
}

// HasDependent reports whether the unit at relPath references this one.
func (r *UnitRecord) HasDependent(relPath string) bool {
	_, ok := r.DependedOnBy[relPath]
	return ok
}

// withoutEdges copies the record's values but none of its reverse edges.
func (r *UnitRecord) withoutEdges() *UnitRecord {
	return NewUnitRecord(r.RelativePath, r.Identity, r.SourceHash, r.ArtifactHash)
}

// BuildGraph is the reverse-dependency graph of one artifact root.
// Records live in an arena keyed by relative path; edges are keys into the same arena.
type BuildGraph struct {
	SourceRoot string
	records    map[string]*UnitRecord
}

// NewBuildGraph creates an empty graph for the given source root.
func NewBuildGraph(sourceRoot string) *BuildGraph {
	return &BuildGraph{
		SourceRoot: sourceRoot,
		records:    make(map[string]*UnitRecord),
	}
}

// Put inserts or replaces the record stored under its relative path.
func (g *BuildGraph) Put(r *UnitRecord) {
	if r.DependedOnBy == nil {
		r.DependedOnBy = make(map[string]struct{})
	}
	g.records[r.RelativePath] = r
}

// CarryForward copies a record from another graph without its reverse edges.
func (g *BuildGraph) CarryForward(r *UnitRecord) *UnitRecord {
	c := r.withoutEdges()
	g.records[c.RelativePath] = c
	return c
}

// Get returns the record stored under relPath.
func (g *BuildGraph) Get(relPath string) (*UnitRecord, bool) {
	r, ok := g.records[relPath]
	return r, ok
}

// Has reports whether a record is stored under relPath.
func (g *BuildGraph) Has(relPath string) bool {
	_, ok := g.records[relPath]
	return ok
}

// Remove deletes the record under relPath and every edge pointing at it.
func (g *BuildGraph) Remove(relPath string) {
	if _, ok := g.records[relPath]; !ok {
		return
	}
	delete(g.records, relPath)
	for _, r := range g.records {
		delete(r.DependedOnBy, relPath)
	}
}

// AddEdge records that dependent references target.
// Self-references and edges between unknown records are ignored.
// It reports whether the edge was stored.
func (g *BuildGraph) AddEdge(target, dependent string) bool {
	if target == dependent {
		return false
	}
	t, ok := g.records[target]
	if !ok || !g.Has(dependent) {
		return false
	}
	t.DependedOnBy[dependent] = struct{}{}
	return true
}

// Dependents returns the sorted keys of the units that reference relPath.
// It returns nil for unknown paths.
func (g *BuildGraph) Dependents(relPath string) []string {
	r, ok := g.records[relPath]
	if !ok {
		return nil
	}
	return r.Dependents()
}

// Len returns the number of records.
func (g *BuildGraph) Len() int {
	return len(g.records)
}

// Paths returns all relative paths in lexicographic order.
func (g *BuildGraph) Paths() []string {
	return slices.Sorted(maps.Keys(g.records))
}

// Records yields the records in lexicographic path order.
func (g *BuildGraph) Records() iter.Seq[*UnitRecord] {
	return func(yield func(*UnitRecord) bool) {
		for _, p := range g.Paths() {
			if !yield(g.records[p]) {
				return
			}
		}
	}
}

// Validate checks that no record references itself and that every edge points at a record in the graph.
func (g *BuildGraph) Validate() error {
	for r := range g.Records() {
		for dep := range r.DependedOnBy {
			if dep == r.RelativePath {
				return zerr.With(zerr.New("unit lists itself as dependent"), "unit", r.RelativePath)
			}
			if !g.Has(dep) {
				err := zerr.With(zerr.New("dangling reverse edge"), "unit", r.RelativePath)
				return zerr.With(err, "dependent", dep)
			}
		}
	}
	return nil
}
