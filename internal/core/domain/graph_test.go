package domain_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/incc/internal/core/domain"
)

func newRecord(path string) *domain.UnitRecord {
	return domain.NewUnitRecord(path, domain.NewInternedString(path), "s-"+domain.Digest(path), "a-"+domain.Digest(path))
}

func TestBuildGraph_AddEdge(t *testing.T) {
	g := domain.NewBuildGraph("/src")
	g.Put(newRecord("A.java"))
	g.Put(newRecord("B.java"))

	assert.True(t, g.AddEdge("A.java", "B.java"))
	assert.False(t, g.AddEdge("A.java", "A.java"), "self references are filtered")
	assert.False(t, g.AddEdge("A.java", "Missing.java"), "edges to unknown dependents are ignored")
	assert.False(t, g.AddEdge("Missing.java", "A.java"), "edges from unknown targets are ignored")

	assert.Equal(t, []string{"B.java"}, g.Dependents("A.java"))
	assert.Empty(t, g.Dependents("B.java"))
	assert.Nil(t, g.Dependents("Missing.java"))
	require.NoError(t, g.Validate())
}

func TestBuildGraph_RemoveDropsDanglingEdges(t *testing.T) {
	g := domain.NewBuildGraph("/src")
	for _, p := range []string{"A.java", "B.java", "C.java"} {
		g.Put(newRecord(p))
	}
	g.AddEdge("A.java", "B.java")
	g.AddEdge("A.java", "C.java")
	g.AddEdge("B.java", "C.java")

	g.Remove("C.java")

	assert.False(t, g.Has("C.java"))
	assert.Equal(t, []string{"B.java"}, g.Dependents("A.java"))
	assert.Empty(t, g.Dependents("B.java"))
	require.NoError(t, g.Validate())

	g.Remove("C.java")
	assert.Equal(t, 2, g.Len())
}

func TestBuildGraph_Validate(t *testing.T) {
	t.Run("dangling edge", func(t *testing.T) {
		g := domain.NewBuildGraph("/src")
		r := newRecord("A.java")
		r.DependedOnBy["Ghost.java"] = struct{}{}
		g.Put(r)

		err := g.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dangling reverse edge")
	})

	t.Run("self edge", func(t *testing.T) {
		g := domain.NewBuildGraph("/src")
		r := newRecord("A.java")
		r.DependedOnBy["A.java"] = struct{}{}
		g.Put(r)

		err := g.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "lists itself")
	})
}

func TestBuildGraph_CarryForwardCopiesWithoutEdges(t *testing.T) {
	prior := domain.NewBuildGraph("/src")
	prior.Put(newRecord("A.java"))
	prior.Put(newRecord("B.java"))
	prior.AddEdge("A.java", "B.java")

	next := domain.NewBuildGraph("/src")
	carried := next.CarryForward(mustGet(t, prior, "A.java"))

	assert.Equal(t, "s-A.java", carried.SourceHash.String())
	assert.Equal(t, "A.java", carried.Identity.String())
	assert.Empty(t, carried.DependedOnBy)

	carried.DependedOnBy["X"] = struct{}{}
	assert.Equal(t, []string{"B.java"}, prior.Dependents("A.java"), "prior graph is untouched")
}

func TestBuildGraph_RecordsAreOrdered(t *testing.T) {
	g := domain.NewBuildGraph("/src")
	for _, p := range []string{"b/Z.java", "a/Y.java", "a/X.java"} {
		g.Put(newRecord(p))
	}

	var got []string
	for r := range g.Records() {
		got = append(got, r.RelativePath)
	}

	assert.Equal(t, []string{"a/X.java", "a/Y.java", "b/Z.java"}, got)
	assert.True(t, slices.IsSorted(g.Paths()))
}

func mustGet(t *testing.T, g *domain.BuildGraph, path string) *domain.UnitRecord {
	t.Helper()
	r, ok := g.Get(path)
	require.True(t, ok, "record %s missing", path)
	return r
}
