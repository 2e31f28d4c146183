package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/incc/internal/core/domain"
)

func TestBuildReport(t *testing.T) {
	r := &domain.BuildReport{}
	r.Add(domain.UnitOutcome{RelativePath: "b/B.java", Status: domain.UnitStatusFailed, Diagnostics: "boom"})
	r.Add(domain.UnitOutcome{RelativePath: "a/A.java", Status: domain.UnitStatusCompiled})
	r.Add(domain.UnitOutcome{RelativePath: "c/C.java", Status: domain.UnitStatusSkipped})
	r.Sort()

	assert.Equal(t, "a/A.java", r.Outcomes[0].RelativePath)
	assert.Equal(t, 1, r.Count(domain.UnitStatusFailed))
	assert.True(t, r.Failed())

	o, ok := r.Outcome("b/B.java")
	assert.True(t, ok)
	assert.Equal(t, "boom", o.Diagnostics)

	_, ok = r.Outcome("missing")
	assert.False(t, ok)
}

func TestLayoutPaths(t *testing.T) {
	assert.Equal(t, "classes/.incc", domain.StatePath("classes"))
	assert.Equal(t, "classes/.incc/graph.json", domain.GraphFilePath("classes"))
	assert.Equal(t, "classes/.incc/graph.db", domain.GraphDBPath("classes"))
	assert.Equal(t, "classes/.incc/lock", domain.LockPath("classes"))
}
