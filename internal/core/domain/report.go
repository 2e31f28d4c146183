package domain

import (
	"slices"
	"strings"
	"time"
)

// UnitStatus is what happened to a unit during one build run.
type UnitStatus string

const (
	// UnitStatusCompiled indicates the unit was compiled successfully.
	UnitStatusCompiled UnitStatus = "compiled"
	// UnitStatusFailed indicates the compiler rejected the unit.
	UnitStatusFailed UnitStatus = "failed"
	// UnitStatusSkipped indicates the unit was up to date.
	UnitStatusSkipped UnitStatus = "skipped"
	// UnitStatusRemoved indicates the unit's source disappeared and its artifact was cleaned.
	UnitStatusRemoved UnitStatus = "removed"
)

// CompileResult is the outcome of one compiler invocation.
// A failed compile is a value, not an error.
type CompileResult struct {
	Success     bool
	Diagnostics string
}

// UnitOutcome records what happened to one unit.
type UnitOutcome struct {
	RelativePath string
	Status       UnitStatus
	// Diagnostics is the compiler output, verbatim, for failed units.
	Diagnostics string
	// Duration is the time the compiler spent on the unit. Zero when unknown or not compiled.
	Duration time.Duration
}

// BuildReport summarizes one build run.
type BuildReport struct {
	Outcomes []UnitOutcome
	// Invocations counts compiler invocations.
	Invocations int
}

// Add appends an outcome.
func (r *BuildReport) Add(o UnitOutcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Sort orders outcomes by relative path.
func (r *BuildReport) Sort() {
	slices.SortStableFunc(r.Outcomes, func(a, b UnitOutcome) int {
		return strings.Compare(a.RelativePath, b.RelativePath)
	})
}

// Count returns the number of outcomes with the given status.
func (r *BuildReport) Count(status UnitStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Failed reports whether any unit failed to compile.
func (r *BuildReport) Failed() bool {
	return r.Count(UnitStatusFailed) > 0
}

// Outcome returns the outcome recorded for relPath.
func (r *BuildReport) Outcome(relPath string) (UnitOutcome, bool) {
	for _, o := range r.Outcomes {
		if o.RelativePath == relPath {
			return o, true
		}
	}
	return UnitOutcome{}, false
}
