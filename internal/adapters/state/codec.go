// Package state implements the durable BuildStateStore backends.
package state

import (
	"go.trai.ch/incc/internal/core/domain"
)

// schemaVersion is bumped whenever the persisted layout changes incompatibly.
const schemaVersion = 1

// graphDTO is the persisted form of a domain.BuildGraph.
type graphDTO struct {
	Version    int       `json:"version"`
	SourceRoot string    `json:"source_root"`
	Units      []unitDTO `json:"units"`
}

// unitDTO is the persisted form of a domain.UnitRecord.
type unitDTO struct {
	Path         string                `json:"path"`
	Identity     domain.InternedString `json:"identity"`
	SourceHash   string                `json:"source_hash"`
	ArtifactHash string                `json:"artifact_hash"`
	DependedOnBy []string              `json:"depended_on_by,omitempty"`
}

func toDTO(g *domain.BuildGraph) graphDTO {
	dto := graphDTO{
		Version:    schemaVersion,
		SourceRoot: g.SourceRoot,
		Units:      make([]unitDTO, 0, g.Len()),
	}
	for r := range g.Records() {
		dto.Units = append(dto.Units, unitDTO{
			Path:         r.RelativePath,
			Identity:     r.Identity,
			SourceHash:   r.SourceHash.String(),
			ArtifactHash: r.ArtifactHash.String(),
			DependedOnBy: r.Dependents(),
		})
	}
	return dto
}

// fromDTO rebuilds the arena. Records are inserted before edges so that edge
// resolution sees every record; an edge to an unknown record makes the graph invalid.
func fromDTO(dto graphDTO) (*domain.BuildGraph, error) {
	g := domain.NewBuildGraph(dto.SourceRoot)
	for _, u := range dto.Units {
		g.Put(domain.NewUnitRecord(u.Path, u.Identity, domain.Digest(u.SourceHash), domain.Digest(u.ArtifactHash)))
	}
	for _, u := range dto.Units {
		r, _ := g.Get(u.Path)
		for _, dep := range u.DependedOnBy {
			r.DependedOnBy[dep] = struct{}{}
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
