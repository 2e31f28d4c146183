package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.trai.ch/incc/internal/core/domain"
	"go.trai.ch/incc/internal/ui/style"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Graph output formats.
const (
	GraphFormatText = "text"
	GraphFormatYAML = "yaml"
)

// GraphOptions configuration for the Graph method.
type GraphOptions struct {
	ConfigOptions
	Format string
}

type graphView struct {
	SourceRoot string     `yaml:"source_root"`
	Units      []unitView `yaml:"units"`
}

type unitView struct {
	Path         string   `yaml:"path"`
	Identity     string   `yaml:"identity"`
	SourceHash   string   `yaml:"source_hash"`
	ArtifactHash string   `yaml:"artifact_hash"`
	DependedOnBy []string `yaml:"depended_on_by,omitempty"`
}

// Graph prints the graph committed by the last build of the artifact root.
func (a *App) Graph(ctx context.Context, opts GraphOptions, w io.Writer) error {
	switch opts.Format {
	case "", GraphFormatText, GraphFormatYAML:
	default:
		return zerr.With(zerr.New("unknown graph format"), "format", opts.Format)
	}

	cfg, err := a.resolveConfig(opts.ConfigOptions)
	if err != nil {
		return err
	}

	store, err := a.opener.Open(cfg.ArtifactRoot, cfg.State)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	g, err := store.LoadGraph(ctx)
	if err != nil {
		return err
	}
	if g == nil {
		a.logger.Info("no build state in " + cfg.ArtifactRoot)
		return nil
	}

	if opts.Format == GraphFormatYAML {
		return writeGraphYAML(w, g)
	}
	return writeGraphText(w, g)
}

func writeGraphText(w io.Writer, g *domain.BuildGraph) error {
	var b strings.Builder
	for rec := range g.Records() {
		fmt.Fprintf(&b, "%s (%s)\n", rec.RelativePath, rec.Identity)
		for _, dep := range rec.Dependents() {
			fmt.Fprintf(&b, "  %s %s\n", style.Arrow, dep)
		}
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return zerr.Wrap(err, "failed to write graph")
	}
	return nil
}

func writeGraphYAML(w io.Writer, g *domain.BuildGraph) error {
	view := graphView{SourceRoot: g.SourceRoot, Units: []unitView{}}
	for rec := range g.Records() {
		view.Units = append(view.Units, unitView{
			Path:         rec.RelativePath,
			Identity:     rec.Identity.String(),
			SourceHash:   rec.SourceHash.String(),
			ArtifactHash: rec.ArtifactHash.String(),
			DependedOnBy: rec.Dependents(),
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return zerr.Wrap(err, "failed to encode graph")
	}
	if err := enc.Close(); err != nil {
		return zerr.Wrap(err, "failed to encode graph")
	}
	return nil
}
