package domain

import (
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// ArtifactNamer maps source-unit paths to artifact paths by extension substitution.
type ArtifactNamer struct {
	SourceExt   string
	ArtifactExt string
}

// NewArtifactNamer creates an ArtifactNamer. Extensions are normalized to carry a leading dot.
func NewArtifactNamer(sourceExt, artifactExt string) ArtifactNamer {
	return ArtifactNamer{
		SourceExt:   normalizeExt(sourceExt),
		ArtifactExt: normalizeExt(artifactExt),
	}
}

// ArtifactPathFor returns the relative artifact path of a relative source path.
func (n ArtifactNamer) ArtifactPathFor(sourceRel string) (string, error) {
	return swapExt(sourceRel, n.SourceExt, n.ArtifactExt)
}

// SourcePathFor returns the relative source path of a relative artifact path.
func (n ArtifactNamer) SourcePathFor(artifactRel string) (string, error) {
	return swapExt(artifactRel, n.ArtifactExt, n.SourceExt)
}

// Unit builds the SourceUnit of a relative source path under the given roots.
func (n ArtifactNamer) Unit(sourceRoot, artifactRoot, sourceRel string) (SourceUnit, error) {
	artifactRel, err := n.ArtifactPathFor(sourceRel)
	if err != nil {
		return SourceUnit{}, err
	}
	return SourceUnit{
		RelativePath: sourceRel,
		SourcePath:   filepath.Join(sourceRoot, filepath.FromSlash(sourceRel)),
		ArtifactPath: filepath.Join(artifactRoot, filepath.FromSlash(artifactRel)),
	}, nil
}

// MatchesSource reports whether the path carries the source extension.
func (n ArtifactNamer) MatchesSource(p string) bool {
	return path.Ext(filepath.ToSlash(p)) == n.SourceExt
}

func swapExt(p, from, to string) (string, error) {
	ext := path.Ext(p)
	if ext != from || strings.TrimSuffix(path.Base(p), ext) == "" {
		err := zerr.With(zerr.Wrap(ErrInvalidExtension, "cannot map path"), "path", p)
		return "", zerr.With(err, "expected", from)
	}
	return strings.TrimSuffix(p, ext) + to, nil
}

func normalizeExt(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}
