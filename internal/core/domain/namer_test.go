package domain_test

import (
	"errors"
	"path/filepath"
	"testing"

	"go.trai.ch/incc/internal/core/domain"
)

func TestArtifactNamer_ArtifactPathFor(t *testing.T) {
	namer := domain.NewArtifactNamer("java", ".class")

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "top level", in: "Main.java", want: "Main.class"},
		{name: "nested package", in: "com/acme/Util.java", want: "com/acme/Util.class"},
		{name: "dotted directory", in: "v1.2/Main.java", want: "v1.2/Main.class"},
		{name: "wrong extension", in: "Main.kt", wantErr: true},
		{name: "no extension", in: "Makefile", wantErr: true},
		{name: "bare extension", in: "dir/.java", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := namer.ArtifactPathFor(tt.in)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidExtension) {
					t.Fatalf("expected ErrInvalidExtension, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestArtifactNamer_SourcePathFor(t *testing.T) {
	namer := domain.NewArtifactNamer(".java", ".class")

	got, err := namer.SourcePathFor("com/acme/Util.class")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "com/acme/Util.java" {
		t.Errorf("expected %q, got %q", "com/acme/Util.java", got)
	}

	if _, err := namer.SourcePathFor("com/acme/Util.java"); !errors.Is(err, domain.ErrInvalidExtension) {
		t.Errorf("expected ErrInvalidExtension, got %v", err)
	}
}

func TestArtifactNamer_Unit(t *testing.T) {
	namer := domain.NewArtifactNamer(".java", ".class")

	unit, err := namer.Unit("/work/src", "/work/classes", "com/acme/Main.java")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if unit.RelativePath != "com/acme/Main.java" {
		t.Errorf("unexpected relative path %q", unit.RelativePath)
	}
	if unit.SourcePath != filepath.Join("/work/src", "com", "acme", "Main.java") {
		t.Errorf("unexpected source path %q", unit.SourcePath)
	}
	if unit.ArtifactPath != filepath.Join("/work/classes", "com", "acme", "Main.class") {
		t.Errorf("unexpected artifact path %q", unit.ArtifactPath)
	}
	if !namer.MatchesSource(unit.SourcePath) {
		t.Error("expected source path to match source extension")
	}
}
