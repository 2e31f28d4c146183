// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/incc/internal/core/domain"
)

// CompilerInvoker compiles a single unit out of process.
//
//go:generate go run go.uber.org/mock/mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type CompilerInvoker interface {
	// Compile compiles one unit, resolving other units against artifactRoot and sourceRoot.
	//
	// A rejected source is reported through CompileResult.Success, with the compiler's
	// output in CompileResult.Diagnostics. An error is returned only when the compiler
	// could not be run at all.
	Compile(ctx context.Context, unit domain.SourceUnit, sourceRoot, artifactRoot string) (domain.CompileResult, error)
}

// CompilerFactory builds the CompilerInvoker of a resolved compiler configuration.
type CompilerFactory interface {
	NewInvoker(spec domain.CompilerSpec) (CompilerInvoker, error)
}
