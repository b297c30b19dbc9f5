// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/riot/internal/core/domain"
)

// Compiler turns the contents of one source file into output text.
//
//go:generate mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	// Compile compiles source with the given options. Options are passed through uninterpreted.
	Compile(ctx context.Context, source string, opts domain.CompileOptions) (string, error)
}

// CompilerFactory builds the compiler selected by the project configuration.
type CompilerFactory interface {
	// New returns a compiler for cfg. A nil cfg selects the built-in compiler.
	New(cfg *domain.Config) (Compiler, error)
}

// Preprocessor transforms a fragment of source text before or during compilation.
type Preprocessor interface {
	// Process returns the transformed text.
	Process(ctx context.Context, source string) (string, error)
}
