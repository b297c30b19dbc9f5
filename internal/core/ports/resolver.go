package ports

import "go.trai.ch/riot/internal/core/domain"

// PathResolver classifies a build and computes its input/output pairs.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type PathResolver interface {
	// Resolve returns the resolved options for opts without touching opts.
	// It fails with domain.ErrSourceNotFound when the source path does not exist.
	Resolve(opts domain.Options) (*domain.ResolvedOptions, error)
}
