// Package app implements the application layer for riot.
package app

import (
	"context"
	"os"

	"go.trai.ch/riot/internal/core/domain"
	"go.trai.ch/riot/internal/core/ports"
	"go.trai.ch/riot/internal/engine/builder"
	"go.trai.ch/zerr"
)

// App loads the project configuration, resolves paths and runs the builder.
type App struct {
	configLoader ports.ConfigLoader
	resolver     ports.PathResolver
	compilers    ports.CompilerFactory
	hasher       ports.Hasher
	tracer       ports.Tracer
	logger       ports.Logger
	watchers     ports.WatcherFactory
	compiler     ports.Compiler
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	resolver ports.PathResolver,
	compilers ports.CompilerFactory,
	hasher ports.Hasher,
	tracer ports.Tracer,
	log ports.Logger,
	watchers ports.WatcherFactory,
) *App {
	return &App{
		configLoader: loader,
		resolver:     resolver,
		compilers:    compilers,
		hasher:       hasher,
		tracer:       tracer,
		logger:       log,
		watchers:     watchers,
	}
}

// WithCompiler configures the app to use compiler instead of the one selected
// by the project configuration.
func (a *App) WithCompiler(compiler ports.Compiler) *App {
	a.compiler = compiler
	return a
}

// WithLogger replaces the logger used for build output.
func (a *App) WithLogger(log ports.Logger) *App {
	a.logger = log
	return a
}

// Run builds once, or keeps rebuilding when opts.Watch is set.
func (a *App) Run(ctx context.Context, opts domain.Options) error {
	if opts.Watch {
		return a.Watch(ctx, opts)
	}
	_, err := a.Make(ctx, opts)
	return err
}

// Make runs a single build.
func (a *App) Make(ctx context.Context, opts domain.Options) (*builder.Report, error) {
	b, resolved, err := a.prepare(opts)
	if err != nil {
		return nil, err
	}
	return b.Make(ctx, resolved)
}

// Watch builds and then rebuilds on source changes until ctx is done.
func (a *App) Watch(ctx context.Context, opts domain.Options) error {
	b, resolved, err := a.prepare(opts)
	if err != nil {
		return err
	}
	return b.Watch(ctx, resolved)
}

func (a *App) prepare(opts domain.Options) (*builder.Builder, *domain.ResolvedOptions, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, zerr.Wrap(err, domain.ErrFailedToGetCwd.Error())
	}

	cfg, err := a.configLoader.Load(cwd, opts.ConfigPath)
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to load configuration")
	}

	compiler := a.compiler
	if compiler == nil {
		compiler, err = a.compilers.New(cfg)
		if err != nil {
			return nil, nil, zerr.Wrap(err, "failed to set up compiler")
		}
	}

	resolved, err := a.resolver.Resolve(cfg.Apply(opts))
	if err != nil {
		return nil, nil, err
	}

	b := builder.New(compiler, a.hasher, a.tracer, a.logger, a.watchers, a.resolver).WithWorkingDir(cwd)
	return b, resolved, nil
}
