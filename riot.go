// Package riot compiles .tag files to .js.
//
//	err := riot.Watch(ctx, riot.Options{From: "tags", To: "dist/tags.js"})
//
// Build output is discarded unless WithLogOutput is given.
package riot

import (
	"context"
	"io"

	"go.trai.ch/riot/internal/adapters/compiler"
	"go.trai.ch/riot/internal/adapters/config"
	"go.trai.ch/riot/internal/adapters/fs"
	"go.trai.ch/riot/internal/adapters/logger"
	"go.trai.ch/riot/internal/adapters/shell"
	"go.trai.ch/riot/internal/adapters/telemetry"
	"go.trai.ch/riot/internal/adapters/watcher"
	"go.trai.ch/riot/internal/app"
	"go.trai.ch/riot/internal/core/domain"
	"go.trai.ch/riot/internal/engine/builder"
)

type (
	// Options describe a build: source, destination and compiler options.
	Options = domain.Options
	// CompileOptions are handed to the compiler untouched.
	CompileOptions = domain.CompileOptions
	// Report describes a finished build pass.
	Report = builder.Report
	// Mode classifies a build by the shape of its source and destination.
	Mode = domain.Mode
)

// ErrSourceNotFound is returned when the source path does not exist.
var ErrSourceNotFound = domain.ErrSourceNotFound

// Compiler turns the contents of one source file into output text.
type Compiler interface {
	Compile(ctx context.Context, source string, opts CompileOptions) (string, error)
}

// Option configures Make and Watch.
type Option func(*settings)

type settings struct {
	output   io.Writer
	compiler Compiler
}

// WithLogOutput writes build output, such as the "a.tag -> a.js" lines, to w.
func WithLogOutput(w io.Writer) Option {
	return func(s *settings) {
		s.output = w
	}
}

// WithCompiler replaces the compiler selected by the project configuration.
func WithCompiler(c Compiler) Option {
	return func(s *settings) {
		s.compiler = c
	}
}

// Make compiles every source described by opts once.
func Make(ctx context.Context, opts Options, options ...Option) (*Report, error) {
	return newApp(options).Make(ctx, opts)
}

// Watch compiles every source described by opts and keeps recompiling on
// changes until ctx is done.
func Watch(ctx context.Context, opts Options, options ...Option) error {
	return newApp(options).Watch(ctx, opts)
}

func newApp(options []Option) *app.App {
	var s settings
	for _, opt := range options {
		opt(&s)
	}

	log := logger.NewDiscard()
	if s.output != nil {
		log = logger.NewWithOutput(s.output)
	}

	a := app.New(
		config.NewLoader(log),
		fs.NewResolver(fs.NewWalker(), fs.NewVerifier()),
		compiler.NewFactory(shell.NewExecutor(log)),
		fs.NewHasher(),
		telemetry.NewOTelTracer(telemetry.InstrumentationName),
		log,
		watcher.NewFactory(log),
	)
	if s.compiler != nil {
		a.WithCompiler(s.compiler)
	}
	return a
}
