// Package builder runs build passes over resolved options and keeps them
// up to date in watch mode.
package builder

import (
	"context"
	"os"
	"strings"

	"go.trai.ch/riot/internal/core/domain"
	"go.trai.ch/riot/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	outputDirPerm  = 0o755
	outputFilePerm = 0o644
)

// Report describes a finished build pass.
type Report struct {
	Mode     domain.Mode
	Mappings []domain.PathMapping
	// Digest covers the content of every distinct output file, in mapping order.
	Digest string
}

// Builder compiles resolved inputs and writes their outputs.
type Builder struct {
	compiler ports.Compiler
	hasher   ports.Hasher
	tracer   ports.Tracer
	logger   ports.Logger
	watchers ports.WatcherFactory
	resolver ports.PathResolver
	cwd      string
}

// New creates a Builder. watchers and resolver are only used by Watch.
func New(
	compiler ports.Compiler,
	hasher ports.Hasher,
	tracer ports.Tracer,
	logger ports.Logger,
	watchers ports.WatcherFactory,
	resolver ports.PathResolver,
) *Builder {
	return &Builder{
		compiler: compiler,
		hasher:   hasher,
		tracer:   tracer,
		logger:   logger,
		watchers: watchers,
		resolver: resolver,
	}
}

// WithWorkingDir returns a copy of b that logs paths relative to dir.
// By default the process working directory is used.
func (b *Builder) WithWorkingDir(dir string) *Builder {
	c := *b
	c.cwd = dir
	return &c
}

// Make runs one build pass. The first read, compile or write error ends the
// pass; outputs already written are left in place.
func (b *Builder) Make(ctx context.Context, resolved *domain.ResolvedOptions) (*Report, error) {
	if !resolved.Resolved() {
		return nil, domain.ErrNotResolved
	}

	ctx, span := b.tracer.Start(ctx, "build")
	defer span.End()
	span.SetAttribute("riot.mode", resolved.Mode().String())
	span.SetAttribute("riot.inputs", len(resolved.Inputs()))

	report, err := b.make(ctx, resolved)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("riot.digest", report.Digest)
	return report, nil
}

func (b *Builder) make(ctx context.Context, resolved *domain.ResolvedOptions) (*Report, error) {
	cwd, err := b.workingDir()
	if err != nil {
		return nil, err
	}

	for _, dir := range resolved.OutputDirs() {
		if err := os.MkdirAll(dir, outputDirPerm); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrOutputDirFailed.Error()), "path", dir)
		}
	}

	mappings := resolved.Mappings()
	opts := resolved.Compile()

	if resolved.Mode() == domain.ModeDirToFile {
		parts := make([]string, 0, len(mappings))
		for _, m := range mappings {
			out, err := b.compileFile(ctx, m.Input, opts)
			if err != nil {
				return nil, err
			}
			parts = append(parts, out)
		}
		if err := writeOutput(resolved.To(), strings.Join(parts, "\n")); err != nil {
			return nil, err
		}
	} else {
		for _, m := range mappings {
			out, err := b.compileFile(ctx, m.Input, opts)
			if err != nil {
				return nil, err
			}
			if err := writeOutput(m.Output, out); err != nil {
				return nil, err
			}
		}
	}

	for _, m := range mappings {
		b.logger.Info(domain.RelativeTo(cwd, m.Input) + domain.MappingSeparator + domain.RelativeTo(cwd, m.Output))
	}

	digest, err := b.hasher.ComputeOutputHash(resolved.Outputs())
	if err != nil {
		return nil, zerr.Wrap(err, "failed to hash outputs")
	}

	return &Report{
		Mode:     resolved.Mode(),
		Mappings: mappings,
		Digest:   digest,
	}, nil
}

func (b *Builder) compileFile(ctx context.Context, path string, opts domain.CompileOptions) (string, error) {
	ctx, span := b.tracer.Start(ctx, "compile")
	defer span.End()
	span.SetAttribute("riot.input", path)

	// #nosec G304 -- inputs come from path resolution
	source, err := os.ReadFile(path)
	if err != nil {
		err = zerr.With(zerr.Wrap(err, domain.ErrSourceReadFailed.Error()), "path", path)
		span.RecordError(err)
		return "", err
	}

	out, err := b.compiler.Compile(ctx, string(source), opts)
	if err != nil {
		err = zerr.With(zerr.Wrap(err, domain.ErrCompileFailed.Error()), "path", path)
		span.RecordError(err)
		return "", err
	}
	return out, nil
}

func (b *Builder) workingDir() (string, error) {
	if b.cwd != "" {
		return b.cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrFailedToGetCwd.Error())
	}
	return cwd, nil
}

func writeOutput(path, content string) error {
	//nolint:gosec // outputs are regular build artifacts
	if err := os.WriteFile(path, []byte(content), outputFilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", path)
	}
	return nil
}
