package compiler

import (
	"context"
	"maps"
	"slices"

	"go.trai.ch/riot/internal/core/domain"
	"go.trai.ch/riot/internal/core/ports"
	"go.trai.ch/zerr"
)

// NoneName selects the passthrough preprocessor.
const NoneName = "none"

// Passthrough returns its input unchanged.
type Passthrough struct{}

// Process returns source.
func (Passthrough) Process(_ context.Context, source string) (string, error) {
	return source, nil
}

// Registry maps preprocessor names to implementations.
type Registry struct {
	preprocessors map[string]ports.Preprocessor
}

// NewRegistry creates a registry holding only the passthrough preprocessor.
func NewRegistry() *Registry {
	return &Registry{preprocessors: make(map[string]ports.Preprocessor)}
}

// Register adds or replaces the preprocessor called name.
func (r *Registry) Register(name string, p ports.Preprocessor) {
	r.preprocessors[name] = p
}

// Lookup returns the preprocessor called name. The empty name and "none" select Passthrough.
func (r *Registry) Lookup(name string) (ports.Preprocessor, error) {
	if name == "" || name == NoneName {
		return Passthrough{}, nil
	}
	p, ok := r.preprocessors[name]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrPreprocessorNotFound, name), "available", r.Names())
	}
	return p, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.preprocessors))
}

var _ ports.Preprocessor = (*CommandPreprocessor)(nil)

// CommandPreprocessor pipes source through an external command.
type CommandPreprocessor struct {
	runner  ports.CommandRunner
	command []string
	env     map[string]string
}

// NewCommandPreprocessor creates a preprocessor running command with env.
func NewCommandPreprocessor(runner ports.CommandRunner, command []string, env map[string]string) *CommandPreprocessor {
	return &CommandPreprocessor{runner: runner, command: slices.Clone(command), env: env}
}

// Process returns the command's standard output for source.
func (p *CommandPreprocessor) Process(ctx context.Context, source string) (string, error) {
	out, err := p.runner.Run(ctx, p.command, p.env, source)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrPreprocessorFailed.Error())
	}
	return out, nil
}
