package compiler

import (
	"time"

	"go.trai.ch/riot/internal/core/domain"
	"go.trai.ch/riot/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CompilerFactory = (*Factory)(nil)

// Factory builds the compiler selected by the project configuration.
type Factory struct {
	runner     ports.CommandRunner
	luaTimeout time.Duration
}

// NewFactory creates a Factory running external commands through runner.
func NewFactory(runner ports.CommandRunner) *Factory {
	return &Factory{runner: runner, luaTimeout: DefaultLuaTimeout}
}

// New returns the command compiler when cfg names one and the built-in compiler otherwise.
func (f *Factory) New(cfg *domain.Config) (ports.Compiler, error) {
	if cfg == nil {
		return NewRiot(NewRegistry()), nil
	}

	if len(cfg.Compiler.Command) > 0 {
		return NewCommandCompiler(f.runner, cfg.Compiler.Command, cfg.Compiler.Env), nil
	}

	registry, err := f.registry(cfg)
	if err != nil {
		return nil, err
	}
	return NewRiot(registry), nil
}

func (f *Factory) registry(cfg *domain.Config) (*Registry, error) {
	registry := NewRegistry()

	for name, pp := range cfg.Preprocessors {
		hasCommand, hasLua := len(pp.Command) > 0, pp.Lua != ""
		switch {
		case hasCommand && !hasLua:
			registry.Register(name, NewCommandPreprocessor(f.runner, pp.Command, pp.Env))
		case hasLua && !hasCommand:
			lp, err := LoadLuaPreprocessor(pp.Lua, f.luaTimeout)
			if err != nil {
				return nil, zerr.With(err, "preprocessor", name)
			}
			registry.Register(name, lp)
		default:
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidPreprocessor, name), "preprocessor", name)
		}
	}

	return registry, nil
}
