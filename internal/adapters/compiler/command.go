package compiler

import (
	"context"
	"maps"
	"slices"
	"strconv"

	"go.trai.ch/riot/internal/core/domain"
	"go.trai.ch/riot/internal/core/ports"
	"go.trai.ch/zerr"
)

// Environment variables carrying the compile options to a compiler command.
const (
	EnvCompact  = "RIOT_COMPACT"
	EnvType     = "RIOT_TYPE"
	EnvExpr     = "RIOT_EXPR"
	EnvTemplate = "RIOT_TEMPLATE"
)

var _ ports.Compiler = (*CommandCompiler)(nil)

// CommandCompiler delegates compilation to an external command reading the
// source on stdin and writing the result to stdout.
type CommandCompiler struct {
	runner  ports.CommandRunner
	command []string
	env     map[string]string
}

// NewCommandCompiler creates a compiler running command with the extra env.
func NewCommandCompiler(runner ports.CommandRunner, command []string, env map[string]string) *CommandCompiler {
	return &CommandCompiler{runner: runner, command: slices.Clone(command), env: maps.Clone(env)}
}

// Compile runs the command on source.
func (c *CommandCompiler) Compile(ctx context.Context, source string, opts domain.CompileOptions) (string, error) {
	env := make(map[string]string, len(c.env)+4)
	maps.Copy(env, c.env)
	env[EnvCompact] = strconv.FormatBool(opts.Compact)
	env[EnvType] = opts.Type
	env[EnvExpr] = strconv.FormatBool(opts.Expr)
	env[EnvTemplate] = opts.Template

	out, err := c.runner.Run(ctx, c.command, env, source)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrCompilerCommandFailed.Error())
	}
	return out, nil
}
