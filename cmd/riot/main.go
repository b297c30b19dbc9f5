// Package main is the entry point for the riot tag compiler.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/riot/cmd/riot/commands"
	"go.trai.ch/riot/internal/app"
	"go.trai.ch/riot/internal/core/domain"
	_ "go.trai.ch/riot/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

// outputSetter is implemented by loggers whose destination can be changed.
type outputSetter interface {
	SetOutput(w io.Writer)
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	provider ComponentProvider,
	opts ...func(*app.App),
) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	defer cleanup()

	// Build output goes to stdout, next to the help text.
	if l, ok := components.Logger.(outputSetter); ok {
		l.SetOutput(stdout)
	}

	for _, opt := range opts {
		opt(components.App)
	}

	// 2. Interface - CLI
	var logs commands.LogFormatter
	if f, ok := components.Logger.(commands.LogFormatter); ok {
		logs = f
	}
	cli := commands.New(components.App, logs)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrSourceNotFound) {
			_, _ = fmt.Fprintln(stdout, err.Error())
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
