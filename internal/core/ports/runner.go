package ports

import "context"

// CommandRunner runs external commands that filter text from stdin to stdout.
//
//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type CommandRunner interface {
	// Run executes command with stdin as its input and returns what it wrote to stdout.
	// env is added to an allow-listed subset of the process environment.
	Run(ctx context.Context, command []string, env map[string]string, stdin string) (string, error)
}
