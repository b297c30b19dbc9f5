// Package shell provides the external command adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/riot/internal/core/domain"
	"go.trai.ch/riot/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CommandRunner = (*Executor)(nil)

// Executor implements ports.CommandRunner using os/exec.
type Executor struct {
	logger ports.Logger
	dir    string
}

// NewExecutor creates a new Executor running commands in the current directory.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// WithDir returns a copy of e that runs commands in dir.
func (e *Executor) WithDir(dir string) *Executor {
	return &Executor{logger: e.logger, dir: dir}
}

// Run pipes stdin through command and returns its standard output.
// Standard error is forwarded line by line to the logger as warnings.
func (e *Executor) Run(ctx context.Context, command []string, env map[string]string, stdin string) (string, error) {
	if len(command) == 0 {
		return "", domain.ErrEmptyCommand
	}

	name := command[0]
	args := command[1:]

	cmdEnv := resolveEnvironment(os.Environ(), env)

	// Resolve the executable path using the new environment's PATH
	executable := name
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // user provided command

	// Restore the original command name in Args[0]
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}

	if e.dir != "" {
		cmd.Dir = e.dir
	}
	cmd.Env = cmdEnv
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	lw := &logWriter{logger: e.logger}
	cmd.Stdout = &stdout
	cmd.Stderr = io.MultiWriter(&stderr, lw)

	err := cmd.Run()
	_ = lw.Close()
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		err = zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode)
		if tail := strings.TrimSpace(stderr.String()); tail != "" {
			err = zerr.With(err, "stderr", tail)
		}
		return "", zerr.With(err, "command", name)
	}

	return stdout.String(), nil
}

type logWriter struct {
	logger ports.Logger
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	w.logger.Warn(strings.TrimSuffix(string(line), "\r"))
}

// allowListedEnvVars are the system environment variables inherited by commands.
var allowListedEnvVars = map[string]struct{}{
	"HOME": {},
	"TERM": {},
	"USER": {},
	"PATH": {},
}

// resolveEnvironment applies extra on top of the allow-listed system environment.
func resolveEnvironment(sysEnv []string, extra map[string]string) []string {
	envMap := filterSystemEnv(sysEnv)

	for k, v := range extra {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

func filterSystemEnv(sysEnv []string) map[string]string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			envMap[k] = v
		}
	}
	return envMap
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
