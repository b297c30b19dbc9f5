// Package config provides the riot.yaml configuration loader.
package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"go.trai.ch/riot/internal/core/domain"
	"go.trai.ch/riot/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a new Loader reading from the OS file system.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, FS: NewOSFS()}
}

// Load reads the explicit config at path, or the nearest riot.yaml at or above cwd.
// Without an explicit path and without a file, an empty configuration is returned.
func (l *Loader) Load(cwd, path string) (*domain.Config, error) {
	if path != "" {
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, path)
		}
		if _, err := l.FS.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, zerr.With(zerr.Wrap(domain.ErrConfigNotFound, path), "path", path)
			}
			return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
		}
		return l.loadRiotfile(path)
	}

	found, ok := l.findConfiguration(cwd)
	if !ok {
		return &domain.Config{}, nil
	}
	return l.loadRiotfile(found)
}

func (l *Loader) findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		for _, name := range []string{domain.ConfigFileName, domain.AltConfigFileName} {
			candidate := filepath.Join(currentDir, name)
			if info, err := l.FS.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", false
		}
		currentDir = parentDir
	}
}

func (l *Loader) loadRiotfile(configPath string) (*domain.Config, error) {
	data, err := l.FS.ReadFile(configPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
	}

	var riotfile Riotfile
	if err := yaml.Unmarshal(data, &riotfile); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "path", configPath)
	}

	if riotfile.Version != "" && riotfile.Version != "1" {
		l.Logger.Warn("unknown config version " + riotfile.Version + " in " + configPath)
	}

	for _, ext := range []string{riotfile.Extensions.Source, riotfile.Extensions.Compiled} {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidExtension, ext), "path", configPath)
		}
	}

	for _, pattern := range riotfile.Ignore {
		if !validIgnorePattern(pattern) {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidIgnorePattern, pattern), "path", configPath)
		}
	}

	baseDir := filepath.Dir(configPath)
	preprocessors := make(map[string]domain.PreprocessorConfig, len(riotfile.Preprocessors))
	for name, dto := range riotfile.Preprocessors {
		if (len(dto.Command) > 0) == (dto.Lua != "") {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidPreprocessor, name), "path", configPath)
		}
		script := dto.Lua
		if script != "" && !filepath.IsAbs(script) {
			script = filepath.Join(baseDir, script)
		}
		preprocessors[name] = domain.PreprocessorConfig{
			Command: dto.Command,
			Lua:     script,
			Env:     dto.Env,
		}
	}

	return &domain.Config{
		Path: configPath,
		Compile: domain.CompileOptions{
			Compact:  riotfile.Compact,
			Type:     riotfile.Type,
			Expr:     riotfile.Expr,
			Template: riotfile.Template,
		},
		SourceExt:   riotfile.Extensions.Source,
		CompiledExt: riotfile.Extensions.Compiled,
		Compiler: domain.CompilerConfig{
			Command: riotfile.Compiler.Command,
			Env:     riotfile.Compiler.Env,
		},
		Preprocessors: preprocessors,
		Ignore:        riotfile.Ignore,
	}, nil
}

// validIgnorePattern accepts a single path element understood by filepath.Match.
func validIgnorePattern(pattern string) bool {
	if pattern == "" || strings.ContainsAny(pattern, `/\`) {
		return false
	}
	_, err := filepath.Match(pattern, "")
	return err == nil
}
