// Package domain holds the core types of the riot build: options, modes,
// path mappings and the sentinel errors shared by every adapter.
package domain

import (
	"path/filepath"
	"slices"
	"strings"
)

// CompileOptions are handed to the compiler untouched.
type CompileOptions struct {
	// Compact removes whitespace between HTML tags.
	Compact bool
	// Type names the JavaScript preprocessor.
	Type string
	// Expr runs template expressions through the Type preprocessor.
	Expr bool
	// Template names the HTML preprocessor.
	Template string
}

// Options describe a requested build before path resolution.
type Options struct {
	// From is the source file or directory. Required.
	From string
	// To is the destination file or directory. Optional.
	To string
	// Watch keeps rebuilding on file system changes.
	Watch bool
	// Compile is passed through to the compiler.
	Compile CompileOptions
	// SourceExt identifies compiler inputs. Defaults to DefaultSourceExt.
	SourceExt string
	// CompiledExt identifies generated outputs. Defaults to DefaultCompiledExt.
	CompiledExt string
	// ConfigPath names the config file. Empty searches upward from the working directory.
	ConfigPath string
	// Ignore holds directory name patterns (filepath.Match syntax) left out of
	// discovery and watching. Empty means every directory under From is searched.
	Ignore []string
}

// WithDefaults returns a copy of o with empty extensions set to their defaults.
func (o Options) WithDefaults() Options {
	if o.SourceExt == "" {
		o.SourceExt = DefaultSourceExt
	}
	if o.CompiledExt == "" {
		o.CompiledExt = DefaultCompiledExt
	}
	return o
}

// PathMapping pairs a source file with the output it compiles to.
type PathMapping struct {
	Input  string
	Output string
}

// ResolvedOptions is the immutable result of path resolution.
// It is only produced by a resolver; the zero value is unresolved.
type ResolvedOptions struct {
	opts     Options
	mode     Mode
	mappings []PathMapping
}

// NewResolvedOptions captures a resolution result. opts must already hold
// absolute From and To paths and non-empty extensions.
func NewResolvedOptions(opts Options, mode Mode, mappings []PathMapping) *ResolvedOptions {
	return &ResolvedOptions{
		opts:     opts,
		mode:     mode,
		mappings: slices.Clone(mappings),
	}
}

// Resolved reports whether r carries a resolution result.
func (r *ResolvedOptions) Resolved() bool {
	return r != nil && r.mode != ""
}

// Options returns the resolved options: absolute paths and defaulted destination.
func (r *ResolvedOptions) Options() Options {
	return r.opts
}

// From returns the absolute source path.
func (r *ResolvedOptions) From() string {
	return r.opts.From
}

// To returns the absolute destination path.
func (r *ResolvedOptions) To() string {
	return r.opts.To
}

// Mode returns the build mode.
func (r *ResolvedOptions) Mode() Mode {
	return r.mode
}

// Compile returns the compiler options.
func (r *ResolvedOptions) Compile() CompileOptions {
	return r.opts.Compile
}

// Mappings returns a copy of the input/output pairs in discovery order.
func (r *ResolvedOptions) Mappings() []PathMapping {
	return slices.Clone(r.mappings)
}

// Inputs returns the source files in discovery order.
func (r *ResolvedOptions) Inputs() []string {
	inputs := make([]string, len(r.mappings))
	for i, m := range r.mappings {
		inputs[i] = m.Input
	}
	return inputs
}

// Outputs returns the distinct output files in first-seen order.
// A file destination is always its own single output, even without inputs.
func (r *ResolvedOptions) Outputs() []string {
	if r.mode.DestIsFile() {
		return []string{r.opts.To}
	}
	return distinct(r.mappings, func(m PathMapping) string { return m.Output })
}

// OutputDirs returns the distinct parent directories of all outputs in first-seen order.
func (r *ResolvedOptions) OutputDirs() []string {
	if r.mode.DestIsFile() {
		return []string{filepath.Dir(r.opts.To)}
	}
	return distinct(r.mappings, func(m PathMapping) string { return filepath.Dir(m.Output) })
}

// WatchRoot returns the directory to subscribe to for change events.
func (r *ResolvedOptions) WatchRoot() string {
	if r.mode.SourceIsFile() {
		return filepath.Dir(r.opts.From)
	}
	return r.opts.From
}

// WatchPattern returns the glob describing the watched sources.
func (r *ResolvedOptions) WatchPattern() string {
	if r.mode.SourceIsFile() {
		return r.opts.From
	}
	return filepath.Join(r.opts.From, "**", "*"+r.opts.SourceExt)
}

// Matches reports whether a changed path falls under the watch pattern.
// Paths inside ignored directories never match.
func (r *ResolvedOptions) Matches(path string) bool {
	if r.mode.SourceIsFile() {
		return path == r.opts.From
	}
	rel, ok := strings.CutPrefix(path, r.opts.From+string(filepath.Separator))
	if !ok || !strings.HasSuffix(path, r.opts.SourceExt) {
		return false
	}
	dir := filepath.Dir(rel)
	if dir == "." {
		return true
	}
	dirs := strings.Split(dir, string(filepath.Separator))
	return !slices.ContainsFunc(dirs, func(name string) bool {
		return IsIgnoredDir(name, r.opts.Ignore)
	})
}

// IsIgnoredDir reports whether a directory name matches one of patterns.
func IsIgnoredDir(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

func distinct(mappings []PathMapping, key func(PathMapping) string) []string {
	seen := make(map[string]struct{}, len(mappings))
	out := make([]string, 0, len(mappings))
	for _, m := range mappings {
		k := key(m)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
