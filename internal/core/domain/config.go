package domain

import "slices"

// CompilerConfig selects an external compiler command.
// An empty Command selects the built-in tag compiler.
type CompilerConfig struct {
	Command []string
	Env     map[string]string
}

// PreprocessorConfig defines a named preprocessor. Exactly one of Command or Lua is set.
type PreprocessorConfig struct {
	// Command reads the source on stdin and writes the result to stdout.
	Command []string
	// Lua is the path of a script defining process(source).
	Lua string
	// Env holds extra environment variables for Command.
	Env map[string]string
}

// Config is the project configuration loaded from riot.yaml.
type Config struct {
	// Path is the file the config was read from, empty when none was found.
	Path          string
	Compile       CompileOptions
	SourceExt     string
	CompiledExt   string
	Compiler      CompilerConfig
	Preprocessors map[string]PreprocessorConfig
	// Ignore holds directory name patterns skipped during discovery.
	Ignore []string
}

// Apply merges the config beneath opts: booleans are enabled by either side,
// non-empty strings in opts win and ignore patterns are combined.
func (c *Config) Apply(opts Options) Options {
	if c == nil {
		return opts.WithDefaults()
	}
	opts.Compile.Compact = opts.Compile.Compact || c.Compile.Compact
	opts.Compile.Expr = opts.Compile.Expr || c.Compile.Expr
	if opts.Compile.Type == "" {
		opts.Compile.Type = c.Compile.Type
	}
	if opts.Compile.Template == "" {
		opts.Compile.Template = c.Compile.Template
	}
	if opts.SourceExt == "" {
		opts.SourceExt = c.SourceExt
	}
	if opts.CompiledExt == "" {
		opts.CompiledExt = c.CompiledExt
	}
	if len(c.Ignore) > 0 {
		opts.Ignore = append(slices.Clone(c.Ignore), opts.Ignore...)
	}
	return opts.WithDefaults()
}
