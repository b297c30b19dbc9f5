package config

// Riotfile represents the structure of the riot.yaml configuration file.
type Riotfile struct {
	Version       string                     `yaml:"version"`
	Compact       bool                       `yaml:"compact"`
	Type          string                     `yaml:"type"`
	Expr          bool                       `yaml:"expr"`
	Template      string                     `yaml:"template"`
	Extensions    ExtensionsDTO              `yaml:"extensions"`
	Compiler      CompilerDTO                `yaml:"compiler"`
	Preprocessors map[string]PreprocessorDTO `yaml:"preprocessors"`
	Ignore        []string                   `yaml:"ignore"`
}

// ExtensionsDTO overrides the source and compiled file suffixes.
type ExtensionsDTO struct {
	Source   string `yaml:"source"`
	Compiled string `yaml:"compiled"`
}

// CompilerDTO selects an external compiler command.
type CompilerDTO struct {
	Command []string          `yaml:"command"`
	Env     map[string]string `yaml:"env"`
}

// PreprocessorDTO defines a named preprocessor backed by a command or a Lua script.
type PreprocessorDTO struct {
	Command []string          `yaml:"command"`
	Lua     string            `yaml:"lua"`
	Env     map[string]string `yaml:"env"`
}
