package domain

import "go.trai.ch/zerr"

var (
	// ErrSourceNotFound is the configuration error returned when the source path does not exist.
	ErrSourceNotFound = zerr.New("source path does not exist")

	// ErrMissingSource is returned when no source path was given.
	ErrMissingSource = zerr.New("no source path given")

	// ErrInvalidExtension is returned when a configured extension does not start with a dot.
	ErrInvalidExtension = zerr.New("extension must start with '.'")

	// ErrConfigNotFound is returned when an explicitly requested config file does not exist.
	ErrConfigNotFound = zerr.New("config file not found")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidPreprocessor is returned when a preprocessor entry defines neither or both of command and lua.
	ErrInvalidPreprocessor = zerr.New("preprocessor must define exactly one of 'command' or 'lua'")

	// ErrInvalidIgnorePattern is returned when an ignore entry is not a valid directory name pattern.
	ErrInvalidIgnorePattern = zerr.New("ignore entries must be directory name patterns")

	// ErrPreprocessorNotFound is returned when a compile option names an unknown preprocessor.
	ErrPreprocessorNotFound = zerr.New("preprocessor not found")

	// ErrPreprocessorFailed is returned when a preprocessor fails to transform its input.
	ErrPreprocessorFailed = zerr.New("preprocessor failed")

	// ErrCompileFailed is returned when a source file cannot be compiled.
	ErrCompileFailed = zerr.New("compile failed")

	// ErrUnclosedTag is returned when a root tag has no matching closing tag.
	ErrUnclosedTag = zerr.New("unclosed tag")

	// ErrEmptyCommand is returned when a configured command has no program name.
	ErrEmptyCommand = zerr.New("command is empty")

	// ErrCompilerCommandFailed is returned when the external compiler command exits with an error.
	ErrCompilerCommandFailed = zerr.New("compiler command failed")

	// ErrSourceReadFailed is returned when a source file cannot be read.
	ErrSourceReadFailed = zerr.New("failed to read source file")

	// ErrOutputWriteFailed is returned when an output file cannot be written.
	ErrOutputWriteFailed = zerr.New("failed to write output file")

	// ErrOutputDirFailed is returned when an output directory cannot be created.
	ErrOutputDirFailed = zerr.New("failed to create output directory")

	// ErrDiscoveryFailed is returned when walking the source directory fails.
	ErrDiscoveryFailed = zerr.New("failed to discover source files")

	// ErrWatchFailed is returned when the file system watcher cannot be started or stops unexpectedly.
	ErrWatchFailed = zerr.New("file watcher failed")

	// ErrNotResolved is returned when a build is started from options that did not pass path resolution.
	ErrNotResolved = zerr.New("build options are not resolved")

	// ErrFailedToGetCwd is returned when the working directory cannot be determined.
	ErrFailedToGetCwd = zerr.New("failed to get working directory")
)
