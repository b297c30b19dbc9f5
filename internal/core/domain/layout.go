package domain

const (
	// DefaultSourceExt is the extension identifying compiler input files.
	DefaultSourceExt = ".tag"

	// DefaultCompiledExt is the extension identifying generated output files.
	DefaultCompiledExt = ".js"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "riot.yaml"

	// AltConfigFileName is the alternate name of the project configuration file.
	AltConfigFileName = "riot.yml"

	// DirPerm is the default permission for output directories (rwxr-xr-x).
	DirPerm = 0o755

	// FilePerm is the default permission for output files (rw-r--r--).
	FilePerm = 0o644
)
