package domain

import (
	"path/filepath"
	"strings"
)

// SwapExt replaces the oldExt suffix of path with newExt.
// Paths that do not end in oldExt are returned with newExt appended.
func SwapExt(path, oldExt, newExt string) string {
	return strings.TrimSuffix(path, oldExt) + newExt
}

// RemapOutput re-roots input, taken relative to base, under to and swaps its extension.
func RemapOutput(base, to, input, sourceExt, compiledExt string) (string, error) {
	rel, err := filepath.Rel(base, input)
	if err != nil {
		return "", err
	}
	return filepath.Join(to, SwapExt(rel, sourceExt, compiledExt)), nil
}

// MappingSeparator joins an input and its output in build log lines.
const MappingSeparator = " -> "

// RelativeTo strips the cwd prefix from path for display.
// Paths outside cwd are returned unchanged.
func RelativeTo(cwd, path string) string {
	if cwd == "" {
		return path
	}
	prefix := cwd
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.TrimPrefix(path, prefix)
}
