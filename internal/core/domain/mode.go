package domain

import "strings"

// Mode classifies a build by the shape of its source and destination.
// The first letter describes the source and the second the destination:
// 'f' for a single file and 'd' for a directory.
type Mode string

const (
	// ModeFileToFile compiles a single source file into a single output file.
	ModeFileToFile Mode = "ff"
	// ModeFileToDir compiles a single source file into a directory, keeping its base name.
	ModeFileToDir Mode = "fd"
	// ModeDirToFile compiles a directory tree into one concatenated output file.
	ModeDirToFile Mode = "df"
	// ModeDirToDir mirrors a directory tree of sources into a directory tree of outputs.
	ModeDirToDir Mode = "dd"
)

// NewMode builds a Mode from its two directionality flags.
func NewMode(sourceIsFile, destIsFile bool) Mode {
	return Mode(flag(sourceIsFile) + flag(destIsFile))
}

// ClassifyMode derives the Mode from the source and destination paths.
// A source is a file when it ends in sourceExt, a destination is a file
// when it ends in compiledExt.
func ClassifyMode(from, to, sourceExt, compiledExt string) Mode {
	return NewMode(strings.HasSuffix(from, sourceExt), strings.HasSuffix(to, compiledExt))
}

// SourceIsFile reports whether the source is a single file.
func (m Mode) SourceIsFile() bool {
	return len(m) == 2 && m[0] == 'f'
}

// DestIsFile reports whether the destination is a single file.
func (m Mode) DestIsFile() bool {
	return len(m) == 2 && m[1] == 'f'
}

// String returns the two-letter form of the mode.
func (m Mode) String() string {
	return string(m)
}

func flag(isFile bool) string {
	if isFile {
		return "f"
	}
	return "d"
}
