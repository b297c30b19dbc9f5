// Package fs provides file system adapters for discovering, resolving and hashing files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"strings"

	"go.trai.ch/riot/internal/core/domain"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every regular file under root whose name ends in suffix,
// in lexical depth-first order. Directories whose name matches one of ignores
// are skipped; nothing else is.
// A walk error is yielded once with an empty path and ends the sequence.
func (w *Walker) WalkFiles(root, suffix string, ignores []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stopped := false
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if path != root {
				if skip := w.shouldSkipDir(d, ignores); skip != nil {
					return skip
				}
			}

			if !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), suffix) {
				return nil
			}

			if !yield(path, nil) {
				stopped = true
				return filepath.SkipAll
			}

			return nil
		})
		if err != nil && !stopped {
			yield("", err)
		}
	}
}

// shouldSkipDir returns filepath.SkipDir for ignored directories.
func (w *Walker) shouldSkipDir(d fs.DirEntry, ignores []string) error {
	if d.IsDir() && domain.IsIgnoredDir(d.Name(), ignores) {
		return filepath.SkipDir
	}
	return nil
}
