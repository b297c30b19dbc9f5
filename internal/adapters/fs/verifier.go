package fs

import (
	"errors"
	iofs "io/fs"
	"os"

	"go.trai.ch/zerr"
)

// Verifier provides functionality to verify the existence of files.
type Verifier struct{}

// NewVerifier creates a new Verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Exists reports whether path exists. Errors other than non-existence are returned.
func (v *Verifier) Exists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
	}
	return true, nil
}
