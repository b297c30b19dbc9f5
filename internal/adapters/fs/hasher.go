package fs

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/riot/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes xxhash digests of build outputs.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// ComputeOutputHash computes one digest over the content of paths, in the given order.
func (h *Hasher) ComputeOutputHash(paths []string) (string, error) {
	hasher := xxhash.New()

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, iofs.ErrNotExist) {
				return "", zerr.With(zerr.Wrap(iofs.ErrNotExist, "output file missing"), "path", path)
			}
			return "", zerr.With(zerr.Wrap(err, "failed to stat output file"), "path", path)
		}

		hash, err := h.ComputeFileHash(path)
		if err != nil {
			return "", err
		}

		if err := binary.Write(hasher, binary.LittleEndian, hash); err != nil {
			return "", zerr.Wrap(err, "failed to write hash to digest")
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}
