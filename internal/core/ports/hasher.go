package ports

// Hasher computes content digests of build outputs.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeFileHash returns the hash of a single file's content.
	ComputeFileHash(path string) (uint64, error)
	// ComputeOutputHash returns one digest over the given files, in order.
	ComputeOutputHash(paths []string) (string, error)
}
