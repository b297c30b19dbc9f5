package fs

import (
	"path/filepath"

	"go.trai.ch/riot/internal/core/domain"
	"go.trai.ch/riot/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.PathResolver = (*Resolver)(nil)

// Resolver implements ports.PathResolver against the local file system.
type Resolver struct {
	walker   *Walker
	verifier *Verifier
}

// NewResolver creates a new Resolver.
func NewResolver(walker *Walker, verifier *Verifier) *Resolver {
	return &Resolver{walker: walker, verifier: verifier}
}

// Resolve normalizes opts, classifies the build and computes its mappings.
// opts is not modified.
func (r *Resolver) Resolve(opts domain.Options) (*domain.ResolvedOptions, error) {
	opts = opts.WithDefaults()
	if opts.From == "" {
		return nil, domain.ErrMissingSource
	}

	from, err := filepath.Abs(opts.From)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve source path"), "path", opts.From)
	}

	to := opts.To
	if to == "" {
		to = defaultDestination(from, opts.SourceExt, opts.CompiledExt)
	}
	to, err = filepath.Abs(to)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve destination path"), "path", opts.To)
	}

	exists, err := r.verifier.Exists(from)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, zerr.With(zerr.Wrap(domain.ErrSourceNotFound, from), "path", from)
	}

	opts.From = from
	opts.To = to
	mode := domain.ClassifyMode(from, to, opts.SourceExt, opts.CompiledExt)

	inputs, base, err := r.inputs(mode, opts)
	if err != nil {
		return nil, err
	}

	mappings := make([]domain.PathMapping, 0, len(inputs))
	for _, input := range inputs {
		output := to
		if !mode.DestIsFile() {
			output, err = domain.RemapOutput(base, to, input, opts.SourceExt, opts.CompiledExt)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to compute output path"), "path", input)
			}
		}
		mappings = append(mappings, domain.PathMapping{Input: input, Output: output})
	}

	return domain.NewResolvedOptions(opts, mode, mappings), nil
}

// inputs returns the source files of a build and the directory outputs are re-rooted from.
func (r *Resolver) inputs(mode domain.Mode, opts domain.Options) ([]string, string, error) {
	if mode.SourceIsFile() {
		return []string{opts.From}, filepath.Dir(opts.From), nil
	}

	var inputs []string
	for path, err := range r.walker.WalkFiles(opts.From, opts.SourceExt, opts.Ignore) {
		if err != nil {
			return nil, "", zerr.With(zerr.Wrap(domain.ErrDiscoveryFailed, err.Error()), "path", opts.From)
		}
		inputs = append(inputs, path)
	}
	return inputs, opts.From, nil
}

// defaultDestination compiles a single source next to itself and a directory in place.
func defaultDestination(from, sourceExt, compiledExt string) string {
	if domain.ClassifyMode(from, "", sourceExt, compiledExt).SourceIsFile() {
		return domain.SwapExt(from, sourceExt, compiledExt)
	}
	return from
}
