package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/riot/internal/core/ports"
)

const (
	WalkerNodeID   graft.ID = "adapter.fs.walker"
	VerifierNodeID graft.ID = "adapter.fs.verifier"
	ResolverNodeID graft.ID = "adapter.fs.resolver"
	HasherNodeID   graft.ID = "adapter.fs.hasher"
)

func init() {
	// Walker Node (Concrete implementation needed by Resolver)
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[*Verifier]{
		ID:        VerifierNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (*Verifier, error) {
			return NewVerifier(), nil
		},
	})

	// Resolver Node
	graft.Register(graft.Node[ports.PathResolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WalkerNodeID, VerifierNodeID},
		Run: func(ctx context.Context) (ports.PathResolver, error) {
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			verifier, err := graft.Dep[*Verifier](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(walker, verifier), nil
		},
	})

	// Hasher Node
	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Hasher, error) {
			return NewHasher(), nil
		},
	})
}
