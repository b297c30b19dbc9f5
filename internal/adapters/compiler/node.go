package compiler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/riot/internal/adapters/shell"
	"go.trai.ch/riot/internal/core/ports"
)

// FactoryNodeID is the unique identifier for the compiler factory Graft node.
const FactoryNodeID graft.ID = "adapter.compiler.factory"

func init() {
	graft.Register(graft.Node[ports.CompilerFactory]{
		ID:        FactoryNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.CompilerFactory, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(runner), nil
		},
	})
}
