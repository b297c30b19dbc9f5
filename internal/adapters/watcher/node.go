package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/riot/internal/adapters/logger"
	"go.trai.ch/riot/internal/core/ports"
)

// FactoryNodeID is the unique identifier for the watcher factory Graft node.
const FactoryNodeID graft.ID = "adapter.watcher"

func init() {
	graft.Register(graft.Node[ports.WatcherFactory]{
		ID:        FactoryNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.WatcherFactory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(log), nil
		},
	})
}
