package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/riot/internal/adapters/compiler"  //nolint:depguard // Wired in app layer
	"go.trai.ch/riot/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/riot/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/riot/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/riot/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/riot/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/riot/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.ResolverNodeID,
			compiler.FactoryNodeID,
			fs.HasherNodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
			watcher.FactoryNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	resolver, err := graft.Dep[ports.PathResolver](ctx)
	if err != nil {
		return nil, err
	}

	compilers, err := graft.Dep[ports.CompilerFactory](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	watchers, err := graft.Dep[ports.WatcherFactory](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, resolver, compilers, hasher, tracer, log, watchers), nil
}
