package wiring_test

import (
	"context"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/riot/internal/adapters/compiler"
	"go.trai.ch/riot/internal/adapters/config"
	"go.trai.ch/riot/internal/adapters/fs"
	"go.trai.ch/riot/internal/adapters/logger"
	"go.trai.ch/riot/internal/adapters/shell"
	"go.trai.ch/riot/internal/adapters/telemetry"
	"go.trai.ch/riot/internal/adapters/watcher"
	"go.trai.ch/riot/internal/app"
	_ "go.trai.ch/riot/internal/wiring"
)

// TestGraphExecutes runs every registered node. graft.AssertDepsValid cannot be
// used here: it derives dependency IDs from the package of the type passed to
// graft.Dep, and most nodes here share the ports package.
func TestGraphExecutes(t *testing.T) {
	results, err := graft.Execute(context.Background())
	require.NoError(t, err)

	for _, id := range []graft.ID{
		logger.NodeID,
		config.NodeID,
		fs.WalkerNodeID,
		fs.VerifierNodeID,
		fs.ResolverNodeID,
		fs.HasherNodeID,
		shell.NodeID,
		compiler.FactoryNodeID,
		telemetry.TracerNodeID,
		watcher.FactoryNodeID,
		app.AppNodeID,
		app.ComponentsNodeID,
	} {
		assert.Contains(t, results, id)
	}
}
