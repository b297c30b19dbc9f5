// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/riot/internal/adapters/compiler"
	_ "go.trai.ch/riot/internal/adapters/config"
	_ "go.trai.ch/riot/internal/adapters/fs"
	_ "go.trai.ch/riot/internal/adapters/logger"
	_ "go.trai.ch/riot/internal/adapters/shell"
	_ "go.trai.ch/riot/internal/adapters/telemetry"
	_ "go.trai.ch/riot/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/riot/internal/app"
)
