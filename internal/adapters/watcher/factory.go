package watcher

import "go.trai.ch/riot/internal/core/ports"

var _ ports.WatcherFactory = (*Factory)(nil)

// Factory creates a fresh fsnotify watcher per watch session.
type Factory struct {
	logger ports.Logger
}

// NewFactory creates a Factory whose watchers report errors through logger.
func NewFactory(logger ports.Logger) *Factory {
	return &Factory{logger: logger}
}

// NewWatcher creates a new watcher.
func (f *Factory) NewWatcher() (ports.Watcher, error) {
	return NewWatcher(f.logger)
}
