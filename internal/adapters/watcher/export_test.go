package watcher

import (
	"github.com/fsnotify/fsnotify"
	"go.trai.ch/riot/internal/core/ports"
)

func ConvertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	return convertEvent(event)
}
