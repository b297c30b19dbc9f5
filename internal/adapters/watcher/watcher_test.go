package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/riot/internal/adapters/logger"
	"go.trai.ch/riot/internal/adapters/watcher"
	"go.trai.ch/riot/internal/core/ports"
)

type collector struct {
	mu     sync.Mutex
	events []ports.WatchEvent
	done   chan struct{}
}

func collect(w ports.Watcher) *collector {
	c := &collector{done: make(chan struct{})}
	go func() {
		defer close(c.done)
		for ev := range w.Events() {
			c.mu.Lock()
			c.events = append(c.events, ev)
			c.mu.Unlock()
		}
	}()
	return c
}

func (c *collector) has(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ev := range c.events {
		if ev.Path == path {
			return true
		}
	}
	return false
}

func startWatcher(t *testing.T, root string, recursive bool, ignore ...string) (*collector, context.CancelFunc) {
	t.Helper()
	w, err := watcher.NewFactory(logger.NewDiscard()).NewWatcher()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx, root, recursive, ignore))
	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
	})
	return collect(w), cancel
}

func TestWatcher_ReportsWrites(t *testing.T) {
	root := t.TempDir()
	c, _ := startWatcher(t, root, false)

	file := filepath.Join(root, "todo.tag")
	require.NoError(t, os.WriteFile(file, []byte("<todo></todo>\n"), 0o600))

	require.Eventually(t, func() bool { return c.has(file) }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_Recursive(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "nested")
	require.NoError(t, os.Mkdir(sub, 0o750))
	c, _ := startWatcher(t, root, true)

	file := filepath.Join(sub, "a.tag")
	require.NoError(t, os.WriteFile(file, []byte("<a></a>\n"), 0o600))

	require.Eventually(t, func() bool { return c.has(file) }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_RecursiveAddsCreatedDirectories(t *testing.T) {
	root := t.TempDir()
	c, _ := startWatcher(t, root, true)

	sub := filepath.Join(root, "later")
	require.NoError(t, os.Mkdir(sub, 0o750))
	require.Eventually(t, func() bool { return c.has(sub) }, 2*time.Second, 10*time.Millisecond)

	file := filepath.Join(sub, "b.tag")
	require.Eventually(t, func() bool {
		_ = os.WriteFile(file, []byte("<b></b>\n"), 0o600)
		return c.has(file)
	}, 2*time.Second, 50*time.Millisecond)
}

func TestWatcher_NonRecursiveIgnoresSubdirectories(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "nested")
	require.NoError(t, os.Mkdir(sub, 0o750))
	c, _ := startWatcher(t, root, false)

	nestedFile := filepath.Join(sub, "a.tag")
	require.NoError(t, os.WriteFile(nestedFile, []byte("<a></a>\n"), 0o600))
	topFile := filepath.Join(root, "b.tag")
	require.NoError(t, os.WriteFile(topFile, []byte("<b></b>\n"), 0o600))

	require.Eventually(t, func() bool { return c.has(topFile) }, 2*time.Second, 10*time.Millisecond)
	assert.False(t, c.has(nestedFile))
}

func TestWatcher_WatchesEveryDirectoryByDefault(t *testing.T) {
	root := t.TempDir()
	modules := filepath.Join(root, "node_modules", "pkg")
	require.NoError(t, os.MkdirAll(modules, 0o750))
	c, _ := startWatcher(t, root, true)

	file := filepath.Join(modules, "x.tag")
	require.NoError(t, os.WriteFile(file, []byte("<x></x>\n"), 0o600))

	require.Eventually(t, func() bool { return c.has(file) }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_SkipsIgnoredDirectories(t *testing.T) {
	root := t.TempDir()
	vendor := filepath.Join(root, "vendor")
	require.NoError(t, os.Mkdir(vendor, 0o750))
	c, _ := startWatcher(t, root, true, "vendor")

	ignored := filepath.Join(vendor, "x.tag")
	require.NoError(t, os.WriteFile(ignored, []byte("<x></x>\n"), 0o600))
	marker := filepath.Join(root, "marker.tag")
	require.NoError(t, os.WriteFile(marker, []byte("<m></m>\n"), 0o600))

	require.Eventually(t, func() bool { return c.has(marker) }, 2*time.Second, 10*time.Millisecond)
	assert.False(t, c.has(ignored))
}

func TestWatcher_EventsEndOnCancel(t *testing.T) {
	root := t.TempDir()
	c, cancel := startWatcher(t, root, false)

	cancel()

	select {
	case <-c.done:
	case <-time.After(2 * time.Second):
		t.Fatal("events did not end after cancel")
	}
}

func TestWatcher_StartMissingRoot(t *testing.T) {
	w, err := watcher.NewWatcher(logger.NewDiscard())
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	err = w.Start(context.Background(), filepath.Join(t.TempDir(), "missing"), false, nil)
	require.Error(t, err)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := watcher.NewWatcher(logger.NewDiscard())
	require.NoError(t, err)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestConvertEvent(t *testing.T) {
	tests := []struct {
		op   fsnotify.Op
		want ports.WatchOp
		ok   bool
	}{
		{fsnotify.Write, ports.OpWrite, true},
		{fsnotify.Create, ports.OpCreate, true},
		{fsnotify.Remove, ports.OpRemove, true},
		{fsnotify.Rename, ports.OpRename, true},
		{fsnotify.Create | fsnotify.Write, ports.OpWrite, true},
		{fsnotify.Chmod, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			got, ok := watcher.ConvertEvent(fsnotify.Event{Name: "/x.tag", Op: tt.op})
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got.Operation)
				assert.Equal(t, "/x.tag", got.Path)
			}
		})
	}
}
