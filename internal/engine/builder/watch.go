package builder

import (
	"context"

	"go.trai.ch/riot/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Watch runs a full pass and then another one for every change to the watched
// sources, until ctx is done. A failing pass ends the watch with its error.
// Every re-run resolves the sources again, so files created or removed while
// watching are picked up.
func (b *Builder) Watch(ctx context.Context, resolved *domain.ResolvedOptions) error {
	if _, err := b.Make(ctx, resolved); err != nil {
		return err
	}

	cwd, err := b.workingDir()
	if err != nil {
		return err
	}

	w, err := b.watchers.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	g, gctx := errgroup.WithContext(ctx)

	opts := resolved.Options()
	if err := w.Start(gctx, resolved.WatchRoot(), !resolved.Mode().SourceIsFile(), opts.Ignore); err != nil {
		return err
	}
	b.logger.Info("Watching " + domain.RelativeTo(cwd, resolved.WatchPattern()))

	coalescer := NewCoalescer(func(ctx context.Context) error {
		current, err := b.resolver.Resolve(opts)
		if err != nil {
			return err
		}
		_, err = b.Make(ctx, current)
		return err
	})

	g.Go(func() error {
		for event := range w.Events() {
			if resolved.Matches(event.Path) {
				coalescer.Request()
			}
		}
		if gctx.Err() == nil {
			return zerr.Wrap(domain.ErrWatchFailed, "event stream closed")
		}
		return nil
	})

	g.Go(func() error {
		return coalescer.Run(gctx)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
