package domain

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	m "branchgen.dev/pkg/branchgen/internal/model"
)

// Watch generates once, then re-scaffolds sources as they change until ctx is
// cancelled. Per-file failures are reported and do not stop the loop.
func (w *workflow) Watch(ctx context.Context, args WatchArgs) error {
	if err := w.Generate(ctx, args.GenerateArgs); err != nil {
		if ctx.Err() != nil {
			return nil
		}

		slog.Warn("Initial generation reported errors", "error", err)
	}

	dirs, err := w.Directories(ctx, args.Paths, args.Exclude)
	if err != nil {
		return fmt.Errorf("resolve directories: %w", err)
	}

	watcher, err := w.newWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	defer func() {
		if err := watcher.Close(); err != nil {
			slog.Warn("Failed to close watcher", "error", err)
		}
	}()

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	book, err := w.loadBook(ctx, args.Manifest)
	if err != nil {
		return err
	}

	w.DisplayWatching(ctx, dirs)

	debounce := args.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	timer := time.NewTimer(debounce)
	timer.Stop()

	defer timer.Stop()

	var fire <-chan time.Time

	pending := make(map[m.Path]struct{})

	for {
		select {
		case <-ctx.Done():
			slog.Debug("Watch stopped", "reason", ctx.Err())
			return nil

		case path, ok := <-watcher.Events():
			if !ok {
				return nil
			}

			if !w.Accepts(path, args.Exclude) {
				continue
			}

			pending[path] = struct{}{}

			timer.Reset(debounce)
			fire = timer.C

		case err, ok := <-watcher.Errors():
			if !ok {
				return nil
			}

			slog.Warn("Watcher error", "error", err)

		case <-fire:
			fire = nil

			if err := w.flush(ctx, pending, book, args.GenerateArgs); err != nil {
				return err
			}

			pending = make(map[m.Path]struct{})
		}
	}
}

func (w *workflow) flush(ctx context.Context, pending map[m.Path]struct{}, book *ManifestBook, args GenerateArgs) error {
	paths := make([]m.Path, 0, len(pending))
	for path := range pending {
		paths = append(paths, path)
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	for _, path := range paths {
		if _, err := w.FileInfo(ctx, path); err != nil {
			slog.Debug("Changed source is gone", "path", path)
			continue
		}

		w.DisplayResult(ctx, w.Scaffold(ctx, path, book, args.Options))
	}

	return w.saveBook(ctx, args, book)
}
