package domain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"branchgen.dev/pkg/branchgen/internal/adapter"
	"branchgen.dev/pkg/branchgen/internal/controller"
	m "branchgen.dev/pkg/branchgen/internal/model"
)

// DefaultDebounce is how long watch mode waits for a burst of writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// GenerateArgs contains the arguments for generating spec files.
type GenerateArgs struct {
	Paths    []m.Path
	Exclude  []string
	Parallel int
	Manifest m.Path
	Options  ScaffoldOptions
}

// ListArgs contains the arguments for listing the test plan.
type ListArgs struct {
	Paths    []m.Path
	Exclude  []string
	Parallel int
}

// WatchArgs contains the arguments for watch mode.
type WatchArgs struct {
	GenerateArgs
	Debounce time.Duration
}

// StatusArgs contains the arguments for reporting manifest state.
type StatusArgs struct {
	Manifest m.Path
}

// Workflow defines the commands exposed by the CLI.
type Workflow interface {
	Generate(ctx context.Context, args GenerateArgs) error
	List(ctx context.Context, args ListArgs) error
	Watch(ctx context.Context, args WatchArgs) error
	Status(ctx context.Context, args StatusArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ManifestStore
	controller.UI
	Locator
	Scaffolder
	newWatcher func() (adapter.Watcher, error)
}

// WorkflowOption configures a Workflow.
type WorkflowOption func(*workflow)

// WithWatcherFactory replaces the fsnotify watcher used by Watch.
func WithWatcherFactory(factory func() (adapter.Watcher, error)) WorkflowOption {
	return func(w *workflow) {
		w.newWatcher = factory
	}
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	manifestStore adapter.ManifestStore,
	ui controller.UI,
	locator Locator,
	scaffolder Scaffolder,
	opts ...WorkflowOption,
) Workflow {
	w := &workflow{
		SourceFSAdapter: fsAdapter,
		ManifestStore:   manifestStore,
		UI:              ui,
		Locator:         locator,
		Scaffolder:      scaffolder,
		newWatcher:      adapter.NewWatcher,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

func (w *workflow) Generate(ctx context.Context, args GenerateArgs) error {
	sources, err := w.Resolve(ctx, args.Paths, args.Exclude)
	if err != nil {
		slog.Error("Failed to resolve sources", "error", err)
		return fmt.Errorf("resolve sources: %w", err)
	}

	book, err := w.loadBook(ctx, args.Manifest)
	if err != nil {
		return err
	}

	results, err := w.scaffoldAll(ctx, sources, book, args)
	if err != nil {
		return err
	}

	if err := w.saveBook(ctx, args, book); err != nil {
		return err
	}

	if err := w.DisplayResults(ctx, results); err != nil {
		slog.Error("Failed to display results", "error", err)
		return fmt.Errorf("display: %w", err)
	}

	return failuresError(results)
}

func (w *workflow) scaffoldAll(ctx context.Context, sources []m.Path, book *ManifestBook, args GenerateArgs) ([]m.Result, error) {
	results := make([]m.Result, len(sources))

	group, groupCtx := errgroup.WithContext(ctx)
	if args.Parallel > 0 {
		group.SetLimit(args.Parallel)
	}

	for i, source := range sources {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			results[i] = w.Scaffold(groupCtx, source, book, args.Options)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("scaffold sources: %w", err)
	}

	return results, nil
}

func (w *workflow) loadBook(ctx context.Context, path m.Path) (*ManifestBook, error) {
	if path == "" {
		return NewManifestBook(nil), nil
	}

	manifest, err := w.LoadManifest(ctx, path)
	if err != nil {
		slog.Error("Failed to load manifest", "path", path, "error", err)
		return nil, fmt.Errorf("load manifest: %w", err)
	}

	return NewManifestBook(manifest), nil
}

func (w *workflow) saveBook(ctx context.Context, args GenerateArgs, book *ManifestBook) error {
	if args.Manifest == "" || args.Options.DryRun || !book.Dirty() {
		return nil
	}

	if err := w.SaveManifest(ctx, args.Manifest, book.Manifest()); err != nil {
		slog.Error("Failed to save manifest", "path", args.Manifest, "error", err)
		return fmt.Errorf("save manifest: %w", err)
	}

	return nil
}

// failuresError joins the errors of failed results.
func failuresError(results []m.Result) error {
	var errs []error

	for _, result := range results {
		if result.Failed() {
			errs = append(errs, fmt.Errorf("%s: %w", result.Source, result.Err))
		}
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("%d of %d file(s) failed: %w", len(errs), len(results), errors.Join(errs...))
}

func (w *workflow) List(ctx context.Context, args ListArgs) error {
	sources, err := w.Resolve(ctx, args.Paths, args.Exclude)
	if err != nil {
		slog.Error("Failed to resolve sources", "error", err)
		return fmt.Errorf("resolve sources: %w", err)
	}

	plans := make([]m.Plan, len(sources))

	group, groupCtx := errgroup.WithContext(ctx)
	if args.Parallel > 0 {
		group.SetLimit(args.Parallel)
	}

	for i, source := range sources {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			plans[i] = w.Plan(groupCtx, source)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("plan sources: %w", err)
	}

	if err := w.DisplayPlans(ctx, plans); err != nil {
		slog.Error("Failed to display plans", "error", err)
		return fmt.Errorf("display: %w", err)
	}

	return nil
}

func (w *workflow) Status(ctx context.Context, args StatusArgs) error {
	book, err := w.loadBook(ctx, args.Manifest)
	if err != nil {
		return err
	}

	outputs := book.Outputs()
	statuses := make([]m.EntryStatus, 0, len(outputs))

	for _, output := range outputs {
		entry, _ := book.Get(output)

		state, err := w.entryState(ctx, output, entry)
		if err != nil {
			return err
		}

		statuses = append(statuses, m.EntryStatus{Output: output, Entry: entry, State: state})
	}

	if err := w.DisplayStatus(ctx, statuses); err != nil {
		slog.Error("Failed to display status", "error", err)
		return fmt.Errorf("display: %w", err)
	}

	return nil
}

func (w *workflow) entryState(ctx context.Context, output m.Path, entry m.ManifestEntry) (m.EntryState, error) {
	hash, err := w.HashFile(ctx, output)
	if errors.Is(err, fs.ErrNotExist) {
		return m.EntryMissing, nil
	}

	if err != nil {
		return "", fmt.Errorf("hash %s: %w", output, err)
	}

	if hash != entry.OutputHash {
		return m.EntryEdited, nil
	}

	return m.EntryOK, nil
}
