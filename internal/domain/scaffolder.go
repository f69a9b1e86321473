package domain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"branchgen.dev/pkg/branchgen/internal/adapter"
	m "branchgen.dev/pkg/branchgen/internal/model"
)

const specFileMode = 0o644

// ScaffoldOptions controls how a spec file is written.
type ScaffoldOptions struct {
	OutputRoot m.Path
	Force      bool
	DryRun     bool
	NoCache    bool
}

// Scaffolder runs the load, extract, generate, render and write steps for a
// single source file.
type Scaffolder interface {
	// Plan builds the scaffold of path without rendering or writing it.
	Plan(ctx context.Context, path m.Path) m.Plan
	// Scaffold writes the spec file of path and records it in book.
	Scaffold(ctx context.Context, path m.Path, book *ManifestBook, opts ScaffoldOptions) m.Result
}

type scaffolder struct {
	adapter.SourceFSAdapter
	Locator
	Extractor
	Generator
	Renderer
	now func() time.Time
}

// ScaffolderOption configures a Scaffolder.
type ScaffolderOption func(*scaffolder)

// WithClock replaces the clock used for manifest timestamps.
func WithClock(now func() time.Time) ScaffolderOption {
	return func(s *scaffolder) {
		s.now = now
	}
}

// NewScaffolder creates a Scaffolder.
func NewScaffolder(
	fsAdapter adapter.SourceFSAdapter,
	locator Locator,
	extractor Extractor,
	generator Generator,
	renderer Renderer,
	opts ...ScaffolderOption,
) Scaffolder {
	s := &scaffolder{
		SourceFSAdapter: fsAdapter,
		Locator:         locator,
		Extractor:       extractor,
		Generator:       generator,
		Renderer:        renderer,
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *scaffolder) Plan(ctx context.Context, path m.Path) m.Plan {
	source, err := s.Load(ctx, path)
	if err != nil {
		return m.Plan{Source: path, Err: err}
	}

	scaffold, err := s.build(ctx, source)

	return m.Plan{Source: path, Scaffold: scaffold, Err: err}
}

func (s *scaffolder) build(ctx context.Context, source m.Source) (m.Scaffold, error) {
	class, err := s.Extract(ctx, source)
	if err != nil {
		return m.Scaffold{Source: source, Naming: NamingFor(source.Path)}, err
	}

	return m.Scaffold{
		Source:  source,
		Naming:  NamingFor(source.Path),
		Class:   class,
		Methods: s.GenerateClass(class),
	}, nil
}

func (s *scaffolder) Scaffold(ctx context.Context, path m.Path, book *ManifestBook, opts ScaffoldOptions) m.Result {
	result := m.Result{Source: path}

	fail := func(err error) m.Result {
		slog.Error("Failed to scaffold source", "source", path, "error", err)

		result.Status = m.StatusFailed
		result.Err = err

		return result
	}

	source, err := s.Load(ctx, path)
	if err != nil {
		return fail(err)
	}

	naming := NamingFor(path)
	fingerprint := s.fingerprint(naming)

	output, err := s.OutputPath(naming, opts.OutputRoot)
	if err != nil {
		return fail(err)
	}

	result.Output = output

	existing, exists, err := s.readExisting(ctx, output)
	if err != nil {
		return fail(err)
	}

	entry, recorded := book.Get(output)
	ours := exists && recorded && entry.OutputHash == adapter.HashBytes(existing)

	if ours && !opts.NoCache && entry.SourceHash == source.Hash && entry.Fingerprint == fingerprint {
		slog.Debug("Spec file is up to date", "source", path, "output", output)

		result.Status = m.StatusUpToDate
		result.Class = entry.Class
		result.Cases = entry.Cases

		return result
	}

	scaffold, err := s.build(ctx, source)
	if err != nil {
		return fail(err)
	}

	result.Class = scaffold.Class.Name
	result.Cases = scaffold.CaseCount()

	content, err := s.Render(scaffold)
	if err != nil {
		return fail(err)
	}

	switch {
	case !exists:
		result.Status = m.StatusCreated
	case ours || opts.Force:
		result.Status = m.StatusUpdated
	default:
		slog.Debug("Skipping spec file not written by branchgen", "output", output)

		result.Status = m.StatusSkipped

		return result
	}

	if opts.DryRun {
		diff, err := unifiedDiff(output, existing, exists, content)
		if err != nil {
			return fail(err)
		}

		result.Status = m.StatusPreview
		result.Diff = diff

		return result
	}

	if exists && bytes.Equal(existing, content) {
		result.Status = m.StatusUpToDate
	} else if err := s.WriteFile(ctx, output, content, specFileMode); err != nil {
		return fail(fmt.Errorf("write %s: %w", output, err))
	}

	book.Record(output, m.ManifestEntry{
		Source:      string(path),
		SourceHash:  source.Hash,
		OutputHash:  adapter.HashBytes(content),
		Class:       result.Class,
		Cases:       result.Cases,
		Fingerprint: fingerprint,
		GeneratedAt: s.now().UTC(),
	})

	slog.Debug("Scaffolded source", "source", path, "output", output, "status", result.Status)

	return result
}

// fingerprint combines the generator and template settings that shape output.
func (s *scaffolder) fingerprint(naming m.Naming) string {
	return adapter.HashBytes([]byte(s.Generator.Fingerprint() + "\n" + s.TemplateFingerprint(naming)))
}

func (s *scaffolder) readExisting(ctx context.Context, output m.Path) ([]byte, bool, error) {
	existing, err := s.ReadFile(ctx, output)
	if err == nil {
		return existing, true, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}

	return nil, false, fmt.Errorf("read %s: %w", output, err)
}

func unifiedDiff(output m.Path, existing []byte, exists bool, content []byte) (string, error) {
	from := string(output)

	var before []string
	if exists {
		before = difflib.SplitLines(string(existing))
	} else {
		from = "/dev/null"
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        before,
		B:        difflib.SplitLines(string(content)),
		FromFile: from,
		ToFile:   string(output),
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", output, err)
	}

	return diff, nil
}
