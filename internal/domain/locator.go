package domain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"branchgen.dev/pkg/branchgen/internal/adapter"
	m "branchgen.dev/pkg/branchgen/internal/model"
)

const recursiveSuffix = "/..."

// DefaultPaths is scanned when no path argument is given.
var DefaultPaths = []m.Path{"./..."}

// Locator finds source files and derives naming metadata from their paths.
type Locator interface {
	// Resolve expands path arguments (files, directories, dir/... patterns)
	// into a sorted list of supported source files.
	Resolve(ctx context.Context, paths []m.Path, exclude []string) ([]m.Path, error)
	// Directories lists the directories covered by the path arguments.
	Directories(ctx context.Context, paths []m.Path, exclude []string) ([]m.Path, error)
	// Accepts reports whether a single file would be selected by Resolve.
	Accepts(path m.Path, exclude []string) bool
	// Load reads a source file and fingerprints it.
	Load(ctx context.Context, path m.Path) (m.Source, error)
}

type locator struct {
	fs adapter.SourceFSAdapter
	ts adapter.TSFileAdapter
}

// NewLocator creates a Locator.
func NewLocator(fsAdapter adapter.SourceFSAdapter, tsAdapter adapter.TSFileAdapter) Locator {
	return &locator{fs: fsAdapter, ts: tsAdapter}
}

// NamingFor splits the file name of path on '.': the first segment is the
// name, the second the class type, the last the extension, and the segments
// between the class type and the last two form the remainder.
func NamingFor(path m.Path) m.Naming {
	fileName := filepath.Base(string(path))
	segments := strings.Split(fileName, ".")

	naming := m.Naming{
		Dir:      m.Path(filepath.Dir(string(path))),
		FileName: fileName,
		Name:     segments[0],
	}

	if len(segments) > 1 {
		naming.Ext = segments[len(segments)-1]
	}

	if len(segments) > 2 {
		naming.ClassType = segments[1]
	}

	if len(segments) > 4 {
		naming.Remainder = append([]string(nil), segments[2:len(segments)-2]...)
	}

	return naming
}

type sourceFilter struct {
	exclude []*regexp.Regexp
	ts      adapter.TSFileAdapter
}

func newSourceFilter(exclude []string, ts adapter.TSFileAdapter) (*sourceFilter, error) {
	filter := &sourceFilter{ts: ts}

	for _, pattern := range exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		filter.exclude = append(filter.exclude, re)
	}

	return filter, nil
}

var skippedDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	"dist":         {},
	"coverage":     {},
}

func (f *sourceFilter) skipDir(path string) bool {
	base := filepath.Base(path)
	if _, ok := skippedDirs[base]; ok {
		return true
	}

	return f.excluded(path)
}

func (f *sourceFilter) excluded(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, re := range f.exclude {
		if re.MatchString(slashed) {
			return true
		}
	}

	return false
}

func (f *sourceFilter) accept(path string) bool {
	if !f.ts.Supports(m.Path(path)) {
		return false
	}

	base := filepath.Base(path)
	if strings.Contains(base, ".spec.") || strings.Contains(base, ".test.") || strings.HasSuffix(base, ".d.ts") {
		return false
	}

	return !f.excluded(path)
}

func splitPattern(path m.Path) (string, bool) {
	p := filepath.ToSlash(string(path))
	if p == "..." {
		return ".", true
	}

	if strings.HasSuffix(p, recursiveSuffix) {
		root := strings.TrimSuffix(p, recursiveSuffix)
		if root == "" {
			root = "/"
		}

		return filepath.FromSlash(root), true
	}

	return string(path), false
}

func (l *locator) Resolve(ctx context.Context, paths []m.Path, exclude []string) ([]m.Path, error) {
	filter, err := newSourceFilter(exclude, l.ts)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		paths = DefaultPaths
	}

	seen := make(map[m.Path]struct{})

	var sources []m.Path

	add := func(p string) {
		clean := m.Path(filepath.Clean(p))
		if _, ok := seen[clean]; ok {
			return
		}

		seen[clean] = struct{}{}
		sources = append(sources, clean)
	}

	for _, path := range paths {
		root, recursive := splitPattern(path)

		info, err := l.fs.FileInfo(ctx, m.Path(root))
		if err != nil {
			return nil, fmt.Errorf("root path error: %w", err)
		}

		if !info.IsDir() {
			if filter.accept(root) {
				add(root)
			} else {
				slog.Debug("Skipping unsupported source", "path", root)
			}

			continue
		}

		err = l.fs.Walk(ctx, m.Path(root), recursive, func(p string, fi os.FileInfo, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}

			if fi.IsDir() {
				if p != root && filter.skipDir(p) {
					return filepath.SkipDir
				}

				return nil
			}

			if filter.accept(p) {
				add(p)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
	slog.Debug("Resolved sources", "count", len(sources))

	return sources, nil
}

func (l *locator) Directories(ctx context.Context, paths []m.Path, exclude []string) ([]m.Path, error) {
	filter, err := newSourceFilter(exclude, l.ts)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		paths = DefaultPaths
	}

	seen := make(map[m.Path]struct{})

	var dirs []m.Path

	add := func(p string) {
		clean := m.Path(filepath.Clean(p))
		if _, ok := seen[clean]; ok {
			return
		}

		seen[clean] = struct{}{}
		dirs = append(dirs, clean)
	}

	for _, path := range paths {
		root, recursive := splitPattern(path)

		info, err := l.fs.FileInfo(ctx, m.Path(root))
		if err != nil {
			return nil, fmt.Errorf("root path error: %w", err)
		}

		if !info.IsDir() {
			add(filepath.Dir(root))
			continue
		}

		err = l.fs.Walk(ctx, m.Path(root), recursive, func(p string, fi os.FileInfo, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}

			if !fi.IsDir() {
				return nil
			}

			if p != root && filter.skipDir(p) {
				return filepath.SkipDir
			}

			add(p)

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i] < dirs[j] })

	return dirs, nil
}

func (l *locator) Accepts(path m.Path, exclude []string) bool {
	filter, err := newSourceFilter(exclude, l.ts)
	if err != nil {
		return false
	}

	return filter.accept(string(path))
}

func (l *locator) Load(ctx context.Context, path m.Path) (m.Source, error) {
	content, err := l.fs.ReadFile(ctx, path)
	if err != nil {
		return m.Source{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return m.Source{
		Path:    path,
		Hash:    adapter.HashBytes(content),
		Content: content,
	}, nil
}
