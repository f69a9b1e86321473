package domain

import (
	"path/filepath"
	"sort"
	"sync"

	m "branchgen.dev/pkg/branchgen/internal/model"
)

// ManifestBook guards a manifest shared by concurrent scaffolding goroutines.
type ManifestBook struct {
	mu       sync.Mutex
	manifest *m.Manifest
	dirty    bool
}

// NewManifestBook wraps manifest. A nil manifest starts empty.
func NewManifestBook(manifest *m.Manifest) *ManifestBook {
	if manifest == nil {
		manifest = m.NewManifest()
	}

	if manifest.Entries == nil {
		manifest.Entries = make(map[string]m.ManifestEntry)
	}

	return &ManifestBook{manifest: manifest}
}

func manifestKey(output m.Path) string {
	return filepath.ToSlash(filepath.Clean(string(output)))
}

// Get returns the entry recorded for output.
func (b *ManifestBook) Get(output m.Path) (m.ManifestEntry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.manifest.Entries[manifestKey(output)]

	return entry, ok
}

// Record stores the entry for output.
func (b *ManifestBook) Record(output m.Path, entry m.ManifestEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.manifest.Entries[manifestKey(output)] = entry
	b.dirty = true
}

// Dirty reports whether Record was called since the book was created.
func (b *ManifestBook) Dirty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.dirty
}

// Outputs returns the recorded output paths in sorted order.
func (b *ManifestBook) Outputs() []m.Path {
	b.mu.Lock()
	defer b.mu.Unlock()

	outputs := make([]m.Path, 0, len(b.manifest.Entries))
	for key := range b.manifest.Entries {
		outputs = append(outputs, m.Path(filepath.FromSlash(key)))
	}

	sort.Slice(outputs, func(i, j int) bool { return outputs[i] < outputs[j] })

	return outputs
}

// Manifest returns the underlying manifest. Callers must not use it
// concurrently with Record.
func (b *ManifestBook) Manifest() *m.Manifest {
	return b.manifest
}
