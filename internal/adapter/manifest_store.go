package adapter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "branchgen.dev/pkg/branchgen/internal/model"
)

// ManifestStore persists the record of generated spec files.
type ManifestStore interface {
	// LoadManifest reads the manifest at path. A missing file yields an empty manifest.
	LoadManifest(ctx context.Context, path m.Path) (*m.Manifest, error)
	// SaveManifest writes the manifest to path, creating parent directories.
	SaveManifest(ctx context.Context, path m.Path, manifest *m.Manifest) error
}

type yamlManifestStore struct{}

// NewManifestStore returns a ManifestStore backed by a YAML file.
func NewManifestStore() ManifestStore {
	return &yamlManifestStore{}
}

func (s *yamlManifestStore) LoadManifest(ctx context.Context, path m.Path) (*m.Manifest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(string(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return m.NewManifest(), nil
		}

		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	manifest := m.NewManifest()
	if err := yaml.Unmarshal(data, manifest); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}

	if manifest.Version > m.CurrentManifestVersion {
		return nil, fmt.Errorf("manifest %s has version %d, newest supported is %d", path, manifest.Version, m.CurrentManifestVersion)
	}

	if manifest.Entries == nil {
		manifest.Entries = make(map[string]m.ManifestEntry)
	}

	return manifest, nil
}

func (s *yamlManifestStore) SaveManifest(ctx context.Context, path m.Path, manifest *m.Manifest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if manifest == nil {
		return fmt.Errorf("nil manifest")
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	if err := os.WriteFile(string(path), data, 0o600); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}

	return nil
}
