package model

import "time"

// Status describes what happened to one source file during generation.
type Status string

const (
	// StatusCreated means a new spec file was written.
	StatusCreated Status = "created"
	// StatusUpdated means an existing generated spec file was rewritten.
	StatusUpdated Status = "updated"
	// StatusUpToDate means the source did not change since the last generation.
	StatusUpToDate Status = "up-to-date"
	// StatusSkipped means a spec file exists that was not generated by us or was edited.
	StatusSkipped Status = "skipped"
	// StatusFailed means extraction or writing failed; nothing was written.
	StatusFailed Status = "failed"
	// StatusPreview means a dry run rendered the file without writing it.
	StatusPreview Status = "preview"
)

// Result is the outcome of scaffolding one source file.
type Result struct {
	Source Path
	Output Path
	Status Status
	Class  string
	Cases  int
	Diff   string // unified diff against the existing file, dry runs only
	Err    error
}

// Failed reports whether the result carries an error.
func (r Result) Failed() bool {
	return r.Status == StatusFailed
}

// CurrentManifestVersion is the manifest schema version written by this build.
const CurrentManifestVersion = 1

// Manifest records every spec file branchgen wrote, keyed by output path.
type Manifest struct {
	Version int                      `yaml:"version"`
	Entries map[string]ManifestEntry `yaml:"entries"`
}

// ManifestEntry is the bookkeeping for one generated spec file. Fingerprint
// identifies the template and false label the file was rendered with.
type ManifestEntry struct {
	Source      string    `yaml:"source"`
	SourceHash  string    `yaml:"source_hash"`
	OutputHash  string    `yaml:"output_hash"`
	Class       string    `yaml:"class"`
	Cases       int       `yaml:"cases"`
	Fingerprint string    `yaml:"fingerprint,omitempty"`
	GeneratedAt time.Time `yaml:"generated_at"`
}

// NewManifest returns an empty manifest at the current version.
func NewManifest() *Manifest {
	return &Manifest{
		Version: CurrentManifestVersion,
		Entries: make(map[string]ManifestEntry),
	}
}

// EntryState classifies a manifest entry against the filesystem.
type EntryState string

const (
	// EntryOK means the generated file is present and unchanged.
	EntryOK EntryState = "ok"
	// EntryEdited means the generated file was modified after generation.
	EntryEdited EntryState = "edited"
	// EntryMissing means the generated file no longer exists.
	EntryMissing EntryState = "missing"
)

// EntryStatus pairs a manifest entry with its current state.
type EntryStatus struct {
	Output Path
	Entry  ManifestEntry
	State  EntryState
}
