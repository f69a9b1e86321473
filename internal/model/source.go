package model

// Path represents a file system path.
type Path string

// Source is a loaded source file.
type Source struct {
	Path    Path
	Hash    string
	Content []byte
}

// Naming is the metadata derived from a source file name such as
// "hero-detail.component.ts": Name "hero-detail", ClassType "component", Ext "ts".
type Naming struct {
	Dir       Path
	FileName  string
	Name      string
	ClassType string
	Remainder []string
	Ext       string
}
