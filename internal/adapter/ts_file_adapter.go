package adapter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	m "branchgen.dev/pkg/branchgen/internal/model"
)

// TSFileAdapter encapsulates TypeScript/JavaScript parsing so the domain layer
// can focus on class structure while delegating grammar details to an
// infrastructure component.
type TSFileAdapter interface {
	// Supports reports whether the file extension has a grammar.
	Supports(path m.Path) bool

	// Parse builds a syntax tree for the provided source. The caller owns the
	// returned tree and must Close it.
	Parse(ctx context.Context, path m.Path, src []byte) (*sitter.Tree, error)
}

// LocalTSFileAdapter provides a concrete TSFileAdapter backed by tree-sitter.
type LocalTSFileAdapter struct{}

// NewLocalTSFileAdapter constructs a LocalTSFileAdapter.
func NewLocalTSFileAdapter() *LocalTSFileAdapter {
	return &LocalTSFileAdapter{}
}

// SupportedExtensions lists the file extensions branchgen can parse.
func SupportedExtensions() []string {
	return []string{".ts", ".mts", ".cts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}
}

func languageFor(path m.Path) *sitter.Language {
	switch strings.ToLower(filepath.Ext(string(path))) {
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage()
	case ".tsx":
		return tsx.GetLanguage()
	case ".js", ".jsx", ".mjs", ".cjs":
		return javascript.GetLanguage()
	default:
		return nil
	}
}

// Supports reports whether path has a known grammar.
func (a *LocalTSFileAdapter) Supports(path m.Path) bool {
	return languageFor(path) != nil
}

// Parse builds a syntax tree for the provided filename/source pair. A parser is
// created per call; tree-sitter parsers are not safe for concurrent use.
func (a *LocalTSFileAdapter) Parse(ctx context.Context, path m.Path, src []byte) (*sitter.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lang := languageFor(path)
	if lang == nil {
		return nil, fmt.Errorf("unsupported source extension %q", filepath.Ext(string(path)))
	}

	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return tree, nil
}
