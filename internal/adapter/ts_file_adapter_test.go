package adapter

import (
	"context"
	"errors"
	"testing"

	m "branchgen.dev/pkg/branchgen/internal/model"
)

func TestLocalTSFileAdapter_Supports(t *testing.T) {
	adapter := NewLocalTSFileAdapter()

	for _, ext := range SupportedExtensions() {
		if !adapter.Supports(m.Path("src/hero" + ext)) {
			t.Errorf("Supports(%q) = false", ext)
		}
	}

	for _, path := range []m.Path{"hero.go", "hero.TS.map", "README.md", "Makefile"} {
		if adapter.Supports(path) {
			t.Errorf("Supports(%q) = true", path)
		}
	}

	if !adapter.Supports("HERO.TS") {
		t.Errorf("Supports() must ignore extension case")
	}
}

func TestLocalTSFileAdapter_Parse(t *testing.T) {
	adapter := NewLocalTSFileAdapter()

	tests := []struct {
		name string
		path m.Path
		src  string
		root string
	}{
		{"typescript", "hero.service.ts", "export class HeroService { private n: number = 1; }", "program"},
		{"tsx", "hero.component.tsx", "export class Hero { render() { return <div/>; } }", "program"},
		{"javascript", "hero.js", "export default class Hero { run() {} }", "program"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := adapter.Parse(context.Background(), tt.path, []byte(tt.src))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			defer tree.Close()

			root := tree.RootNode()
			if root.Type() != tt.root {
				t.Fatalf("root type = %s, want %s", root.Type(), tt.root)
			}

			if root.HasError() {
				t.Fatalf("unexpected syntax error in %s", root.String())
			}
		})
	}
}

func TestLocalTSFileAdapter_ParseReportsSyntaxErrors(t *testing.T) {
	tree, err := NewLocalTSFileAdapter().Parse(context.Background(), "broken.ts", []byte("export class { run( {"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	defer tree.Close()

	if !tree.RootNode().HasError() {
		t.Fatalf("expected syntax error in tree")
	}
}

func TestLocalTSFileAdapter_ParseErrors(t *testing.T) {
	adapter := NewLocalTSFileAdapter()

	if _, err := adapter.Parse(context.Background(), "hero.go", []byte("package hero")); err == nil {
		t.Fatalf("Parse() expected error for unsupported extension")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := adapter.Parse(ctx, "hero.ts", []byte("class A {}")); !errors.Is(err, context.Canceled) {
		t.Fatalf("Parse() cancelled error = %v", err)
	}
}
