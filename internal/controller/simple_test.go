package controller

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	m "branchgen.dev/pkg/branchgen/internal/model"
)

func newBufferedUI() (*SimpleUI, *bytes.Buffer) {
	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	return NewSimpleUI(cmd), &buf
}

func heroPlan() m.Plan {
	return m.Plan{
		Source: "src/app/hero.component.ts",
		Scaffold: m.Scaffold{
			Class: m.Class{Name: "HeroComponent"},
			Methods: []m.MethodCases{
				{
					Method: m.Method{Name: "save", Branches: []m.Branch{{Kind: m.BranchIf, Condition: "this.valid"}}},
					Cases:  []m.TestCase{{Title: "save when this.valid"}, {Title: "save when this.valid is flase"}},
				},
				{
					Method: m.Method{Name: "reset"},
					Cases:  []m.TestCase{{Title: "reset should <do something>"}},
				},
			},
		},
	}
}

func TestSimpleUI_DisplayPlans(t *testing.T) {
	tests := []struct {
		name         string
		plans        []m.Plan
		wantContains []string
		wantMissing  []string
	}{
		{
			name:         "methods and totals",
			plans:        []m.Plan{heroPlan()},
			wantContains: []string{"src/app/hero.component.ts", "HeroComponent", "save", "reset", "3"},
			wantMissing:  []string{"Failures:"},
		},
		{
			name: "class without methods",
			plans: []m.Plan{{
				Source:   "src/app/empty.service.ts",
				Scaffold: m.Scaffold{Class: m.Class{Name: "EmptyService"}},
			}},
			wantContains: []string{"EmptyService", "-"},
		},
		{
			name: "failed plans are listed separately",
			plans: []m.Plan{
				heroPlan(),
				{Source: "src/app/broken.ts", Err: errors.New("no class declaration found")},
			},
			wantContains: []string{"Failures:", "src/app/broken.ts: no class declaration found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui, buf := newBufferedUI()

			if err := ui.DisplayPlans(context.Background(), tt.plans); err != nil {
				t.Fatalf("DisplayPlans() error = %v", err)
			}

			got := buf.String()
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("DisplayPlans() output missing %q, got:\n%s", want, got)
				}
			}

			for _, unwanted := range tt.wantMissing {
				if strings.Contains(got, unwanted) {
					t.Errorf("DisplayPlans() output contains %q, got:\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestSimpleUI_DisplayResults(t *testing.T) {
	ui, buf := newBufferedUI()

	results := []m.Result{
		{Source: "a.component.ts", Output: "a.component.class.spec.ts", Status: m.StatusCreated, Cases: 2},
		{Source: "b.service.ts", Output: "b.service.class.spec.ts", Status: m.StatusPreview, Cases: 1, Diff: "--- b\n+++ b\n+it('x')\n"},
		{Source: "c.ts", Status: m.StatusFailed, Err: errors.New("boom")},
	}

	if err := ui.DisplayResults(context.Background(), results); err != nil {
		t.Fatalf("DisplayResults() error = %v", err)
	}

	got := buf.String()
	for _, want := range []string{
		"a.component.class.spec.ts",
		"+it('x')",
		"c.ts: boom",
		"3 files, 1 created, 1 preview, 1 failed, 3 cases",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("DisplayResults() output missing %q, got:\n%s", want, got)
		}
	}
}

func TestSimpleUI_DisplayResultsCancelled(t *testing.T) {
	ui, buf := newBufferedUI()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := ui.DisplayResults(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("DisplayResults() error = %v, want context.Canceled", err)
	}

	if buf.Len() != 0 {
		t.Fatalf("cancelled display wrote output: %q", buf.String())
	}
}

func TestSimpleUI_DisplayResult(t *testing.T) {
	tests := []struct {
		name   string
		result m.Result
		want   string
	}{
		{
			name:   "success",
			result: m.Result{Source: "a.ts", Output: "a.class.spec.ts", Status: m.StatusUpdated, Cases: 1},
			want:   "updated    a.ts -> a.class.spec.ts (1 cases)\n",
		},
		{
			name:   "failure",
			result: m.Result{Source: "a.ts", Status: m.StatusFailed, Err: errors.New("syntax error")},
			want:   "failed     a.ts: syntax error\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui, buf := newBufferedUI()
			ui.DisplayResult(context.Background(), tt.result)

			if buf.String() != tt.want {
				t.Fatalf("DisplayResult() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestSimpleUI_DisplayStatus(t *testing.T) {
	t.Run("empty manifest", func(t *testing.T) {
		ui, buf := newBufferedUI()

		if err := ui.DisplayStatus(context.Background(), nil); err != nil {
			t.Fatalf("DisplayStatus() error = %v", err)
		}

		if !strings.Contains(buf.String(), "No generated spec files recorded") {
			t.Fatalf("DisplayStatus() = %q", buf.String())
		}
	})

	t.Run("entries", func(t *testing.T) {
		ui, buf := newBufferedUI()

		statuses := []m.EntryStatus{
			{Output: "a.class.spec.ts", Entry: m.ManifestEntry{Source: "a.ts", Class: "A", Cases: 2}, State: m.EntryOK},
			{Output: "b.class.spec.ts", Entry: m.ManifestEntry{Source: "b.ts", Class: "B", Cases: 1}, State: m.EntryEdited},
		}

		if err := ui.DisplayStatus(context.Background(), statuses); err != nil {
			t.Fatalf("DisplayStatus() error = %v", err)
		}

		got := buf.String()
		for _, want := range []string{"a.class.spec.ts", "a.ts", "ok", "b.class.spec.ts", "edited"} {
			if !strings.Contains(got, want) {
				t.Errorf("DisplayStatus() output missing %q, got:\n%s", want, got)
			}
		}
	})
}

func TestSimpleUI_DisplayWatching(t *testing.T) {
	ui, buf := newBufferedUI()
	ui.DisplayWatching(context.Background(), []m.Path{"src"})
	ui.DisplayWatching(context.Background(), []m.Path{"src", "lib"})

	want := "Watching 1 directory for changes (Ctrl+C to stop)\n" +
		"Watching 2 directories for changes (Ctrl+C to stop)\n"
	if buf.String() != want {
		t.Fatalf("DisplayWatching() = %q, want %q", buf.String(), want)
	}
}

func TestNewUI(t *testing.T) {
	cmd := &cobra.Command{}

	if _, ok := NewUI(cmd, false).(*SimpleUI); !ok {
		t.Fatalf("NewUI(false) should return SimpleUI")
	}

	if _, ok := NewUI(cmd, true).(*TUI); !ok {
		t.Fatalf("NewUI(true) should return TUI")
	}

	if IsTTY(nil) {
		t.Fatalf("IsTTY(nil) = true")
	}
}
