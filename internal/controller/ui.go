// Package controller provides output adapters for displaying scaffolding results.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "branchgen.dev/pkg/branchgen/internal/model"
)

// UI defines how workflow outcomes are shown to the user.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	// DisplayPlans shows the classes, methods and test cases found without writing.
	DisplayPlans(ctx context.Context, plans []m.Plan) error
	// DisplayResults shows the outcome of a generate run, dry-run diffs included.
	DisplayResults(ctx context.Context, results []m.Result) error
	// DisplayResult shows a single outcome as it happens in watch mode.
	DisplayResult(ctx context.Context, result m.Result)
	// DisplayStatus shows the state of every recorded spec file.
	DisplayStatus(ctx context.Context, statuses []m.EntryStatus) error
	// DisplayWatching announces the directories being watched.
	DisplayWatching(ctx context.Context, dirs []m.Path)
}

// NewUI returns the TUI for interactive terminals and SimpleUI otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is an interactive terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

// summary counts results per status.
type summary struct {
	total  int
	cases  int
	counts map[m.Status]int
}

func summarize(results []m.Result) summary {
	s := summary{counts: make(map[m.Status]int)}
	for _, r := range results {
		s.total++
		s.cases += r.Cases
		s.counts[r.Status]++
	}

	return s
}

// statusOrder is the order statuses are listed in summaries.
var statusOrder = []m.Status{
	m.StatusCreated,
	m.StatusUpdated,
	m.StatusUpToDate,
	m.StatusSkipped,
	m.StatusPreview,
	m.StatusFailed,
}

func errorText(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}
