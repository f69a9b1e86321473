package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "branchgen.dev/pkg/branchgen/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayPlans prints one row per method with its branch and case counts.
func (s *SimpleUI) DisplayPlans(ctx context.Context, plans []m.Plan) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderPlanTable(plans))
	s.printFailures(planFailures(plans))

	return nil
}

func renderPlanTable(plans []m.Plan) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Class", "Method", "Branches", "Cases"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
	})

	files, totalCases := 0, 0

	for _, plan := range plans {
		if plan.Err != nil {
			continue
		}

		files++

		path, class := string(plan.Source), plan.Scaffold.Class.Name
		if len(plan.Scaffold.Methods) == 0 {
			table.Append([]string{path, class, "-", "0", "0"})
			continue
		}

		for _, mc := range plan.Scaffold.Methods {
			table.Append([]string{
				path,
				class,
				mc.Method.Name,
				fmt.Sprintf("%d", mc.Method.BranchCount()),
				fmt.Sprintf("%d", len(mc.Cases)),
			})

			totalCases += len(mc.Cases)
			path, class = "", ""
		}
	}

	table.SetFooter([]string{fmt.Sprintf("Total Files %d", files), "", "", "", fmt.Sprintf("%d", totalCases)})
	table.Render()

	return tableBuffer.String()
}

// DisplayResults prints a table of outcomes, then failures and dry-run diffs.
func (s *SimpleUI) DisplayResults(ctx context.Context, results []m.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderResultTable(results))

	for _, result := range results {
		if result.Status == m.StatusPreview && result.Diff != "" {
			s.printf("\n%s", result.Diff)
		}
	}

	s.printFailures(resultFailures(results))
	s.printf("%s\n", summaryLine(summarize(results)))

	return nil
}

func renderResultTable(results []m.Result) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Source", "Spec", "Status", "Cases"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
	})

	for _, result := range results {
		table.Append([]string{
			string(result.Source),
			string(result.Output),
			string(result.Status),
			fmt.Sprintf("%d", result.Cases),
		})
	}

	table.Render()

	return tableBuffer.String()
}

// DisplayResult prints a single outcome line.
func (s *SimpleUI) DisplayResult(ctx context.Context, result m.Result) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", resultLine(result))
}

// DisplayStatus prints the state of every recorded spec file.
func (s *SimpleUI) DisplayStatus(ctx context.Context, statuses []m.EntryStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(statuses) == 0 {
		s.printf("No generated spec files recorded\n")
		return nil
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Spec", "Source", "Class", "Cases", "State"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for _, status := range statuses {
		table.Append([]string{
			string(status.Output),
			status.Entry.Source,
			status.Entry.Class,
			fmt.Sprintf("%d", status.Entry.Cases),
			string(status.State),
		})
	}

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	return nil
}

// DisplayWatching prints the watched directories.
func (s *SimpleUI) DisplayWatching(ctx context.Context, dirs []m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Watching %d director%s for changes (Ctrl+C to stop)\n", len(dirs), plural(len(dirs), "y", "ies"))
}

func (s *SimpleUI) printFailures(failures []string) {
	if len(failures) == 0 {
		return
	}

	s.printf("\nFailures:\n")

	for _, failure := range failures {
		s.printf("  %s\n", failure)
	}
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func planFailures(plans []m.Plan) []string {
	var failures []string

	for _, plan := range plans {
		if plan.Err != nil {
			failures = append(failures, fmt.Sprintf("%s: %s", plan.Source, errorText(plan.Err)))
		}
	}

	return failures
}

func resultFailures(results []m.Result) []string {
	var failures []string

	for _, result := range results {
		if result.Failed() {
			failures = append(failures, fmt.Sprintf("%s: %s", result.Source, errorText(result.Err)))
		}
	}

	return failures
}

func resultLine(result m.Result) string {
	if result.Failed() {
		return fmt.Sprintf("%-10s %s: %s", result.Status, result.Source, errorText(result.Err))
	}

	return fmt.Sprintf("%-10s %s -> %s (%d cases)", result.Status, result.Source, result.Output, result.Cases)
}

func summaryLine(s summary) string {
	parts := []string{fmt.Sprintf("%d file%s", s.total, plural(s.total, "", "s"))}

	for _, status := range statusOrder {
		if n := s.counts[status]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, status))
		}
	}

	parts = append(parts, fmt.Sprintf("%d case%s", s.cases, plural(s.cases, "", "s")))

	return strings.Join(parts, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}

	return many
}
