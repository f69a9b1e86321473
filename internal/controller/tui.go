package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	m "branchgen.dev/pkg/branchgen/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Border(lipgloss.RoundedBorder()).Padding(0, 2)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#2196F3"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")).Bold(true)

	statusStyles = map[m.Status]lipgloss.Style{
		m.StatusCreated:  addedStyle,
		m.StatusUpdated:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107")),
		m.StatusUpToDate: mutedStyle,
		m.StatusSkipped:  mutedStyle,
		m.StatusPreview:  hunkStyle,
		m.StatusFailed:   failedStyle,
	}

	stateStyles = map[m.EntryState]lipgloss.Style{
		m.EntryOK:      addedStyle,
		m.EntryEdited:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107")),
		m.EntryMissing: failedStyle,
	}
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// DisplayPlans shows the generated test titles grouped by file and method.
func (p *TUI) DisplayPlans(ctx context.Context, plans []m.Plan) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var (
		lines []string
		cases int
	)

	for _, plan := range plans {
		if plan.Err != nil {
			lines = append(lines, failedStyle.Render(fmt.Sprintf("✗ %s: %s", plan.Source, errorText(plan.Err))))
			continue
		}

		lines = append(lines, fmt.Sprintf("📄 %s  %s", plan.Source, mutedStyle.Render(plan.Scaffold.Class.Name)))

		for _, mc := range plan.Scaffold.Methods {
			lines = append(lines, fmt.Sprintf("   %s %s", mc.Method.Name,
				mutedStyle.Render(fmt.Sprintf("(%d branches, %d cases)", mc.Method.BranchCount(), len(mc.Cases)))))

			for _, tc := range mc.Cases {
				lines = append(lines, "     • "+tc.Title)
			}

			cases += len(mc.Cases)
		}
	}

	footer := []string{fmt.Sprintf("📊 Total: %d case(s) across %d file(s)", cases, len(plans))}

	return p.page(newPagerModel("Test plan", lines, footer))
}

// DisplayResults shows every outcome with colored statuses and dry-run diffs.
func (p *TUI) DisplayResults(ctx context.Context, results []m.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var lines []string

	for _, result := range results {
		lines = append(lines, styledResultLine(result))

		if result.Status == m.StatusPreview && result.Diff != "" {
			lines = append(lines, colorDiff(result.Diff)...)
		}
	}

	footer := []string{"📊 " + summaryLine(summarize(results))}

	return p.page(newPagerModel("Generated specs", lines, footer))
}

// DisplayResult prints one styled outcome line.
func (p *TUI) DisplayResult(ctx context.Context, result m.Result) {
	if err := ctx.Err(); err != nil {
		return
	}

	_, _ = fmt.Fprintln(p.output, styledResultLine(result))
}

// DisplayStatus shows the state of every recorded spec file.
func (p *TUI) DisplayStatus(ctx context.Context, statuses []m.EntryStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lines := make([]string, 0, len(statuses))
	for _, status := range statuses {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			stateStyles[status.State].Render(fmt.Sprintf("%-8s", status.State)),
			status.Output,
			mutedStyle.Render(fmt.Sprintf("(%s, %d cases)", status.Entry.Class, status.Entry.Cases))))
	}

	footer := []string{fmt.Sprintf("📊 %d spec file(s) recorded", len(statuses))}

	return p.page(newPagerModel("Spec status", lines, footer))
}

// DisplayWatching announces watch mode.
func (p *TUI) DisplayWatching(ctx context.Context, dirs []m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	_, _ = fmt.Fprintf(p.output, "👀 Watching %d director%s %s\n",
		len(dirs), plural(len(dirs), "y", "ies"), mutedStyle.Render("(Ctrl+C to stop)"))
}

func (p *TUI) page(model pagerModel) error {
	if f, ok := p.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model.height = height
			model.width = width
		}
	}

	// If list is small, just print and exit
	if !model.needsPagination() {
		_, err := fmt.Fprint(p.output, model.View())
		return err
	}

	program := tea.NewProgram(model, tea.WithOutput(p.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

func styledResultLine(result m.Result) string {
	style, ok := statusStyles[result.Status]
	if !ok {
		style = lipgloss.NewStyle()
	}

	status := style.Render(fmt.Sprintf("%-10s", result.Status))

	if result.Failed() {
		return fmt.Sprintf("%s %s: %s", status, result.Source, errorText(result.Err))
	}

	return fmt.Sprintf("%s %s → %s %s", status, result.Source, result.Output,
		mutedStyle.Render(fmt.Sprintf("(%d cases)", result.Cases)))
}

func colorDiff(diff string) []string {
	raw := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	lines := make([]string, 0, len(raw))

	for _, line := range raw {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines = append(lines, "    "+mutedStyle.Render(line))
		case strings.HasPrefix(line, "@@"):
			lines = append(lines, "    "+hunkStyle.Render(line))
		case strings.HasPrefix(line, "+"):
			lines = append(lines, "    "+addedStyle.Render(line))
		case strings.HasPrefix(line, "-"):
			lines = append(lines, "    "+removedStyle.Render(line))
		default:
			lines = append(lines, "    "+line)
		}
	}

	return lines
}

// pagerModel is a scrollable list of pre-rendered lines.
type pagerModel struct {
	title    string
	lines    []string
	footer   []string
	height   int
	width    int
	offset   int // Current scroll offset
	quitting bool
}

func newPagerModel(title string, lines []string, footer []string) pagerModel {
	return pagerModel{
		title:  title,
		lines:  lines,
		footer: footer,
	}
}

func (pm pagerModel) Init() tea.Cmd {
	return nil
}

func (pm pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pm.height = msg.Height
		pm.width = msg.Width

		return pm, nil

	case tea.KeyMsg:
		return pm.handleKeyPress(msg)
	}

	return pm, nil
}

//nolint:cyclop,exhaustive // Key handling requires multiple cases for UI navigation
func (pm pagerModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		pm.quitting = true
		return pm, tea.Quit
	default:
	}

	switch msg.String() {
	case "q":
		pm.quitting = true
		return pm, tea.Quit

	case "down", "j":
		pm.offset = pm.clamp(pm.offset + 1)

	case "up", "k":
		pm.offset = pm.clamp(pm.offset - 1)

	case "g", "home":
		pm.offset = 0

	case "G", "end":
		pm.offset = pm.maxOffset()

	case "d", "pgdown":
		pm.offset = pm.clamp(pm.offset + pm.itemsPerPage())

	case "u", "pgup":
		pm.offset = pm.clamp(pm.offset - pm.itemsPerPage())
	}

	return pm, nil
}

func (pm pagerModel) clamp(offset int) int {
	if offset < 0 {
		return 0
	}

	if maxOffset := pm.maxOffset(); offset > maxOffset {
		return maxOffset
	}

	return offset
}

// itemsPerPage calculates how many lines fit between the header and footer.
func (pm pagerModel) itemsPerPage() int {
	if pm.height == 0 {
		return 10
	}

	// header box (3) + blank, blank + footer, blank + page + help, top margin
	reserved := 8 + len(pm.footer)

	available := pm.height - reserved
	if available < 1 {
		return 1
	}

	return available
}

func (pm pagerModel) maxOffset() int {
	maxOff := len(pm.lines) - pm.itemsPerPage()
	if maxOff < 0 {
		return 0
	}

	return maxOff
}

// needsPagination returns true if the content is too large to fit on screen.
func (pm pagerModel) needsPagination() bool {
	if len(pm.lines) == 0 {
		return false
	}

	return len(pm.lines) > pm.itemsPerPage() && pm.height > 0
}

func (pm pagerModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("branchgen · " + pm.title))
	b.WriteString("\n\n")

	if len(pm.lines) == 0 {
		b.WriteString("  📭 Nothing to show\n")
		return b.String()
	}

	total := len(pm.lines)
	paginate := pm.needsPagination()

	start, end := 0, total
	if paginate {
		start = pm.clamp(pm.offset)

		end = start + pm.itemsPerPage()
		if end > total {
			end = total
		}
	}

	for _, line := range pm.lines[start:end] {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")

	for _, line := range pm.footer {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}

	if paginate {
		perPage := pm.itemsPerPage()
		currentPage := (start / perPage) + 1
		totalPages := (total + perPage - 1) / perPage

		b.WriteString("\n")
		fmt.Fprintf(&b, "  Page %d/%d | Showing %d-%d of %d\n", currentPage, totalPages, start+1, end, total)
		b.WriteString("  ↑/k: up | ↓/j: down | d/u: page | g: top | G: bottom | q: quit\n")
	}

	return b.String()
}
