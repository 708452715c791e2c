// Package tui provides a Bubble Tea TUI for viewing recorded sessions.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/recap/internal/feedback"
	"github.com/fakeyudi/recap/internal/trace"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	// Active tab: bright, underlined
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	// Inactive tab: muted
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	// Separator between tabs
	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	// Section heading inside a tab
	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	// Key=value label
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)

	responseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	toolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// ── Tab definitions ─────────────────

type tabID int

const (
	tabSummary tabID = iota
	tabExchanges
	tabErrors
	tabDebugLogs
	tabCount
)

var tabNames = [tabCount]string{
	"Summary", "Exchanges", "Errors", "Debug Logs",
}

// ── Model ────────────────────

// Model is the root Bubble Tea model for the TUI.
type Model struct {
	snapshot  *trace.Snapshot
	filename  string
	activeTab tabID
	viewports [tabCount]viewport.Model
	width     int
	height    int
	ready     bool
}

// New creates a new TUI model for the given snapshot and source filename.
func New(sn *trace.Snapshot, filename string) Model {
	return Model{
		snapshot: sn,
		filename: filepath.Base(filename),
	}
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "l", "right":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab", "h", "left":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case "1", "2", "3", "4":
			m.activeTab = tabID(msg.String()[0] - '1')
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  recap  " + m.filename)

	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, tabNames[i])
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	content := m.viewports[m.activeTab].View()

	hint := "  ←/→ tab  ↑/↓ scroll  1-4 jump  q quit"
	pct := fmt.Sprintf("%3.0f%%", m.viewports[m.activeTab].ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(
		hint + strings.Repeat(" ", pad) + pct,
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

// ── Viewport management ───────────────────────────────────────────────────────

func (m *Model) initViewports() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	vpHeight := m.height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	for i := tabID(0); i < tabCount; i++ {
		vp := viewport.New(m.width, vpHeight)
		vp.SetContent(m.renderTab(i))
		m.viewports[i] = vp
	}
}

// ── Tab renderers ─────────────────────────────────────────────────────────────

func (m *Model) renderTab(t tabID) string {
	switch t {
	case tabSummary:
		return m.renderSummary()
	case tabExchanges:
		return m.renderExchanges()
	case tabErrors:
		return m.renderErrors()
	case tabDebugLogs:
		return m.renderDebugLogs()
	}
	return ""
}

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func (m *Model) renderSummary() string {
	meta := m.snapshot.Metadata
	stats := m.snapshot.Statistics
	var sb strings.Builder
	sb.WriteString(heading("Session Summary"))

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-16s", label)) + "  " + value + "\n")
	}
	row("Session ID:", meta.SessionID)
	row("Model:", meta.Model)
	row("Work Dir:", meta.WorkingDirectory)
	row("Started:", formatISO(meta.StartTime))
	if meta.EndTime != nil {
		row("Stopped:", formatISO(*meta.EndTime))
	}
	row("Duration:", feedback.FormatDuration(stats.DurationSeconds))
	if meta.GitBranch != nil {
		row("Branch:", *meta.GitBranch)
	}

	if env := m.snapshot.Environment; env != nil {
		sb.WriteString(heading("Environment"))
		row("OS:", strings.TrimSpace(env.OSName+" "+env.OSVersion))
		row("Shell:", env.Shell)
		row("Go:", env.GoVersion)
		if env.GitVersion != nil {
			row("Git:", *env.GitVersion)
		}
		if env.GHCLIVersion != nil {
			row("gh:", *env.GHCLIVersion)
		}
		if env.NodeVersion != nil {
			row("Node:", *env.NodeVersion)
		}
		if env.CopilotVersion != nil {
			row("Copilot:", *env.CopilotVersion)
		}
	}

	sb.WriteString(heading("Statistics"))
	row("Exchanges:", fmt.Sprintf("%d", stats.TotalExchanges))
	row("Tool Calls:", fmt.Sprintf("%d", stats.TotalToolCalls))
	row("Errors:", fmt.Sprintf("%d", stats.TotalErrors))
	row("Tokens In:", fmt.Sprintf("%d", stats.TokenEstimates.TotalInput))
	row("Tokens Out:", fmt.Sprintf("%d", stats.TokenEstimates.TotalOutput))
	if stats.ToolPerformance.AvgDurationMS != nil {
		row("Avg Tool Time:", fmt.Sprintf("%.0fms", *stats.ToolPerformance.AvgDurationMS))
	}
	for name, count := range stats.ToolPerformance.ToolUsage {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("    %-14s  ×%d", name, count)) + "\n")
	}
	return sb.String()
}

func (m *Model) renderExchanges() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Exchanges (%d)", len(m.snapshot.Exchanges))))
	if len(m.snapshot.Exchanges) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}
	for i, e := range m.snapshot.Exchanges {
		num := dimStyle.Render(fmt.Sprintf("  #%d", i+1))
		ts := timeStyle.Render(formatISO(e.Timestamp))
		sb.WriteString(num + "  " + ts)
		if e.DurationMS != nil {
			sb.WriteString(dimStyle.Render(fmt.Sprintf("  (%.0fms)", *e.DurationMS)))
		}
		sb.WriteString("\n")
		sb.WriteString(promptStyle.Render("  > ") + e.UserPrompt + "\n")
		for _, tc := range e.ToolCalls {
			line := toolStyle.Render("    ⚙ "+tc.Name) + dimStyle.Render(formatParams(tc.Parameters))
			if tc.DurationMS != nil {
				line += dimStyle.Render(fmt.Sprintf("  %.0fms", *tc.DurationMS))
			}
			if tc.Error != nil {
				line += "  " + errorStyle.Render("✗ "+*tc.Error)
			}
			sb.WriteString(line + "\n")
		}
		sb.WriteString(responseStyle.Render("  < ") + e.AssistantResponse + "\n\n")
	}
	return sb.String()
}

func (m *Model) renderErrors() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Errors (%d)", len(m.snapshot.Errors))))
	if len(m.snapshot.Errors) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}
	for _, er := range m.snapshot.Errors {
		typ := er.Type
		if typ == "" {
			typ = "unknown"
		}
		ts := timeStyle.Render(formatISO(er.Timestamp))
		sb.WriteString("  " + ts + "  " + errorStyle.Render("["+typ+"]") + "  " + er.Message + "\n\n")
	}
	return sb.String()
}

func (m *Model) renderDebugLogs() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Debug Log Findings (%d files)", len(m.snapshot.DebugLogs))))
	if len(m.snapshot.DebugLogs) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}
	for _, f := range m.snapshot.DebugLogs {
		sb.WriteString(labelStyle.Render("  "+f.File) + "\n")
		if f.Error != "" {
			sb.WriteString("    " + errorStyle.Render(f.Error) + "\n\n")
			continue
		}
		for _, entry := range f.Entries {
			sb.WriteString(dimStyle.Render("    "+entry["raw"]) + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// formatISO shortens an ISO timestamp for display, falling back to the raw
// string when it does not parse.
func formatISO(ts string) string {
	t, err := trace.ParseISOTime(ts)
	if err != nil {
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}

// formatParams renders tool-call parameters as a compact argument list.
func formatParams(params map[string]any) string {
	if len(params) == 0 {
		return "()"
	}
	parts := make([]string, 0, len(params))
	for k, v := range params {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Run starts the TUI for the given snapshot.
func Run(sn *trace.Snapshot, filename string) error {
	p := tea.NewProgram(New(sn, filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
