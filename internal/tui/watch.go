package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/darjeeling/nudge/internal/monitor"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.design/x/clipboard"
)

// Styling
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	idleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("1"))

	activeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	nextRunStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("11"))

	projectStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("6"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	focusedBorderColor   = lipgloss.Color("6")
	unfocusedBorderColor = lipgloss.Color("8")
	logsBorderColor      = lipgloss.Color("2")
)

type tickMsg time.Time

type snapshotProvider interface {
	Snapshots(now time.Time) []monitor.AgentSnapshot
}

type model struct {
	sched       snapshotProvider
	clock       func() time.Time
	snaps       []monitor.AgentSnapshot
	merged      []monitor.LogEntry
	selectedIdx int
	width       int
	height      int
	viewport    viewport.Model
	clipboardOK bool
	flash       string
}

// NewModel builds the dashboard model over a snapshot provider.
func NewModel(sched snapshotProvider, clock func() time.Time) model {
	if clock == nil {
		clock = time.Now
	}
	m := model{
		sched:    sched,
		clock:    clock,
		viewport: viewport.New(0, 0),
	}
	m.refresh()
	return m
}

func (m *model) refresh() {
	now := m.clock()
	m.snaps = m.sched.Snapshots(now)
	m.merged = monitor.MergeLogs(m.snaps)
	if m.selectedIdx >= len(m.snaps) {
		m.selectedIdx = 0
	}
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "left", "k":
			if m.selectedIdx > 0 {
				m.selectedIdx--
			}
		case "right", "j":
			if m.selectedIdx < len(m.snaps)-1 {
				m.selectedIdx++
			}
		case "y":
			m.flash = m.copySelectedLog()
		case "g":
			m.viewport.GotoTop()
		case "G":
			m.viewport.GotoBottom()
		case "pgup", "ctrl+u":
			m.viewport.LineUp(3)
		case "pgdown", "ctrl+d":
			m.viewport.LineDown(3)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.sizeViewport()

	case tickMsg:
		m.refresh()
		m.viewport.SetContent(m.logLines())
		m.viewport.GotoBottom()
		return m, tickCmd()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// copySelectedLog puts the selected agent's newest log line on the system
// clipboard. Returns the status-bar flash text.
func (m *model) copySelectedLog() string {
	if m.selectedIdx >= len(m.snaps) {
		return ""
	}
	logs := m.snaps[m.selectedIdx].Logs
	if len(logs) == 0 {
		return "nothing to copy"
	}
	if !m.clipboardOK {
		if err := clipboard.Init(); err != nil {
			return "clipboard unavailable"
		}
		m.clipboardOK = true
	}
	clipboard.Write(clipboard.FmtText, []byte(logs[len(logs)-1].String()))
	return "copied"
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	title := titleStyle.Render("Nudge")

	panels := make([]string, 0, len(m.snaps))
	panelWidth := m.panelWidth()
	for i, snap := range m.snaps {
		panels = append(panels, m.renderPanel(snap, panelWidth, i == m.selectedIdx))
	}
	var monitorRow string
	if len(panels) == 0 {
		monitorRow = mutedStyle.Render("No monitors active")
	} else {
		monitorRow = lipgloss.JoinHorizontal(lipgloss.Top, panels...)
	}

	logsPanel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(logsBorderColor).
		Width(m.width - 2).
		Render(labelStyle.Render("Execution Log") + "\n" + m.viewport.View())

	status := "q: quit | j/k: select monitor | y: copy last log | g/G: top/bottom"
	if m.flash != "" {
		status += " | " + m.flash
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		monitorRow,
		logsPanel,
		statusBarStyle.Render(status),
	)
}

func (m model) panelWidth() int {
	n := len(m.snaps)
	if n == 0 {
		n = 1
	}
	w := m.width/n - 2
	if w < 30 {
		w = 30
	}
	return w
}

func (m *model) sizeViewport() {
	h := m.height - m.panelHeight() - 6
	if h < 3 {
		h = 3
	}
	m.viewport.Width = m.width - 4
	m.viewport.Height = h
	m.viewport.SetContent(m.logLines())
	m.viewport.GotoBottom()
}

func (m model) panelHeight() int {
	return 10
}

func (m model) logLines() string {
	if len(m.merged) == 0 {
		return mutedStyle.Render("No executions yet")
	}
	lines := make([]string, 0, len(m.merged))
	for _, e := range m.merged {
		lines = append(lines, valueStyle.Render(truncateString(e.String(), m.width-6)))
	}
	return strings.Join(lines, "\n")
}

func (m model) renderPanel(snap monitor.AgentSnapshot, width int, selected bool) string {
	inner := width - 2
	var b strings.Builder

	row := func(label, value string, style lipgloss.Style) {
		line := labelStyle.Render(padRight(label, 15)) + style.Render(truncateString(value, inner-16))
		b.WriteString(line + "\n")
	}

	row("Current Time:", snap.Now.Format("2006-01-02 15:04:05"), valueStyle)

	if snap.HasActivity {
		row("Last Activity:", snap.LastActivity.Format("2006-01-02 15:04:05"), valueStyle)
		if snap.ProjectPath != "" {
			row("Last Project:", snap.ProjectPath, projectStyle)
		}
		if snap.LastPrompt != "" {
			row("Last Prompt:", truncateString(snap.LastPrompt, 80), mutedStyle)
		}
	} else {
		row("Last Activity:", "Checking...", mutedStyle)
	}

	if snap.HasIdleStats {
		if snap.Idle {
			row("Status:", fmt.Sprintf("IDLE (%d minutes)", snap.IdleMinutes), idleStyle)
			row("Next Execution:", snap.NextWindow.Format("15:04:05"), nextRunStyle)
		} else {
			row("Status:", fmt.Sprintf("Active (%d minutes since last activity)", snap.IdleMinutes), activeStyle)
		}
	} else {
		row("Status:", "Initializing...", mutedStyle)
	}

	row("Target Dir:", snap.TargetDir, valueStyle)
	row("Prompt:", truncateString(snap.Prompt, 40), valueStyle)

	borderColor := unfocusedBorderColor
	if selected {
		borderColor = focusedBorderColor
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(width).
		Render(titleStyle.Render(snap.Name+" Monitor") + "\n" + strings.TrimRight(b.String(), "\n"))
}

func padRight(s string, width int) string {
	pad := width - lipgloss.Width(s)
	if pad <= 0 {
		return s
	}
	return s + strings.Repeat(" ", pad)
}

func truncateString(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts the dashboard over a running scheduler.
func Run(sched snapshotProvider) error {
	m := NewModel(sched, time.Now)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
