package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	reportdto "actograph/internal/modules/report/dto"
	"actograph/internal/ui/theme"
)

const barWidth = 30

// ─── port ────────────────────────────────────────────────────────────────────

type ReportPort interface {
	Summary(ctx context.Context, sessionID string) (reportdto.SummaryOutput, error)
	Timeline(ctx context.Context, sessionID string, bucketMS int64) (reportdto.TimelineOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type SummaryLoadedMsg struct {
	Summary reportdto.SummaryOutput
	Err     error
}

type TimelineLoadedMsg struct {
	Timeline reportdto.TimelineOutput
	Err      error
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model renders the current session's per-activity summary and its bucketed
// timeline side by side. It reloads on demand, not on a timer.
type Model struct {
	port     ReportPort
	summary  reportdto.SummaryOutput
	timeline reportdto.TimelineOutput
	errText  string
	left     viewport.Model
	right    viewport.Model
	width    int
	height   int
}

func New(port ReportPort) Model {
	style := lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)
	left := viewport.New(0, 0)
	left.Style = style
	right := viewport.New(0, 0)
	right.Style = style
	return Model{port: port, left: left, right: right}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload re-fetches summary and timeline for the current session.
func (m Model) Reload() tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			summary, err := m.port.Summary(context.Background(), "")
			return SummaryLoadedMsg{Summary: summary, Err: err}
		},
		func() tea.Msg {
			timeline, err := m.port.Timeline(context.Background(), "", 0)
			return TimelineLoadedMsg{Timeline: timeline, Err: err}
		},
	)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case SummaryLoadedMsg:
		if msg.Err != nil {
			m.errText = msg.Err.Error()
		} else {
			m.errText = ""
			m.summary = msg.Summary
			m.left.SetContent(m.renderSummary())
		}

	case TimelineLoadedMsg:
		if msg.Err == nil {
			m.timeline = msg.Timeline
			m.right.SetContent(m.renderTimeline())
		}

	case tea.KeyMsg:
		if msg.String() == "r" {
			cmds = append(cmds, m.Reload())
		}
	}

	var lCmd, rCmd tea.Cmd
	m.left, lCmd = m.left.Update(msg)
	m.right, rCmd = m.right.Update(msg)
	cmds = append(cmds, lCmd, rCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.errText != "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("report: "+m.errText))
	}

	halfW := m.width / 2
	pane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Height(m.height - 2)

	leftPane := pane.Width(halfW - 2).Render(m.left.View())
	rightPane := pane.Width(m.width - halfW - 2).Render(m.right.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	halfW := m.width / 2
	m.left.Width = halfW - 4
	m.left.Height = m.height - 4
	m.right.Width = m.width - halfW - 4
	m.right.Height = m.height - 4
}

func (m Model) renderSummary() string {
	s := m.summary
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Summary — "+s.SessionName) + "\n\n")
	sb.WriteString(theme.Muted.Render("total: ") + formatDuration(s.TotalDurationMS) + "\n")
	if s.OpenCount > 0 {
		sb.WriteString(theme.Hot.Render(fmt.Sprintf("unfinished events: %d", s.OpenCount)) + "\n")
	}
	sb.WriteString("\n")
	for _, stat := range s.Stats {
		bar := renderBar(stat.Percentage)
		style := theme.ActivityStyle(stat.ColorTag)
		sb.WriteString(fmt.Sprintf("%-18s %s %5.1f%%  %s (n=%d)\n",
			stat.Name, style.Render(bar), stat.Percentage, formatDuration(stat.DurationMS), stat.Count))
	}
	if len(s.Stats) == 0 {
		sb.WriteString(theme.Muted.Render("no closed events yet") + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("r: refresh"))
	return sb.String()
}

func (m Model) renderTimeline() string {
	t := m.timeline
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Timeline") + "\n\n")
	if len(t.Buckets) == 0 {
		sb.WriteString(theme.Muted.Render("no timeline data") + "\n")
		return sb.String()
	}
	for _, bucket := range t.Buckets {
		sb.WriteString(theme.Muted.Render(bucket.Label) + " ")
		if len(bucket.PerActivityMS) == 0 {
			sb.WriteString(theme.Muted.Render("·") + "\n")
			continue
		}
		parts := make([]string, 0, len(bucket.PerActivityMS))
		for activity, ms := range bucket.PerActivityMS {
			parts = append(parts, fmt.Sprintf("%s=%s", activity, formatDuration(ms)))
		}
		sb.WriteString(strings.Join(parts, "  ") + "\n")
	}
	return sb.String()
}

func renderBar(percentage float64) string {
	filled := int(percentage / 100 * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func formatDuration(ms int64) string {
	seconds := ms / 1000
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm%02ds", minutes, seconds%60)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}
