package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	trackerdto "actograph/internal/modules/tracker/dto"
	workspacedto "actograph/internal/modules/workspace/dto"
	"actograph/internal/ui/theme"
)

const tickInterval = 100 * time.Millisecond

// ─── ports ───────────────────────────────────────────────────────────────────

type TrackerPort interface {
	LogActivity(ctx context.Context, activityID string) (trackerdto.LogOutput, error)
	Stop(ctx context.Context) (trackerdto.StopOutput, error)
	Reset(ctx context.Context) error
	Status(ctx context.Context) (trackerdto.StatusOutput, error)
}

type CatalogPort interface {
	ListActivities(ctx context.Context) ([]workspacedto.ActivityOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type TickMsg time.Time

type StatusMsg struct {
	Status trackerdto.StatusOutput
	Err    error
}

type ActivitiesLoadedMsg struct {
	Activities []workspacedto.ActivityOutput
	Err        error
}

// LoggedMsg bubbles to the app model so other tabs can refresh.
type LoggedMsg struct {
	Out trackerdto.LogOutput
	Err error
}

// StoppedMsg bubbles to the app model so other tabs can refresh.
type StoppedMsg struct {
	Out trackerdto.StopOutput
	Err error
}

// ─── list item ───────────────────────────────────────────────────────────────

type activityItem struct {
	activity workspacedto.ActivityOutput
}

func (i activityItem) Title() string {
	return theme.ActivityStyle(i.activity.ColorTag).Render("■ ") + i.activity.Name
}

func (i activityItem) Description() string {
	if i.activity.Description != "" {
		return i.activity.Description
	}
	return i.activity.ID
}

func (i activityItem) FilterValue() string { return i.activity.Name }

// ─── model ───────────────────────────────────────────────────────────────────

// Model drives the live tracking tab: an activity picker on the left and the
// running stopwatch on the right. The stopwatch display refreshes on a 100ms
// tick that reads tracker status only; every mutation goes through the port.
type Model struct {
	tracker TrackerPort
	catalog CatalogPort

	activities list.Model
	status     trackerdto.StatusOutput
	statusErr  string
	width      int
	height     int
}

func New(tracker TrackerPort, catalog CatalogPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Activities"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return Model{
		tracker:    tracker,
		catalog:    catalog,
		activities: l,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadActivitiesCmd(), m.statusCmd(), m.tickCmd())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.activities.SetSize(m.width*4/10, m.height)

	case TickMsg:
		cmds = append(cmds, m.statusCmd(), m.tickCmd())

	case StatusMsg:
		if msg.Err != nil {
			m.statusErr = msg.Err.Error()
		} else {
			m.statusErr = ""
			m.status = msg.Status
		}

	case ActivitiesLoadedMsg:
		if msg.Err != nil {
			m.activities.Title = "Activities — " + msg.Err.Error()
			break
		}
		items := make([]list.Item, len(msg.Activities))
		for i, a := range msg.Activities {
			items[i] = activityItem{activity: a}
		}
		cmds = append(cmds, m.activities.SetItems(items))

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "l":
			if item, ok := m.activities.SelectedItem().(activityItem); ok {
				cmds = append(cmds, m.logCmd(item.activity.ID))
			}
		case "x":
			cmds = append(cmds, m.stopCmd())
		case "r":
			cmds = append(cmds, m.resetCmd())
		}
	}

	var lCmd tea.Cmd
	m.activities, lCmd = m.activities.Update(msg)
	cmds = append(cmds, lCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width * 4 / 10
	paneW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.activities.View())

	stopwatchPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(paneW - 2).
		Height(m.height - 2).
		Padding(1).
		Render(m.renderStopwatch())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, stopwatchPane)
}

// Filtering reports whether the activity list's search filter is active.
func (m Model) Filtering() bool {
	return m.activities.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) renderStopwatch() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Stopwatch") + "\n\n")

	if m.statusErr != "" {
		sb.WriteString(theme.Muted.Render("status: ") + m.statusErr + "\n")
		return sb.String()
	}
	if m.status.Mode == "idle" {
		sb.WriteString(theme.Muted.Render("idle — press enter on an activity to start logging") + "\n")
		return sb.String()
	}

	elapsed := formatElapsed(m.status.ElapsedMS)
	if m.status.Running {
		sb.WriteString(theme.Hot.Render(elapsed) + "\n\n")
	} else {
		sb.WriteString(theme.Muted.Render(elapsed+" (paused)") + "\n\n")
	}
	sb.WriteString(theme.Muted.Render("session:  ") + m.status.SessionName + "\n")
	sb.WriteString(theme.Muted.Render("activity: ") + m.status.ActivityName + "\n")
	sb.WriteString("\n" + theme.Muted.Render("enter: switch activity  x: stop  r: reset"))
	return sb.String()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) statusCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.tracker.Status(context.Background())
		return StatusMsg{Status: status, Err: err}
	}
}

func (m Model) loadActivitiesCmd() tea.Cmd {
	return func() tea.Msg {
		activities, err := m.catalog.ListActivities(context.Background())
		return ActivitiesLoadedMsg{Activities: activities, Err: err}
	}
}

func (m Model) logCmd(activityID string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.tracker.LogActivity(context.Background(), activityID)
		return LoggedMsg{Out: out, Err: err}
	}
}

func (m Model) stopCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.tracker.Stop(context.Background())
		return StoppedMsg{Out: out, Err: err}
	}
}

func (m Model) resetCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.tracker.Reset(context.Background())
		status, statusErr := m.tracker.Status(context.Background())
		if err != nil {
			return StatusMsg{Err: err}
		}
		return StatusMsg{Status: status, Err: statusErr}
	}
}

func formatElapsed(ms int64) string {
	tenths := (ms % 1000) / 100
	seconds := ms / 1000
	return fmt.Sprintf("%02d:%02d:%02d.%d", seconds/3600, (seconds/60)%60, seconds%60, tenths)
}
