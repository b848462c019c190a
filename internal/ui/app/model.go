package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	reportdto "actograph/internal/modules/report/dto"
	trackerdto "actograph/internal/modules/tracker/dto"
	workspacedto "actograph/internal/modules/workspace/dto"
	"actograph/internal/ui/components"
	"actograph/internal/ui/theme"
	reportview "actograph/internal/ui/views/report"
	sessionsview "actograph/internal/ui/views/sessions"
	trackerview "actograph/internal/ui/views/tracker"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type workspacePort interface {
	Create(ctx context.Context, name string) (workspacedto.SessionOutput, error)
	List(ctx context.Context) ([]workspacedto.SessionOutput, error)
	Get(ctx context.Context, sessionID string) (workspacedto.SessionDetailOutput, error)
	Delete(ctx context.Context, sessionID string) error
	SetStatus(ctx context.Context, sessionID, status string) (workspacedto.SessionOutput, error)
	WriteNote(ctx context.Context, sessionID string) (string, error)
	ListActivities(ctx context.Context) ([]workspacedto.ActivityOutput, error)
}

type trackerPort interface {
	LogActivity(ctx context.Context, activityID string) (trackerdto.LogOutput, error)
	Stop(ctx context.Context) (trackerdto.StopOutput, error)
	Reset(ctx context.Context) error
	Status(ctx context.Context) (trackerdto.StatusOutput, error)
	Switch(ctx context.Context, sessionID string) (trackerdto.StatusOutput, error)
}

type reportPort interface {
	Summary(ctx context.Context, sessionID string) (reportdto.SummaryOutput, error)
	Timeline(ctx context.Context, sessionID string, bucketMS int64) (reportdto.TimelineOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabSessions tabID = iota
	tabTracker
	tabReport
	tabCount
)

var tabLabels = [tabCount]string{
	"Sessions", "Tracker", "Report",
}

// ─── async messages ───────────────────────────────────────────────────────────

type sessionMutatedMsg struct {
	verb string
	out  workspacedto.SessionOutput
	err  error
}

type sessionDeletedMsg struct {
	sessionID string
	err       error
}

type noteWrittenMsg struct {
	path string
	err  error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Enter   key.Binding
	Delete  key.Binding
	Note    key.Binding
	Stop    key.Binding
	Reset   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "load / log")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete session")),
		Note:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "write note")),
		Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop tracking")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset stopwatch")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Enter, k.Delete, k.Note},
		{k.Stop, k.Reset},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the global help
// overlay, and the command palette. All business logic is delegated to port
// interfaces; all rendering is delegated to sub-views.
type Model struct {
	workspacePath string

	workspace workspacePort
	tracker   trackerPort

	sessionsView sessionsview.Model
	trackerView  trackerview.Model
	reportView   reportview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(workspacePath string, workspace workspacePort, tracker trackerPort, report reportPort) Model {
	return Model{
		workspacePath: workspacePath,
		workspace:     workspace,
		tracker:       tracker,
		sessionsView:  sessionsview.New(workspace),
		trackerView:   trackerview.New(tracker, workspace),
		reportView:    reportview.New(report),
		activeTab:     tabSessions,
		keys:          defaultKeys(),
		help:          help.New(),
		palette:       components.NewPalette(),
		status:        "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.sessionsView.Init(),
		m.trackerView.Init(),
		m.reportView.Init(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	// Stopwatch ticks and tracker status always reach the tracker view, even
	// when another tab is active, so the tick chain never dies.
	case trackerview.TickMsg, trackerview.StatusMsg, trackerview.ActivitiesLoadedMsg:
		var cmd tea.Cmd
		m.trackerView, cmd = m.trackerView.Update(msg)
		return m, cmd

	case trackerview.LoggedMsg:
		if msg.Err != nil {
			m.status = "track log failed: " + msg.Err.Error()
		} else {
			m.status = "logging " + msg.Out.Opened.ActivityName
		}
		cmds = append(cmds, m.sessionsView.Reload(), m.reportView.Reload())

	case trackerview.StoppedMsg:
		if msg.Err != nil {
			m.status = "track stop failed: " + msg.Err.Error()
		} else if !msg.Out.Stopped {
			m.status = "not tracking"
		} else {
			m.status = "tracking stopped"
		}
		cmds = append(cmds, m.sessionsView.Reload(), m.reportView.Reload())

	case sessionMutatedMsg:
		if msg.err != nil {
			m.status = "session " + msg.verb + " failed: " + msg.err.Error()
		} else {
			m.status = "session " + msg.verb + ": " + msg.out.Name
		}
		cmds = append(cmds, m.sessionsView.Reload(), m.reportView.Reload())

	case sessionDeletedMsg:
		if msg.err != nil {
			m.status = "session delete failed: " + msg.err.Error()
		} else {
			m.status = "session deleted: " + msg.sessionID
		}
		cmds = append(cmds, m.sessionsView.Reload(), m.reportView.Reload())

	case noteWrittenMsg:
		if msg.err != nil {
			m.status = "note failed: " + msg.err.Error()
		} else {
			m.status = "note written: " + msg.path
		}

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		case "enter":
			if m.activeTab == tabSessions {
				if id, ok := m.sessionsView.SelectedSessionID(); ok {
					cmds = append(cmds, m.loadSessionCmd(id))
				}
			}
		case "d":
			if m.activeTab == tabSessions {
				if id, ok := m.sessionsView.SelectedSessionID(); ok {
					cmds = append(cmds, m.deleteSessionCmd(id))
				}
			}
		case "n":
			if m.activeTab == tabSessions {
				if id, ok := m.sessionsView.SelectedSessionID(); ok {
					cmds = append(cmds, m.writeNoteCmd(id))
				}
			}
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabSessions:
		m.sessionsView, tabCmd = m.sessionsView.Update(msg)
	case tabTracker:
		m.trackerView, tabCmd = m.trackerView.Update(msg)
	case tabReport:
		m.reportView, tabCmd = m.reportView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabSessions:
		return m.sessionsView.View()
	case tabTracker:
		return m.trackerView.View()
	case tabReport:
		return m.reportView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "actograph  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	selected, _ := m.sessionsView.SelectedSessionID()

	switch parts[0] {
	case "session:create":
		if len(parts) < 2 {
			m.status = "usage: session:create <name>"
			return m, nil
		}
		name := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		return m, m.createSessionCmd(name)

	case "session:load":
		id := selected
		if len(parts) >= 2 {
			id = parts[1]
		}
		if id == "" {
			m.status = "no session selected"
			return m, nil
		}
		return m, m.loadSessionCmd(id)

	case "session:delete":
		id := selected
		if len(parts) >= 2 {
			id = parts[1]
		}
		if id == "" {
			m.status = "no session selected"
			return m, nil
		}
		return m, m.deleteSessionCmd(id)

	case "session:status":
		if len(parts) < 2 {
			m.status = "usage: session:status <draft|active|completed|archived>"
			return m, nil
		}
		if selected == "" {
			m.status = "no session selected"
			return m, nil
		}
		return m, m.setStatusCmd(selected, parts[1])

	case "session:note":
		return m, m.writeNoteCmd(selected)

	case "track:log":
		if len(parts) < 2 {
			m.status = "usage: track:log <activity-id>"
			return m, nil
		}
		m.activeTab = tabTracker
		return m, m.trackLogCmd(parts[1])

	case "track:stop":
		m.activeTab = tabTracker
		return m, m.trackStopCmd()

	case "track:reset":
		m.activeTab = tabTracker
		return m, m.trackResetCmd()

	case "report:summary":
		m.activeTab = tabReport
		return m, m.reportView.Reload()

	case "report:timeline":
		m.activeTab = tabReport
		if len(parts) >= 2 {
			if _, err := strconv.Atoi(parts[1]); err != nil {
				m.status = "invalid bucket minutes"
				return m, nil
			}
		}
		return m, m.reportView.Reload()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewFiltering reports whether the active tab's list filter is open,
// in which case global key bindings must yield to allow free typing.
func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabSessions:
		return m.sessionsView.Filtering()
	case tabTracker:
		return m.trackerView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.sessionsView, _ = m.sessionsView.Update(sz)
	m.trackerView, _ = m.trackerView.Update(sz)
	m.reportView, _ = m.reportView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) createSessionCmd(name string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.workspace.Create(context.Background(), name)
		return sessionMutatedMsg{verb: "created", out: out, err: err}
	}
}

func (m Model) loadSessionCmd(sessionID string) tea.Cmd {
	return func() tea.Msg {
		// Load via the tracker so the stopwatch rebinds idle instead of
		// staying attached to the previous session.
		status, err := m.tracker.Switch(context.Background(), sessionID)
		out := workspacedto.SessionOutput{ID: status.SessionID, Name: status.SessionName}
		return sessionMutatedMsg{verb: "loaded", out: out, err: err}
	}
}

func (m Model) deleteSessionCmd(sessionID string) tea.Cmd {
	return func() tea.Msg {
		err := m.workspace.Delete(context.Background(), sessionID)
		return sessionDeletedMsg{sessionID: sessionID, err: err}
	}
}

func (m Model) setStatusCmd(sessionID, status string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.workspace.SetStatus(context.Background(), sessionID, status)
		return sessionMutatedMsg{verb: fmt.Sprintf("status %s", status), out: out, err: err}
	}
}

func (m Model) trackLogCmd(activityID string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.tracker.LogActivity(context.Background(), activityID)
		return trackerview.LoggedMsg{Out: out, Err: err}
	}
}

func (m Model) trackStopCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.tracker.Stop(context.Background())
		return trackerview.StoppedMsg{Out: out, Err: err}
	}
}

func (m Model) trackResetCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.tracker.Reset(context.Background())
		status, statusErr := m.tracker.Status(context.Background())
		if err != nil {
			return trackerview.StatusMsg{Err: err}
		}
		return trackerview.StatusMsg{Status: status, Err: statusErr}
	}
}

func (m Model) writeNoteCmd(sessionID string) tea.Cmd {
	return func() tea.Msg {
		path, err := m.workspace.WriteNote(context.Background(), sessionID)
		return noteWrittenMsg{path: path, err: err}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
