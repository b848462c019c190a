package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	workspacedto "actograph/internal/modules/workspace/dto"
	"actograph/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type WorkspacePort interface {
	List(ctx context.Context) ([]workspacedto.SessionOutput, error)
	Get(ctx context.Context, sessionID string) (workspacedto.SessionDetailOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type SessionsLoadedMsg struct {
	Sessions []workspacedto.SessionOutput
	Err      error
}

type DetailLoadedMsg struct {
	Detail workspacedto.SessionDetailOutput
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type sessionItem struct {
	session workspacedto.SessionOutput
}

func (i sessionItem) Title() string {
	if i.session.Current {
		return "● " + i.session.Name
	}
	return i.session.Name
}

func (i sessionItem) Description() string {
	return fmt.Sprintf("%s  events=%d  %s", i.session.Status, i.session.EventCount, formatDuration(i.session.TotalDurationMS))
}

func (i sessionItem) FilterValue() string { return i.session.Name }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    WorkspacePort
	list    list.Model
	detail  workspacedto.SessionDetailOutput
	preview viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port WorkspacePort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Sessions"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		preview: vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload re-fetches the session list. The app model triggers this after any
// mutation that changes session metadata.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		sessions, err := m.port.List(context.Background())
		return SessionsLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case SessionsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Sessions — " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Sessions))
		for i, s := range msg.Sessions {
			items[i] = sessionItem{session: s}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if len(msg.Sessions) > 0 {
			cmds = append(cmds, m.loadDetailCmd(msg.Sessions[0].ID))
		}

	case DetailLoadedMsg:
		if msg.Err == nil {
			m.detail = msg.Detail
			m.preview.SetContent(m.renderDetail())
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if item, ok := m.list.SelectedItem().(sessionItem); ok {
				cmds = append(cmds, m.loadDetailCmd(item.session.ID))
			}
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading sessions…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// SelectedSessionID returns the current selection's session ID, if any.
func (m Model) SelectedSessionID() (string, bool) {
	if item, ok := m.list.SelectedItem().(sessionItem); ok {
		return item.session.ID, true
	}
	return "", false
}

// SelectedSessionName returns the current selection's name.
func (m Model) SelectedSessionName() string {
	if item, ok := m.list.SelectedItem().(sessionItem); ok {
		return item.session.Name
	}
	return ""
}

// Filtering reports whether the list's search filter is currently active.
// The app model checks this to avoid consuming global keys during a search.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	d := m.detail
	if d.ID == "" {
		return theme.Muted.Render("Select a session to see details")
	}
	out := theme.Title.Render(d.Name) + "\n\n"
	out += theme.Muted.Render("id:      ") + d.ID + "\n"
	out += theme.Muted.Render("status:  ") + d.Status + "\n"
	out += theme.Muted.Render("created: ") + formatTimestamp(d.CreatedAt) + "\n"
	out += theme.Muted.Render("total:   ") + formatDuration(d.TotalDurationMS) + "\n"
	if d.VideoRef != "" {
		out += theme.Muted.Render("video:   ") + d.VideoRef + "\n"
	}
	if d.Notes != "" {
		out += theme.Muted.Render("notes:   ") + d.Notes + "\n"
	}
	if len(d.Events) > 0 {
		out += "\n" + theme.Title.Render("Event log") + "\n"
		for _, event := range d.Events {
			duration := theme.Hot.Render("open")
			if event.DurationMS != nil {
				duration = formatDuration(*event.DurationMS)
			}
			out += fmt.Sprintf("%s  %-20s %s\n", formatTimestamp(event.TimestampMS), event.ActivityName, duration)
		}
	}
	out += "\n" + theme.Muted.Render("enter: make current  d: delete  n: write note")
	return out
}

func (m Model) loadDetailCmd(id string) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.port.Get(context.Background(), id)
		return DetailLoadedMsg{Detail: detail, Err: err}
	}
}

func formatTimestamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04:05")
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
