package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/germanamz/promptgen/pkg/modeladapter/usage"
	"github.com/germanamz/promptgen/pkg/session"
	"github.com/mattn/go-runewidth"
)

// viewerAction is what the user chose when leaving the result screen.
type viewerAction int

const (
	actionQuit viewerAction = iota
	actionEdit
)

// generationDoneMsg carries the outcome of one Controller.Complete call.
type generationDoneMsg struct {
	session session.Session
	applied bool
}

type keyMap struct {
	Copy       key.Binding
	Save       key.Binding
	Regenerate key.Binding
	Edit       key.Binding
	Up         key.Binding
	Down       key.Binding
	Quit       key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Copy, k.Save, k.Regenerate, k.Edit, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Up, k.Down}}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Copy:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		Save:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Regenerate: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "regenerate")),
		Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit fields")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// viewerModel shows generation progress and the result, and runs the copy,
// save and regenerate actions against the session controller.
type viewerModel struct {
	ctx    context.Context
	ctrl   *session.Controller
	req    session.Request
	ticket session.Ticket
	title  string
	usage  func() usage.TokenCount

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model
	md       *glamour.TermRenderer

	snap      session.Session
	thinking  string
	notice    string
	noticeBad bool
	width     int
	height    int
	ready     bool
	action    viewerAction
}

func newViewer(ctx context.Context, ctrl *session.Controller, req session.Request, t session.Ticket, title string, tokens func() usage.TokenCount) viewerModel {
	sp := spinner.New(
		spinner.WithSpinner(spinner.Spinner{Frames: spinnerFrames, FPS: time.Second / 10}),
		spinner.WithStyle(spinnerStyle),
	)

	return viewerModel{
		ctx:      ctx,
		ctrl:     ctrl,
		req:      req,
		ticket:   t,
		title:    title,
		usage:    tokens,
		keys:     defaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
		snap:     ctrl.Snapshot(),
		thinking: randomThinkingMessage(),
	}
}

func (m viewerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.completeCmd(m.ticket))
}

// completeCmd runs the blocking generation off the UI loop.
func (m viewerModel) completeCmd(t session.Ticket) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		s, applied := ctrl.Complete(ctx, t)
		return generationDoneMsg{session: s, applied: applied}
	}
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case generationDoneMsg:
		if !msg.applied {
			return m, nil
		}
		m.snap = msg.session
		m.refreshContent()
		return m, nil

	case spinner.TickMsg:
		if m.snap.State != session.Submitted {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m viewerModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width, m.height = msg.Width, msg.Height
	m.help.Width = msg.Width

	bodyHeight := max(msg.Height-5, 3)
	if !m.ready {
		m.viewport = viewport.New(msg.Width, bodyHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = bodyHeight
	}

	m.md = newMarkdownRenderer(msg.Width - 4)
	m.refreshContent()

	return m, nil
}

func (m viewerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.action = actionQuit
		return m, tea.Quit

	case key.Matches(msg, m.keys.Edit):
		m.action = actionEdit
		return m, tea.Quit

	case key.Matches(msg, m.keys.Regenerate):
		t, err := m.ctrl.Begin(m.req)
		if err != nil {
			m.setNotice(err.Error(), true)
			return m, nil
		}
		m.ticket = t
		m.snap = m.ctrl.Snapshot()
		m.thinking = randomThinkingMessage()
		m.setNotice("", false)
		m.refreshContent()
		return m, tea.Batch(m.spinner.Tick, m.completeCmd(t))

	case key.Matches(msg, m.keys.Copy):
		m.setNotice(actionNotice(m.ctrl.Copy(), "Copied to clipboard"))
		m.snap = m.ctrl.Snapshot()
		return m, nil

	case key.Matches(msg, m.keys.Save):
		loc, err := m.ctrl.Save()
		m.setNotice(actionNotice(err, "Saved to "+loc))
		m.snap = m.ctrl.Snapshot()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// actionNotice turns the outcome of a copy or save into a status notice.
func actionNotice(err error, success string) (string, bool) {
	var notice *session.NoticeError
	switch {
	case err == nil:
		return success, false
	case errors.Is(err, session.ErrNoResult):
		return "Nothing to act on yet", true
	case errors.Is(err, session.ErrStale):
		return "A newer request replaced this result", true
	case errors.As(err, &notice):
		return notice.Error(), true
	}
	return err.Error(), true
}

func (m *viewerModel) setNotice(text string, bad bool) {
	m.notice, m.noticeBad = text, bad
}

func (m *viewerModel) refreshContent() {
	if !m.ready {
		return
	}
	if m.snap.State == session.Completed {
		m.viewport.SetContent(renderMarkdown(m.md, m.snap.Text()))
		m.viewport.GotoTop()
		return
	}
	m.viewport.SetContent("")
}

func (m viewerModel) View() string {
	if !m.ready {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(m.headerView())
	sb.WriteString("\n\n")

	switch m.snap.State {
	case session.Submitted, session.Idle:
		sb.WriteString(m.spinner.View() + " " + dimStyle.Render(m.thinking))
		sb.WriteString(strings.Repeat("\n", max(m.viewport.Height-1, 0)))
	case session.Completed:
		sb.WriteString(m.viewport.View())
	case session.Failed:
		fv := failureView(m.snap, m.width)
		sb.WriteString(fv)
		sb.WriteString(strings.Repeat("\n", max(m.viewport.Height-lipgloss.Height(fv), 0)))
	}

	sb.WriteString("\n")
	sb.WriteString(m.statusView())
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))

	return sb.String()
}

func (m viewerModel) headerView() string {
	var badge string
	switch m.snap.State {
	case session.Completed:
		badge = badgeCompletedStyle.Render("done")
	case session.Failed:
		badge = badgeFailedStyle.Render("failed")
	default:
		badge = badgeSubmittedStyle.Render("generating")
	}

	return titleStyle.Render(truncate(m.title, max(m.width-12, 10))) + " " + badge
}

// failureView renders a classified generation failure.
func failureView(s session.Session, width int) string {
	f := s.Failure()
	if f == nil {
		return ""
	}

	lines := []string{f.Kind.Summary() + "."}
	if f.Message != "" {
		lines = append(lines, f.Message)
	}
	if f.RetryAfter > 0 {
		lines = append(lines, "Retry after "+fmtDuration(f.RetryAfter)+".")
	}
	lines = append(lines, dimStyle.Render("Press r to try again or e to edit the fields."))

	return errorBlockStyle.Width(max(width-2, 10)).Render(strings.Join(lines, "\n"))
}

func (m viewerModel) statusView() string {
	var info []string

	var flags []string
	if m.snap.Copied {
		flags = append(flags, "copied")
	}
	if m.snap.Saved {
		flags = append(flags, "saved")
	}
	if len(flags) > 0 {
		info = append(info, "["+strings.Join(flags, ", ")+"]")
	}

	if r := m.snap.Result; r != nil && r.Duration > 0 {
		info = append(info, fmtDuration(r.Duration))
	}

	if m.usage != nil {
		if total := m.usage(); total.Total() > 0 {
			info = append(info, fmt.Sprintf("tokens: ↑%s ↓%s", fmtTokens(total.InputTokens), fmtTokens(total.OutputTokens)))
		}
	}

	rest := truncate(strings.Join(info, " · "), m.width)
	notice := truncate(m.notice, max(m.width-runewidth.StringWidth(rest)-1, 0))

	style := okStyle
	if m.noticeBad {
		style = noticeStyle
	}

	switch {
	case notice == "":
		return statusStyle.Render(rest)
	case rest == "":
		return style.Render(notice)
	}
	return style.Render(notice) + " " + statusStyle.Render(rest)
}
