// Package ui renders one support conversation as a terminal screen: a
// scrolling thread of bubbles above a single input line. Own messages hug
// the right edge, the other party's hug the left.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"support-thread/auth"
	"support-thread/domain"
	"support-thread/projection"
	"support-thread/services"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const searchPrefix = "/find "

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	ownStyle     = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("57")).Foreground(lipgloss.Color("255"))
	otherStyle   = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("238")).Foreground(lipgloss.Color("252"))
	captionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type snapshotLoadedMsg struct {
	records []domain.MessageRecord
	err     error
}

type sendResultMsg struct {
	outcome  domain.SubmitOutcome
	snapshot []domain.MessageRecord
	err      error
}

type searchResultMsg struct {
	matches []domain.MessageRecord
	err     error
}

// scrollLatestMsg is emitted one update cycle after rows change, so the
// viewport content exists before the offset is computed.
type scrollLatestMsg struct{}

// ThreadView is the Bubble Tea model for one conversation.
type ThreadView struct {
	service         services.IThreadService
	viewer          auth.Viewer
	conversationKey string
	otherParty      string

	viewport  viewport.Model
	input     textinput.Model
	rows      []projection.Row
	searching bool
	status    string
	width     int
	height    int
	ready     bool
	log       *slog.Logger
}

func NewThreadView(service services.IThreadService, viewer auth.Viewer, conversationKey, otherParty string, log *slog.Logger) *ThreadView {
	input := textinput.New()
	input.Placeholder = "Enter message"
	input.Prompt = "> "
	input.Focus()

	return &ThreadView{
		service:         service,
		viewer:          viewer,
		conversationKey: conversationKey,
		otherParty:      otherParty,
		input:           input,
		log:             log,
	}
}

func (m *ThreadView) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadSnapshot)
}

func (m *ThreadView) loadSnapshot() tea.Msg {
	records, err := m.service.Snapshot(m.conversationKey)
	return snapshotLoadedMsg{records: records, err: err}
}

func (m *ThreadView) submit(raw string) tea.Cmd {
	return func() tea.Msg {
		outcome, snapshot, err := m.service.Submit(context.Background(), domain.SubmitCommand{
			ConversationKey: m.conversationKey,
			Sender:          m.viewer.Identity,
			SenderIsAdmin:   m.viewer.IsAdmin,
			Text:            raw,
		})
		return sendResultMsg{outcome: outcome, snapshot: snapshot, err: err}
	}
}

func (m *ThreadView) search(terms string) tea.Cmd {
	return func() tea.Msg {
		matches, err := m.service.SearchThread(context.Background(), m.conversationKey, terms, 50)
		return searchResultMsg{matches: matches, err: err}
	}
}

func (m *ThreadView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		chrome := lipgloss.Height(m.headerView()) + 2
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-chrome)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - chrome
		}
		m.viewport.SetContent(m.renderRows())
		if len(m.rows) > 0 {
			m.viewport.GotoBottom()
		}
		return m, nil

	case snapshotLoadedMsg:
		if msg.err != nil {
			m.status = "could not load thread"
			m.log.Error("loading snapshot", "error", msg.err)
			return m, nil
		}
		m.setRows(msg.records)
		// Defer so the jump happens after the content is laid out.
		return m, func() tea.Msg { return scrollLatestMsg{} }

	case sendResultMsg:
		switch msg.outcome {
		case domain.SubmitRejected:
			// Silent no-op per design; blank sends never reach the store.
			return m, nil
		case domain.SubmitFailed:
			// Keep the input so the user can retry.
			m.status = "send failed, press enter to retry"
			return m, nil
		default:
			// The message is durable; clearing the input is correct even
			// when the follow-up snapshot read failed.
			m.input.Reset()
			m.status = ""
			m.searching = false
			if msg.err != nil {
				m.status = "sent, but refreshing the thread failed"
				m.log.Error("refreshing after send", "error", msg.err)
			}
			if msg.snapshot != nil {
				m.setRows(msg.snapshot)
			}
			return m, func() tea.Msg { return scrollLatestMsg{} }
		}

	case searchResultMsg:
		if msg.err != nil {
			m.status = "search failed"
			m.log.Error("searching thread", "error", msg.err)
			return m, nil
		}
		m.searching = true
		m.rows = projection.BuildRows(msg.matches, m.viewer.IsAdmin)
		m.status = fmt.Sprintf("%d match(es), esc to return", len(msg.matches))
		if m.ready {
			m.viewport.SetContent(m.renderRows())
			m.viewport.GotoTop()
		}
		m.input.Reset()
		return m, nil

	case scrollLatestMsg:
		if m.ready && len(m.rows) > 0 {
			m.viewport.GotoBottom()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEsc:
			if m.searching {
				m.searching = false
				m.status = ""
				return m, m.loadSnapshot
			}
			return m, tea.Quit
		case tea.KeyEnter:
			raw := m.input.Value()
			if strings.HasPrefix(raw, searchPrefix) {
				return m, m.search(strings.TrimPrefix(raw, searchPrefix))
			}
			return m, m.submit(raw)
		}
	}

	var inputCmd, viewportCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	m.viewport, viewportCmd = m.viewport.Update(msg)
	return m, tea.Batch(inputCmd, viewportCmd)
}

func (m *ThreadView) setRows(records []domain.MessageRecord) {
	m.rows = projection.BuildRows(records, m.viewer.IsAdmin)
	if m.ready {
		m.viewport.SetContent(m.renderRows())
	}
}

func (m *ThreadView) headerView() string {
	return headerStyle.Render("Support chat - " + m.otherParty)
}

// renderRows lays the projected rows out as bubbles, own side right,
// other side left, with the caption under each bubble.
func (m *ThreadView) renderRows() string {
	if len(m.rows) == 0 {
		return ""
	}
	width := m.viewport.Width
	if width <= 0 {
		width = m.width
	}

	lines := make([]string, 0, len(m.rows)*2)
	for _, row := range m.rows {
		bubble := otherStyle.Render(row.Text)
		caption := captionStyle.Render(row.Caption + " · " + row.Author)
		position := lipgloss.Left
		if row.Side == domain.SideOwn {
			bubble = ownStyle.Render(row.Text)
			position = lipgloss.Right
		}
		lines = append(lines,
			lipgloss.PlaceHorizontal(width, position, bubble),
			lipgloss.PlaceHorizontal(width, position, caption),
		)
	}
	return strings.Join(lines, "\n")
}

func (m *ThreadView) View() string {
	if !m.ready {
		return "loading thread..."
	}
	footer := m.input.View()
	if m.status != "" {
		footer += "\n" + statusStyle.Render(m.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.viewport.View(),
		footer,
	)
}

// Rows exposes the currently rendered rows.
func (m *ThreadView) Rows() []projection.Row {
	return m.rows
}

// AtLatest reports whether the viewport is pinned to the newest row.
func (m *ThreadView) AtLatest() bool {
	return m.ready && m.viewport.AtBottom()
}
