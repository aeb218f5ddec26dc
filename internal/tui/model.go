package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gwi.com/dalal-chat/internal/chat"
	"gwi.com/dalal-chat/internal/session"
)

type focusArea int

const (
	focusChat focusArea = iota
	focusDropZone
)

const typingInterval = 250 * time.Millisecond

// stateMsg carries a session snapshot into the program.
type stateMsg chat.State

type typingTickMsg struct{}

type model struct {
	session    *session.Session
	serviceURL string

	state     chat.State
	focus     focusArea
	dropInput string

	width  int
	height int
	scroll int
	seen   int
	frame  int
}

func newModel(sess *session.Session, serviceURL string) model {
	state := sess.State()
	m := model{
		session:    sess,
		serviceURL: serviceURL,
		state:      state,
		seen:       len(state.Messages),
		width:      100,
		height:     30,
	}
	if !chat.InputEnabled(state) {
		m.focus = focusDropZone
	}
	return m
}

func waitForState(updates <-chan chat.State) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-updates
		if !ok {
			return nil
		}
		return stateMsg(state)
	}
}

func typingTick() tea.Cmd {
	return tea.Tick(typingInterval, func(time.Time) tea.Msg {
		return typingTickMsg{}
	})
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForState(m.session.Updates()), typingTick())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.setState(chat.State(msg))
		return m, waitForState(m.session.Updates())

	case typingTickMsg:
		m.frame++
		return m, typingTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// setState adopts a snapshot unless it is older than the one shown. A new
// message pins the transcript back to the bottom.
func (m *model) setState(state chat.State) {
	if state.Version < m.state.Version {
		return
	}
	m.state = state
	if len(state.Messages) != m.seen {
		m.seen = len(state.Messages)
		m.scroll = 0
	}
}

// clampScroll keeps the offset within what the transcript can scroll.
func (m *model) clampScroll() {
	lines := renderTranscript(m.state.Messages, m.state.Processing, m.frame, m.mainWidth())
	_, m.scroll = visibleLines(lines, m.transcriptHeight(), m.scroll)
}

func (m *model) sync() {
	m.setState(m.session.State())
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyTab:
		if m.focus == focusChat {
			m.focus = focusDropZone
		} else {
			m.focus = focusChat
		}
		return m, nil
	case tea.KeyPgUp:
		m.scroll += m.transcriptHeight() / 2
		m.clampScroll()
		return m, nil
	case tea.KeyPgDown:
		m.scroll -= m.transcriptHeight() / 2
		if m.scroll < 0 {
			m.scroll = 0
		}
		return m, nil
	case tea.KeyCtrlU:
		m.session.Upload()
		m.sync()
		return m, nil
	}

	if m.focus == focusDropZone {
		m.handleDropZoneKey(msg)
	} else {
		m.handleChatKey(msg)
	}
	m.sync()
	return m, nil
}

// handleDropZoneKey edits the path field. A paste is what a terminal
// produces when files are dropped on it, so it is selected right away.
func (m *model) handleDropZoneKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEnter:
		if strings.TrimSpace(m.dropInput) == "" {
			m.session.Upload()
			return
		}
		m.session.SelectText(m.dropInput)
		m.dropInput = ""
	case tea.KeyBackspace:
		m.dropInput = dropLastRune(m.dropInput)
	case tea.KeySpace:
		m.dropInput += " "
	case tea.KeyRunes:
		if msg.Paste {
			m.session.SelectText(string(msg.Runes))
			m.dropInput = ""
			return
		}
		m.dropInput += string(msg.Runes)
	}
}

func (m *model) handleChatKey(msg tea.KeyMsg) {
	current := m.session.State()
	if !chat.InputEnabled(current) {
		return
	}

	input := current.Input
	switch msg.Type {
	case tea.KeyEnter:
		m.submit(input)
	case tea.KeyBackspace:
		m.session.SetInput(dropLastRune(input))
	case tea.KeySpace:
		m.session.SetInput(input + " ")
	case tea.KeyRunes:
		m.session.SetInput(input + string(msg.Runes))
	}
}

// submit handles the chat commands before falling back to a query.
func (m *model) submit(input string) {
	trimmed := strings.TrimSpace(input)
	switch {
	case strings.HasPrefix(trimmed, "/attach "):
		m.session.SelectText(strings.TrimPrefix(trimmed, "/attach "))
		m.session.SetInput("")
	case trimmed == "/upload":
		m.session.Upload()
		m.session.SetInput("")
	default:
		m.session.Submit()
	}
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
