// Package tui is the terminal chat view: a sidebar for PDF intake and
// readiness, and a transcript with an input line.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"gwi.com/dalal-chat/internal/session"
)

// Run shows the chat view until the user quits. The caller owns the session
// and closes it afterwards.
func Run(sess *session.Session, serviceURL string) error {
	p := tea.NewProgram(newModel(sess, serviceURL), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
