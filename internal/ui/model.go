// Package ui holds the transient notification line shown under the TUI.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// NotificationTimeout is how long a notification stays on screen.
const NotificationTimeout = 3 * time.Second

var notificationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

// Model is a single line notification that clears itself.
type Model struct {
	notification string
	notifiedAt   time.Time
}

// NotifyMsg shows Text until the timeout passes.
type NotifyMsg struct {
	Text string
}

type clearMsg struct {
	at time.Time
}

// Notify returns a command that shows text.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NotifyMsg{Text: text}
	}
}

func clearAfter(at time.Time) tea.Cmd {
	return tea.Tick(NotificationTimeout, func(time.Time) tea.Msg {
		return clearMsg{at: at}
	})
}

// Update consumes notification messages and ignores everything else.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotifyMsg:
		m.notification = msg.Text
		m.notifiedAt = time.Now()
		return clearAfter(m.notifiedAt)
	case clearMsg:
		// a newer notification owns the line
		if msg.at.Equal(m.notifiedAt) {
			m.notification = ""
		}
	}
	return nil
}

func (m *Model) Text() string {
	return m.notification
}

// View appends the notification to the last line of content.
func (m *Model) View(content string) string {
	if m.notification == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	lines[len(lines)-1] += "  " + notificationStyle.Render(m.notification)
	return strings.Join(lines, "\n")
}
