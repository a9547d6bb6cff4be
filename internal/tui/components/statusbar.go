package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/gorestaurant/internal/tui/styles"
)

// MessageKind selects how the status message is rendered.
type MessageKind int

const (
	MessageInfo MessageKind = iota
	MessageSuccess
	MessageError
)

// StatusBarData contains the data to display in the status bar.
type StatusBarData struct {
	Available int
	Total     int
	Pending   int
	// Activity is the spinner frame shown while Pending > 0.
	Activity    string
	Message     string
	MessageKind MessageKind
	Shortcuts   []ShortcutDef
}

// StatusBar shows sync state, the last result message and shortcuts.
type StatusBar struct {
	data  StatusBarData
	width int
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar() *StatusBar {
	return &StatusBar{
		data: StatusBarData{Shortcuts: DashboardShortcuts},
	}
}

// SetData updates the status bar data.
func (s *StatusBar) SetData(data StatusBarData) {
	s.data = data
}

// SetCounts sets the available and total item counts.
func (s *StatusBar) SetCounts(available, total int) {
	s.data.Available = available
	s.data.Total = total
}

// SetPending sets the number of running operations and the spinner frame.
func (s *StatusBar) SetPending(pending int, activity string) {
	s.data.Pending = pending
	s.data.Activity = activity
}

// SetMessage sets the status message.
func (s *StatusBar) SetMessage(message string, kind MessageKind) {
	s.data.Message = message
	s.data.MessageKind = kind
}

// Message returns the current status message.
func (s *StatusBar) Message() string {
	return s.data.Message
}

// SetShortcuts sets the shortcut hints.
func (s *StatusBar) SetShortcuts(shortcuts []ShortcutDef) {
	s.data.Shortcuts = shortcuts
}

// SetWidth sets the width of the status bar.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// View renders the status bar.
func (s *StatusBar) View() string {
	sep := lipgloss.NewStyle().
		Foreground(styles.Muted).
		Render(" │ ")

	// Counts
	countLabel := lipgloss.NewStyle().
		Foreground(styles.MutedLight).
		Render("Available: ")
	countValue := lipgloss.NewStyle().
		Foreground(styles.Foreground).
		Render(fmt.Sprintf("%d/%d", s.data.Available, s.data.Total))

	left := countLabel + countValue + sep + s.renderSyncState()

	if s.data.Message != "" {
		left += sep + s.renderMessage()
	}

	// Shortcuts
	right := NewShortcutBar(s.data.Shortcuts...).View()

	containerStyle := lipgloss.NewStyle().
		Background(styles.Background).
		Padding(0, 1)

	if s.width > 0 {
		containerStyle = containerStyle.Width(s.width)
		padding := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
		if padding > 0 {
			return containerStyle.Render(left + strings.Repeat(" ", padding) + right)
		}
	}
	return containerStyle.Render(left + "  " + right)
}

func (s *StatusBar) renderSyncState() string {
	if s.data.Pending > 0 {
		return lipgloss.NewStyle().
			Foreground(styles.Secondary).
			Render(fmt.Sprintf("%s Syncing (%d)", s.data.Activity, s.data.Pending))
	}
	return lipgloss.NewStyle().Foreground(styles.Success).Render("● Synced")
}

func (s *StatusBar) renderMessage() string {
	switch s.data.MessageKind {
	case MessageError:
		return styles.ErrorTextStyle.Render("✗ " + s.data.Message)
	case MessageSuccess:
		return styles.SuccessTextStyle.Render("✓ " + s.data.Message)
	default:
		return lipgloss.NewStyle().
			Foreground(styles.MutedLight).
			Italic(true).
			Render(s.data.Message)
	}
}
