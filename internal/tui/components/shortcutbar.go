package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/gorestaurant/internal/tui/styles"
)

// ShortcutDef defines a single keyboard shortcut hint.
type ShortcutDef struct {
	Key  string
	Desc string
}

// ShortcutBar displays contextual keyboard shortcuts.
type ShortcutBar struct {
	shortcuts []ShortcutDef
	width     int
	centered  bool
}

// NewShortcutBar creates a new ShortcutBar with the given shortcuts.
func NewShortcutBar(shortcuts ...ShortcutDef) *ShortcutBar {
	return &ShortcutBar{shortcuts: shortcuts}
}

// SetShortcuts replaces all shortcuts.
func (s *ShortcutBar) SetShortcuts(shortcuts ...ShortcutDef) {
	s.shortcuts = shortcuts
}

// SetWidth sets the bar width for alignment.
func (s *ShortcutBar) SetWidth(width int) {
	s.width = width
}

// SetCentered controls whether the bar content is centered.
func (s *ShortcutBar) SetCentered(centered bool) {
	s.centered = centered
}

// View renders the shortcut bar.
func (s *ShortcutBar) View() string {
	if len(s.shortcuts) == 0 {
		return ""
	}

	parts := make([]string, 0, len(s.shortcuts))
	for _, sc := range s.shortcuts {
		parts = append(parts, styles.KeyStyle.Render(sc.Key)+styles.HelpStyle.Render(":"+sc.Desc))
	}
	sep := lipgloss.NewStyle().Foreground(styles.Muted).Render(" │ ")
	content := strings.Join(parts, sep)

	if s.centered && s.width > 0 {
		return lipgloss.NewStyle().
			Width(s.width).
			Align(lipgloss.Center).
			Render(content)
	}
	return content
}

// Predefined shortcut sets.
var (
	// DashboardShortcuts are shown under the food list.
	DashboardShortcuts = []ShortcutDef{
		{"a", "add"},
		{"e", "edit"},
		{"d", "delete"},
		{"space", "availability"},
		{"r", "reload"},
		{"?", "help"},
		{"q", "quit"},
	}

	// EditorShortcuts are shown while the food editor is open.
	EditorShortcuts = []ShortcutDef{
		{"Tab", "next"},
		{"Enter", "save"},
		{"Esc", "cancel"},
	}

	// ConfirmShortcuts are shown while a confirmation is open.
	ConfirmShortcuts = []ShortcutDef{
		{"y", "yes"},
		{"n", "no"},
	}
)
