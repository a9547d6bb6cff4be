package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/gorestaurant/internal/tui/styles"
)

// Spinner animates while remote operations are pending.
type Spinner struct {
	spinner spinner.Model
	active  bool
}

// NewSpinner creates a new Spinner component with default styling.
func NewSpinner() *Spinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Secondary)
	return &Spinner{spinner: s}
}

// SetActive starts or stops the animation. It returns the tick command
// that restarts the animation when it goes from stopped to active.
func (s *Spinner) SetActive(active bool) tea.Cmd {
	wasActive := s.active
	s.active = active
	if active && !wasActive {
		return s.spinner.Tick
	}
	return nil
}

// Active reports whether the spinner is animating.
func (s *Spinner) Active() bool {
	return s.active
}

// Update advances the animation. Ticks arriving while stopped are dropped,
// which ends the tick chain.
func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(spinner.TickMsg); ok && !s.active {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

// View renders the current frame, or nothing when stopped.
func (s *Spinner) View() string {
	if !s.active {
		return ""
	}
	return s.spinner.View()
}
