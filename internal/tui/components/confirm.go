package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/gorestaurant/internal/food"
	"github.com/dbmrq/gorestaurant/internal/tui/styles"
)

// ConfirmAction represents the action being confirmed.
type ConfirmAction string

const (
	// ConfirmActionDelete is for deleting a food.
	ConfirmActionDelete ConfirmAction = "delete"
	// ConfirmActionQuit is for quitting with operations still pending.
	ConfirmActionQuit ConfirmAction = "quit"
)

// ConfirmDialog displays a confirmation prompt for destructive actions.
type ConfirmDialog struct {
	visible     bool
	action      ConfirmAction
	targetID    int
	title       string
	message     string
	width       int
	destructive bool
}

// NewConfirmDialog creates a new ConfirmDialog component.
func NewConfirmDialog() *ConfirmDialog {
	return &ConfirmDialog{width: 50}
}

// Show displays the dialog with the given action, title, and message.
func (c *ConfirmDialog) Show(action ConfirmAction, title, message string, destructive bool) {
	c.visible = true
	c.action = action
	c.title = title
	c.message = message
	c.destructive = destructive
	c.targetID = 0
}

// ShowDelete asks before deleting it.
func (c *ConfirmDialog) ShowDelete(it food.Item) {
	c.Show(ConfirmActionDelete, "Delete Food?",
		fmt.Sprintf("Delete %q (#%d) from the menu?\nThis cannot be undone.", it.Name, it.ID),
		true)
	c.targetID = it.ID
}

// ShowQuit asks before quitting while operations are still pending.
func (c *ConfirmDialog) ShowQuit(pending int) {
	c.Show(ConfirmActionQuit, "Quit?",
		fmt.Sprintf("%d operation(s) still running. Quitting now may leave them unfinished.", pending),
		false)
}

// Hide hides the dialog.
func (c *ConfirmDialog) Hide() {
	c.visible = false
}

// IsVisible returns whether the dialog is visible.
func (c *ConfirmDialog) IsVisible() bool {
	return c.visible
}

// Action returns the current action being confirmed.
func (c *ConfirmDialog) Action() ConfirmAction {
	return c.action
}

// TargetID returns the food ID the action applies to, if any.
func (c *ConfirmDialog) TargetID() int {
	return c.targetID
}

// SetSize sets the dialog width.
func (c *ConfirmDialog) SetSize(width int) {
	c.width = width
}

// Update handles input messages.
func (c *ConfirmDialog) Update(msg tea.Msg) tea.Cmd {
	if !c.visible {
		return nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch strings.ToLower(msg.String()) {
		case "y", "enter":
			yes := ConfirmYesMsg{Action: c.action, TargetID: c.targetID}
			c.Hide()
			return func() tea.Msg { return yes }
		case "n", "esc":
			c.Hide()
			return func() tea.Msg { return ConfirmNoMsg{} }
		}
	}
	return nil
}

// View renders the confirmation dialog.
func (c *ConfirmDialog) View() string {
	if !c.visible {
		return ""
	}

	var b strings.Builder

	// Title
	titleBg := styles.Warning
	if c.destructive {
		titleBg = styles.Error
	}
	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Foreground).
		Background(titleBg).
		Bold(true).
		Padding(0, 1).
		Width(c.width - 4)
	b.WriteString(titleStyle.Render("  " + c.title))
	b.WriteString("\n\n")

	// Message
	msgStyle := lipgloss.NewStyle().
		Foreground(styles.Foreground).
		Width(c.width - 8)
	b.WriteString(msgStyle.Render(c.message))
	b.WriteString("\n\n")

	// Buttons
	yesStyle := styles.ButtonDangerStyle
	if !c.destructive {
		yesStyle = styles.ButtonPrimaryStyle
	}
	b.WriteString(yesStyle.Render("[Y]es"))
	b.WriteString("  ")
	b.WriteString(styles.ButtonSecondaryStyle.Render("[N]o"))

	// Box
	borderColor := styles.Warning
	if c.destructive {
		borderColor = styles.Error
	}
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(borderColor).
		Padding(1, 2)

	return boxStyle.Render(b.String())
}

// ConfirmYesMsg is sent when the user confirms.
type ConfirmYesMsg struct {
	Action   ConfirmAction
	TargetID int
}

// ConfirmNoMsg is sent when the user cancels.
type ConfirmNoMsg struct{}
