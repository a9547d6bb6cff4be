// Package styles provides Lip Gloss styles for the GoRestaurant dashboard.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette for the TUI.
var (
	Primary     = lipgloss.Color("#C72828") // Restaurant red
	Secondary   = lipgloss.Color("#FFB84D") // Amber
	Success     = lipgloss.Color("#39B100") // Green
	Warning     = lipgloss.Color("#F59E0B")
	Error       = lipgloss.Color("#EF4444")
	Muted       = lipgloss.Color("#6B7280")
	MutedLight  = lipgloss.Color("#9CA3AF")
	Background  = lipgloss.Color("#1F2937")
	Foreground  = lipgloss.Color("#F9FAFB")
	BorderColor = lipgloss.Color("#374151")
)

// Header styles.
var (
	// HeaderLabelStyle is for header labels.
	HeaderLabelStyle = lipgloss.NewStyle().
				Foreground(MutedLight)

	// HeaderValueStyle is for header values.
	HeaderValueStyle = lipgloss.NewStyle().
				Foreground(Foreground).
				Bold(true)

	// TitleStyle is for the application title.
	TitleStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Background(Primary).
			Bold(true).
			Padding(0, 1)
)

// Availability icons.
var (
	// StatusAvailable marks an item on the menu.
	StatusAvailable = lipgloss.NewStyle().
			Foreground(Success).
			Render("●")

	// StatusUnavailable marks an item taken off the menu.
	StatusUnavailable = lipgloss.NewStyle().
				Foreground(Muted).
				Render("○")
)

// Food list styles.
var (
	// PriceStyle is for item prices.
	PriceStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	// DescriptionStyle is for item descriptions.
	DescriptionStyle = lipgloss.NewStyle().
				Foreground(MutedLight)

	// SelectedLineStyle highlights the cursor line.
	SelectedLineStyle = lipgloss.NewStyle().
				Background(Background).
				Bold(true)
)

// Box styles.
var (
	// FocusedBoxStyle is a box that's currently focused.
	FocusedBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)
)

// Text styles.
var (
	// MutedTextStyle is for de-emphasized text.
	MutedTextStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// ErrorTextStyle is for error messages.
	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(Error)

	// SuccessTextStyle is for success messages.
	SuccessTextStyle = lipgloss.NewStyle().
				Foreground(Success)
)

// Status bar styles.
var (
	// KeyStyle is for keyboard shortcut keys.
	KeyStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// HelpStyle is for help text.
	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted)
)

// Form styles.
var (
	// FormLabelStyle is for form field labels.
	FormLabelStyle = lipgloss.NewStyle().
			Foreground(MutedLight).
			Width(14)

	// FormLabelFocusedStyle is for focused form field labels.
	FormLabelFocusedStyle = lipgloss.NewStyle().
				Foreground(Secondary).
				Bold(true).
				Width(14)

	// ButtonPrimaryStyle is for primary buttons.
	ButtonPrimaryStyle = lipgloss.NewStyle().
				Foreground(Background).
				Background(Secondary).
				Bold(true).
				Padding(0, 2)

	// ButtonSecondaryStyle is for secondary buttons.
	ButtonSecondaryStyle = lipgloss.NewStyle().
				Foreground(MutedLight).
				Border(lipgloss.NormalBorder()).
				BorderForeground(Muted).
				Padding(0, 1)

	// ButtonDangerStyle is for destructive buttons.
	ButtonDangerStyle = lipgloss.NewStyle().
				Foreground(Foreground).
				Background(Error).
				Bold(true).
				Padding(0, 2)
)
