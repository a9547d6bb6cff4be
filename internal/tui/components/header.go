// Package components provides reusable TUI components for the dashboard.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/gorestaurant/internal/tui/styles"
)

// HeaderData contains the data to display in the header.
type HeaderData struct {
	Title   string
	BaseURL string
	Count   int
	Loaded  bool
}

// Header is a component that displays the backend and item count.
type Header struct {
	data  HeaderData
	width int
}

// NewHeader creates a new Header component.
func NewHeader() *Header {
	return &Header{
		data: HeaderData{
			Title:   "GoRestaurant",
			BaseURL: "-",
		},
	}
}

// SetData updates the header data.
func (h *Header) SetData(data HeaderData) {
	if data.Title == "" {
		data.Title = h.data.Title
	}
	h.data = data
}

// SetBaseURL sets the backend URL.
func (h *Header) SetBaseURL(url string) {
	h.data.BaseURL = url
}

// SetCount sets the item count and marks the list as loaded.
func (h *Header) SetCount(count int, loaded bool) {
	h.data.Count = count
	h.data.Loaded = loaded
}

// SetWidth sets the width for the header.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// View renders the header.
func (h *Header) View() string {
	// Title
	title := styles.TitleStyle.Render(h.data.Title)

	// Separator
	sep := lipgloss.NewStyle().
		Foreground(styles.MutedLight).
		Render(" │ ")

	// Backend
	backendLabel := styles.HeaderLabelStyle.Render("Backend: ")
	backendValue := styles.HeaderValueStyle.Render(h.data.BaseURL)

	count := "-"
	if h.data.Loaded {
		count = fmt.Sprintf("%d", h.data.Count)
	}
	countLabel := styles.HeaderLabelStyle.Render("Items: ")
	countValue := styles.HeaderValueStyle.Render(count)

	content := fmt.Sprintf("%s%s%s%s%s%s%s",
		title, sep,
		backendLabel, backendValue, sep,
		countLabel, countValue,
	)

	headerStyle := lipgloss.NewStyle().
		Background(styles.Primary).
		Foreground(styles.Foreground).
		Padding(0, 1)

	if h.width > 0 {
		headerStyle = headerStyle.Width(h.width)
	}

	return headerStyle.Render(content)
}
