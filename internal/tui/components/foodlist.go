package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/gorestaurant/internal/food"
	"github.com/dbmrq/gorestaurant/internal/tui/styles"
)

// FoodList is a scrollable list of food items with availability icons.
type FoodList struct {
	items       []food.Item
	editingID   int
	selected    int
	height      int
	width       int
	scrollStart int
	focused     bool
}

// NewFoodList creates a new FoodList component.
func NewFoodList() *FoodList {
	return &FoodList{
		items:   []food.Item{},
		height:  10,
		focused: true,
	}
}

// SetItems replaces the list items. The cursor stays on the same item ID
// when it is still present.
func (l *FoodList) SetItems(items []food.Item) {
	prevID := 0
	if it := l.SelectedItem(); it != nil {
		prevID = it.ID
	}

	l.items = items
	if prevID != 0 {
		for i, it := range items {
			if it.ID == prevID {
				l.selected = i
				break
			}
		}
	}
	if l.selected >= len(items) {
		l.selected = len(items) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
	l.updateScroll()
}

// SetEditing marks the item that is the current edit target (0 for none).
func (l *FoodList) SetEditing(id int) {
	l.editingID = id
}

// Len returns the number of items.
func (l *FoodList) Len() int {
	return len(l.items)
}

// SetFocused sets whether the list is focused. Only a focused list
// highlights the cursor line.
func (l *FoodList) SetFocused(focused bool) {
	l.focused = focused
}

// IsFocused returns whether the list is focused.
func (l *FoodList) IsFocused() bool {
	return l.focused
}

// Selected returns the cursor index.
func (l *FoodList) Selected() int {
	return l.selected
}

// SelectedItem returns the item under the cursor, or nil if empty.
func (l *FoodList) SelectedItem() *food.Item {
	if len(l.items) == 0 || l.selected < 0 || l.selected >= len(l.items) {
		return nil
	}
	it := l.items[l.selected]
	return &it
}

// MoveUp moves the cursor up.
func (l *FoodList) MoveUp() {
	if l.selected > 0 {
		l.selected--
		l.updateScroll()
	}
}

// MoveDown moves the cursor down.
func (l *FoodList) MoveDown() {
	if l.selected < len(l.items)-1 {
		l.selected++
		l.updateScroll()
	}
}

// GoToTop moves the cursor to the first item.
func (l *FoodList) GoToTop() {
	l.selected = 0
	l.updateScroll()
}

// GoToBottom moves the cursor to the last item.
func (l *FoodList) GoToBottom() {
	if len(l.items) > 0 {
		l.selected = len(l.items) - 1
		l.updateScroll()
	}
}

// SetSize sets both width and height. Each item takes two lines.
func (l *FoodList) SetSize(width, height int) {
	l.width = width
	l.height = height / 2
	if l.height < 1 {
		l.height = 1
	}
	l.updateScroll()
}

// updateScroll keeps the cursor visible.
func (l *FoodList) updateScroll() {
	if l.selected < l.scrollStart {
		l.scrollStart = l.selected
	}
	if l.selected >= l.scrollStart+l.height {
		l.scrollStart = l.selected - l.height + 1
	}
	if l.scrollStart < 0 {
		l.scrollStart = 0
	}
}

// Update handles keyboard events for navigation.
func (l *FoodList) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.GoToTop()
		case "end", "G":
			l.GoToBottom()
		}
	}
	return nil
}

// View renders the list.
func (l *FoodList) View() string {
	if len(l.items) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.Muted).
			Italic(true).
			Padding(1, 2)
		return emptyStyle.Render("No foods yet. Press a to add one.")
	}

	endIndex := l.scrollStart + l.height
	if endIndex > len(l.items) {
		endIndex = len(l.items)
	}

	var lines []string
	for i := l.scrollStart; i < endIndex; i++ {
		lines = append(lines, l.renderItem(l.items[i], i == l.selected))
	}
	content := strings.Join(lines, "\n")

	if l.scrollStart > 0 {
		content = "  ↑ more above\n" + content
	}
	if endIndex < len(l.items) {
		content = content + "\n  ↓ more below"
	}
	return content
}

// renderItem renders one item on two lines: name and price, then the
// description.
func (l *FoodList) renderItem(it food.Item, isSelected bool) string {
	icon := styles.StatusUnavailable
	if it.Available {
		icon = styles.StatusAvailable
	}

	cursor := " "
	if isSelected {
		cursor = lipgloss.NewStyle().
			Foreground(styles.Secondary).
			Bold(true).
			Render("▶")
	}

	editing := ""
	if it.ID != 0 && it.ID == l.editingID {
		editing = styles.MutedTextStyle.Render(" (editing)")
	}

	idStyle := lipgloss.NewStyle().
		Foreground(styles.MutedLight).
		Width(6)
	nameStyle := lipgloss.NewStyle().
		Foreground(styles.Foreground)
	if !it.Available {
		nameStyle = nameStyle.Foreground(styles.Muted)
	}

	first := fmt.Sprintf("%s %s %s %s  %s%s",
		cursor, icon,
		idStyle.Render(fmt.Sprintf("#%d", it.ID)),
		nameStyle.Render(it.Name),
		styles.PriceStyle.Render(food.FormatPrice(it.Price)),
		editing,
	)

	desc := it.Description
	if desc == "" {
		desc = "-"
	}
	maxDesc := 60
	if l.width > 16 {
		maxDesc = l.width - 12
	}
	second := "           " + styles.DescriptionStyle.Render(truncateString(desc, maxDesc))

	lineStyle := lipgloss.NewStyle()
	if isSelected && l.focused {
		lineStyle = styles.SelectedLineStyle
	}
	if l.width > 0 {
		lineStyle = lineStyle.Width(l.width)
	}
	return lineStyle.Render(first + "\n" + second)
}

// truncateString truncates s to maxLen runes.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-1]) + "…"
}
