package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/gorestaurant/internal/food"
	"github.com/dbmrq/gorestaurant/internal/tui/styles"
)

// EditorMode represents the current editing mode.
type EditorMode int

const (
	// EditorModeClosed means the editor is not shown.
	EditorModeClosed EditorMode = iota
	// EditorModeAdd is for adding a new food.
	EditorModeAdd
	// EditorModeEdit is for editing an existing food.
	EditorModeEdit
)

// String returns the mode name.
func (m EditorMode) String() string {
	switch m {
	case EditorModeAdd:
		return "add"
	case EditorModeEdit:
		return "edit"
	default:
		return "closed"
	}
}

// Editor field indexes.
const (
	fieldName = iota
	fieldImage
	fieldPrice
	fieldDescription
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Image URL", "Price", "Description"}

// FoodEditor is a modal form for adding and editing foods.
type FoodEditor struct {
	mode       EditorMode
	inputs     [fieldCount]textinput.Model
	focusField int
	editing    *food.Item
	err        string
	width      int
}

// NewFoodEditor creates a new FoodEditor component.
func NewFoodEditor() *FoodEditor {
	e := &FoodEditor{width: 70}

	placeholders := [fieldCount]string{
		"Feijoada",
		"https://...",
		"19.90",
		"What's on the plate",
	}
	limits := [fieldCount]int{120, 500, 16, 500}
	for i := range e.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = limits[i]
		in.Width = 40
		e.inputs[i] = in
	}
	return e
}

// SetSize sets the editor width.
func (e *FoodEditor) SetSize(width int) {
	e.width = width
	for i := range e.inputs {
		e.inputs[i].Width = width - 22
	}
}

// Mode returns the current editing mode.
func (e *FoodEditor) Mode() EditorMode {
	return e.mode
}

// IsActive returns true if the editor is in add or edit mode.
func (e *FoodEditor) IsActive() bool {
	return e.mode != EditorModeClosed
}

// StartAdd opens an empty form.
func (e *FoodEditor) StartAdd() {
	e.open(EditorModeAdd, nil, food.Draft{})
}

// StartEdit opens the form filled with it.
func (e *FoodEditor) StartEdit(it food.Item) {
	e.open(EditorModeEdit, &it, food.DraftOf(it))
}

func (e *FoodEditor) open(mode EditorMode, editing *food.Item, d food.Draft) {
	e.mode = mode
	e.editing = editing
	e.err = ""
	e.inputs[fieldName].SetValue(d.Name)
	e.inputs[fieldImage].SetValue(d.Image)
	e.inputs[fieldPrice].SetValue(d.Price)
	e.inputs[fieldDescription].SetValue(d.Description)
	e.focusField = fieldName
	e.updateFocus()
}

// Close hides the editor.
func (e *FoodEditor) Close() {
	e.mode = EditorModeClosed
	e.editing = nil
	e.err = ""
	for i := range e.inputs {
		e.inputs[i].Blur()
	}
}

// Draft returns the current form values.
func (e *FoodEditor) Draft() food.Draft {
	return food.Draft{
		Name:        e.inputs[fieldName].Value(),
		Image:       e.inputs[fieldImage].Value(),
		Price:       e.inputs[fieldPrice].Value(),
		Description: e.inputs[fieldDescription].Value(),
	}.Normalize()
}

// Editing returns a copy of the item being edited, or nil when adding.
func (e *FoodEditor) Editing() *food.Item {
	if e.editing == nil {
		return nil
	}
	it := *e.editing
	return &it
}

// Error returns the validation message shown in the form.
func (e *FoodEditor) Error() string {
	return e.err
}

func (e *FoodEditor) nextField() {
	e.focusField = (e.focusField + 1) % fieldCount
	e.updateFocus()
}

func (e *FoodEditor) prevField() {
	e.focusField = (e.focusField + fieldCount - 1) % fieldCount
	e.updateFocus()
}

func (e *FoodEditor) updateFocus() {
	for i := range e.inputs {
		if i == e.focusField {
			e.inputs[i].Focus()
		} else {
			e.inputs[i].Blur()
		}
	}
}

// Update handles input messages. Enter submits a valid form and closes the
// editor; an invalid form stays open with the error shown.
func (e *FoodEditor) Update(msg tea.Msg) tea.Cmd {
	if !e.IsActive() {
		return nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab", "down":
			e.nextField()
			return nil
		case "shift+tab", "up":
			e.prevField()
			return nil
		case "enter":
			d := e.Draft()
			if err := d.Validate(); err != nil {
				e.err = err.Error()
				return nil
			}
			submit := FoodEditorSubmitMsg{Mode: e.mode, Draft: d, Editing: e.Editing()}
			e.Close()
			return func() tea.Msg { return submit }
		case "esc":
			mode := e.mode
			e.Close()
			return func() tea.Msg { return FoodEditorCancelMsg{Mode: mode} }
		}
	}

	var cmd tea.Cmd
	e.inputs[e.focusField], cmd = e.inputs[e.focusField].Update(msg)
	return cmd
}

// View renders the editor.
func (e *FoodEditor) View() string {
	if !e.IsActive() {
		return ""
	}

	// Title
	title := "Add Food"
	if e.mode == EditorModeEdit {
		title = "Edit Food"
		if e.editing != nil {
			title += " #" + strconv.Itoa(e.editing.ID)
		}
	}
	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Foreground).
		Background(styles.Primary).
		Bold(true).
		Padding(0, 1)

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	// Fields
	for i := range e.inputs {
		label := styles.FormLabelStyle.Render(fieldLabels[i] + ":")
		if i == e.focusField {
			label = styles.FormLabelFocusedStyle.Render(fieldLabels[i] + ":")
		}
		b.WriteString("  " + label + " " + e.inputs[i].View() + "\n")
	}

	if e.err != "" {
		b.WriteString("\n" + styles.ErrorTextStyle.Render("  "+e.err) + "\n")
	}

	// Help
	helpStyle := lipgloss.NewStyle().
		Foreground(styles.Muted).
		Italic(true)
	b.WriteString("\n" + helpStyle.Render("Tab: next field  Enter: save  Esc: cancel"))

	return styles.FocusedBoxStyle.Width(e.width - 2).Render(b.String())
}

// FoodEditorSubmitMsg is sent when the user submits a valid form.
type FoodEditorSubmitMsg struct {
	Mode  EditorMode
	Draft food.Draft
	// Editing is the item being edited, nil when adding.
	Editing *food.Item
}

// FoodEditorCancelMsg is sent when the user closes the form with Esc.
type FoodEditorCancelMsg struct {
	Mode EditorMode
}
