package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dbmrq/gorestaurant/internal/food"
)

func typeText(e *FoodEditor, s string) {
	e.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestNewFoodEditor(t *testing.T) {
	e := NewFoodEditor()
	if e.Mode() != EditorModeClosed {
		t.Errorf("expected closed mode, got %v", e.Mode())
	}
	if e.IsActive() {
		t.Error("expected editor to not be active initially")
	}
	if e.View() != "" {
		t.Error("closed editor should render nothing")
	}
}

func TestFoodEditor_StartAdd(t *testing.T) {
	e := NewFoodEditor()
	e.StartAdd()

	if e.Mode() != EditorModeAdd {
		t.Errorf("expected add mode, got %v", e.Mode())
	}
	if e.Editing() != nil {
		t.Error("expected no editing item when adding")
	}
	if e.Draft() != (food.Draft{}) {
		t.Errorf("expected empty draft, got %+v", e.Draft())
	}
	if !strings.Contains(e.View(), "Add Food") {
		t.Error("view should show the add title")
	}
}

func TestFoodEditor_StartEdit(t *testing.T) {
	e := NewFoodEditor()
	it := food.Item{ID: 7, Name: "Feijoada", Image: "f.png", Price: "59.90", Description: "beans", Available: true}

	e.StartEdit(it)

	if e.Mode() != EditorModeEdit {
		t.Errorf("expected edit mode, got %v", e.Mode())
	}
	if got := e.Editing(); got == nil || *got != it {
		t.Errorf("Editing() = %+v, want %+v", got, it)
	}
	if e.Draft() != food.DraftOf(it) {
		t.Errorf("Draft() = %+v, want the item's fields", e.Draft())
	}
	if !strings.Contains(e.View(), "Edit Food #7") {
		t.Error("view should show the edit title with the id")
	}
}

func TestFoodEditor_StartAddAfterEditClearsFields(t *testing.T) {
	e := NewFoodEditor()
	e.StartEdit(food.Item{ID: 1, Name: "Feijoada"})
	e.Close()
	e.StartAdd()

	if e.Draft().Name != "" {
		t.Errorf("add form should be empty, got %+v", e.Draft())
	}
}

func TestFoodEditor_TabCyclesFields(t *testing.T) {
	e := NewFoodEditor()
	e.StartAdd()

	typeText(e, "Pizza")
	e.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(e, "pizza.png")
	e.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(e, "40.00")
	e.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(e, "Cheese")

	want := food.Draft{Name: "Pizza", Image: "pizza.png", Price: "40.00", Description: "Cheese"}
	if e.Draft() != want {
		t.Errorf("Draft() = %+v, want %+v", e.Draft(), want)
	}

	// Tab wraps around, shift+tab goes back.
	e.Update(tea.KeyMsg{Type: tea.KeyTab})
	if e.focusField != fieldName {
		t.Errorf("focus after wrap = %d, want name", e.focusField)
	}
	e.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if e.focusField != fieldDescription {
		t.Errorf("focus after shift+tab = %d, want description", e.focusField)
	}
}

func TestFoodEditor_EnterSubmits(t *testing.T) {
	e := NewFoodEditor()
	e.StartAdd()
	typeText(e, "  Pizza ")

	cmd := e.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	msg, ok := cmd().(FoodEditorSubmitMsg)
	if !ok {
		t.Fatalf("expected FoodEditorSubmitMsg, got %T", cmd())
	}
	if msg.Mode != EditorModeAdd || msg.Draft.Name != "Pizza" || msg.Editing != nil {
		t.Errorf("submit = %+v", msg)
	}
	if e.IsActive() {
		t.Error("editor should close after submit")
	}
}

func TestFoodEditor_EnterSubmitsEditTarget(t *testing.T) {
	e := NewFoodEditor()
	e.StartEdit(food.Item{ID: 3, Name: "Moqueca"})

	msg := e.Update(tea.KeyMsg{Type: tea.KeyEnter})().(FoodEditorSubmitMsg)
	if msg.Mode != EditorModeEdit || msg.Editing == nil || msg.Editing.ID != 3 {
		t.Errorf("submit = %+v", msg)
	}
}

func TestFoodEditor_InvalidStaysOpen(t *testing.T) {
	tests := []struct {
		name  string
		draft food.Draft
		want  string
	}{
		{"missing name", food.Draft{Price: "10"}, "name: is required"},
		{"bad price", food.Draft{Name: "Pizza", Price: "ten"}, "price:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewFoodEditor()
			e.StartEdit(food.Item{ID: 1, Name: tt.draft.Name, Price: tt.draft.Price})

			if cmd := e.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
				t.Error("invalid form should not submit")
			}
			if !e.IsActive() {
				t.Error("invalid form should stay open")
			}
			if !strings.Contains(e.Error(), tt.want) {
				t.Errorf("Error() = %q, want %q", e.Error(), tt.want)
			}
			if !strings.Contains(e.View(), tt.want) {
				t.Error("view should show the validation error")
			}
		})
	}
}

func TestFoodEditor_EscCancels(t *testing.T) {
	e := NewFoodEditor()
	e.StartEdit(food.Item{ID: 1, Name: "Feijoada"})

	cmd := e.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a cancel command")
	}
	msg, ok := cmd().(FoodEditorCancelMsg)
	if !ok || msg.Mode != EditorModeEdit {
		t.Errorf("cancel = %#v", cmd())
	}
	if e.IsActive() || e.Editing() != nil {
		t.Error("editor should be closed and cleared after Esc")
	}
}

func TestFoodEditor_UpdateWhenClosed(t *testing.T) {
	e := NewFoodEditor()
	if cmd := e.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("closed editor should ignore input")
	}
}

func TestEditorMode_String(t *testing.T) {
	tests := map[EditorMode]string{
		EditorModeClosed: "closed",
		EditorModeAdd:    "add",
		EditorModeEdit:   "edit",
	}
	for mode, want := range tests {
		if got := mode.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", mode, got, want)
		}
	}
}
