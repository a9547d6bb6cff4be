// Package tui provides the terminal dashboard for gorestaurant.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/dbmrq/gorestaurant/internal/errors"
	"github.com/dbmrq/gorestaurant/internal/food"
	"github.com/dbmrq/gorestaurant/internal/listsync"
	"github.com/dbmrq/gorestaurant/internal/tui/components"
	"github.com/dbmrq/gorestaurant/internal/tui/styles"
)

// Dashboard is the list state the TUI renders and the intents it raises.
// *listsync.Synchronizer implements it.
type Dashboard interface {
	Snapshot() listsync.State
	Initialize(ctx context.Context) error
	Create(ctx context.Context, d food.Draft) (food.Item, error)
	Edit(ctx context.Context, it food.Item, d food.Draft) (food.Item, error)
	SetAvailability(ctx context.Context, id int, available bool) (food.Item, error)
	Delete(ctx context.Context, id int) error
	SelectForEdit(it food.Item)
	ToggleAddSurface()
	ToggleEditSurface()
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	// Components
	header      *components.Header
	foodList    *components.FoodList
	statusBar   *components.StatusBar
	editor      *components.FoodEditor
	helpOverlay *components.HelpOverlay
	confirmDlg  *components.ConfirmDialog
	spinner     *components.Spinner

	keys keyMap
	dash Dashboard
	ctx  context.Context

	// State
	state    listsync.State
	inflight int

	width    int
	height   int
	quitting bool
}

// New creates a dashboard model for dash. baseURL is shown in the header.
func New(dash Dashboard, baseURL string) *Model {
	keys := defaultKeyMap()
	m := &Model{
		header:      components.NewHeader(),
		foodList:    components.NewFoodList(),
		statusBar:   components.NewStatusBar(),
		editor:      components.NewFoodEditor(),
		helpOverlay: components.NewHelpOverlay(keys.helpGroups()...),
		confirmDlg:  components.NewConfirmDialog(),
		spinner:     components.NewSpinner(),
		keys:        keys,
		dash:        dash,
		ctx:         context.Background(),
	}
	m.header.SetBaseURL(baseURL)
	m.applyState(dash.Snapshot())
	return m
}

// Init loads the list.
func (m *Model) Init() tea.Cmd {
	m.statusBar.SetMessage("Loading menu…", components.MessageInfo)
	return m.run(m.initialize())
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.foodList.SetSize(msg.Width, msg.Height-4)
		m.editor.SetSize(min(msg.Width-4, 80))
		m.helpOverlay.SetSize(60, 25)
		m.confirmDlg.SetSize(50)
		return m, nil

	case spinner.TickMsg:
		return m, m.spinner.Update(msg)

	case StateMsg:
		m.applyState(msg.State)
		return m, m.syncSpinner()

	case OperationDoneMsg:
		return m, m.handleDone(msg)

	case components.FoodEditorSubmitMsg:
		return m, m.handleEditorSubmit(msg)

	case components.FoodEditorCancelMsg:
		m.closeSurface(msg.Mode)
		return m, nil

	case components.ConfirmYesMsg:
		return m.handleConfirmYes(msg)

	case components.ConfirmNoMsg:
		m.updateShortcuts()
		return m, nil

	case components.HelpClosedMsg:
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Force) {
			m.quitting = true
			return m, tea.Quit
		}
		// Overlays capture keys while visible.
		if m.confirmDlg.IsVisible() {
			return m, m.confirmDlg.Update(msg)
		}
		if m.helpOverlay.IsVisible() {
			return m, m.helpOverlay.Update(msg)
		}
		if m.editor.IsActive() {
			cmd := m.editor.Update(msg)
			m.updateShortcuts()
			return m, cmd
		}
		return m.handleKeyPress(msg)
	}

	// Cursor blink and other input internals.
	if m.editor.IsActive() {
		return m, m.editor.Update(msg)
	}
	return m, nil
}

// handleKeyPress handles keys on the main list.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if p := m.pending(); p > 0 {
			m.confirmDlg.ShowQuit(p)
			m.updateShortcuts()
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.helpOverlay.Toggle()
		return m, nil

	case key.Matches(msg, m.keys.Add):
		if !m.state.AddVisible {
			m.dash.ToggleAddSurface()
		}
		m.editor.StartAdd()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		it := m.foodList.SelectedItem()
		if it == nil {
			m.statusBar.SetMessage("Nothing to edit", components.MessageInfo)
			return m, nil
		}
		m.dash.SelectForEdit(*it)
		m.editor.StartEdit(*it)
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if it := m.foodList.SelectedItem(); it != nil {
			m.confirmDlg.ShowDelete(*it)
			m.updateShortcuts()
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		it := m.foodList.SelectedItem()
		if it == nil {
			return m, nil
		}
		return m, m.run(m.setAvailability(it.ID, !it.Available))

	case key.Matches(msg, m.keys.Reload):
		m.statusBar.SetMessage("Reloading…", components.MessageInfo)
		return m, m.run(m.initialize())

	case key.Matches(msg, m.keys.Up):
		m.foodList.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.foodList.MoveDown()
	case key.Matches(msg, m.keys.Top):
		m.foodList.GoToTop()
	case key.Matches(msg, m.keys.Bottom):
		m.foodList.GoToBottom()
	}
	return m, nil
}

// handleEditorSubmit closes the form's surface and sends the draft.
func (m *Model) handleEditorSubmit(msg components.FoodEditorSubmitMsg) tea.Cmd {
	m.closeSurface(msg.Mode)
	switch msg.Mode {
	case components.EditorModeAdd:
		return m.run(m.create(msg.Draft))
	case components.EditorModeEdit:
		if msg.Editing == nil {
			return nil
		}
		return m.run(m.edit(*msg.Editing, msg.Draft))
	}
	return nil
}

// closeSurface hides the synchronizer surface that matches the editor mode.
func (m *Model) closeSurface(mode components.EditorMode) {
	st := m.dash.Snapshot()
	switch mode {
	case components.EditorModeAdd:
		if st.AddVisible {
			m.dash.ToggleAddSurface()
		}
	case components.EditorModeEdit:
		if st.EditVisible {
			m.dash.ToggleEditSurface()
		}
	}
	m.refresh()
}

// handleConfirmYes handles confirmed actions.
func (m *Model) handleConfirmYes(msg components.ConfirmYesMsg) (tea.Model, tea.Cmd) {
	m.updateShortcuts()
	switch msg.Action {
	case components.ConfirmActionDelete:
		return m, m.run(m.delete(msg.TargetID))
	case components.ConfirmActionQuit:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleDone reports the result of a remote operation.
func (m *Model) handleDone(msg OperationDoneMsg) tea.Cmd {
	if m.inflight > 0 {
		m.inflight--
	}
	m.refresh()

	if msg.Err != nil {
		m.statusBar.SetMessage(apperrors.UserMessage(msg.Err), components.MessageError)
		return m.syncSpinner()
	}

	var text string
	switch msg.Op {
	case apperrors.OpList:
		text = fmt.Sprintf("Loaded %d item(s)", msg.Count)
	case apperrors.OpCreate:
		text = fmt.Sprintf("Added %s", msg.Item.Name)
	case apperrors.OpUpdate:
		text = fmt.Sprintf("Saved %s", msg.Item.Name)
	case opAvailability:
		status := "unavailable"
		if msg.Item.Available {
			status = "available"
		}
		text = fmt.Sprintf("%s is now %s", msg.Item.Name, status)
	case apperrors.OpDelete:
		text = fmt.Sprintf("Deleted item #%d", msg.ID)
	}
	m.statusBar.SetMessage(text, components.MessageSuccess)
	return m.syncSpinner()
}

// run counts a remote operation as in flight and starts the spinner.
func (m *Model) run(cmd tea.Cmd) tea.Cmd {
	m.inflight++
	return tea.Batch(cmd, m.syncSpinner())
}

func (m *Model) initialize() tea.Cmd {
	dash, ctx := m.dash, m.ctx
	return func() tea.Msg {
		err := dash.Initialize(ctx)
		return OperationDoneMsg{Op: apperrors.OpList, Count: len(dash.Snapshot().Items), Err: err}
	}
}

func (m *Model) create(d food.Draft) tea.Cmd {
	dash, ctx := m.dash, m.ctx
	return func() tea.Msg {
		it, err := dash.Create(ctx, d)
		return OperationDoneMsg{Op: apperrors.OpCreate, Item: it, ID: it.ID, Err: err}
	}
}

func (m *Model) edit(target food.Item, d food.Draft) tea.Cmd {
	dash, ctx := m.dash, m.ctx
	return func() tea.Msg {
		it, err := dash.Edit(ctx, target, d)
		return OperationDoneMsg{Op: apperrors.OpUpdate, Item: it, ID: target.ID, Err: err}
	}
}

func (m *Model) setAvailability(id int, available bool) tea.Cmd {
	dash, ctx := m.dash, m.ctx
	return func() tea.Msg {
		it, err := dash.SetAvailability(ctx, id, available)
		return OperationDoneMsg{Op: opAvailability, Item: it, ID: id, Err: err}
	}
}

func (m *Model) delete(id int) tea.Cmd {
	dash, ctx := m.dash, m.ctx
	return func() tea.Msg {
		err := dash.Delete(ctx, id)
		return OperationDoneMsg{Op: apperrors.OpDelete, ID: id, Err: err}
	}
}

// refresh re-reads the synchronizer state.
func (m *Model) refresh() {
	m.applyState(m.dash.Snapshot())
}

func (m *Model) applyState(st listsync.State) {
	m.state = st
	m.foodList.SetItems(st.Items)

	editing := 0
	if st.EditVisible && st.Selected != nil {
		editing = st.Selected.ID
	}
	m.foodList.SetEditing(editing)

	available := 0
	for _, it := range st.Items {
		if it.Available {
			available++
		}
	}
	m.header.SetCount(len(st.Items), st.Loaded)
	m.statusBar.SetCounts(available, len(st.Items))
	m.statusBar.SetPending(m.pending(), m.spinner.View())
	m.updateShortcuts()
}

// pending counts operations this model started that have not reported
// back, or the synchronizer's queue length if that is larger.
func (m *Model) pending() int {
	return max(m.inflight, m.state.Pending)
}

func (m *Model) syncSpinner() tea.Cmd {
	cmd := m.spinner.SetActive(m.pending() > 0)
	m.statusBar.SetPending(m.pending(), m.spinner.View())
	return cmd
}

func (m *Model) updateShortcuts() {
	switch {
	case m.confirmDlg.IsVisible():
		m.statusBar.SetShortcuts(components.ConfirmShortcuts)
	case m.editor.IsActive():
		m.statusBar.SetShortcuts(components.EditorShortcuts)
	default:
		m.statusBar.SetShortcuts(components.DashboardShortcuts)
	}
}

// View renders the TUI.
func (m *Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	m.statusBar.SetPending(m.pending(), m.spinner.View())

	// The list loses its cursor highlight under an overlay.
	m.foodList.SetFocused(!m.confirmDlg.IsVisible() && !m.editor.IsActive() && !m.helpOverlay.IsVisible())

	var b strings.Builder
	b.WriteString(m.header.View() + "\n")
	if m.width > 0 {
		divider := lipgloss.NewStyle().
			Foreground(styles.BorderColor).
			Render(strings.Repeat("─", m.width))
		b.WriteString(divider + "\n")
	}
	b.WriteString(m.foodList.View() + "\n")
	b.WriteString(m.statusBar.View())
	view := b.String()

	switch {
	case m.confirmDlg.IsVisible():
		view = m.renderOverlay(view, m.confirmDlg.View())
	case m.editor.IsActive():
		view = m.renderOverlay(view, m.editor.View())
	case m.helpOverlay.IsVisible():
		view = m.renderOverlay(view, m.helpOverlay.View())
	}
	return view
}

// renderOverlay places overlay in the middle of the screen, or below the
// base view before the first window size is known.
func (m *Model) renderOverlay(base, overlay string) string {
	if overlay == "" {
		return base
	}
	if m.width == 0 || m.height == 0 {
		return base + "\n" + overlay
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay)
}
