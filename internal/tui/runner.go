package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dbmrq/gorestaurant/internal/listsync"
)

// sender is the part of *tea.Program the bridge needs.
type sender interface {
	Send(msg tea.Msg)
}

// EventBridge translates synchronizer events to TUI messages.
type EventBridge struct {
	program sender
}

// NewEventBridge creates a bridge that sends to program.
func NewEventBridge(program *tea.Program) *EventBridge {
	if program == nil {
		return &EventBridge{}
	}
	return &EventBridge{program: program}
}

// HandleEvent implements listsync.EventHandler. Only events from remote
// operations are forwarded: those arrive on the synchronizer's worker,
// while local selection and surface changes are made by the model itself
// from inside Update, where sending to the program would block.
func (b *EventBridge) HandleEvent(event listsync.Event) {
	if b.program == nil || event.Op == "" {
		return
	}
	b.program.Send(StateMsg{State: event.State})
}

// Runner runs the dashboard against a synchronizer.
type Runner struct {
	model   *Model
	program *tea.Program
	sync    *listsync.Synchronizer
	bridge  *EventBridge
	ctx     context.Context
}

// NewRunner creates a Runner. The program stops when ctx is done.
func NewRunner(ctx context.Context, s *listsync.Synchronizer, baseURL string, opts ...tea.ProgramOption) *Runner {
	model := New(s, baseURL)
	model.ctx = ctx

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	program := tea.NewProgram(model, opts...)

	return &Runner{
		model:   model,
		program: program,
		sync:    s,
		bridge:  NewEventBridge(program),
		ctx:     ctx,
	}
}

// Run blocks until the user quits or ctx is done.
func (r *Runner) Run() error {
	unsubscribe := r.sync.Subscribe(r.bridge.HandleEvent)
	defer unsubscribe()

	_, err := r.program.Run()
	if err != nil && r.ctx.Err() != nil {
		// Cancelled from outside, not a failure.
		return nil
	}
	return err
}

// Program returns the tea.Program.
func (r *Runner) Program() *tea.Program {
	return r.program
}

// Model returns the dashboard model.
func (r *Runner) Model() *Model {
	return r.model
}
