// Package listsync keeps a local food list consistent with the remote /foods
// collection.
//
// Every remote operation is queued and executed by a single worker in
// submission order: the request is issued, its response awaited, and only
// then is the local list changed. A failed request never changes the list.
package listsync

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dbmrq/gorestaurant/internal/api"
	apperrors "github.com/dbmrq/gorestaurant/internal/errors"
	"github.com/dbmrq/gorestaurant/internal/food"
	"github.com/dbmrq/gorestaurant/internal/logging"
)

var (
	// ErrNoSelection is returned by Update when no item was selected for
	// edit.
	ErrNoSelection = errors.New("no item selected for edit")
	// ErrClosed is returned by operations on a closed Synchronizer.
	ErrClosed = errors.New("synchronizer is closed")
)

// Options configures a Synchronizer.
type Options struct {
	// Logger receives operation logs. Defaults to the global logger.
	Logger *logging.Logger
	// OnEvent is called for each event before subscribed handlers
	// (optional).
	OnEvent EventHandler
}

// DefaultOptions returns default synchronizer options.
func DefaultOptions() *Options {
	return &Options{}
}

// State is an immutable view of the synchronizer for rendering.
type State struct {
	// Items is a copy of the list in display order.
	Items []food.Item
	// Selected is the item targeted by Update, or nil.
	Selected *food.Item
	// AddVisible and EditVisible are the two form surfaces. They are
	// independent of each other.
	AddVisible  bool
	EditVisible bool
	// Pending counts queued and running remote operations.
	Pending int
	// Loaded is true once a full fetch has succeeded.
	Loaded bool
	// LastError is the most recent failure, cleared by the next success.
	LastError error
}

// Synchronizer owns the food list and the edit selection.
type Synchronizer struct {
	client api.Client
	opts   *Options
	log    *logging.Logger

	mu          sync.RWMutex
	items       food.Collection
	selected    *food.Item
	addVisible  bool
	editVisible bool
	loaded      bool
	lastErr     error

	// queue state, guarded by mu
	queue   []*job
	pending int
	closed  bool

	wake      chan struct{}
	quit      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	handlersMu  sync.Mutex
	handlers    map[int]EventHandler
	nextHandler int
}

// New creates a Synchronizer with an empty list and starts its worker.
// Call Close when done.
func New(client api.Client, opts *Options) *Synchronizer {
	if opts == nil {
		opts = DefaultOptions()
	}
	log := opts.Logger
	if log == nil {
		log = logging.Global()
	}

	s := &Synchronizer{
		client:   client,
		opts:     opts,
		log:      log.With("component", "listsync"),
		wake:     make(chan struct{}, 1),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
		handlers: make(map[int]EventHandler),
	}
	go s.worker()
	return s
}

// Snapshot returns a copy of the current state. It never waits for queued
// operations.
func (s *Synchronizer) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		Items:       s.items.Items(),
		AddVisible:  s.addVisible,
		EditVisible: s.editVisible,
		Pending:     s.pending,
		Loaded:      s.loaded,
		LastError:   s.lastErr,
	}
	if s.selected != nil {
		sel := *s.selected
		st.Selected = &sel
	}
	return st
}

// Items returns a copy of the list.
func (s *Synchronizer) Items() []food.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.Items()
}

// Initialize fetches the whole collection and replaces the local list with
// it, in server order. On failure the list is left as it was.
func (s *Synchronizer) Initialize(ctx context.Context) error {
	return s.submit(ctx, func(ctx context.Context) (*Event, error) {
		items, err := s.client.List(ctx)
		if err != nil {
			return s.failed(apperrors.OpList, 0, err)
		}

		s.mu.Lock()
		s.items = food.NewCollection(items)
		s.loaded = true
		s.lastErr = nil
		s.mu.Unlock()

		s.log.Info("list loaded", "count", len(items))
		return &Event{Type: EventLoaded, Op: apperrors.OpList}, nil
	})
}

// Create validates d, asks the backend to create an available item from it
// and appends the item the backend returns.
func (s *Synchronizer) Create(ctx context.Context, d food.Draft) (food.Item, error) {
	d = d.Normalize()
	if err := validate(d); err != nil {
		return food.Item{}, err
	}

	var created food.Item
	err := s.submit(ctx, func(ctx context.Context) (*Event, error) {
		it, err := s.client.Create(ctx, d)
		if err != nil {
			return s.failed(apperrors.OpCreate, 0, err)
		}

		s.mu.Lock()
		if _, dup := s.items.Find(it.ID); dup {
			s.mu.Unlock()
			return s.failed(apperrors.OpCreate, it.ID,
				apperrors.MalformedResponse(apperrors.OpCreate, fmt.Errorf("duplicate id %d", it.ID)))
		}
		s.items.Append(it)
		s.lastErr = nil
		s.mu.Unlock()

		created = it
		s.log.Info("item created", "id", it.ID, "name", it.Name)
		return &Event{Type: EventCreated, Op: apperrors.OpCreate, Item: it, ID: it.ID}, nil
	})
	if err != nil {
		return food.Item{}, err
	}
	return created, nil
}

// Update sends d merged with the selected item, and replaces that item in
// place with the backend's representation. The target ID is fixed when
// Update is called; later selections do not change it. Availability is read
// from the list when the job runs, so a toggle queued ahead of it survives.
func (s *Synchronizer) Update(ctx context.Context, d food.Draft) (food.Item, error) {
	s.mu.RLock()
	var sel *food.Item
	if s.selected != nil {
		cp := *s.selected
		sel = &cp
	}
	s.mu.RUnlock()

	if sel == nil {
		return food.Item{}, ErrNoSelection
	}

	d = d.Normalize()
	if err := validate(d); err != nil {
		return food.Item{}, err
	}

	return s.put(ctx, *sel, d)
}

// Edit selects it and updates it with d, with no chance for another
// selection to land in between.
func (s *Synchronizer) Edit(ctx context.Context, it food.Item, d food.Draft) (food.Item, error) {
	s.mu.Lock()
	sel := it
	s.selected = &sel
	s.mu.Unlock()
	s.emit(Event{Type: EventSelected, Item: it, ID: it.ID})

	d = d.Normalize()
	if err := validate(d); err != nil {
		return food.Item{}, err
	}
	return s.put(ctx, it, d)
}

// SetAvailability flips the availability of the item with the given ID,
// keeping its other fields as they are when the job runs.
func (s *Synchronizer) SetAvailability(ctx context.Context, id int, available bool) (food.Item, error) {
	var updated food.Item
	err := s.submit(ctx, func(ctx context.Context) (*Event, error) {
		s.mu.RLock()
		it, ok := s.items.Find(id)
		s.mu.RUnlock()
		if !ok {
			return s.failed(apperrors.OpUpdate, id, apperrors.FoodNotFound(id))
		}

		it.Available = available
		ev, err := s.commitUpdate(ctx, it)
		if err == nil {
			updated = ev.Item
		}
		return ev, err
	})
	if err != nil {
		return food.Item{}, err
	}
	return updated, nil
}

// put queues an update of sel.ID with d and returns the committed item.
// Fields d does not carry come from the list's copy of the item at run
// time, or from sel if the item has left the list.
func (s *Synchronizer) put(ctx context.Context, sel food.Item, d food.Draft) (food.Item, error) {
	var updated food.Item
	err := s.submit(ctx, func(ctx context.Context) (*Event, error) {
		s.mu.RLock()
		cur, ok := s.items.Find(sel.ID)
		s.mu.RUnlock()
		if !ok {
			cur = sel
		}

		ev, err := s.commitUpdate(ctx, food.Merge(cur, d))
		if err == nil {
			updated = ev.Item
		}
		return ev, err
	})
	if err != nil {
		return food.Item{}, err
	}
	return updated, nil
}

// commitUpdate runs on the worker.
func (s *Synchronizer) commitUpdate(ctx context.Context, target food.Item) (*Event, error) {
	it, err := s.client.Update(ctx, target)
	if err != nil {
		return s.failed(apperrors.OpUpdate, target.ID, err)
	}
	// The ID is immutable whatever the backend echoes.
	if it.ID != target.ID {
		s.log.Warn("backend echoed a different id", "id", target.ID, "echoed", it.ID)
		it.ID = target.ID
	}

	s.mu.Lock()
	s.items.Replace(it)
	if s.selected != nil && s.selected.ID == it.ID {
		sel := it
		s.selected = &sel
	}
	s.lastErr = nil
	s.mu.Unlock()

	s.log.Info("item updated", "id", it.ID, "available", it.Available)
	return &Event{Type: EventUpdated, Op: apperrors.OpUpdate, Item: it, ID: it.ID}, nil
}

// Delete asks the backend to delete the item and removes it locally. An ID
// that is not in the list leaves the list unchanged.
func (s *Synchronizer) Delete(ctx context.Context, id int) error {
	return s.submit(ctx, func(ctx context.Context) (*Event, error) {
		if err := s.client.Delete(ctx, id); err != nil {
			return s.failed(apperrors.OpDelete, id, err)
		}

		s.mu.Lock()
		removed := s.items.Remove(id)
		if s.selected != nil && s.selected.ID == id {
			s.selected = nil
		}
		s.lastErr = nil
		s.mu.Unlock()

		s.log.Info("item deleted", "id", id, "removed", removed)
		return &Event{Type: EventDeleted, Op: apperrors.OpDelete, ID: id}, nil
	})
}

// SelectForEdit makes it the target of the next Update and shows the edit
// surface.
func (s *Synchronizer) SelectForEdit(it food.Item) {
	s.mu.Lock()
	sel := it
	s.selected = &sel
	s.editVisible = true
	s.mu.Unlock()

	s.emit(Event{Type: EventSelected, Item: it, ID: it.ID})
}

// ClearSelection forgets the edit target.
func (s *Synchronizer) ClearSelection() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()

	s.emit(Event{Type: EventSelected})
}

// ToggleAddSurface flips the visibility of the add form.
func (s *Synchronizer) ToggleAddSurface() {
	s.mu.Lock()
	s.addVisible = !s.addVisible
	s.mu.Unlock()

	s.emit(Event{Type: EventSurface})
}

// ToggleEditSurface flips the visibility of the edit form.
func (s *Synchronizer) ToggleEditSurface() {
	s.mu.Lock()
	s.editVisible = !s.editVisible
	s.mu.Unlock()

	s.emit(Event{Type: EventSurface})
}

// failed records err as the last failure and builds its event. The list is
// not touched.
func (s *Synchronizer) failed(op string, id int, err error) (*Event, error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()

	args := []any{"op", op, "error", err}
	if id != 0 {
		args = append(args, "id", id)
	}
	var ae *apperrors.AppError
	if errors.As(err, &ae) && ae.Details["request_id"] != "" {
		args = append(args, "request_id", ae.Details["request_id"])
	}
	s.log.Error("remote operation failed", args...)

	return &Event{Type: EventFailed, Op: op, ID: id, Error: err}, err
}

func validate(d food.Draft) error {
	if err := d.Validate(); err != nil {
		var fe *food.FieldError
		if errors.As(err, &fe) {
			return apperrors.InvalidDraft(fe.Field, fe.Message)
		}
		return err
	}
	return nil
}
