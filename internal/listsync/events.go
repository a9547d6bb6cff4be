package listsync

import (
	"time"

	"github.com/dbmrq/gorestaurant/internal/food"
)

// EventType identifies the type of synchronizer event.
type EventType string

const (
	EventLoaded   EventType = "loaded"
	EventCreated  EventType = "created"
	EventUpdated  EventType = "updated"
	EventDeleted  EventType = "deleted"
	EventFailed   EventType = "failed"
	EventSelected EventType = "selected"
	EventSurface  EventType = "surface"
)

// Event is published after every committed or failed operation, and after
// selection or surface changes.
type Event struct {
	Type EventType
	// Op is the remote operation ("list", "create", ...), empty for local
	// changes.
	Op string
	// Item is the committed item for create and update.
	Item food.Item
	// ID is the targeted item ID, zero for list and create.
	ID int
	// Error is set for EventFailed.
	Error error
	// State is the snapshot right after the change.
	State State
	Timestamp time.Time
}

// EventHandler is a callback for synchronizer events. Handlers run on the
// goroutine that made the change and must not block.
type EventHandler func(event Event)

// Subscribe registers h for all future events and returns a function that
// removes it.
func (s *Synchronizer) Subscribe(h EventHandler) (unsubscribe func()) {
	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()

	id := s.nextHandler
	s.nextHandler++
	s.handlers[id] = h

	return func() {
		s.handlersMu.Lock()
		defer s.handlersMu.Unlock()
		delete(s.handlers, id)
	}
}

func (s *Synchronizer) emit(e Event) {
	e.State = s.Snapshot()
	e.Timestamp = time.Now()

	if s.opts.OnEvent != nil {
		s.opts.OnEvent(e)
	}

	s.handlersMu.Lock()
	handlers := make([]EventHandler, 0, len(s.handlers))
	for _, h := range s.handlers {
		handlers = append(handlers, h)
	}
	s.handlersMu.Unlock()

	for _, h := range handlers {
		h(e)
	}
}
