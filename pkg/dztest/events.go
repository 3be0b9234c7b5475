package dztest

import (
	"slices"
	"sync"

	"github.com/vango-dev/dropzone/pkg/dropzone"
	"github.com/vango-dev/dropzone/pkg/upload"
)

// Event is a recorded UI event.
type Event struct {
	Name string

	mu        sync.Mutex
	prevented bool
	stopped   bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Name: typ}
}

// Type implements dropzone.Event.
func (e *Event) Type() string { return e.Name }

// PreventDefault implements dropzone.Event.
func (e *Event) PreventDefault() {
	e.mu.Lock()
	e.prevented = true
	e.mu.Unlock()
}

// StopPropagation implements dropzone.Event.
func (e *Event) StopPropagation() {
	e.mu.Lock()
	e.stopped = true
	e.mu.Unlock()
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prevented
}

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopped
}

// DropEvent is a drop event carrying files.
type DropEvent struct {
	*Event
	files []*upload.File
}

// NewDropEvent creates a drop event with a data transfer holding files.
func NewDropEvent(files ...*upload.File) *DropEvent {
	return &DropEvent{Event: NewEvent(dropzone.EventDrop), files: files}
}

// Files implements dropzone.DataTransfer.
func (e *DropEvent) Files() []*upload.File { return e.files }

// Target records listeners and dispatches events to them.
type Target struct {
	mu        sync.Mutex
	listeners map[string][]func(dropzone.Event)
}

// AddEventListener implements dropzone.EventTarget.
func (t *Target) AddEventListener(typ string, fn func(dropzone.Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.listeners == nil {
		t.listeners = make(map[string][]func(dropzone.Event))
	}
	t.listeners[typ] = append(t.listeners[typ], fn)
}

// Dispatch calls the listeners registered for ev.Type() in order.
func (t *Target) Dispatch(ev dropzone.Event) {
	t.mu.Lock()
	fns := slices.Clone(t.listeners[ev.Type()])
	t.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Listeners returns the number of listeners registered for typ.
func (t *Target) Listeners(typ string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.listeners[typ])
}
