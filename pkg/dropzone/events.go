package dropzone

import "github.com/vango-dev/dropzone/pkg/upload"

// Event names the widget listens for.
const (
	EventDragEnter = "dragenter"
	EventDragOver  = "dragover"
	EventDragLeave = "dragleave"
	EventDrop      = "drop"
	EventClick     = "click"
	EventChange    = "change"
)

// DragEvents are the drop zone events whose default action is suppressed.
var DragEvents = []string{EventDragEnter, EventDragOver, EventDragLeave, EventDrop}

// Event is a dispatched UI event.
type Event interface {
	// Type returns the event name.
	Type() string

	// PreventDefault cancels the platform default action.
	PreventDefault()

	// StopPropagation stops the event from reaching other targets.
	StopPropagation()
}

// DataTransfer is implemented by drop events that carry files.
type DataTransfer interface {
	Event

	// Files returns the dropped files in order.
	Files() []*upload.File
}

// EventTarget accepts event listeners.
type EventTarget interface {
	AddEventListener(typ string, fn func(Event))
}

// suppressDefault is registered for every drag event.
func suppressDefault(ev Event) {
	ev.PreventDefault()
	ev.StopPropagation()
}
