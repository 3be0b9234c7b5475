package dropzone

import (
	"net/http"
	"time"

	"github.com/vango-dev/dropzone/pkg/upload"
)

// FileInput is the platform file picker.
type FileInput interface {
	EventTarget

	// Click opens the picker.
	Click()

	// Files returns the current selection.
	Files() []*upload.File
}

// Progress is the progress indicator. Only visibility is meaningful.
type Progress interface {
	SetValue(v float64)
	SetHidden(hidden bool)
}

// StatusList displays the status entries. Render receives the whole list
// every time it changes.
type StatusList interface {
	Render(entries []Entry)
}

// Elements are the handles a Widget is bound to.
type Elements struct {
	DropZone EventTarget
	Input    FileInput
	Progress Progress
	Status   StatusList
}

// Reloader reloads the page after a successful upload.
type Reloader interface {
	Reload()
}

// ReloaderFunc adapts a function to Reloader.
type ReloaderFunc func()

// Reload calls f.
func (f ReloaderFunc) Reload() { f() }

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, f func())

// AfterFunc calls fn(d, f).
func (fn SchedulerFunc) AfterFunc(d time.Duration, f func()) { fn(d, f) }

// timerScheduler schedules on the runtime timer.
var timerScheduler = SchedulerFunc(func(d time.Duration, f func()) {
	time.AfterFunc(d, f)
})

// Doer sends HTTP requests. *http.Client implements it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}
