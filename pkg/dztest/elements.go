package dztest

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vango-dev/dropzone/pkg/dropzone"
	"github.com/vango-dev/dropzone/pkg/upload"
)

// Input is a fake file picker.
type Input struct {
	Target

	mu       sync.Mutex
	selected []*upload.File
	clicks   int
}

// Click implements dropzone.FileInput.
func (in *Input) Click() {
	in.mu.Lock()
	in.clicks++
	in.mu.Unlock()
}

// Clicks returns how many times the picker was opened.
func (in *Input) Clicks() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.clicks
}

// Files implements dropzone.FileInput.
func (in *Input) Files() []*upload.File {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.selected
}

// Select replaces the selection and dispatches a change event.
func (in *Input) Select(files ...*upload.File) {
	in.mu.Lock()
	in.selected = files
	in.mu.Unlock()
	in.Dispatch(NewEvent(dropzone.EventChange))
}

// Progress is a fake progress indicator recording every call.
type Progress struct {
	mu      sync.Mutex
	value   float64
	hidden  bool
	history []string
}

// NewProgress returns a progress indicator that starts hidden.
func NewProgress() *Progress {
	return &Progress{hidden: true}
}

// SetValue implements dropzone.Progress.
func (p *Progress) SetValue(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = v
	p.history = append(p.history, "value")
}

// SetHidden implements dropzone.Progress.
func (p *Progress) SetHidden(hidden bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hidden = hidden
	if hidden {
		p.history = append(p.history, "hide")
	} else {
		p.history = append(p.history, "show")
	}
}

// Hidden reports the current visibility.
func (p *Progress) Hidden() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hidden
}

// Value returns the current value.
func (p *Progress) Value() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// History returns the calls in order as "show", "hide" and "value".
func (p *Progress) History() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.history...)
}

// Status is a fake status list recording every render.
type Status struct {
	mu      sync.Mutex
	renders [][]dropzone.Entry
}

// Render implements dropzone.StatusList.
func (s *Status) Render(entries []dropzone.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renders = append(s.renders, entries)
}

// Renders returns every rendered list in order.
func (s *Status) Renders() [][]dropzone.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]dropzone.Entry(nil), s.renders...)
}

// Entries returns the last rendered list.
func (s *Status) Entries() []dropzone.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.renders) == 0 {
		return nil
	}
	return s.renders[len(s.renders)-1]
}

// HTML returns the last rendered list as markup.
func (s *Status) HTML() string {
	return string(dropzone.RenderHTML(s.Entries()))
}

// Scheduler records deferred functions without running them.
type Scheduler struct {
	mu     sync.Mutex
	delays []time.Duration
	fns    []func()
}

// AfterFunc implements dropzone.Scheduler.
func (s *Scheduler) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	s.fns = append(s.fns, f)
}

// Delays returns the requested delays in order.
func (s *Scheduler) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

// Fire runs and forgets every pending function.
func (s *Scheduler) Fire() {
	s.mu.Lock()
	fns := s.fns
	s.fns = nil
	s.mu.Unlock()

	for _, f := range fns {
		f()
	}
}

// Reloader counts reloads.
type Reloader struct {
	mu    sync.Mutex
	count int
}

// Reload implements dropzone.Reloader.
func (r *Reloader) Reload() {
	r.mu.Lock()
	r.count++
	r.mu.Unlock()
}

// Count returns the number of reloads.
func (r *Reloader) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Elements bundles one fake per widget element.
type Elements struct {
	DropZone *Target
	Input    *Input
	Progress *Progress
	Status   *Status
}

// NewElements creates a fresh set of fakes.
func NewElements() *Elements {
	return &Elements{
		DropZone: &Target{},
		Input:    &Input{},
		Progress: NewProgress(),
		Status:   &Status{},
	}
}

// Elements returns the handles to pass to dropzone.New.
func (e *Elements) Elements() dropzone.Elements {
	return dropzone.Elements{
		DropZone: e.DropZone,
		Input:    e.Input,
		Progress: e.Progress,
		Status:   e.Status,
	}
}

// ExpectHTML fails the test if the status list markup is not want.
func ExpectHTML(t testing.TB, s *Status, want string) {
	t.Helper()
	if got := s.HTML(); got != want {
		t.Errorf("status HTML = %q, want %q", got, want)
	}
}

// ExpectContains fails the test if the status list markup lacks substr.
func ExpectContains(t testing.TB, s *Status, substr string) {
	t.Helper()
	if got := s.HTML(); !strings.Contains(got, substr) {
		t.Errorf("status HTML %q does not contain %q", got, substr)
	}
}
