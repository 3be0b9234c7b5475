package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/vango-dev/dropzone/pkg/dropzone"
)

// terminal is the widget's progress indicator and status list on a
// terminal. Every render prints the entries that differ from the previous
// one, so the output reads as a log of the status list.
type terminal struct {
	w io.Writer

	mu      sync.Mutex
	visible bool
	shown   []dropzone.Entry
}

func newTerminal(w io.Writer) *terminal {
	return &terminal{w: w}
}

// SetValue is a no-op; the indicator is binary.
func (t *terminal) SetValue(float64) {}

// SetHidden prints a line when the indicator appears.
func (t *terminal) SetHidden(hidden bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !hidden && !t.visible {
		fmt.Fprintln(t.w, "\033[36m↑\033[0m Uploading...")
	}
	t.visible = !hidden
}

// Render prints the entries of the new list.
func (t *terminal) Render(entries []dropzone.Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	same := 0
	for same < len(entries) && same < len(t.shown) && entries[same] == t.shown[same] {
		same++
	}
	for _, e := range entries[same:] {
		fmt.Fprintln(t.w, formatEntry(e))
	}
	t.shown = append(t.shown[:0], entries...)
}

// Visible reports whether the indicator is shown.
func (t *terminal) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}

func formatEntry(e dropzone.Entry) string {
	switch e.Kind {
	case dropzone.KindSuccess:
		return "\033[32m✓\033[0m " + e.Text
	case dropzone.KindError:
		return "\033[31m✗\033[0m " + e.Text
	default:
		return "  " + e.Text
	}
}

// pageReloader "reloads" by fetching the page again and reporting the
// response. Done is closed after the first reload.
type pageReloader struct {
	url    string
	client *http.Client
	w      io.Writer
	logger *slog.Logger

	once sync.Once
	done chan struct{}
}

func newPageReloader(url string, client *http.Client, w io.Writer, logger *slog.Logger) *pageReloader {
	if client == nil {
		client = http.DefaultClient
	}
	return &pageReloader{
		url:    url,
		client: client,
		w:      w,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Reload implements dropzone.Reloader.
func (r *pageReloader) Reload() {
	defer r.once.Do(func() { close(r.done) })

	resp, err := r.client.Get(r.url)
	if err != nil {
		r.logger.Debug("reload failed", "url", r.url, "error", err)
		fmt.Fprintf(r.w, "\033[33m⚠\033[0m Reload of %s failed: %v\n", r.url, err)
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	r.logger.Debug("page reloaded", "url", r.url, "status", resp.StatusCode)
	fmt.Fprintf(r.w, "  Reloaded %s (%s)\n", r.url, resp.Status)
}

// Done is closed once the page was reloaded.
func (r *pageReloader) Done() <-chan struct{} {
	return r.done
}
