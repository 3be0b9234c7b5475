package dropzone

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// DefaultReloadDelay is how long the success message stays before reload.
const DefaultReloadDelay = 2 * time.Second

// Option configures a Widget.
type Option func(*Widget)

// WithBaseURL sets the URL the endpoint is resolved against.
func WithBaseURL(base string) Option {
	return func(w *Widget) {
		w.baseURL = base
	}
}

// WithEndpoint sets the path the form is posted to (default "/").
func WithEndpoint(endpoint string) Option {
	return func(w *Widget) {
		w.endpoint = endpoint
	}
}

// WithFieldName sets the multipart field name (default "file").
func WithFieldName(name string) Option {
	return func(w *Widget) {
		w.field = name
	}
}

// WithReloadDelay sets the delay between success and reload.
func WithReloadDelay(d time.Duration) Option {
	return func(w *Widget) {
		w.reloadDelay = d
	}
}

// WithClient sets the HTTP client.
func WithClient(client Doer) Option {
	return func(w *Widget) {
		w.client = client
	}
}

// WithScheduler sets the scheduler the reload is deferred on.
func WithScheduler(s Scheduler) Option {
	return func(w *Widget) {
		w.scheduler = s
	}
}

// WithReloader sets the page reloader.
func WithReloader(r Reloader) Option {
	return func(w *Widget) {
		w.reloader = r
	}
}

// WithMessages replaces the status texts.
func WithMessages(m Messages) Option {
	return func(w *Widget) {
		w.messages = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Widget) {
		w.logger = logger
	}
}

// WithMetrics enables submission metrics.
func WithMetrics(m *Metrics) Option {
	return func(w *Widget) {
		w.metrics = m
	}
}

// WithTracer sets the tracer. Default: the global provider's "dropzone" tracer.
func WithTracer(t trace.Tracer) Option {
	return func(w *Widget) {
		w.tracer = t
	}
}

// WithContext sets the context submissions started by event handlers run in.
func WithContext(ctx context.Context) Option {
	return func(w *Widget) {
		w.ctx = ctx
	}
}
