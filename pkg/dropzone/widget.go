package dropzone

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/dropzone/internal/errors"
	"github.com/vango-dev/dropzone/pkg/upload"
)

// Outcome is how a submission settled.
type Outcome int

const (
	// OutcomeSuccess means the server answered with a 2xx status.
	OutcomeSuccess Outcome = iota

	// OutcomeRejected means the server answered with a non-ok status.
	OutcomeRejected

	// OutcomeNetworkError means no response was received.
	OutcomeNetworkError

	// OutcomeBusy means another submission was in flight; nothing was sent.
	OutcomeBusy
)

// String returns the metric label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRejected:
		return "rejected"
	case OutcomeNetworkError:
		return "network_error"
	case OutcomeBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// UploadIDHeader carries the submission id on the upload request.
const UploadIDHeader = "X-Upload-Id"

// Result describes a settled submission.
type Result struct {
	// ID identifies the submission in logs, spans and the UploadIDHeader.
	ID string

	Outcome Outcome

	// StatusCode is the response status, 0 without a response.
	StatusCode int

	// Files is the number of files in the selection.
	Files int

	// Err is a coded error (D300, D301, D302) for failed submissions.
	Err error
}

// Widget is the upload widget.
type Widget struct {
	el Elements

	baseURL     string
	endpoint    string
	field       string
	reloadDelay time.Duration
	messages    Messages

	client    Doer
	scheduler Scheduler
	reloader  Reloader
	logger    *slog.Logger
	metrics   *Metrics
	tracer    trace.Tracer
	ctx       context.Context

	busy atomic.Bool
	wg   sync.WaitGroup

	mu      sync.Mutex
	entries []Entry
}

// New creates a Widget over the given elements.
func New(el Elements, opts ...Option) *Widget {
	w := &Widget{
		el:          el,
		endpoint:    "/",
		field:       "file",
		reloadDelay: DefaultReloadDelay,
		messages:    DefaultMessages(),
		client:      http.DefaultClient,
		scheduler:   timerScheduler,
		reloader:    ReloaderFunc(func() {}),
		ctx:         context.Background(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	if w.tracer == nil {
		w.tracer = otel.Tracer("dropzone")
	}
	return w
}

// Bind registers the widget's listeners on the drop zone and the input.
func (w *Widget) Bind() {
	for _, name := range DragEvents {
		w.el.DropZone.AddEventListener(name, suppressDefault)
	}
	w.el.DropZone.AddEventListener(EventDrop, w.onDrop)
	w.el.DropZone.AddEventListener(EventClick, w.onDropZoneClick)
	w.el.Input.AddEventListener(EventChange, w.onFilePickerChange)
}

func (w *Widget) onDrop(ev Event) {
	dt, ok := ev.(DataTransfer)
	if !ok {
		w.logger.Debug("drop event without data transfer ignored")
		return
	}
	w.submitAsync(dt.Files())
}

func (w *Widget) onFilePickerChange(Event) {
	w.submitAsync(w.el.Input.Files())
}

func (w *Widget) onDropZoneClick(Event) {
	w.el.Input.Click()
}

// submitAsync runs Submit on its own goroutine so event callbacks return at once.
func (w *Widget) submitAsync(files []*upload.File) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.Submit(w.ctx, files)
	}()
}

// Wait blocks until every submission started by an event handler settled.
func (w *Widget) Wait() {
	w.wg.Wait()
}

// Busy reports whether a submission is in flight.
func (w *Widget) Busy() bool {
	return w.busy.Load()
}

// Entries returns a copy of the current status list.
func (w *Widget) Entries() []Entry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Entry(nil), w.entries...)
}

func (w *Widget) setEntries(entries []Entry) {
	w.mu.Lock()
	w.entries = entries
	snapshot := append([]Entry(nil), entries...)
	w.mu.Unlock()

	w.el.Status.Render(snapshot)
}

// Submit uploads files as one multipart POST and reflects the outcome in the
// status list. It blocks until the request settles.
func (w *Widget) Submit(ctx context.Context, files []*upload.File) Result {
	if !w.busy.CompareAndSwap(false, true) {
		w.logger.Warn("upload already in flight, selection dropped", "files", len(files))
		for _, f := range files {
			f.Close()
		}
		res := Result{Outcome: OutcomeBusy, Files: len(files)}
		w.metrics.observe(res, 0)
		return res
	}
	defer w.busy.Store(false)

	start := time.Now()
	target := w.target()
	id := uuid.NewString()
	logger := w.logger.With("upload_id", id)

	ctx, span := w.tracer.Start(ctx, "dropzone.submit",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.Int("dropzone.files", len(files)),
			attribute.String("dropzone.target", target),
			attribute.String("dropzone.upload_id", id),
		),
	)
	defer span.End()

	w.el.Progress.SetHidden(false)
	w.el.Progress.SetValue(0)
	w.setEntries(nil)

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		entries = append(entries, w.messages.loading(f.Filename))
	}
	w.setEntries(entries)

	res := w.send(ctx, logger, id, target, files)
	res.ID = id
	res.Files = len(files)

	w.el.Progress.SetHidden(true)

	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Outcome.String())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	if res.StatusCode != 0 {
		span.SetAttributes(attribute.Int("http.status_code", res.StatusCode))
	}
	w.metrics.observe(res, time.Since(start))

	return res
}

func (w *Widget) send(ctx context.Context, logger *slog.Logger, id, target string, files []*upload.File) Result {
	form, err := upload.Encode(w.field, files)
	if err != nil {
		return w.networkError(logger, errors.New("D302").Wrap(err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, form.Body)
	if err != nil {
		return w.networkError(logger, errors.New("D301").Wrap(err))
	}
	req.Header.Set("Content-Type", form.ContentType)
	req.Header.Set(UploadIDHeader, id)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := w.client.Do(req)
	if err != nil {
		return w.networkError(logger, errors.New("D301").Wrap(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body)
		logger.Info("upload complete", "files", len(files), "status", resp.StatusCode)
		w.setEntries([]Entry{w.messages.success()})
		w.scheduler.AfterFunc(w.reloadDelay, w.reloader.Reload)
		return Result{Outcome: OutcomeSuccess, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return w.networkError(logger, errors.New("D301").Wrap(err))
	}
	text := string(body)

	logger.Error("upload rejected", "status", resp.StatusCode, "body", text)
	w.setEntries([]Entry{w.messages.rejected(text)})
	return Result{
		Outcome:    OutcomeRejected,
		StatusCode: resp.StatusCode,
		Err:        errors.New("D300").WithDetail(text),
	}
}

func (w *Widget) networkError(logger *slog.Logger, err *errors.DropzoneError) Result {
	logger.Error("upload network error", "error", err)
	w.setEntries([]Entry{w.messages.network()})
	return Result{Outcome: OutcomeNetworkError, Err: err}
}

// target resolves the endpoint against the base URL.
func (w *Widget) target() string {
	if w.baseURL == "" {
		return w.endpoint
	}
	base, err := url.Parse(w.baseURL)
	if err != nil {
		return w.endpoint
	}
	ref, err := url.Parse(w.endpoint)
	if err != nil {
		return w.endpoint
	}
	return base.ResolveReference(ref).String()
}
