package dropzone_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	dzerrors "github.com/vango-dev/dropzone/internal/errors"
	"github.com/vango-dev/dropzone/pkg/dropzone"
	"github.com/vango-dev/dropzone/pkg/dztest"
	"github.com/vango-dev/dropzone/pkg/upload"
)

const successHTML = `<p style="color: green;">Archivos procesados correctamente.</p>`

// recordedRequest is what the test server saw.
type recordedRequest struct {
	method string
	path   string
	header http.Header
	fields []string
	names  []string
	bodies []string
}

// uploadServer records every request and answers with status and body.
type uploadServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

func newUploadServer(t *testing.T, status int, body string) *uploadServer {
	t.Helper()

	s := &uploadServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{method: r.Method, path: r.URL.Path, header: r.Header.Clone()}

		_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err == nil {
			mr := multipart.NewReader(r.Body, params["boundary"])
			for {
				p, err := mr.NextPart()
				if err != nil {
					break
				}
				data, _ := io.ReadAll(p)
				rec.fields = append(rec.fields, p.FormName())
				rec.names = append(rec.names, p.FileName())
				rec.bodies = append(rec.bodies, string(data))
			}
		}

		s.mu.Lock()
		s.requests = append(s.requests, rec)
		s.mu.Unlock()

		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *uploadServer) Requests() []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedRequest(nil), s.requests...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type harness struct {
	el       *dztest.Elements
	sched    *dztest.Scheduler
	reloader *dztest.Reloader
	widget   *dropzone.Widget
}

func newHarness(baseURL string, client dropzone.Doer, opts ...dropzone.Option) *harness {
	h := &harness{
		el:       dztest.NewElements(),
		sched:    &dztest.Scheduler{},
		reloader: &dztest.Reloader{},
	}
	all := []dropzone.Option{
		dropzone.WithBaseURL(baseURL),
		dropzone.WithClient(client),
		dropzone.WithScheduler(h.sched),
		dropzone.WithReloader(h.reloader),
		dropzone.WithLogger(quietLogger()),
	}
	h.widget = dropzone.New(h.el.Elements(), append(all, opts...)...)
	h.widget.Bind()
	return h
}

func textFiles(names ...string) []*upload.File {
	files := make([]*upload.File, len(names))
	for i, name := range names {
		files[i] = upload.NewFile(name, "text/plain", []byte("content of "+name))
	}
	return files
}

type failingDoer struct{ err error }

func (d failingDoer) Do(*http.Request) (*http.Response, error) {
	return nil, d.err
}

func TestSubmit_OneRequestWithPartsInOrder(t *testing.T) {
	tests := []struct {
		name  string
		files []string
	}{
		{"zero files", nil},
		{"one file", []string{"a.txt"}},
		{"three files with duplicate", []string{"c.txt", "a.txt", "c.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newUploadServer(t, http.StatusOK, "")
			h := newHarness(srv.URL, srv.Client())

			res := h.widget.Submit(context.Background(), textFiles(tt.files...))
			if res.Outcome != dropzone.OutcomeSuccess {
				t.Fatalf("Outcome = %v, want success", res.Outcome)
			}
			if res.Files != len(tt.files) {
				t.Errorf("Files = %d, want %d", res.Files, len(tt.files))
			}

			reqs := srv.Requests()
			if len(reqs) != 1 {
				t.Fatalf("server saw %d requests, want 1", len(reqs))
			}
			req := reqs[0]
			if req.method != http.MethodPost || req.path != "/" {
				t.Errorf("request = %s %s, want POST /", req.method, req.path)
			}
			if len(req.names) != len(tt.files) {
				t.Fatalf("parts = %d, want %d", len(req.names), len(tt.files))
			}
			for i, name := range tt.files {
				if req.fields[i] != "file" {
					t.Errorf("part %d field = %q, want file", i, req.fields[i])
				}
				if req.names[i] != name {
					t.Errorf("part %d filename = %q, want %q", i, req.names[i], name)
				}
				if req.bodies[i] != "content of "+name {
					t.Errorf("part %d body = %q", i, req.bodies[i])
				}
			}
		})
	}
}

func TestSubmit_OKSchedulesReload(t *testing.T) {
	srv := newUploadServer(t, http.StatusOK, "ignored")
	h := newHarness(srv.URL, srv.Client())

	res := h.widget.Submit(context.Background(), textFiles("a.txt"))
	if res.Outcome != dropzone.OutcomeSuccess || res.StatusCode != http.StatusOK || res.Err != nil {
		t.Fatalf("Result = %+v", res)
	}

	dztest.ExpectHTML(t, h.el.Status, successHTML)

	entries := h.widget.Entries()
	if len(entries) != 1 || entries[0].Kind != dropzone.KindSuccess {
		t.Errorf("Entries() = %+v", entries)
	}

	delays := h.sched.Delays()
	if len(delays) != 1 || delays[0] != 2000*time.Millisecond {
		t.Fatalf("scheduled delays = %v, want [2s]", delays)
	}
	if h.reloader.Count() != 0 {
		t.Fatal("reload ran before the delay elapsed")
	}
	h.sched.Fire()
	if h.reloader.Count() != 1 {
		t.Errorf("reloads = %d, want 1", h.reloader.Count())
	}

	if !h.el.Progress.Hidden() {
		t.Error("progress should end hidden")
	}
}

func TestSubmit_RejectedShowsServerText(t *testing.T) {
	srv := newUploadServer(t, http.StatusBadRequest, "Invalid format")
	h := newHarness(srv.URL, srv.Client())

	res := h.widget.Submit(context.Background(), textFiles("a.txt"))
	if res.Outcome != dropzone.OutcomeRejected {
		t.Fatalf("Outcome = %v, want rejected", res.Outcome)
	}
	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d", res.StatusCode)
	}

	dztest.ExpectHTML(t, h.el.Status, `<p style="color: red;">Error: Invalid format</p>`)

	var de *dzerrors.DropzoneError
	if !errors.As(res.Err, &de) || de.Code != "D300" || de.Detail != "Invalid format" {
		t.Errorf("Err = %v, want D300 with detail", res.Err)
	}

	if delays := h.sched.Delays(); len(delays) != 0 {
		t.Errorf("reload scheduled after rejection: %v", delays)
	}
	if !h.el.Progress.Hidden() {
		t.Error("progress should end hidden")
	}
}

func TestSubmit_TransportFailure(t *testing.T) {
	h := newHarness("http://upload.invalid", failingDoer{err: errors.New("connection refused")})

	res := h.widget.Submit(context.Background(), textFiles("a.txt"))
	if res.Outcome != dropzone.OutcomeNetworkError {
		t.Fatalf("Outcome = %v, want network_error", res.Outcome)
	}
	if !dzerrors.HasCode(res.Err, "D301") {
		t.Errorf("Err = %v, want D301", res.Err)
	}
	if res.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", res.StatusCode)
	}

	dztest.ExpectHTML(t, h.el.Status, `<p style="color: red;">Error de red</p>`)

	if delays := h.sched.Delays(); len(delays) != 0 {
		t.Errorf("reload scheduled after transport failure: %v", delays)
	}
	if !h.el.Progress.Hidden() {
		t.Error("progress should end hidden")
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }
func (errReader) Close() error { return nil }

func TestSubmit_UnreadableFileIsNetworkError(t *testing.T) {
	srv := newUploadServer(t, http.StatusOK, "")
	h := newHarness(srv.URL, srv.Client())

	res := h.widget.Submit(context.Background(), []*upload.File{{Filename: "broken.bin", Reader: errReader{}}})
	if res.Outcome != dropzone.OutcomeNetworkError {
		t.Fatalf("Outcome = %v, want network_error", res.Outcome)
	}
	if !dzerrors.HasCode(res.Err, "D302") {
		t.Errorf("Err = %v, want D302", res.Err)
	}
	if len(srv.Requests()) != 0 {
		t.Error("no request should be sent when encoding fails")
	}
	if !h.el.Progress.Hidden() {
		t.Error("progress should end hidden")
	}
}

// bodyDoer answers every request with status and an unreadable body.
type bodyDoer struct{ status int }

func (d bodyDoer) Do(req *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: d.status,
		Status:     http.StatusText(d.status),
		Header:     http.Header{},
		Body:       errReader{},
		Request:    req,
	}, nil
}

func TestSubmit_UnreadableRejectionBodyIsNetworkError(t *testing.T) {
	h := newHarness("http://upload.test", bodyDoer{status: http.StatusInternalServerError})

	res := h.widget.Submit(context.Background(), textFiles("a.txt"))
	if res.Outcome != dropzone.OutcomeNetworkError {
		t.Fatalf("Outcome = %v, want network_error", res.Outcome)
	}
	if !dzerrors.HasCode(res.Err, "D301") {
		t.Errorf("Err = %v, want D301", res.Err)
	}
	dztest.ExpectHTML(t, h.el.Status, `<p style="color: red;">Error de red</p>`)
	if delays := h.sched.Delays(); len(delays) != 0 {
		t.Errorf("reload scheduled after unreadable body: %v", delays)
	}
	if !h.el.Progress.Hidden() {
		t.Error("progress should end hidden")
	}
}

func TestSubmit_ProgressSequence(t *testing.T) {
	srv := newUploadServer(t, http.StatusOK, "")
	h := newHarness(srv.URL, srv.Client())

	h.widget.Submit(context.Background(), textFiles("a.txt"))

	want := []string{"show", "value", "hide"}
	got := h.el.Progress.History()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("progress history = %v, want %v", got, want)
	}
	if h.el.Progress.Value() != 0 {
		t.Errorf("progress value = %v, want 0", h.el.Progress.Value())
	}
}

func TestSubmit_StatusLifecycle(t *testing.T) {
	srv := newUploadServer(t, http.StatusOK, "")
	h := newHarness(srv.URL, srv.Client())

	h.widget.Submit(context.Background(), textFiles("a.txt", "b.png"))

	renders := h.el.Status.Renders()
	if len(renders) != 3 {
		t.Fatalf("renders = %d, want 3 (clear, loading, outcome)", len(renders))
	}
	if len(renders[0]) != 0 {
		t.Errorf("first render = %+v, want cleared list", renders[0])
	}
	loading := renders[1]
	if len(loading) != 2 {
		t.Fatalf("loading render = %+v", loading)
	}
	for i, name := range []string{"a.txt", "b.png"} {
		if loading[i].Kind != dropzone.KindLoading || loading[i].Text != name+" - Cargando..." {
			t.Errorf("loading[%d] = %+v", i, loading[i])
		}
	}
	if len(renders[2]) != 1 || renders[2][0].Kind != dropzone.KindSuccess {
		t.Errorf("final render = %+v", renders[2])
	}
}

func TestBind_SuppressesDragDefaults(t *testing.T) {
	srv := newUploadServer(t, http.StatusOK, "")
	h := newHarness(srv.URL, srv.Client())

	for _, name := range []string{"dragenter", "dragover", "dragleave"} {
		ev := dztest.NewEvent(name)
		h.el.DropZone.Dispatch(ev)
		if !ev.DefaultPrevented() {
			t.Errorf("%s: default not prevented", name)
		}
		if !ev.PropagationStopped() {
			t.Errorf("%s: propagation not stopped", name)
		}
	}

	drop := dztest.NewDropEvent(textFiles("a.txt")...)
	h.el.DropZone.Dispatch(drop)
	h.widget.Wait()
	if !drop.DefaultPrevented() || !drop.PropagationStopped() {
		t.Error("drop: default not suppressed")
	}

	if n := len(srv.Requests()); n != 1 {
		t.Errorf("requests = %d, want 1 (only the drop submits)", n)
	}
}

func TestBind_RegistersListeners(t *testing.T) {
	h := newHarness("http://example.invalid", failingDoer{})

	for _, name := range dropzone.DragEvents {
		if h.el.DropZone.Listeners(name) == 0 {
			t.Errorf("no listener for %s", name)
		}
	}
	if h.el.DropZone.Listeners("drop") != 2 {
		t.Errorf("drop listeners = %d, want 2 (suppress + handler)", h.el.DropZone.Listeners("drop"))
	}
	if h.el.DropZone.Listeners("click") != 1 {
		t.Error("no click listener on drop zone")
	}
	if h.el.Input.Listeners("change") != 1 {
		t.Error("no change listener on input")
	}
}

func TestDrop_SubmitsDroppedFiles(t *testing.T) {
	srv := newUploadServer(t, http.StatusOK, "")
	h := newHarness(srv.URL, srv.Client())

	h.el.DropZone.Dispatch(dztest.NewDropEvent(textFiles("x.pdf", "y.pdf")...))
	h.widget.Wait()

	reqs := srv.Requests()
	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	if strings.Join(reqs[0].names, ",") != "x.pdf,y.pdf" {
		t.Errorf("names = %v", reqs[0].names)
	}
	dztest.ExpectHTML(t, h.el.Status, successHTML)
}

func TestDrop_WithoutDataTransferIgnored(t *testing.T) {
	srv := newUploadServer(t, http.StatusOK, "")
	h := newHarness(srv.URL, srv.Client())

	ev := dztest.NewEvent("drop")
	h.el.DropZone.Dispatch(ev)
	h.widget.Wait()

	if !ev.DefaultPrevented() {
		t.Error("drop default not prevented")
	}
	if n := len(srv.Requests()); n != 0 {
		t.Errorf("requests = %d, want 0", n)
	}
}

func TestClick_OpensPicker(t *testing.T) {
	h := newHarness("http://example.invalid", failingDoer{})

	h.el.DropZone.Dispatch(dztest.NewEvent("click"))
	h.el.DropZone.Dispatch(dztest.NewEvent("click"))

	if h.el.Input.Clicks() != 2 {
		t.Errorf("picker opened %d times, want 2", h.el.Input.Clicks())
	}
}

func TestPickerScenario(t *testing.T) {
	srv := newUploadServer(t, http.StatusOK, "")
	h := newHarness(srv.URL, srv.Client())

	h.el.Input.Select(
		upload.NewFile("a.txt", "text/plain", []byte("a")),
		upload.NewFile("b.png", "image/png", []byte("b")),
	)
	h.widget.Wait()

	dztest.ExpectHTML(t, h.el.Status, successHTML)
	if !h.el.Progress.Hidden() {
		t.Error("progress should end hidden")
	}
	if delays := h.sched.Delays(); len(delays) != 1 {
		t.Errorf("reloads scheduled = %d, want 1", len(delays))
	}

	reqs := srv.Requests()
	if len(reqs) != 1 || strings.Join(reqs[0].names, ",") != "a.txt,b.png" {
		t.Errorf("requests = %+v", reqs)
	}
}

func TestSubmit_SingleFlight(t *testing.T) {
	release := make(chan struct{})
	hit := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		hit <- struct{}{}
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	h := newHarness(srv.URL, srv.Client())

	done := make(chan dropzone.Result, 1)
	go func() {
		done <- h.widget.Submit(context.Background(), textFiles("first.txt"))
	}()

	<-hit
	if !h.widget.Busy() {
		t.Error("Busy() = false while a request is in flight")
	}

	second := h.widget.Submit(context.Background(), textFiles("second.txt"))
	if second.Outcome != dropzone.OutcomeBusy {
		t.Errorf("second Outcome = %v, want busy", second.Outcome)
	}

	close(release)
	first := <-done
	if first.Outcome != dropzone.OutcomeSuccess {
		t.Errorf("first Outcome = %v, want success", first.Outcome)
	}
	if h.widget.Busy() {
		t.Error("Busy() = true after settling")
	}
	if delays := h.sched.Delays(); len(delays) != 1 {
		t.Errorf("reloads scheduled = %d, want 1", len(delays))
	}
}

func TestSubmit_EndpointAndFieldOptions(t *testing.T) {
	srv := newUploadServer(t, http.StatusOK, "")
	h := newHarness(srv.URL, srv.Client(),
		dropzone.WithEndpoint("/procesar"),
		dropzone.WithFieldName("archivo"),
		dropzone.WithReloadDelay(500*time.Millisecond),
	)

	h.widget.Submit(context.Background(), textFiles("f.pdf"))

	reqs := srv.Requests()
	if len(reqs) != 1 {
		t.Fatalf("requests = %d", len(reqs))
	}
	if reqs[0].path != "/procesar" {
		t.Errorf("path = %q, want /procesar", reqs[0].path)
	}
	if len(reqs[0].fields) != 1 || reqs[0].fields[0] != "archivo" {
		t.Errorf("fields = %v", reqs[0].fields)
	}
	if delays := h.sched.Delays(); len(delays) != 1 || delays[0] != 500*time.Millisecond {
		t.Errorf("delays = %v", delays)
	}
}

func TestSubmit_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			io.Copy(io.Discard, r.Body)
			http.Redirect(w, r, "/done", http.StatusSeeOther)
			return
		}
		io.WriteString(w, "ok")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	h := newHarness(srv.URL, srv.Client())
	res := h.widget.Submit(context.Background(), textFiles("a.txt"))
	if res.Outcome != dropzone.OutcomeSuccess {
		t.Fatalf("Outcome = %v, want success after redirect", res.Outcome)
	}
}

func TestSubmit_EscapesFilenames(t *testing.T) {
	h := newHarness("http://example.invalid", failingDoer{err: errors.New("down")})

	h.widget.Submit(context.Background(), textFiles("<b>x</b>.txt"))

	renders := h.el.Status.Renders()
	html := string(dropzone.RenderHTML(renders[1]))
	if strings.Contains(html, "<b>") {
		t.Errorf("filename not escaped: %q", html)
	}
	if !strings.Contains(html, "&lt;b&gt;x&lt;/b&gt;.txt - Cargando...") {
		t.Errorf("loading line = %q", html)
	}
}

func TestSubmit_CustomMessages(t *testing.T) {
	srv := newUploadServer(t, http.StatusInternalServerError, "boom")
	msgs := dropzone.DefaultMessages()
	msgs.Rejected = "Upload failed: %s"
	h := newHarness(srv.URL, srv.Client(), dropzone.WithMessages(msgs))

	h.widget.Submit(context.Background(), textFiles("a.txt"))
	dztest.ExpectHTML(t, h.el.Status, `<p style="color: red;">Upload failed: boom</p>`)
}

func TestSubmit_InjectsTraceContext(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer otel.SetTextMapPropagator(prev)

	srv := newUploadServer(t, http.StatusOK, "")
	h := newHarness(srv.URL, srv.Client())

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	parent := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	h.widget.Submit(parent, textFiles("a.txt"))

	reqs := srv.Requests()
	if len(reqs) != 1 {
		t.Fatalf("requests = %d", len(reqs))
	}
	if tp := reqs[0].header.Get("Traceparent"); !strings.Contains(tp, traceID.String()) {
		t.Errorf("traceparent = %q, want trace id %s", tp, traceID)
	}
}

func TestSubmit_UploadIDHeader(t *testing.T) {
	srv := newUploadServer(t, http.StatusOK, "")
	h := newHarness(srv.URL, srv.Client())

	first := h.widget.Submit(context.Background(), textFiles("a.txt"))
	second := h.widget.Submit(context.Background(), textFiles("b.txt"))

	if _, err := uuid.Parse(first.ID); err != nil {
		t.Fatalf("ID = %q is not a uuid: %v", first.ID, err)
	}
	if first.ID == second.ID {
		t.Errorf("submissions share id %q", first.ID)
	}

	reqs := srv.Requests()
	if len(reqs) != 2 {
		t.Fatalf("requests = %d, want 2", len(reqs))
	}
	if got := reqs[0].header.Get(dropzone.UploadIDHeader); got != first.ID {
		t.Errorf("%s = %q, want %q", dropzone.UploadIDHeader, got, first.ID)
	}
}

func TestOutcomeString(t *testing.T) {
	tests := map[dropzone.Outcome]string{
		dropzone.OutcomeSuccess:      "success",
		dropzone.OutcomeRejected:     "rejected",
		dropzone.OutcomeNetworkError: "network_error",
		dropzone.OutcomeBusy:         "busy",
		dropzone.Outcome(42):         "unknown",
	}
	for o, want := range tests {
		if o.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(o), o.String(), want)
		}
	}
}
