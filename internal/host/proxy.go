package host

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/dropzone/pkg/dropzone"
)

const (
	// NoUpstreamMessage is the body of the 502 sent when no upstream is set.
	NoUpstreamMessage = "no upstream configured"

	// UpstreamErrorMessage is the body of the 502 sent when the upstream
	// cannot be reached.
	UpstreamErrorMessage = "upstream unavailable"
)

// forwarder hands posted forms to the upstream application.
type forwarder struct {
	proxy   *httputil.ReverseProxy
	tracer  trace.Tracer
	metrics *metrics
	srv     *Server
}

func (s *Server) newForwarder(upstream *url.URL) *forwarder {
	f := &forwarder{tracer: s.tracer, metrics: s.metrics, srv: s}
	if upstream == nil {
		return f
	}

	p := httputil.NewSingleHostReverseProxy(upstream)
	director := p.Director
	p.Director = func(r *http.Request) {
		director(r)
		r.Host = upstream.Host
		otel.GetTextMapPropagator().Inject(r.Context(), propagation.HeaderCarrier(r.Header))
	}
	p.ModifyResponse = func(resp *http.Response) error {
		f.metrics.forwarded.WithLabelValues("forwarded").Inc()
		trace.SpanFromContext(resp.Request.Context()).
			SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		return nil
	}
	p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		f.metrics.forwarded.WithLabelValues("upstream_error").Inc()
		span := trace.SpanFromContext(r.Context())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		f.srv.logger.Error("upstream request failed", "upstream", upstream.String(), "error", err)
		plainError(w, UpstreamErrorMessage, http.StatusBadGateway)
	}
	f.proxy = p
	return f
}

func (f *forwarder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if f.proxy == nil {
		f.metrics.forwarded.WithLabelValues("no_upstream").Inc()
		plainError(w, NoUpstreamMessage, http.StatusBadGateway)
		return
	}

	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := f.tracer.Start(ctx, "dropzone.forward",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.target", r.URL.Path),
			attribute.Int64("http.request_content_length", r.ContentLength),
			attribute.String("dropzone.upload_id", r.Header.Get(dropzone.UploadIDHeader)),
		),
	)
	defer span.End()

	f.proxy.ServeHTTP(w, r.WithContext(ctx))
}

// plainError writes msg as a text/plain body without the trailing newline
// http.Error adds, so the widget can show it as is.
func plainError(w http.ResponseWriter, msg string, code int) {
	h := w.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	w.Write([]byte(msg))
}
