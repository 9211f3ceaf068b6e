package tracing

import (
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Transport wraps an http.RoundTripper with a client span per request and
// injects the trace context into outgoing headers.
type Transport struct {
	base     http.RoundTripper
	provider *Provider
}

// NewTransport wraps base. A nil base uses http.DefaultTransport.
func NewTransport(base http.RoundTripper, provider *Provider) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if provider == nil {
		provider = Disabled()
	}
	return &Transport{base: base, provider: provider}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, span := t.provider.Tracer().Start(req.Context(),
		fmt.Sprintf("HTTP %s %s", req.Method, req.URL.Path),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(AttrHTTPMethod, req.Method),
			attribute.String(AttrURLPath, req.URL.Path),
		),
	)
	defer span.End()

	req = req.Clone(ctx)
	t.provider.Propagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int(AttrHTTPStatusCode, resp.StatusCode))
	if resp.StatusCode >= 500 {
		span.SetStatus(codes.Error, resp.Status)
	}
	return resp, nil
}

// Middleware starts a server span for each request, continuing any trace
// carried in the request headers. route names the span when a router has
// resolved a pattern; it may return "".
func Middleware(provider *Provider, route func(*http.Request) string) func(http.Handler) http.Handler {
	if provider == nil {
		provider = Disabled()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := provider.Propagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := provider.Tracer().Start(ctx, r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String(AttrHTTPMethod, r.Method),
					attribute.String(AttrURLPath, r.URL.Path),
				),
			)
			defer span.End()

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r.WithContext(ctx))

			if route != nil {
				if pattern := route(r.WithContext(ctx)); pattern != "" {
					span.SetName(r.Method + " " + pattern)
					span.SetAttributes(attribute.String(AttrHTTPRoute, pattern))
				}
			}
			span.SetAttributes(attribute.Int(AttrHTTPStatusCode, sw.status))
			if sw.status >= 500 {
				span.SetStatus(codes.Error, http.StatusText(sw.status))
			}
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
