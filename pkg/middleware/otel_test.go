package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/vango-dev/docroutes/pkg/router"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// recordingProvider hands out spans that remember what was set on them.
type recordingProvider struct {
	noop.TracerProvider

	mu    sync.Mutex
	spans []*recordingSpan
}

func (p *recordingProvider) Tracer(name string, _ ...trace.TracerOption) trace.Tracer {
	return &recordingTracer{provider: p}
}

type recordingTracer struct {
	noop.Tracer
	provider *recordingProvider
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	span := &recordingSpan{name: name, attrs: map[attribute.Key]attribute.Value{}}
	for _, kv := range cfg.Attributes() {
		span.attrs[kv.Key] = kv.Value
	}
	t.provider.mu.Lock()
	t.provider.spans = append(t.provider.spans, span)
	t.provider.mu.Unlock()
	return trace.ContextWithSpan(ctx, span), span
}

type recordingSpan struct {
	noop.Span
	name   string
	attrs  map[attribute.Key]attribute.Value
	status codes.Code
	errs   []error
	ended  bool
}

func (s *recordingSpan) SetAttributes(kv ...attribute.KeyValue) {
	for _, a := range kv {
		s.attrs[a.Key] = a.Value
	}
}

func (s *recordingSpan) RecordError(err error, _ ...trace.EventOption) {
	s.errs = append(s.errs, err)
}

func (s *recordingSpan) SetStatus(code codes.Code, _ string) {
	s.status = code
}

func (s *recordingSpan) End(...trace.SpanEndOption) {
	s.ended = true
}

func TestTracingRecordsMatch(t *testing.T) {
	tp := &recordingProvider{}
	r := Chain(newDocsMatcher(t), Tracing(
		WithTracerProvider(tp),
		WithAttributeExtractor(func(m *router.Match) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	))

	if _, err := r.Resolve(context.Background(), "/docs/api/parse"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if len(tp.spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(tp.spans))
	}
	span := tp.spans[0]
	if span.name != SpanName || !span.ended || span.status != codes.Ok {
		t.Errorf("span = %+v", span)
	}

	want := map[attribute.Key]string{
		"docroutes.path":      "/docs/api/parse",
		"docroutes.route":     "/docs/api/parse",
		"docroutes.sidebar":   "tutorialSidebar",
		"docroutes.component": "/docs/api/parse@44d",
		"test.attr":           "ok",
	}
	for k, v := range want {
		if got := span.attrs[k].AsString(); got != v {
			t.Errorf("attr %s = %q, want %q", k, got, v)
		}
	}
	if span.attrs["docroutes.fallback"].AsBool() {
		t.Error("docroutes.fallback should be false")
	}
}

func TestTracingRecordsErrors(t *testing.T) {
	tp := &recordingProvider{}
	r := Chain(newDocsMatcher(t), Tracing(WithTracerProvider(tp)))

	_, err := r.Resolve(context.Background(), `/bad\path`)
	if !errors.Is(err, router.ErrInvalidPath) {
		t.Fatalf("error = %v, want ErrInvalidPath", err)
	}

	span := tp.spans[0]
	if span.status != codes.Error || len(span.errs) != 1 {
		t.Errorf("span status = %v, errors = %v", span.status, span.errs)
	}
}

func TestTracingFilter(t *testing.T) {
	tp := &recordingProvider{}
	r := Chain(newDocsMatcher(t), Tracing(
		WithTracerProvider(tp),
		WithPathFilter(func(path string) bool { return path != "/healthz" }),
	))

	_, _ = r.Resolve(context.Background(), "/healthz")
	_, _ = r.Resolve(context.Background(), "/blog")

	if len(tp.spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(tp.spans))
	}
	if got := tp.spans[0].attrs["docroutes.path"].AsString(); got != "/blog" {
		t.Errorf("traced path = %q, want /blog", got)
	}
}

func TestTracingPropagatesSpanContext(t *testing.T) {
	tp := &recordingProvider{}
	var seen trace.Span
	inner := router.ResolverFunc(func(ctx context.Context, path string) (*router.Match, error) {
		seen = trace.SpanFromContext(ctx)
		return nil, router.ErrNoMatch
	})

	_, _ = Chain(inner, Tracing(WithTracerProvider(tp))).Resolve(context.Background(), "/")
	if seen != trace.Span(tp.spans[0]) {
		t.Error("resolver should see the span started by the decorator")
	}
}
