package middleware

import (
	"context"

	"github.com/vango-dev/docroutes/pkg/router"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultTracerName = "docroutes"

	// SpanName is the name of the span started per resolution.
	SpanName = "route.resolve"
)

// OTelConfig configures the tracing decorator.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "docroutes").
	TracerName string

	// TracerProvider overrides the global provider.
	TracerProvider trace.TracerProvider

	// Filter determines which paths to trace.
	// If nil, all resolutions are traced.
	Filter func(path string) bool

	// AttributeExtractor adds custom attributes from a successful match.
	AttributeExtractor func(m *router.Match) []attribute.KeyValue

	tracer trace.Tracer
}

// OTelOption configures the tracing decorator.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithPathFilter sets a filter function for request paths.
func WithPathFilter(filter func(path string) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(m *router.Match) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// Tracing returns a Decorator that starts a span around every resolution.
//
// Configure the global provider in main() before resolving:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func Tracing(opts ...OTelOption) Decorator {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	if config.TracerProvider != nil {
		config.tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		config.tracer = otel.Tracer(config.TracerName)
	}

	return func(next router.Resolver) router.Resolver {
		return router.ResolverFunc(func(ctx context.Context, path string) (*router.Match, error) {
			if config.Filter != nil && !config.Filter(path) {
				return next.Resolve(ctx, path)
			}

			ctx, span := config.tracer.Start(ctx, SpanName,
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attribute.String("docroutes.path", path)),
			)
			defer span.End()

			match, err := next.Resolve(ctx, path)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return match, err
			}
			if match == nil {
				return nil, nil
			}

			attrs := []attribute.KeyValue{
				attribute.String("docroutes.route", match.Pattern),
				attribute.String("docroutes.location", match.Location),
				attribute.String("docroutes.component", match.Component().String()),
				attribute.Bool("docroutes.fallback", match.Fallback),
				attribute.Int("docroutes.layouts", len(match.Layouts)),
			}
			if sidebar := match.Sidebar(); sidebar != "" {
				attrs = append(attrs, attribute.String("docroutes.sidebar", sidebar))
			}
			if config.AttributeExtractor != nil {
				attrs = append(attrs, config.AttributeExtractor(match)...)
			}
			span.SetAttributes(attrs...)
			span.SetStatus(codes.Ok, "")

			return match, nil
		})
	}
}
