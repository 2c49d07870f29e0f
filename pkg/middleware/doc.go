// Package middleware decorates route resolvers with observability.
//
// A Decorator wraps a router.Resolver and returns another one, so
// decorators compose with Chain:
//
//	collector := middleware.NewCollector(middleware.WithRegistry(reg))
//	resolver := middleware.Chain(matcher,
//	    middleware.Tracing(middleware.WithTracerName("docroutes")),
//	    collector.Decorator(),
//	    middleware.Logging(logger),
//	)
//
// The first decorator is the outermost.
//
// # Prometheus Metrics
//
// The Collector records:
//   - docroutes_resolutions_total: resolutions by outcome
//   - docroutes_resolution_duration_seconds: resolution latency by outcome
//   - docroutes_table_entries: entries in the current table
//   - docroutes_table_leaves: leaf entries in the current table
//   - docroutes_reloads_total: table reloads by result
//
// Outcomes are matched, fallback, invalid, no_match, canceled and error.
//
// # OpenTelemetry
//
// Tracing starts a "route.resolve" span per resolution carrying the request
// path and, on success, the matched pattern, sidebar and component. The
// tracer comes from the global provider unless WithTracerProvider is given.
package middleware

import "github.com/vango-dev/docroutes/pkg/router"

// Decorator wraps a resolver.
type Decorator func(next router.Resolver) router.Resolver

// Chain applies decorators to r. The first decorator ends up outermost.
func Chain(r router.Resolver, decorators ...Decorator) router.Resolver {
	for i := len(decorators) - 1; i >= 0; i-- {
		if decorators[i] != nil {
			r = decorators[i](r)
		}
	}
	return r
}
