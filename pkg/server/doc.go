// Package server exposes the live route table over HTTP.
//
// Endpoints:
//
//	GET /healthz                 liveness and the current generation
//	GET /api/routes              the table (?format=json|yaml|toml|js), with ETag
//	GET /api/resolve?path=/docs  resolve a request path
//	GET /api/leaves              every leaf entry
//	GET /api/stats               table statistics and snapshot metadata
//	GET /api/query?expr=$..path  JSONPath query over the table
//	GET /metrics                 Prometheus metrics, when a gatherer is set
//	GET /_docroutes/ws           reload notifications, when a hub is set
//	GET /*                       resolve the request path (preview mode)
//
// Errors are JSON objects of the form {"error": {"code": "E401", ...}}.
//
// # Usage
//
//	srv := server.New(server.Config{
//	    Address: "localhost:3030",
//	    Holder:  holder,
//	    Hub:     hub,
//	})
//	if err := srv.Run(ctx); err != nil {
//	    return err
//	}
package server
