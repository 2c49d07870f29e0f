package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/docker/go-units"

	docerrors "github.com/vango-dev/docroutes/internal/errors"
	"github.com/vango-dev/docroutes/internal/live"
	"github.com/vango-dev/docroutes/pkg/codec"
	"github.com/vango-dev/docroutes/pkg/query"
	"github.com/vango-dev/docroutes/pkg/router"
	"github.com/vango-dev/docroutes/pkg/routetable"
)

var contentTypes = map[codec.Format]string{
	codec.FormatJSON: "application/json",
	codec.FormatYAML: "application/yaml",
	codec.FormatTOML: "application/toml",
	codec.FormatJS:   "text/javascript; charset=utf-8",
}

// snapshot returns the current snapshot or writes a 503.
func (s *Server) snapshot(w http.ResponseWriter) *live.Snapshot {
	snap := s.config.Holder.Current()
	if snap == nil {
		s.writeError(w, live.ErrNotLoaded)
	}
	return snap
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.config.Holder.Current()
	if snap == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "ok",
		"generation":  snap.Generation,
		"fingerprint": snap.Fingerprint,
	})
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	format, err := codec.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if format == codec.FormatAuto {
		format = codec.FormatJSON
	}

	snap := s.snapshot(w)
	if snap == nil {
		return
	}

	etag := `"` + snap.Fingerprint
	if format != codec.FormatJSON {
		etag += "-" + string(format)
	}
	etag += `"`

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	data, err := codec.Encode(format, snap.Table)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// etagMatches implements the If-None-Match comparison, including "*" and
// weak validators.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

// MatchResponse is the JSON form of a resolution.
type MatchResponse struct {
	// Request is the path as received.
	Request string `json:"request"`

	// Path is the canonical request path.
	Path string `json:"path"`

	// Pattern is the effective path of the matched entry.
	Pattern   string                  `json:"pattern"`
	Location  string                  `json:"location"`
	Component routetable.ComponentRef `json:"component"`
	Sidebar   string                  `json:"sidebar,omitempty"`
	Fallback  bool                    `json:"fallback"`
	Params    map[string]string       `json:"params,omitempty"`
	Layouts   []LayoutResponse        `json:"layouts,omitempty"`

	Generation string `json:"generation,omitempty"`
}

// LayoutResponse is one enclosing entry of a match, outermost first.
type LayoutResponse struct {
	Path      string                  `json:"path"`
	Component routetable.ComponentRef `json:"component"`
}

// NewMatchResponse converts a match for the request path into its JSON
// form.
func NewMatchResponse(request string, match *router.Match) *MatchResponse {
	resp := &MatchResponse{
		Request:   request,
		Path:      match.Path,
		Pattern:   match.Pattern,
		Location:  match.Location,
		Component: match.Component(),
		Sidebar:   match.Sidebar(),
		Fallback:  match.Fallback,
		Params:    match.Params,
	}
	for _, l := range match.Layouts {
		resp.Layouts = append(resp.Layouts, LayoutResponse{Path: l.Path, Component: l.Component})
	}
	return resp
}

func (s *Server) resolve(ctx context.Context, path string) (*MatchResponse, error) {
	match, err := s.resolver.Resolve(ctx, path)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, router.ErrNoMatch
	}

	resp := NewMatchResponse(path, match)
	if snap := s.config.Holder.Current(); snap != nil {
		resp.Generation = snap.Generation
	}
	return resp, nil
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		s.writeError(w, docerrors.New("E901").WithDetail("missing required query parameter: path").
			WithExample("/api/resolve?path=/docs/api/parse"))
		return
	}

	resp, err := s.resolve(r.Context(), path)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handlePreview answers any other path with its match. Requests served by
// the wildcard get a 404 status, as the site's not-found page would.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	resp, err := s.resolve(r.Context(), r.URL.EscapedPath())
	if err != nil {
		s.writeError(w, err)
		return
	}
	status := http.StatusOK
	if resp.Fallback {
		status = http.StatusNotFound
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleLeaves(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	leaves := snap.Table.Leaves()
	if leaves == nil {
		leaves = []routetable.Leaf{}
	}
	writeJSON(w, http.StatusOK, leaves)
}

// StatsResponse is the JSON form of /api/stats.
type StatsResponse struct {
	routetable.Stats

	Fingerprint string    `json:"fingerprint"`
	Generation  string    `json:"generation"`
	Source      string    `json:"source"`
	Version     string    `json:"version,omitempty"`
	LoadedAt    time.Time `json:"loadedAt"`
	Size        int64     `json:"size"`
	SizeHuman   string    `json:"sizeHuman"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{
		Stats:       snap.Table.Stats(),
		Fingerprint: snap.Fingerprint,
		Generation:  snap.Generation,
		Source:      snap.Source,
		Version:     snap.Version,
		LoadedAt:    snap.LoadedAt,
		Size:        snap.Size,
		SizeHuman:   units.BytesSize(float64(snap.Size)),
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	q, err := query.Compile(r.URL.Query().Get("expr"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	results, err := q.Run(snap.Table)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"expr":    q.String(),
		"count":   len(results),
		"results": results,
	})
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var coded *docerrors.Error
	switch {
	case errors.Is(err, router.ErrInvalidPath),
		errors.Is(err, query.ErrInvalidExpression),
		errors.Is(err, codec.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, router.ErrNoMatch):
		return http.StatusNotFound
	case errors.Is(err, live.ErrNotLoaded):
		return http.StatusServiceUnavailable
	case errors.As(err, &coded) && coded.Category == docerrors.CategoryCLI && coded.Code != "E999":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: docerrors.Classify(err)})
}

// errorResponse is the body of every failed API request.
type errorResponse struct {
	Error *docerrors.Error `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
