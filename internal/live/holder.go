package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vango-dev/docroutes/pkg/codec"
	"github.com/vango-dev/docroutes/pkg/middleware"
	"github.com/vango-dev/docroutes/pkg/router"
	"github.com/vango-dev/docroutes/pkg/routetable"
	"github.com/vango-dev/docroutes/pkg/source"
)

// ErrNotLoaded is returned by Resolve before the first successful reload.
var ErrNotLoaded = errors.New("live: route table not loaded")

// Snapshot is one loaded table. Snapshots are never modified.
type Snapshot struct {
	Table   *routetable.Table
	Matcher *router.Matcher

	// Fingerprint is the table's content digest.
	Fingerprint string

	// Generation is a fresh id for every swap.
	Generation string

	// Source names the document the table came from.
	Source string

	// Version is the document revision (S3 ETag or file stamp).
	Version string

	LoadedAt time.Time
	Size     int64
}

// EventType distinguishes reload notifications.
type EventType string

const (
	EventReload EventType = "reload"
	EventError  EventType = "error"
)

// Event is published after every swap and every failed reload.
type Event struct {
	Type EventType

	// Snapshot is the current snapshot: the new one after a swap, the
	// retained one after a failure. Nil if nothing was ever loaded.
	Snapshot *Snapshot

	Err error
}

// Config configures a Holder.
type Config struct {
	// Source provides the route table document.
	Source source.Source

	// Format selects the codec; FormatAuto detects it.
	Format codec.Format

	// Validate relaxes structural validation.
	Validate routetable.ValidateOptions

	// Match configures the compiled matcher.
	Match []router.Option

	// Collector, if set, records reloads and table sizes.
	Collector *middleware.Collector

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Holder owns the current snapshot.
type Holder struct {
	config  Config
	logger  *slog.Logger
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]

	subMu   sync.RWMutex
	subs    map[uint64]func(Event)
	nextSub uint64
}

// NewHolder creates an empty holder. Call Reload to load the first table.
func NewHolder(config Config) *Holder {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.Format == "" {
		config.Format = codec.FormatAuto
	}
	return &Holder{
		config: config,
		logger: logger,
		subs:   make(map[uint64]func(Event)),
	}
}

// Current returns the current snapshot, or nil before the first load.
func (h *Holder) Current() *Snapshot {
	return h.current.Load()
}

// Source returns the configured source.
func (h *Holder) Source() source.Source {
	return h.config.Source
}

// Resolve resolves path against the current snapshot.
func (h *Holder) Resolve(ctx context.Context, path string) (*router.Match, error) {
	snap := h.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap.Matcher.Resolve(ctx, path)
}

// Reload fetches the source and swaps in the new table. It reports whether
// the snapshot changed; an unchanged document or table is not an error.
// On failure the previous snapshot stays current.
func (h *Holder) Reload(ctx context.Context) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	snap, changed, err := h.reload(ctx)
	if h.config.Collector != nil {
		h.config.Collector.ObserveReload(changed, err)
	}

	if err != nil {
		h.logger.Warn("route table reload failed",
			"source", h.sourceName(),
			"error", err)
		h.publish(Event{Type: EventError, Snapshot: h.current.Load(), Err: err})
		return false, err
	}
	if !changed {
		h.logger.Debug("route table unchanged",
			"source", snap.Source,
			"fingerprint", snap.Fingerprint)
		return false, nil
	}

	if h.config.Collector != nil {
		h.config.Collector.ObserveTable(snap.Table)
	}
	stats := snap.Table.Stats()
	h.logger.Info("route table loaded",
		"source", snap.Source,
		"entries", stats.Entries,
		"leaves", stats.Leaves,
		"generation", snap.Generation)
	h.publish(Event{Type: EventReload, Snapshot: snap})
	return true, nil
}

func (h *Holder) sourceName() string {
	if h.config.Source == nil {
		return ""
	}
	return h.config.Source.String()
}

func (h *Holder) reload(ctx context.Context) (*Snapshot, bool, error) {
	if h.config.Source == nil {
		return nil, false, errors.New("live: no source configured")
	}

	doc, err := h.config.Source.Fetch(ctx)
	if err != nil {
		return nil, false, err
	}

	prev := h.current.Load()
	if prev != nil && doc.Version != "" && doc.Version == prev.Version && doc.Name == prev.Source {
		return prev, false, nil
	}

	table, err := source.Decode(doc, h.config.Format)
	if err != nil {
		return nil, false, err
	}
	if err := routetable.Validate(table, h.config.Validate); err != nil {
		return nil, false, fmt.Errorf("%s: %w", doc.Name, err)
	}

	fingerprint := table.Fingerprint()
	if prev != nil && prev.Fingerprint == fingerprint {
		// Same table under a new document revision.
		next := *prev
		next.Version = doc.Version
		h.current.Store(&next)
		return &next, false, nil
	}

	m, err := router.New(table, h.config.Match...)
	if err != nil {
		return nil, false, err
	}

	snap := &Snapshot{
		Table:       table,
		Matcher:     m,
		Fingerprint: fingerprint,
		Generation:  uuid.NewString(),
		Source:      doc.Name,
		Version:     doc.Version,
		LoadedAt:    time.Now(),
		Size:        doc.Size(),
	}
	h.current.Store(snap)
	return snap, true, nil
}

// Subscribe registers fn for reload events and returns a function that
// removes it. Handlers run synchronously on the reloading goroutine.
func (h *Holder) Subscribe(fn func(Event)) (cancel func()) {
	h.subMu.Lock()
	id := h.nextSub
	h.nextSub++
	h.subs[id] = fn
	h.subMu.Unlock()

	return func() {
		h.subMu.Lock()
		delete(h.subs, id)
		h.subMu.Unlock()
	}
}

func (h *Holder) publish(ev Event) {
	h.subMu.RLock()
	handlers := make([]func(Event), 0, len(h.subs))
	for _, fn := range h.subs {
		handlers = append(handlers, fn)
	}
	h.subMu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}
