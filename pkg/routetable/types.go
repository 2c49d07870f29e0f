package routetable

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vango-dev/docroutes/pkg/routepath"
)

// Wildcard is the catch-all path matched when nothing more specific applies.
const Wildcard = routepath.Wildcard

// ComponentRef identifies the renderable unit that serves a route.
// Both fields are opaque tokens handed back to the host framework.
type ComponentRef struct {
	// Module is the module hint, usually the route path it was generated for.
	Module string `json:"module" yaml:"module" toml:"module"`

	// Hash is the content fingerprint. The wildcard route has none.
	Hash string `json:"hash,omitempty" yaml:"hash,omitempty" toml:"hash,omitempty"`
}

// String renders the reference as "module@hash".
func (c ComponentRef) String() string {
	if c.Hash == "" {
		return c.Module
	}
	return c.Module + "@" + c.Hash
}

// IsZero reports whether the reference is empty.
func (c ComponentRef) IsZero() bool {
	return c.Module == "" && c.Hash == ""
}

// Entry is one route record.
type Entry struct {
	// Path is a URL path ("/docs/api/parse") or Wildcard.
	Path string `json:"path" yaml:"path" toml:"path"`

	// Component is the component served for this path.
	Component ComponentRef `json:"component" yaml:"component" toml:"component"`

	// Exact requires the request path to match without extra segments.
	Exact bool `json:"exact,omitempty" yaml:"exact,omitempty" toml:"exact,omitempty"`

	// Sidebar names the navigation sidebar used by this page.
	Sidebar string `json:"sidebar,omitempty" yaml:"sidebar,omitempty" toml:"sidebar,omitempty"`

	// Routes are the nested entries, in match order.
	Routes []Entry `json:"routes,omitempty" yaml:"routes,omitempty" toml:"routes,omitempty"`
}

// IsWildcard reports whether the entry is the catch-all route.
func (e *Entry) IsWildcard() bool {
	return e.Path == Wildcard
}

// IsLeaf reports whether the entry has no nested routes.
func (e *Entry) IsLeaf() bool {
	return len(e.Routes) == 0
}

// Table is an ordered, immutable list of top-level route entries.
type Table struct {
	Routes []Entry `json:"routes" yaml:"routes" toml:"routes"`
}

// New returns a table holding the given entries, normalized.
func New(routes ...Entry) *Table {
	t := &Table{Routes: routes}
	t.Normalize()
	return t
}

// Len returns the number of top-level entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Routes)
}

// Normalize replaces empty nested route lists with nil so that an absent
// "routes" key and an empty one compare equal.
func (t *Table) Normalize() {
	t.Routes = normalizeEntries(t.Routes)
}

func normalizeEntries(entries []Entry) []Entry {
	if len(entries) == 0 {
		return nil
	}
	for i := range entries {
		entries[i].Routes = normalizeEntries(entries[i].Routes)
	}
	return entries
}

// Equal reports whether two tables describe the same tree.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t.Len() == other.Len()
	}
	return entriesEqual(t.Routes, other.Routes)
}

func entriesEqual(a, b []Entry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := &a[i], &b[i]
		if x.Path != y.Path || x.Component != y.Component || x.Exact != y.Exact || x.Sidebar != y.Sidebar {
			return false
		}
		if !entriesEqual(x.Routes, y.Routes) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the table as a bare JSON array, the shape the
// generator's own manifest uses.
func (t Table) MarshalJSON() ([]byte, error) {
	if t.Routes == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.Routes)
}

// UnmarshalJSON accepts either a bare array of entries or an object with a
// "routes" array.
func (t *Table) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("routetable: empty JSON document")
	}

	switch data[0] {
	case '[':
		var routes []Entry
		if err := json.Unmarshal(data, &routes); err != nil {
			return err
		}
		t.Routes = routes
	case '{':
		var wrapped struct {
			Routes []Entry `json:"routes"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return err
		}
		t.Routes = wrapped.Routes
	default:
		return fmt.Errorf("routetable: expected JSON array or object, got %q", data[0])
	}

	t.Normalize()
	return nil
}
