package routetable

import (
	"errors"
	"strconv"

	"github.com/vango-dev/docroutes/pkg/routepath"
)

// SkipChildren can be returned from a WalkFunc to skip the nested routes
// of the entry being visited.
var SkipChildren = errors.New("skip children")

// Visit describes one entry reached during Walk.
type Visit struct {
	// Entry is the visited entry. It points into the table.
	Entry *Entry

	// Parents are the ancestors, outermost first.
	Parents []*Entry

	// Location addresses the entry, e.g. "routes[3].routes[0]".
	Location string

	// Path is the entry's effective path after resolving it against its
	// ancestors.
	Path string

	// Depth is 1 for top-level entries.
	Depth int

	// Index is the entry's position among its siblings.
	Index int

	// Siblings is the number of entries in the sibling list.
	Siblings int
}

// WalkFunc is called for every entry in depth-first pre-order.
type WalkFunc func(v Visit) error

// Walk visits every entry of the table in match order. Returning
// SkipChildren skips the entry's nested routes; any other error stops the
// walk and is returned.
func (t *Table) Walk(fn WalkFunc) error {
	if t == nil {
		return nil
	}
	return walkEntries(t.Routes, nil, "", "", fn)
}

func walkEntries(entries []Entry, parents []*Entry, loc, parentPath string, fn WalkFunc) error {
	for i := range entries {
		e := &entries[i]
		v := Visit{
			Entry:    e,
			Parents:  parents,
			Location: loc + "routes[" + strconv.Itoa(i) + "]",
			Path:     routepath.Join(parentPath, e.Path),
			Depth:    len(parents) + 1,
			Index:    i,
			Siblings: len(entries),
		}

		err := fn(v)
		if errors.Is(err, SkipChildren) {
			continue
		}
		if err != nil {
			return err
		}

		if len(e.Routes) > 0 {
			chain := make([]*Entry, len(parents), len(parents)+1)
			copy(chain, parents)
			chain = append(chain, e)
			if err := walkEntries(e.Routes, chain, v.Location+".", v.Path, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Leaf is an entry without nested routes, as served to a client.
type Leaf struct {
	Path      string       `json:"path"`
	Component ComponentRef `json:"component"`
	Exact     bool         `json:"exact,omitempty"`
	Sidebar   string       `json:"sidebar,omitempty"`
	Location  string       `json:"location"`
	Depth     int          `json:"depth"`
}

// Leaves returns every leaf entry in match order.
func (t *Table) Leaves() []Leaf {
	var leaves []Leaf
	_ = t.Walk(func(v Visit) error {
		if !v.Entry.IsLeaf() {
			return nil
		}
		leaves = append(leaves, Leaf{
			Path:      v.Path,
			Component: v.Entry.Component,
			Exact:     v.Entry.Exact,
			Sidebar:   v.Entry.Sidebar,
			Location:  v.Location,
			Depth:     v.Depth,
		})
		return nil
	})
	return leaves
}

// Paths returns the distinct effective paths in the table, wildcard
// excluded, in the order they are first reached.
func (t *Table) Paths() []string {
	seen := make(map[string]bool)
	var paths []string
	_ = t.Walk(func(v Visit) error {
		if v.Path == Wildcard || seen[v.Path] {
			return nil
		}
		seen[v.Path] = true
		paths = append(paths, v.Path)
		return nil
	})
	return paths
}

// Lookup returns the entry at a Walk location, or nil.
func (t *Table) Lookup(location string) *Entry {
	var found *Entry
	_ = t.Walk(func(v Visit) error {
		if v.Location == location {
			found = v.Entry
			return errStopWalk
		}
		return nil
	})
	return found
}

var errStopWalk = errors.New("stop walk")
