package router

import (
	"fmt"
	"strings"

	"github.com/vango-dev/docroutes/pkg/routepath"
	"github.com/vango-dev/docroutes/pkg/routetable"
)

// routeNode is a compiled table entry.
type routeNode struct {
	// entry points into the table
	entry *routetable.Entry

	// path is the effective path after joining with the ancestors
	path string

	// location addresses the entry, e.g. "routes[11].routes[0]"
	location string

	// segments is the compiled pattern (nil for the wildcard)
	segments []routepath.Segment

	// static is the number of literal segments
	static int

	// isWildcard marks the catch-all entry
	isWildcard bool

	// children are the nested entries in table order
	children []*routeNode
}

// compileEntries builds the node list for one sibling list.
func compileEntries(entries []routetable.Entry, parentPath, loc string) ([]*routeNode, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	nodes := make([]*routeNode, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		n := &routeNode{
			entry:    e,
			path:     routepath.Join(parentPath, e.Path),
			location: fmt.Sprintf("%sroutes[%d]", loc, i),
		}

		if e.IsWildcard() {
			n.isWildcard = true
		} else {
			segments, err := routepath.CompilePattern(n.path)
			if err != nil {
				return nil, fmt.Errorf("router: %s: route %q: %w", n.location, e.Path, err)
			}
			n.segments = segments
			n.static = routepath.StaticCount(segments)
		}

		children, err := compileEntries(e.Routes, n.path, n.location+".")
		if err != nil {
			return nil, err
		}
		n.children = children

		nodes = append(nodes, n)
	}
	return nodes, nil
}

// rank orders candidates: more consumed segments, then more literal
// segments, then concrete over wildcard.
type rank struct {
	matched  int
	static   int
	concrete bool
}

func (r rank) beats(other rank) bool {
	if r.matched != other.matched {
		return r.matched > other.matched
	}
	if r.static != other.static {
		return r.static > other.static
	}
	return r.concrete && !other.concrete
}

// candidate is a leaf that matched together with its ancestor chain.
type candidate struct {
	node    *routeNode
	layouts []*routeNode
	params  map[string]string
	rank    rank
}

// best returns the winning candidate among siblings, or nil.
// Ties keep the earlier sibling.
func (m *Matcher) best(nodes []*routeNode, segments []string, parent rank) *candidate {
	var winner *candidate
	for _, n := range nodes {
		c := m.try(n, segments, parent)
		if c == nil {
			continue
		}
		if winner == nil || c.rank.beats(winner.rank) {
			winner = c
		}
	}
	return winner
}

// try matches a single node and, for branches, its descendants.
func (m *Matcher) try(n *routeNode, segments []string, parent rank) *candidate {
	if n.isWildcard {
		// The wildcard consumes whatever its parent consumed.
		return &candidate{
			node: n,
			rank: rank{matched: parent.matched, static: parent.static},
		}
	}

	params, ok := m.matchSegments(n, segments)
	if !ok {
		return nil
	}
	r := rank{matched: len(n.segments), static: n.static, concrete: true}

	if len(n.children) == 0 {
		return &candidate{node: n, params: params, rank: r}
	}

	c := m.best(n.children, segments, r)
	if c == nil {
		return nil
	}
	c.layouts = append([]*routeNode{n}, c.layouts...)
	c.params = mergeParams(params, c.params)
	return c
}

// matchSegments compares the node's pattern against the request segments.
// Leaves marked exact need the same number of segments; everything else
// matches at a segment-boundary prefix.
func (m *Matcher) matchSegments(n *routeNode, segments []string) (map[string]string, bool) {
	if len(n.segments) > len(segments) {
		return nil, false
	}
	if n.entry.Exact && len(n.children) == 0 && len(n.segments) != len(segments) {
		return nil, false
	}

	var params map[string]string
	for i, seg := range n.segments {
		if seg.IsParam() {
			if params == nil {
				params = make(map[string]string)
			}
			params[seg.Param] = segments[i]
			continue
		}
		if !m.equalSegment(seg.Value, segments[i]) {
			return nil, false
		}
	}
	return params, true
}

func (m *Matcher) equalSegment(pattern, segment string) bool {
	if m.sensitive {
		return pattern == segment
	}
	return strings.EqualFold(pattern, segment)
}

// mergeParams combines branch and leaf parameters; the deeper value wins.
func mergeParams(outer, inner map[string]string) map[string]string {
	if len(outer) == 0 {
		return inner
	}
	if len(inner) == 0 {
		return outer
	}
	merged := make(map[string]string, len(outer)+len(inner))
	for k, v := range outer {
		merged[k] = v
	}
	for k, v := range inner {
		merged[k] = v
	}
	return merged
}
