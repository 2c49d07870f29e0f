package router

import (
	"context"
	"fmt"

	"github.com/vango-dev/docroutes/pkg/routepath"
	"github.com/vango-dev/docroutes/pkg/routetable"
)

// Matcher resolves request paths against one immutable table.
// It is safe for concurrent use.
type Matcher struct {
	table     *routetable.Table
	root      []*routeNode
	sensitive bool
}

// New compiles a table into a Matcher. It fails when an entry's path
// cannot be canonicalized; structural problems such as a missing fallback
// are left to routetable.Validate.
func New(table *routetable.Table, opts ...Option) (*Matcher, error) {
	m := &Matcher{table: table}
	for _, opt := range opts {
		opt(m)
	}

	if table != nil {
		root, err := compileEntries(table.Routes, "", "")
		if err != nil {
			return nil, err
		}
		m.root = root
	}
	return m, nil
}

// Table returns the table the matcher was built from.
func (m *Matcher) Table() *routetable.Table {
	return m.table
}

// Resolve finds the most specific entry for path.
func (m *Matcher) Resolve(ctx context.Context, path string) (*Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	canon, err := routepath.CanonicalizePath(path)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidPath, path, err)
	}
	segments, err := routepath.DecodePathSegments(canon.Path)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidPath, path, err)
	}

	c := m.best(m.root, segments, rank{})
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoMatch, canon.Path)
	}

	match := &Match{
		Entry:    c.node.entry,
		Params:   c.params,
		Path:     canon.Path,
		Pattern:  c.node.path,
		Location: c.node.location,
		Fallback: c.node.isWildcard,
	}
	if len(c.layouts) > 0 {
		match.Layouts = make([]*routetable.Entry, len(c.layouts))
		for i, n := range c.layouts {
			match.Layouts[i] = n.entry
		}
	}
	return match, nil
}

// MustResolve is like Resolve but panics on error. Intended for tests and
// tables known to end in the wildcard.
func (m *Matcher) MustResolve(path string) *Match {
	match, err := m.Resolve(context.Background(), path)
	if err != nil {
		panic(err)
	}
	return match
}
