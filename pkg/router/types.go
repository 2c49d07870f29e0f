package router

import (
	"context"
	"errors"

	"github.com/vango-dev/docroutes/pkg/routetable"
)

var (
	// ErrNoMatch is returned when no entry matches. A table ending in the
	// wildcard never produces it.
	ErrNoMatch = errors.New("router: no route matches")

	// ErrInvalidPath is returned for request paths that cannot be
	// canonicalized. It wraps the routepath error.
	ErrInvalidPath = errors.New("router: invalid request path")
)

// Resolver resolves request paths to route entries.
type Resolver interface {
	Resolve(ctx context.Context, path string) (*Match, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, path string) (*Match, error)

// Resolve calls f(ctx, path).
func (f ResolverFunc) Resolve(ctx context.Context, path string) (*Match, error) {
	return f(ctx, path)
}

// Match is the result of resolving a request path.
type Match struct {
	// Entry is the matched leaf entry. It points into the table.
	Entry *routetable.Entry

	// Layouts are the ancestors of Entry, outermost first.
	Layouts []*routetable.Entry

	// Params holds captured ":name" segments. Nil when there are none.
	Params map[string]string

	// Path is the canonical request path.
	Path string

	// Pattern is the matched entry's effective path.
	Pattern string

	// Location addresses the matched entry within the table.
	Location string

	// Fallback reports that the wildcard entry served the request.
	Fallback bool
}

// Component returns the matched entry's component reference.
func (m *Match) Component() routetable.ComponentRef {
	return m.Entry.Component
}

// Sidebar returns the matched entry's sidebar tag.
func (m *Match) Sidebar() string {
	return m.Entry.Sidebar
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithSensitive makes static segment comparison case-sensitive.
func WithSensitive(sensitive bool) Option {
	return func(m *Matcher) {
		m.sensitive = sensitive
	}
}
