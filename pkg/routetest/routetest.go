// Package routetest provides route table fixtures and builders for tests.
//
// # Quick Start
//
//	func TestResolveDocs(t *testing.T) {
//	    table := routetest.Docusaurus()
//	    m, err := router.New(table)
//	    ...
//	    match, err := m.Resolve(ctx, "/docs/api/parse")
//	    ...
//	}
//
// # Fluent Builder
//
//	table := routetest.NewTable().
//	    Leaf("/", "e5f").
//	    Branch("/docs", "0e7", routetest.NewTable().
//	        Leaf("/docs/api/", "5e5", routetest.Sidebar("tutorialSidebar"))).
//	    Fallback().
//	    Build()
package routetest

import "github.com/vango-dev/docroutes/pkg/routetable"

// TutorialSidebar is the sidebar tag used by the docs fixture.
const TutorialSidebar = "tutorialSidebar"

// Docusaurus returns the route table of a freshly generated documentation
// site: debug pages, a markdown page, a blog, nested docs routes, the home
// page and the wildcard fallback.
func Docusaurus() *routetable.Table {
	return NewTable().
		Leaf("/__docusaurus/debug", "5ff").
		Leaf("/__docusaurus/debug/config", "5ba").
		Leaf("/__docusaurus/debug/content", "a2b").
		Leaf("/__docusaurus/debug/globalData", "c3c").
		Leaf("/__docusaurus/debug/metadata", "156").
		Leaf("/__docusaurus/debug/registry", "88c").
		Leaf("/__docusaurus/debug/routes", "000").
		Leaf("/markdown-page", "3d7").
		Leaf("/blog", "a6a").
		Leaf("/blog/archive", "182").
		Leaf("/blog/test", "be1").
		Branch("/docs", "0e7", NewTable().
			Branch("/docs", "133", NewTable().
				Branch("/docs", "0e9", NewTable().
					Leaf("/docs/api/", "5e5", Sidebar(TutorialSidebar)).
					Leaf("/docs/api/constants", "d5f", Sidebar(TutorialSidebar)).
					Leaf("/docs/api/generate", "188", Sidebar(TutorialSidebar)).
					Leaf("/docs/api/models", "902", Sidebar(TutorialSidebar)).
					Leaf("/docs/api/parse", "44d", Sidebar(TutorialSidebar)).
					Leaf("/docs/api/render", "e20", Sidebar(TutorialSidebar))))).
		Leaf("/", "e5f").
		Fallback().
		Build()
}

// TableBuilder assembles a table entry by entry.
type TableBuilder struct {
	entries []routetable.Entry
}

// NewTable starts an empty table.
func NewTable() *TableBuilder {
	return &TableBuilder{}
}

// Option adjusts an entry added by the builder.
type Option func(*routetable.Entry)

// Sidebar sets the entry's sidebar tag.
func Sidebar(name string) Option {
	return func(e *routetable.Entry) { e.Sidebar = name }
}

// NotExact clears the exact flag Leaf sets by default.
func NotExact() Option {
	return func(e *routetable.Entry) { e.Exact = false }
}

// Leaf appends an exact entry whose component module is its path.
func (b *TableBuilder) Leaf(path, hash string, opts ...Option) *TableBuilder {
	e := routetable.Entry{
		Path:      path,
		Component: routetable.ComponentRef{Module: path, Hash: hash},
		Exact:     true,
	}
	for _, opt := range opts {
		opt(&e)
	}
	b.entries = append(b.entries, e)
	return b
}

// Branch appends a non-exact entry nesting the children's entries.
func (b *TableBuilder) Branch(path, hash string, children *TableBuilder, opts ...Option) *TableBuilder {
	e := routetable.Entry{
		Path:      path,
		Component: routetable.ComponentRef{Module: path, Hash: hash},
		Routes:    children.entries,
	}
	for _, opt := range opts {
		opt(&e)
	}
	b.entries = append(b.entries, e)
	return b
}

// Entry appends a fully specified entry.
func (b *TableBuilder) Entry(e routetable.Entry) *TableBuilder {
	b.entries = append(b.entries, e)
	return b
}

// Fallback appends the wildcard entry the generator emits last.
func (b *TableBuilder) Fallback() *TableBuilder {
	b.entries = append(b.entries, routetable.Entry{
		Path:      routetable.Wildcard,
		Component: routetable.ComponentRef{Module: routetable.Wildcard},
	})
	return b
}

// Build returns the normalized table.
func (b *TableBuilder) Build() *routetable.Table {
	entries := make([]routetable.Entry, len(b.entries))
	copy(entries, b.entries)
	return routetable.New(entries...)
}
