package routetest

import (
	"fmt"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/vango-dev/docroutes/pkg/routetable"
)

// GenTable generates well-formed tables: unique sibling paths, exact flags
// only on leaves, absolute nested paths, at most four levels deep and a
// trailing wildcard at the top level. Paths, modules and sidebars include
// non-ASCII text, quotes, backslashes and control characters.
func GenTable() gopter.Gen {
	return gen.SliceOf(gen.UInt8()).Map(func(seed []uint8) *routetable.Table {
		return FromSeed(seed)
	})
}

// FromSeed deterministically builds a well-formed table from a byte seed.
func FromSeed(seed []uint8) *routetable.Table {
	s := &seedReader{data: seed}
	entries := buildLevel(s, "", 1)
	entries = append(entries, routetable.Entry{
		Path:      routetable.Wildcard,
		Component: routetable.ComponentRef{Module: routetable.Wildcard},
	})
	return routetable.New(entries...)
}

const maxGenDepth = 4

// pathSuffixes are appended to generated path segments. They stay clear of
// "/", "%", "?" and "#" so every path is canonical and distinct.
var pathSuffixes = []string{"", "é", "文档", "🚀", "it's", "-x_y", ".md", "~v1", "(a)", " b"}

// labels are appended to component modules and sidebars, which are opaque
// and may hold anything a quoted string can.
var labels = []string{
	"", "é", "文档", "🚀", "it's", `say "hi"`, `back\slash`, "tab\there",
	"line\nbreak", "cr\rlf", "${x}", "</script>", "  spaced  ", "ComponentCreator('x')",
}

func buildLevel(s *seedReader, parent string, depth int) []routetable.Entry {
	n := 1 + int(s.next()%4)
	entries := make([]routetable.Entry, 0, n)
	for i := 0; i < n; i++ {
		b := s.next()
		path := fmt.Sprintf("%s/p%d%s", parent, i, pathSuffixes[int(b)%len(pathSuffixes)])
		e := routetable.Entry{
			Path: path,
			Component: routetable.ComponentRef{
				Module: path + labels[int(b/3)%len(labels)],
				Hash:   fmt.Sprintf("%03x", int(b)*7%4096),
			},
		}
		if depth < maxGenDepth && b%3 == 0 {
			e.Routes = buildLevel(s, path, depth+1)
		} else {
			e.Exact = b%2 == 0
			if b%5 == 0 {
				e.Sidebar = TutorialSidebar + labels[int(b/5)%len(labels)]
			}
		}
		entries = append(entries, e)
	}
	return entries
}

type seedReader struct {
	data []uint8
	pos  int
}

func (s *seedReader) next() uint8 {
	if len(s.data) == 0 {
		return 1
	}
	b := s.data[s.pos%len(s.data)]
	s.pos++
	return b + uint8(s.pos/len(s.data))
}
