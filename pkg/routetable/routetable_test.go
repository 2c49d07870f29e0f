package routetable_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/vango-dev/docroutes/pkg/routetable"
	"github.com/vango-dev/docroutes/pkg/routetest"
)

func TestComponentRefString(t *testing.T) {
	tests := []struct {
		ref  routetable.ComponentRef
		want string
	}{
		{routetable.ComponentRef{Module: "/docs", Hash: "0e7"}, "/docs@0e7"},
		{routetable.ComponentRef{Module: "*"}, "*"},
	}
	for _, tt := range tests {
		if got := tt.ref.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestNormalizeTreatsEmptyRoutesAsAbsent(t *testing.T) {
	a := &routetable.Table{Routes: []routetable.Entry{
		{Path: "/blog", Component: routetable.ComponentRef{Module: "/blog"}, Routes: []routetable.Entry{}},
	}}
	b := &routetable.Table{Routes: []routetable.Entry{
		{Path: "/blog", Component: routetable.ComponentRef{Module: "/blog"}},
	}}

	if !a.Equal(b) {
		t.Fatal("tables differing only in empty routes should be equal")
	}

	a.Normalize()
	if a.Routes[0].Routes != nil {
		t.Errorf("Normalize() left routes = %#v, want nil", a.Routes[0].Routes)
	}
}

func TestEqualDetectsDifferences(t *testing.T) {
	base := routetest.Docusaurus()

	tests := []struct {
		name   string
		mutate func(*routetable.Table)
	}{
		{"hash", func(t *routetable.Table) { t.Routes[0].Component.Hash = "fff" }},
		{"exact", func(t *routetable.Table) { t.Routes[0].Exact = false }},
		{"sidebar", func(t *routetable.Table) { t.Routes[11].Routes[0].Routes[0].Routes[2].Sidebar = "other" }},
		{"order", func(t *routetable.Table) { t.Routes[0], t.Routes[1] = t.Routes[1], t.Routes[0] }},
		{"dropped", func(t *routetable.Table) { t.Routes = t.Routes[:len(t.Routes)-1] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := routetest.Docusaurus()
			tt.mutate(other)
			if base.Equal(other) {
				t.Error("Equal() = true, want false")
			}
			if base.Fingerprint() == other.Fingerprint() {
				t.Error("fingerprints should differ")
			}
		})
	}
}

func TestJSONArrayShape(t *testing.T) {
	table := routetest.NewTable().Leaf("/", "e5f").Fallback().Build()

	data, err := json.Marshal(table)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `[{"path":"/","component":{"module":"/","hash":"e5f"},"exact":true},{"path":"*","component":{"module":"*"}}]`
	if string(data) != want {
		t.Errorf("Marshal() = %s\nwant %s", data, want)
	}
}

func TestUnmarshalJSONAcceptsWrappedObject(t *testing.T) {
	var table routetable.Table
	doc := `{"routes":[{"path":"/blog","component":{"module":"/blog","hash":"a6a"},"routes":[]}]}`
	if err := json.Unmarshal([]byte(doc), &table); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if table.Len() != 1 || table.Routes[0].Path != "/blog" {
		t.Fatalf("unexpected table %#v", table)
	}
	if table.Routes[0].Routes != nil {
		t.Error("empty routes should be normalized to nil")
	}
}

func TestUnmarshalJSONRejectsScalars(t *testing.T) {
	var table routetable.Table
	err := json.Unmarshal([]byte(`"routes"`), &table)
	if err == nil || !strings.Contains(err.Error(), "expected JSON array or object") {
		t.Errorf("Unmarshal() error = %v", err)
	}
}

func TestWalkOrderAndLocations(t *testing.T) {
	table := routetest.NewTable().
		Branch("/docs", "0e7", routetest.NewTable().
			Leaf("/docs/api/", "5e5").
			Leaf("parse", "44d")).
		Fallback().
		Build()

	var got []string
	err := table.Walk(func(v routetable.Visit) error {
		got = append(got, v.Location+" "+v.Path)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	want := []string{
		"routes[0] /docs",
		"routes[0].routes[0] /docs/api/",
		"routes[0].routes[1] /docs/parse",
		"routes[1] *",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Walk() visited %v, want %v", got, want)
	}
}

func TestWalkSkipChildrenAndStop(t *testing.T) {
	table := routetest.Docusaurus()

	count := 0
	_ = table.Walk(func(v routetable.Visit) error {
		count++
		if v.Entry.Path == "/docs" {
			return routetable.SkipChildren
		}
		return nil
	})
	if count != table.Len() {
		t.Errorf("visited %d entries, want %d", count, table.Len())
	}

	stop := errors.New("stop")
	err := table.Walk(func(v routetable.Visit) error { return stop })
	if !errors.Is(err, stop) {
		t.Errorf("Walk() error = %v, want %v", err, stop)
	}
}

func TestLeavesAndPaths(t *testing.T) {
	table := routetest.Docusaurus()

	leaves := table.Leaves()
	if len(leaves) != 19 {
		t.Fatalf("len(Leaves()) = %d, want 19", len(leaves))
	}
	parse := leaves[15]
	if parse.Path != "/docs/api/parse" || parse.Depth != 4 || parse.Sidebar != routetest.TutorialSidebar {
		t.Errorf("unexpected leaf %+v", parse)
	}
	if parse.Location != "routes[11].routes[0].routes[0].routes[4]" {
		t.Errorf("Location = %q", parse.Location)
	}

	paths := table.Paths()
	for _, p := range paths {
		if p == routetable.Wildcard {
			t.Error("Paths() must not include the wildcard")
		}
	}
	if paths[11] != "/docs" || paths[12] != "/docs/api/" {
		t.Errorf("Paths() = %v", paths)
	}
}

func TestLookup(t *testing.T) {
	table := routetest.Docusaurus()
	e := table.Lookup("routes[11].routes[0].routes[0].routes[1]")
	if e == nil || e.Path != "/docs/api/constants" {
		t.Fatalf("Lookup() = %+v", e)
	}
	if table.Lookup("routes[99]") != nil {
		t.Error("Lookup() of a missing location should be nil")
	}
}

func TestStats(t *testing.T) {
	s := routetest.Docusaurus().Stats()

	want := routetable.Stats{
		Entries:   22,
		Leaves:    19,
		Branches:  3,
		Exact:     18,
		Wildcards: 1,
		MaxDepth:  4,
		Sidebars:  []string{routetest.TutorialSidebar},
	}
	if !reflect.DeepEqual(s, want) {
		t.Errorf("Stats() = %+v, want %+v", s, want)
	}
}

func TestFingerprintStable(t *testing.T) {
	a := routetest.Docusaurus().Fingerprint()
	b := routetest.Docusaurus().Fingerprint()
	if a != b {
		t.Errorf("fingerprints differ: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("len(Fingerprint()) = %d, want 64", len(a))
	}

	var empty *routetable.Table
	if empty.Fingerprint() != (&routetable.Table{}).Fingerprint() {
		t.Error("nil and empty tables should share a fingerprint")
	}
}
