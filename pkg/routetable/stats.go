package routetable

import (
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/zeebo/blake3"
)

// Stats summarizes a table.
type Stats struct {
	Entries   int      `json:"entries"`
	Leaves    int      `json:"leaves"`
	Branches  int      `json:"branches"`
	Exact     int      `json:"exact"`
	Wildcards int      `json:"wildcards"`
	MaxDepth  int      `json:"maxDepth"`
	Sidebars  []string `json:"sidebars,omitempty"`
}

// Stats walks the table once and counts its entries.
func (t *Table) Stats() Stats {
	var s Stats
	sidebars := make(map[string]bool)

	_ = t.Walk(func(v Visit) error {
		s.Entries++
		if v.Entry.IsLeaf() {
			s.Leaves++
		} else {
			s.Branches++
		}
		if v.Entry.Exact {
			s.Exact++
		}
		if v.Entry.IsWildcard() {
			s.Wildcards++
		}
		if v.Depth > s.MaxDepth {
			s.MaxDepth = v.Depth
		}
		if v.Entry.Sidebar != "" {
			sidebars[v.Entry.Sidebar] = true
		}
		return nil
	})

	for name := range sidebars {
		s.Sidebars = append(s.Sidebars, name)
	}
	sort.Strings(s.Sidebars)
	return s
}

// Fingerprint returns the hex blake3 digest of the table's canonical JSON
// encoding. Two tables with equal trees share a fingerprint.
func (t *Table) Fingerprint() string {
	if t == nil {
		t = &Table{}
	}
	data, err := json.Marshal(t)
	if err != nil {
		// Entries only hold strings and bools.
		panic("routetable: marshal for fingerprint: " + err.Error())
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
