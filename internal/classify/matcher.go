package classify

import (
	"sort"
	"strings"

	"kernelsym/internal/catalog"
)

// Suffix holds the tokens stripped from the tail of an identifier during
// stem decomposition.
type Suffix struct {
	Lanes    int
	Format   catalog.PixelFormat
	Saturate bool
	Rounding catalog.Rounding
	TypeName string // destination type spelling, e.g. "uchar4"
}

// Match is the result of classifying one base identifier. Category carries
// the suffix modifiers folded in; Suffix keeps the raw tokens, including the
// destination type spelling the category has no field for.
type Match struct {
	Category catalog.Category
	Stem     string
	Suffix   Suffix
	Exact    bool
}

func newMatch(kind catalog.Kind, stem string, s Suffix) Match {
	return Match{
		Category: catalog.Category{
			Kind:     kind,
			Format:   s.Format,
			Saturate: s.Saturate,
			Rounding: s.Rounding,
			Lanes:    s.Lanes,
		},
		Stem:   stem,
		Suffix: s,
	}
}

// Matcher maps base identifiers to catalog kinds. It is immutable after
// construction and safe for concurrent use.
type Matcher struct {
	exact    map[string]catalog.Kind
	families map[string]*catalog.Family
	prefixes []catalog.Prefix
	maxStem  int
}

// NewMatcher indexes the catalog.
func NewMatcher(c *catalog.Catalog) *Matcher {
	m := &Matcher{
		exact:    make(map[string]catalog.Kind, len(c.Entries)),
		families: make(map[string]*catalog.Family, len(c.Families)),
	}
	for _, e := range c.Entries {
		m.exact[e.Name] = e.Kind
	}
	for i := range c.Families {
		f := &c.Families[i]
		m.families[f.Stem] = f
		if len(f.Stem) > m.maxStem {
			m.maxStem = len(f.Stem)
		}
	}
	m.prefixes = append(m.prefixes, c.Prefixes...)
	// Longest prefix first.
	sort.SliceStable(m.prefixes, func(i, j int) bool {
		return len(m.prefixes[i].Prefix) > len(m.prefixes[j].Prefix)
	})
	return m
}

// Classify resolves a base identifier. Exact names win over prefix rules,
// which win over stem decomposition; among decompositions the longest stem
// whose family accepts the remaining tail wins.
func (m *Matcher) Classify(name string) (Match, bool) {
	if name == "" {
		return Match{}, false
	}
	if kind, ok := m.exact[name]; ok {
		match := newMatch(kind, name, Suffix{})
		match.Exact = true
		return match, true
	}
	for _, p := range m.prefixes {
		if strings.HasPrefix(name, p.Prefix) && len(name) > len(p.Prefix) {
			return newMatch(p.Kind, p.Prefix, Suffix{}), true
		}
	}
	longest := min(m.maxStem, len(name)-1)
	for cut := longest; cut > 0; cut-- {
		fam, ok := m.families[name[:cut]]
		if !ok {
			continue
		}
		suffix, ok := parseTail(name[cut:], fam.Suffixes)
		if !ok {
			continue
		}
		return newMatch(fam.Kind, fam.Stem, suffix), true
	}
	return Match{}, false
}
