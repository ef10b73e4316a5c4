package catalog

import (
	"errors"
	"fmt"
	"strings"

	"kernelsym/internal/diag"
)

// Entry maps one exact builtin identifier to a kind.
type Entry struct {
	Name string
	Kind Kind
}

// Family maps a stem with a suffix pattern to a kind, e.g. "read_image"
// followed by a pixel format.
type Family struct {
	Stem     string
	Kind     Kind
	Suffixes []SuffixSlot
}

// Prefix maps unmangled compiler-internal names starting with Prefix.
type Prefix struct {
	Prefix string
	Kind   Kind
}

// Catalog is the read-only builtin table. It is built once and never
// mutated; all methods are safe for concurrent use.
type Catalog struct {
	Version  string
	Entries  []Entry
	Families []Family
	Prefixes []Prefix
}

var (
	// ErrUnknownCategory indicates a category name outside the closed set.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrDuplicate indicates a name, stem or prefix listed twice.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrEmptyName indicates an empty name, stem or prefix.
	ErrEmptyName = errors.New("empty name")
	// ErrBadSuffix indicates an unknown suffix class.
	ErrBadSuffix = errors.New("unknown suffix class")
	// ErrBadName indicates a name with characters symbols cannot carry.
	ErrBadName = errors.New("invalid builtin name")
	// ErrSnapshotSchema indicates a snapshot written by an incompatible version.
	ErrSnapshotSchema = errors.New("incompatible snapshot schema")
)

// CodeOf maps catalog errors to diagnostic codes.
func CodeOf(err error) diag.Code {
	switch {
	case err == nil:
		return diag.UnknownCode
	case errors.Is(err, ErrUnknownCategory):
		return diag.CatUnknownKind
	case errors.Is(err, ErrDuplicate):
		return diag.CatDuplicate
	case errors.Is(err, ErrBadSuffix):
		return diag.CatBadSuffix
	case errors.Is(err, ErrSnapshotSchema):
		return diag.CatBadSnapshot
	}
	return diag.CatInvalid
}

// rawCatalog is the on-disk shape shared by the TOML source and the
// msgpack snapshot. Categories are stored by name so snapshots survive
// reordering of the Kind constants.
type rawCatalog struct {
	Version  string      `toml:"version" msgpack:"version"`
	Groups   []rawGroup  `toml:"group" msgpack:"groups"`
	Families []rawFamily `toml:"family" msgpack:"families"`
	Prefixes []rawPrefix `toml:"prefix" msgpack:"prefixes"`
}

type rawGroup struct {
	Category string   `toml:"category" msgpack:"category"`
	Names    []string `toml:"names" msgpack:"names"`
}

type rawFamily struct {
	Stem     string   `toml:"stem" msgpack:"stem"`
	Category string   `toml:"category" msgpack:"category"`
	Suffixes []string `toml:"suffixes" msgpack:"suffixes"`
}

type rawPrefix struct {
	Prefix   string `toml:"prefix" msgpack:"prefix"`
	Category string `toml:"category" msgpack:"category"`
}

func parseCategory(name string) (Kind, error) {
	k, ok := ParseKind(strings.TrimSpace(name))
	if !ok || k == KindNone {
		return KindNone, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return k, nil
}

// build validates raw and produces a Catalog.
func build(raw *rawCatalog) (*Catalog, error) {
	c := &Catalog{Version: strings.TrimSpace(raw.Version)}
	seen := make(map[string]struct{})

	for _, g := range raw.Groups {
		kind, err := parseCategory(g.Category)
		if err != nil {
			return nil, err
		}
		for _, name := range g.Names {
			if err := checkName(name, seen, "builtin"); err != nil {
				return nil, err
			}
			c.Entries = append(c.Entries, Entry{Name: name, Kind: kind})
		}
	}

	stems := make(map[string]struct{})
	for _, f := range raw.Families {
		kind, err := parseCategory(f.Category)
		if err != nil {
			return nil, err
		}
		if err := checkName(f.Stem, stems, "stem"); err != nil {
			return nil, err
		}
		if len(f.Suffixes) == 0 {
			return nil, fmt.Errorf("family %q: %w: empty suffix pattern", f.Stem, ErrBadSuffix)
		}
		fam := Family{Stem: f.Stem, Kind: kind, Suffixes: make([]SuffixSlot, 0, len(f.Suffixes))}
		for _, s := range f.Suffixes {
			slot, err := ParseSuffixSlot(s)
			if err != nil {
				return nil, fmt.Errorf("family %q: %w", f.Stem, err)
			}
			fam.Suffixes = append(fam.Suffixes, slot)
		}
		c.Families = append(c.Families, fam)
	}

	prefixes := make(map[string]struct{})
	for _, p := range raw.Prefixes {
		kind, err := parseCategory(p.Category)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(p.Prefix) == "" {
			return nil, fmt.Errorf("prefix: %w", ErrEmptyName)
		}
		if _, dup := prefixes[p.Prefix]; dup {
			return nil, fmt.Errorf("prefix %q: %w", p.Prefix, ErrDuplicate)
		}
		prefixes[p.Prefix] = struct{}{}
		c.Prefixes = append(c.Prefixes, Prefix{Prefix: p.Prefix, Kind: kind})
	}
	return c, nil
}

func checkName(name string, seen map[string]struct{}, what string) error {
	if name == "" {
		return fmt.Errorf("%s: %w", what, ErrEmptyName)
	}
	for i := 0; i < len(name); i++ {
		b := name[i]
		if b != '_' && b != '.' && (b < 'a' || b > 'z') && (b < 'A' || b > 'Z') && (b < '0' || b > '9') {
			return fmt.Errorf("%s %q: %w", what, name, ErrBadName)
		}
	}
	if _, dup := seen[name]; dup {
		return fmt.Errorf("%s %q: %w", what, name, ErrDuplicate)
	}
	seen[name] = struct{}{}
	return nil
}

// raw converts the catalog back to its on-disk shape, grouping exact
// entries by kind in order of first appearance.
func (c *Catalog) raw() *rawCatalog {
	raw := &rawCatalog{Version: c.Version}
	groupIndex := make(map[Kind]int)
	for _, e := range c.Entries {
		idx, ok := groupIndex[e.Kind]
		if !ok {
			idx = len(raw.Groups)
			groupIndex[e.Kind] = idx
			raw.Groups = append(raw.Groups, rawGroup{Category: e.Kind.String()})
		}
		raw.Groups[idx].Names = append(raw.Groups[idx].Names, e.Name)
	}
	for _, f := range c.Families {
		rf := rawFamily{Stem: f.Stem, Category: f.Kind.String()}
		for _, s := range f.Suffixes {
			rf.Suffixes = append(rf.Suffixes, s.String())
		}
		raw.Families = append(raw.Families, rf)
	}
	for _, p := range c.Prefixes {
		raw.Prefixes = append(raw.Prefixes, rawPrefix{Prefix: p.Prefix, Category: p.Kind.String()})
	}
	return raw
}

// Len reports the number of exact entries, families and prefixes.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Entries) + len(c.Families) + len(c.Prefixes)
}
