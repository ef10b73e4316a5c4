package catalog

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

//go:embed data/builtins.toml
var defaultTable string

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	c, err := Parse(strings.NewReader(defaultTable))
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return c, nil
})

// Default returns the catalog shipped with the module.
func Default() (*Catalog, error) {
	return loadDefault()
}

// MustDefault is Default for callers that treat a broken embedded table as
// a build defect.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes a TOML catalog.
func Parse(r io.Reader) (*Catalog, error) {
	var raw rawCatalog
	meta, err := toml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	if !meta.IsDefined("version") || strings.TrimSpace(raw.Version) == "" {
		return nil, fmt.Errorf("missing version")
	}
	return build(&raw)
}

// LoadFile decodes a TOML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Open loads a catalog from path, choosing the codec by extension:
// ".toml" for source tables and ".mp" for compiled snapshots.
func Open(path string) (*Catalog, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return LoadFile(path)
	case ".mp", ".msgpack":
		return ReadSnapshotFile(path)
	default:
		return nil, fmt.Errorf("%s: unsupported catalog extension (want .toml or .mp)", path)
	}
}

// EncodeTOML writes the catalog in its source format.
func (c *Catalog) EncodeTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c.raw())
}
