package catalog

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Current snapshot schema - increment when rawCatalog changes shape.
const snapshotSchemaVersion uint16 = 1

// snapshot is the compiled catalog written by "kernelsym catalog compile".
type snapshot struct {
	Schema  uint16     `msgpack:"schema"`
	Catalog rawCatalog `msgpack:"catalog"`
}

// WriteSnapshot serializes the catalog as msgpack.
func (c *Catalog) WriteSnapshot(w io.Writer) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(&snapshot{Schema: snapshotSchemaVersion, Catalog: *c.raw()})
}

// ReadSnapshot decodes and validates a msgpack snapshot.
func ReadSnapshot(r io.Reader) (*Catalog, error) {
	var snap snapshot
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snap.Schema != snapshotSchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSnapshotSchema, snap.Schema, snapshotSchemaVersion)
	}
	return build(&snap.Catalog)
}

// ReadSnapshotFile reads a snapshot from path.
func ReadSnapshotFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := ReadSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// WriteSnapshotFile writes a snapshot to path atomically.
func (c *Catalog) WriteSnapshotFile(path string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*.mp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if err = c.WriteSnapshot(f); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Atomic replace
	return os.Rename(f.Name(), path)
}

// Digest fingerprints the catalog content. Catalogs that differ only in
// their source format (TOML or snapshot) share a digest.
func (c *Catalog) Digest() string {
	var buf bytes.Buffer
	if err := c.WriteSnapshot(&buf); err != nil {
		// Encoding plain strings into memory does not fail.
		panic(err)
	}
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:8])
}
