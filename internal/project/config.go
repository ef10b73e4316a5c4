package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"kernelsym/internal/diag"
	"kernelsym/internal/trace"
)

// Config is the merged content of kernelsym.toml.
type Config struct {
	// Path of the file the config was read from; empty for defaults.
	Path string `toml:"-"`

	Catalog CatalogConfig `toml:"catalog"`
	Scan    ScanConfig    `toml:"scan"`
	Trace   TraceConfig   `toml:"trace"`
}

type CatalogConfig struct {
	// Path to a .toml table or .mp snapshot. Relative paths are resolved
	// against the directory holding kernelsym.toml. Empty selects the
	// embedded table.
	Path string `toml:"path"`
}

type ScanConfig struct {
	Jobs           int `toml:"jobs"`
	MaxDiagnostics int `toml:"max_diagnostics"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Output string `toml:"output"`
}

var (
	// ErrInvalidValue indicates a setting outside its allowed range.
	ErrInvalidValue = errors.New("invalid value")
	// ErrUnknownKey indicates a key kernelsym does not understand.
	ErrUnknownKey = errors.New("unknown key")
)

// Defaults returns the configuration used when no file is found.
func Defaults() Config {
	return Config{
		Scan: ScanConfig{
			Jobs:           runtime.GOMAXPROCS(0),
			MaxDiagnostics: 20,
		},
		Trace: TraceConfig{Level: "off", Mode: "ring"},
	}
}

// Load reads path over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: %w %q", path, ErrUnknownKey, undecoded[0].String())
	}
	cfg.Path = path
	if p := strings.TrimSpace(cfg.Catalog.Path); p != "" && !filepath.IsAbs(p) {
		cfg.Catalog.Path = filepath.Join(filepath.Dir(path), p)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds kernelsym.toml above startDir and loads it, falling back
// to Defaults when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Defaults(), nil
	}
	return Load(path)
}

// Validate checks ranges and enumerated values.
func (c Config) Validate() error {
	if c.Scan.Jobs < 1 {
		return fmt.Errorf("scan.jobs: %w: %d (must be at least 1)", ErrInvalidValue, c.Scan.Jobs)
	}
	if c.Scan.MaxDiagnostics < 0 {
		return fmt.Errorf("scan.max_diagnostics: %w: %d", ErrInvalidValue, c.Scan.MaxDiagnostics)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("trace.level: %w: %w", ErrInvalidValue, err)
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return fmt.Errorf("trace.mode: %w: %w", ErrInvalidValue, err)
	}
	return nil
}

// CodeOf maps configuration errors to diagnostic codes.
func CodeOf(err error) diag.Code {
	if err == nil {
		return diag.UnknownCode
	}
	if errors.Is(err, ErrUnknownKey) {
		return diag.CfgUnknownKey
	}
	return diag.CfgInvalid
}
