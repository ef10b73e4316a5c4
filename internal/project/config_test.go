package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kernelsym/internal/diag"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigName), "")
	deep := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path, ok, err := FindConfig(deep)
	if err != nil || !ok {
		t.Fatalf("FindConfig: ok=%v err=%v", ok, err)
	}
	if path != filepath.Join(root, ConfigName) {
		t.Fatalf("found %q", path)
	}
}

func TestFindConfigPrefersNearest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigName), "")
	writeFile(t, filepath.Join(root, "sub", ConfigName), "")
	path, ok, err := FindConfig(filepath.Join(root, "sub"))
	if err != nil || !ok || path != filepath.Join(root, "sub", ConfigName) {
		t.Fatalf("FindConfig = %q, %v, %v", path, ok, err)
	}
}

func TestFindConfigIgnoresDirectories(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ConfigName), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path, ok, err := FindConfig(root)
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	if ok && path == filepath.Join(root, ConfigName) {
		t.Fatalf("directory mistaken for a config file")
	}
}

func TestLoadMergesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigName)
	writeFile(t, path, `
[catalog]
path = "tables/builtins.toml"

[scan]
jobs = 3
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path != path {
		t.Fatalf("Path = %q", cfg.Path)
	}
	if cfg.Catalog.Path != filepath.Join(dir, "tables", "builtins.toml") {
		t.Fatalf("catalog path not resolved against the config: %q", cfg.Catalog.Path)
	}
	if cfg.Scan.Jobs != 3 {
		t.Fatalf("jobs = %d", cfg.Scan.Jobs)
	}
	if cfg.Scan.MaxDiagnostics != Defaults().Scan.MaxDiagnostics || cfg.Trace.Mode != "ring" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
		code    diag.Code
	}{
		{"unknown key", "[scan]\nworkers = 2\n", ErrUnknownKey, diag.CfgUnknownKey},
		{"zero jobs", "[scan]\njobs = 0\n", ErrInvalidValue, diag.CfgInvalid},
		{"negative limit", "[scan]\nmax_diagnostics = -1\n", ErrInvalidValue, diag.CfgInvalid},
		{"bad level", "[trace]\nlevel = \"loud\"\n", ErrInvalidValue, diag.CfgInvalid},
		{"bad mode", "[trace]\nmode = \"tape\"\n", ErrInvalidValue, diag.CfgInvalid},
	}
	for _, tt := range tests {
		path := filepath.Join(t.TempDir(), ConfigName)
		writeFile(t, path, tt.content)
		_, err := Load(path)
		if !errors.Is(err, tt.want) {
			t.Fatalf("%s: got %v, want %v", tt.name, err, tt.want)
		}
		if !strings.HasPrefix(err.Error(), path+":") {
			t.Fatalf("%s: error not prefixed with path: %v", tt.name, err)
		}
		if CodeOf(err) != tt.code {
			t.Fatalf("%s: code %s", tt.name, CodeOf(err).ID())
		}
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigName)
	writeFile(t, path, "[scan\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDiscoverFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	// A kernelsym.toml above the temp dir would make this ambiguous.
	if cfg.Path != "" {
		t.Skipf("found an unrelated config at %s", cfg.Path)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}
