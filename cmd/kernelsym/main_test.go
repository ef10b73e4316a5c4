package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kernelsym/internal/builtins"
	"kernelsym/internal/catalog"
	"kernelsym/internal/version"
)

func TestReadSymbols(t *testing.T) {
	input := `# undefined symbols
                 U _Z13get_global_idj

_Z3sinf
  # indented comment
helper
`
	got, err := readSymbols(strings.NewReader(input))
	if err != nil {
		t.Fatalf("readSymbols: %v", err)
	}
	want := []symbolLine{
		{Line: 2, Symbol: "_Z13get_global_idj"},
		{Line: 4, Symbol: "_Z3sinf"},
		{Line: 6, Symbol: "helper"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d symbols, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("symbol %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestClassifyAllKeepsOrder(t *testing.T) {
	reg := builtins.NewRegistry(nil)
	defer reg.Close()
	var lines []symbolLine
	for i := range 200 {
		sym := "_Z3sinf"
		if i%3 == 0 {
			sym = "_Z6my_fooi"
		}
		lines = append(lines, symbolLine{Line: i + 1, Symbol: sym})
	}
	results, err := classifyAll(context.Background(), reg, lines, 8, nil)
	if err != nil {
		t.Fatalf("classifyAll: %v", err)
	}
	for i, r := range results {
		if r.Line != i+1 {
			t.Fatalf("result %d carries line %d", i, r.Line)
		}
		if r.Info.IsValid() == (i%3 == 0) {
			t.Fatalf("line %d: unexpected validity %v", r.Line, r.Info.IsValid())
		}
	}
	if st := reg.Stats(); st.Entries != 2 {
		t.Fatalf("expected 2 distinct entries, got %d", st.Entries)
	}
}

func TestClassifyAllCancelled(t *testing.T) {
	reg := builtins.NewRegistry(nil)
	defer reg.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := classifyAll(ctx, reg, []symbolLine{{Line: 1, Symbol: "_Z3sinf"}}, 1, nil)
	if err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestSummarize(t *testing.T) {
	reg := builtins.NewRegistry(nil)
	defer reg.Close()
	lines := []symbolLine{
		{1, "_Z3sinf"},
		{2, "_Z4sqrtf"},
		{3, "_Z13get_global_idj"},
		{4, "_Z6my_fooi"},
		{5, "_Z4sqrtq"},
		{6, "_Z4sqrtq"},
		{7, "_Z12convert_quuxf"},
	}
	results, err := classifyAll(context.Background(), reg, lines, 2, nil)
	if err != nil {
		t.Fatalf("classifyAll: %v", err)
	}
	sum := summarize(results, 10, "syms.txt")
	if sum.Symbols != 7 || sum.Builtins != 3 {
		t.Fatalf("unexpected totals %+v", sum)
	}
	if len(sum.Categories) != 2 || sum.Categories[0].Label != "math" || sum.Categories[0].Count != 2 {
		t.Fatalf("unexpected categories %+v", sum.Categories)
	}
	// The non-builtin call is counted but not reported; the bad symbol is
	// reported once even though it appears twice.
	diags := sum.Diagnostics.Diagnostics
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %+v", diags)
	}
	if d := diags[0]; d.Symbol != "_Z4sqrtq" || d.Line != 5 || d.Code != "DEC1004" || d.Offset == nil {
		t.Fatalf("unexpected decode diagnostic %+v", d)
	}
	if d := diags[1]; d.Symbol != "_Z12convert_quuxf" || d.Code != "RET3001" || d.Severity != "WARNING" {
		t.Fatalf("unexpected return type diagnostic %+v", d)
	}

	limited := summarize(results, 1, "syms.txt")
	if limited.Diagnostics.Count != 1 || limited.Diagnostics.Dropped != 1 {
		t.Fatalf("limit not applied: %+v", limited.Diagnostics)
	}

	var buf bytes.Buffer
	printSummary(&buf, sum, "syms.txt", false)
	out := buf.String()
	for _, want := range []string{"builtin categories", "not resolved", "CLS2001", "syms.txt:5: error DEC1004"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary lacks %q:\n%s", want, out)
		}
	}
}

func TestDescribe(t *testing.T) {
	reg := builtins.NewRegistry(nil)
	defer reg.Close()

	p := describe(reg, "_Z15convert_ushort8Dv8_f")
	if !p.Valid || p.Name != "convert_ushort8" || p.Kind != "conversion" {
		t.Fatalf("unexpected payload %+v", p)
	}
	if p.ReturnType == nil || p.ReturnType.Spelling != "ushort8" {
		t.Fatalf("unexpected return type %+v", p.ReturnType)
	}
	if len(p.Params) != 1 || p.Params[0].Spelling != "float8" || p.Params[0].VectorWidth != 8 {
		t.Fatalf("unexpected params %+v", p.Params)
	}

	p = describe(reg, "_Z6my_fooi")
	if p.Valid || p.Error == nil || p.Error.Code != "CLS2001" {
		t.Fatalf("unexpected payload %+v", p)
	}
}

func TestListCatalogFilter(t *testing.T) {
	var buf bytes.Buffer
	listCatalog(&buf, catalog.MustDefault(), catalog.KindVstoreHalf)
	out := buf.String()
	if !strings.Contains(out, "vstore_half{lanes?}{rounding?}") {
		t.Fatalf("family not listed:\n%s", out)
	}
	if strings.Contains(out, "vload") {
		t.Fatalf("filter leaked other kinds:\n%s", out)
	}
}

func TestBuildVersionPayload(t *testing.T) {
	fp := version.Fingerprint{Version: "1.2.3", GitCommit: "abc", BuildDate: "today"}
	cat := catalog.MustDefault()
	p := buildVersionPayload(fp, cat, false)
	if p.GitCommit != "" || p.CatalogVersion != cat.Version || p.CatalogDigest != cat.Digest() {
		t.Fatalf("unexpected payload %+v", p)
	}
	if p = buildVersionPayload(fp, cat, true); p.GitCommit != "abc" || p.BuildDate != "today" {
		t.Fatalf("full payload missing metadata %+v", p)
	}
}

func TestLookupCommandJSON(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "kernelsym.toml")
	if err := os.WriteFile(cfg, []byte("[scan]\njobs = 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"--config", cfg, "--color", "off", "lookup", "--format", "json", "_Z3sinf", "_Z6my_fooi"})
	err := rootCmd.Execute()
	if _, ok := err.(exitError); !ok {
		t.Fatalf("expected exit error for the non-builtin, got %v", err)
	}
	var payloads []lookupPayload
	if err := json.Unmarshal(out.Bytes(), &payloads); err != nil {
		t.Fatalf("bad json: %v\n%s", err, out.String())
	}
	if len(payloads) != 2 || !payloads[0].Valid || payloads[1].Valid {
		t.Fatalf("unexpected payloads %+v", payloads)
	}
}
