package classify

import (
	"strings"
	"testing"

	"kernelsym/internal/catalog"
)

func defaultMatcher(t *testing.T) *Matcher {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	return NewMatcher(c)
}

func matcherFor(t *testing.T, table string) *Matcher {
	t.Helper()
	c, err := catalog.Parse(strings.NewReader(table))
	if err != nil {
		t.Fatalf("parse catalog: %v", err)
	}
	return NewMatcher(c)
}

func TestClassifyDefaultCatalog(t *testing.T) {
	m := defaultMatcher(t)
	tests := []struct {
		name string
		want catalog.Category
	}{
		{"get_global_id", catalog.Category{Kind: catalog.KindWorkItem}},
		{"barrier", catalog.Category{Kind: catalog.KindBarrier}},
		{"read_imagef", catalog.Category{Kind: catalog.KindImageRead, Format: catalog.FormatFloat}},
		{"read_imageui", catalog.Category{Kind: catalog.KindImageRead, Format: catalog.FormatUint}},
		{"read_imagei", catalog.Category{Kind: catalog.KindImageRead, Format: catalog.FormatInt}},
		{"write_imageh", catalog.Category{Kind: catalog.KindImageWrite, Format: catalog.FormatHalf}},
		{"get_image_width", catalog.Category{Kind: catalog.KindImageQueryWidth}},
		{"atom_add", catalog.Category{Kind: catalog.KindAtomicAdd}},
		{"atomic_fetch_add_explicit", catalog.Category{Kind: catalog.KindAtomicAdd}},
		{"vload4", catalog.Category{Kind: catalog.KindVload, Lanes: 4}},
		{"vstore16", catalog.Category{Kind: catalog.KindVstore, Lanes: 16}},
		{"vload_half", catalog.Category{Kind: catalog.KindVloadHalf}},
		{"vload_half8", catalog.Category{Kind: catalog.KindVloadHalf, Lanes: 8}},
		{"vstore_half_rtz", catalog.Category{Kind: catalog.KindVstoreHalf, Rounding: catalog.RoundTowardZero}},
		{"vstore_half4_rte", catalog.Category{Kind: catalog.KindVstoreHalf, Lanes: 4, Rounding: catalog.RoundNearestEven}},
		{"vstorea_half2", catalog.Category{Kind: catalog.KindVstoreaHalf, Lanes: 2}},
		{"convert_float", catalog.Category{Kind: catalog.KindConversion}},
		{"convert_uchar4_sat_rte", catalog.Category{Kind: catalog.KindConversion, Saturate: true, Rounding: catalog.RoundNearestEven}},
		{"convert_int_rtn", catalog.Category{Kind: catalog.KindConversion, Rounding: catalog.RoundTowardNegative}},
		{"as_uint4", catalog.Category{Kind: catalog.KindReinterpret}},
		{"asin", catalog.Category{Kind: catalog.KindMath}},
		{"sincos", catalog.Category{Kind: catalog.KindMathPointerOut}},
		{"clspv.sampler.var.literal", catalog.Category{Kind: catalog.KindSamplerLiteral}},
		{"spirv.op.42", catalog.Category{Kind: catalog.KindSpirvOp}},
		{"__spirv_ImageSampleExplicitLod", catalog.Category{Kind: catalog.KindSpirvOp}},
	}
	for _, tt := range tests {
		got, ok := m.Classify(tt.name)
		if !ok {
			t.Fatalf("%s: not classified", tt.name)
		}
		if got.Category != tt.want {
			t.Fatalf("%s: got %s, want %s", tt.name, got.Category, tt.want)
		}
	}
}

func TestClassifyConversionSuffix(t *testing.T) {
	m := defaultMatcher(t)
	got, ok := m.Classify("convert_ushort8_sat")
	if !ok {
		t.Fatalf("not classified")
	}
	if got.Stem != "convert" || got.Exact {
		t.Fatalf("unexpected stem %q exact=%v", got.Stem, got.Exact)
	}
	if got.Suffix.TypeName != "ushort8" || !got.Suffix.Saturate || got.Suffix.Rounding != catalog.RoundDefault {
		t.Fatalf("unexpected suffix %+v", got.Suffix)
	}
}

func TestClassifyMisses(t *testing.T) {
	m := defaultMatcher(t)
	for _, name := range []string{
		"",
		"my_kernel_helper",
		"vload",        // lanes are required
		"vload5",       // not a lane count
		"vload_half4x", // trailing garbage
		"read_imagex",  // unknown pixel format
		"convert",      // missing destination type
		"convert_int_sat_sat",
		"spirv.op.", // prefix alone
		"vstore_half_rte_rte",
	} {
		if got, ok := m.Classify(name); ok {
			t.Fatalf("%q: unexpectedly classified as %s", name, got.Category)
		}
	}
}

func TestClassifyExactBeatsStem(t *testing.T) {
	m := matcherFor(t, `
version = "test"

[[group]]
category = "math"
names = ["load4"]

[[family]]
stem = "load"
category = "vload"
suffixes = ["lanes"]
`)
	got, ok := m.Classify("load4")
	if !ok || got.Category.Kind != catalog.KindMath || !got.Exact {
		t.Fatalf("exact entry lost to stem decomposition: %+v", got)
	}
	got, ok = m.Classify("load8")
	if !ok || got.Category.Kind != catalog.KindVload || got.Category.Lanes != 8 {
		t.Fatalf("stem decomposition failed: %+v", got)
	}
}

func TestClassifyLongestStemWins(t *testing.T) {
	m := matcherFor(t, `
version = "test"

[[family]]
stem = "fetch"
category = "vload"
suffixes = ["lanes", "rounding?"]

[[family]]
stem = "fetch2"
category = "vstore_half"
suffixes = ["rounding"]
`)
	// "fetch" + "2" + "_rte" also parses; the longer stem must win.
	got, ok := m.Classify("fetch2_rte")
	if !ok {
		t.Fatalf("not classified")
	}
	if got.Stem != "fetch2" || got.Category.Kind != catalog.KindVstoreHalf {
		t.Fatalf("got stem %q kind %s, want fetch2", got.Stem, got.Category.Kind)
	}
	if got.Category.Lanes != 0 || got.Category.Rounding != catalog.RoundNearestEven {
		t.Fatalf("unexpected modifiers %s", got.Category)
	}

	// Only the short stem accepts a lane suffix of 4.
	got, ok = m.Classify("fetch4")
	if !ok || got.Stem != "fetch" || got.Category.Lanes != 4 {
		t.Fatalf("short stem fallback failed: %+v", got)
	}
}

func TestClassifyLongestPrefixWins(t *testing.T) {
	m := matcherFor(t, `
version = "test"

[[prefix]]
prefix = "ext."
category = "math"

[[prefix]]
prefix = "ext.img."
category = "image_query_dim"
`)
	got, ok := m.Classify("ext.img.dim")
	if !ok || got.Category.Kind != catalog.KindImageQueryDim {
		t.Fatalf("got %+v, want image_query_dim", got)
	}
	got, ok = m.Classify("ext.sqrt")
	if !ok || got.Category.Kind != catalog.KindMath {
		t.Fatalf("got %+v, want math", got)
	}
}

func TestClassifyConcurrentUse(t *testing.T) {
	m := defaultMatcher(t)
	done := make(chan struct{})
	for range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			for range 200 {
				if _, ok := m.Classify("convert_float4_rtz"); !ok {
					t.Errorf("convert_float4_rtz not classified")
					return
				}
			}
		}()
	}
	for range 8 {
		<-done
	}
}
