package builtins

import (
	"errors"
	"testing"

	"kernelsym/internal/catalog"
	"kernelsym/internal/classify"
	"kernelsym/internal/mangle"
	"kernelsym/internal/types"
)

func TestAssembleSplitsImageReads(t *testing.T) {
	m := classify.Match{Category: catalog.Category{Kind: catalog.KindImageRead, Format: catalog.FormatHalf}}
	sampled := mangle.Symbol{Name: "read_imageh", Params: []types.ParamTypeInfo{img2r, smp, f32}}
	fi, err := Assemble(sampled, m)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if fi.Kind() != catalog.KindImageReadSampled || fi.Category().Format != catalog.FormatHalf {
		t.Fatalf("got %s, want sampled half read", fi.Category())
	}

	unsampled := mangle.Symbol{Name: "read_imageh", Params: []types.ParamTypeInfo{img2r, i32}}
	fi, err = Assemble(unsampled, m)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if fi.Kind() != catalog.KindImageReadUnsampled {
		t.Fatalf("got %s, want unsampled read", fi.Category())
	}
}

func TestAssembleCopiesParameters(t *testing.T) {
	params := []types.ParamTypeInfo{f32, f32}
	fi, err := Assemble(mangle.Symbol{Name: "fmax", Params: params}, classify.Match{Category: catalog.Category{Kind: catalog.KindMath}})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	params[0] = u32
	if fi.Parameter(0) != f32 {
		t.Fatalf("descriptor aliases the decoder's slice")
	}
}

func TestAssembleFailures(t *testing.T) {
	sym := mangle.Symbol{Name: "convert_", Params: []types.ParamTypeInfo{f32}}
	fi, err := Assemble(sym, classify.Match{})
	if fi != Invalid() || !errors.Is(err, ErrNotBuiltin) {
		t.Fatalf("none category: got %v, %v", fi, err)
	}

	m := classify.Match{
		Category: catalog.Category{Kind: catalog.KindReinterpret},
		Suffix:   classify.Suffix{TypeName: "float5"},
	}
	fi, err = Assemble(mangle.Symbol{Name: "as_float5"}, m)
	var retErr *ReturnTypeError
	if fi != Invalid() || !errors.As(err, &retErr) {
		t.Fatalf("bad lanes: got %v, %v", fi, err)
	}
	if !errors.Is(err, types.ErrBadLanes) {
		t.Fatalf("ReturnTypeError should wrap the parse failure: %v", err)
	}
}

func TestUnmangledImageReadHasNoParameters(t *testing.T) {
	r := NewRegistry(nil)
	fi := r.Lookup("read_imagef")
	if !fi.IsValid() || fi.Kind() != catalog.KindImageReadUnsampled {
		t.Fatalf("got %s valid=%v, want unsampled image read", fi.Category(), fi.IsValid())
	}
	if fi.ParameterCount() != 0 || fi.Category().Format != catalog.FormatFloat {
		t.Fatalf("unexpected descriptor %s", fi)
	}
}
