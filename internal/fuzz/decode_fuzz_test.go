package fuzztests

import (
	"errors"
	"testing"

	"kernelsym/internal/mangle"
)

func FuzzDecode(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, raw string) {
		sym, err := mangle.Decode(raw)
		if err != nil {
			var decErr *mangle.DecodeError
			if !errors.As(err, &decErr) {
				t.Fatalf("%q: error is not a *DecodeError: %v", raw, err)
			}
			if decErr.Offset < 0 || decErr.Offset > len(raw) {
				t.Fatalf("%q: offset %d out of range", raw, decErr.Offset)
			}
			if !decErr.Code.IsDecode() {
				t.Fatalf("%q: code %s outside the decode group", raw, decErr.Code.ID())
			}
			return
		}
		if sym.Name == "" {
			t.Fatalf("%q: decoded to an empty name", raw)
		}
		for i, p := range sym.Params {
			if verr := p.Validate(); verr != nil {
				t.Fatalf("%q: param %d invalid: %v", raw, i, verr)
			}
		}
	})
}
