package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	load := tm.Begin("load")
	tm.End(load, "embedded")
	scan := tm.Begin("scan")
	tm.End(scan, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("got %d phases, want 2", len(r.Phases))
	}
	if r.Phases[0].Name != "load" || r.Phases[0].Note != "embedded" {
		t.Fatalf("unexpected first phase %+v", r.Phases[0])
	}
	if r.TotalMS < r.Phases[0].DurationMS {
		t.Fatalf("total %f smaller than a phase", r.TotalMS)
	}
	s := tm.Summary()
	for _, want := range []string{"timings:", "load", "(embedded)", "scan", "total"} {
		if !strings.Contains(s, want) {
			t.Fatalf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestEmptyTimer(t *testing.T) {
	r := NewTimer().Report()
	if r.TotalMS != 0 || len(r.Phases) != 0 {
		t.Fatalf("unexpected report %+v", r)
	}
}
