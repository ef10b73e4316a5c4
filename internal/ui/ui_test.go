package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTruncate(t *testing.T) {
	if got := Truncate("convert_uchar4_sat", 10); got != "convert..." {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("abcdef", 2); got != "ab" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("abc", 0); got != "abc" {
		t.Fatalf("zero width must keep the value, got %q", got)
	}
}

func TestRenderCountsAligned(t *testing.T) {
	out := RenderCounts("categories", []Row{
		{Label: "math", Count: 1200},
		{Label: "image_read_sampled", Count: 3},
	}, 1203, 40, false)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 || lines[0] != "categories" {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if !strings.Contains(lines[1], "1,200") {
		t.Fatalf("count not grouped: %q", lines[1])
	}
	// Count columns line up.
	c1 := strings.Index(lines[1], "1,200") + len("1,200")
	c2 := strings.Index(lines[2], " 3 ") + 2
	if c1 != c2 {
		t.Fatalf("count columns misaligned:\n%s", out)
	}
	if !strings.Contains(lines[3], "total") || !strings.Contains(lines[3], "1,203") {
		t.Fatalf("unexpected total line %q", lines[3])
	}
}

func TestRenderCountsUsesFullLabelWidth(t *testing.T) {
	out := RenderCounts("categories", []Row{{Label: "image_query_channel_data_type", Count: 1}}, 1, 12, false)
	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[1], "  image_que...  ") {
		t.Fatalf("label not cut to 12 cells: %q", lines[1])
	}
}

func TestRenderCountsEmpty(t *testing.T) {
	out := RenderCounts("categories", nil, 0, 40, false)
	if !strings.Contains(out, "total") {
		t.Fatalf("missing total line:\n%s", out)
	}
}

func TestScanProgressCountsEvents(t *testing.T) {
	events := make(chan ScanEvent, 3)
	events <- ScanEvent{Symbol: "_Z3sinf", Valid: true}
	events <- ScanEvent{Symbol: "helper", Valid: false}
	close(events)

	m := NewScanProgress("scanning", 2, events).(*scanModel)
	var model tea.Model = m
	for {
		msg := m.listenForEvent()()
		model, _ = model.Update(msg)
		if _, ok := msg.(doneMsg); ok {
			break
		}
	}
	if m.done != 2 || m.valid != 1 || !m.closed {
		t.Fatalf("unexpected state done=%d valid=%d closed=%v", m.done, m.valid, m.closed)
	}
	if view := m.View(); !strings.Contains(view, "done: scanning") || !strings.Contains(view, "2/2 symbols") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}
