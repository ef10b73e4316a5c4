package diagfmt

import (
	"encoding/json"
	"io"

	"kernelsym/internal/diag"
)

// DiagnosticJSON is one diagnostic in JSON form.
type DiagnosticJSON struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Symbol   string `json:"symbol"`
	Source   string `json:"source,omitempty"`
	Line     int    `json:"line,omitempty"`
	Offset   *int   `json:"offset,omitempty"`
}

// DiagnosticsOutput is the root of the JSON output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Dropped     int              `json:"dropped,omitempty"`
}

// BuildDiagnosticsOutput builds the JSON structure without serialising it.
func BuildDiagnosticsOutput(bag *diag.Bag, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	n := len(items)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := DiagnosticsOutput{
		Diagnostics: make([]DiagnosticJSON, 0, n),
		Dropped:     bag.Dropped() + len(items) - n,
	}
	for _, d := range items[:n] {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  message(d),
			Symbol:   d.Symbol,
			Source:   opts.Source,
			Line:     d.Line,
		}
		if d.Offset >= 0 {
			off := d.Offset
			dj.Offset = &off
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes the diagnostics as indented JSON.
func JSON(w io.Writer, bag *diag.Bag, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, opts))
}
