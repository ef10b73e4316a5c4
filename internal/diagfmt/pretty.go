package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"kernelsym/internal/diag"
)

// Pretty writes one line per diagnostic in bag order (call bag.Sort
// first):
//
//	<source>:<line>: <sev> <CODE>: <message>
//
// followed, for decode failures with ShowPreview, by the symbol with a
// caret under the failing byte.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s: %s %s: %s\n", location(d, opts.Source), severity(d.Severity, opts.Color), d.Code.ID(), message(d))
		if opts.ShowPreview && d.Offset >= 0 {
			writePreview(w, d, opts)
		}
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "... and %d more diagnostics\n", n)
	}
}

func location(d diag.Diagnostic, source string) string {
	if source == "" {
		source = "<input>"
	}
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d", source, d.Line)
	}
	return source
}

func message(d diag.Diagnostic) string {
	if d.Message == "" {
		return d.Code.Title()
	}
	return d.Message
}

func severity(s diag.Severity, useColor bool) string {
	label := strings.ToLower(s.String())
	if !useColor {
		return label
	}
	c := color.New(color.FgWhite)
	switch s {
	case diag.SevError:
		c = color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		c = color.New(color.FgYellow, color.Bold)
	}
	c.EnableColor()
	return c.Sprint(label)
}

// writePreview prints the symbol and a caret under Offset. Long symbols
// are windowed around the caret so it stays within Width.
func writePreview(w io.Writer, d diag.Diagnostic, opts PrettyOpts) {
	sym, caret := window(d.Symbol, d.Offset, opts.Width)
	marker := strings.Repeat(" ", caret) + "^"
	if opts.Color {
		c := color.New(color.FgGreen, color.Bold)
		c.EnableColor()
		marker = strings.Repeat(" ", caret) + c.Sprint("^")
	}
	fmt.Fprintf(w, "    %s\n    %s\n", sym, marker)
}

func window(sym string, offset, width int) (string, int) {
	offset = min(offset, len(sym))
	if width <= 0 || len(sym) <= width {
		return sym, offset
	}
	const ellipsis = "..."
	start := max(0, offset-width/2)
	end := min(len(sym), start+width)
	start = max(0, end-width)
	out, caret := sym[start:end], offset-start
	if start > 0 {
		out = ellipsis + out
		caret += len(ellipsis)
	}
	if end < len(sym) {
		out += ellipsis
	}
	return out, caret
}
