package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Row is one line of a count table.
type Row struct {
	Label string
	Count int
}

const barWidth = 20

var counts = message.NewPrinter(language.English)

// RenderCounts renders rows as an aligned table with a share column and a
// bar. Labels wider than maxLabel are truncated; color enables lipgloss
// styling.
func RenderCounts(title string, rows []Row, total, maxLabel int, color bool) string {
	headStyle := lipgloss.NewStyle()
	barStyle := lipgloss.NewStyle()
	if color {
		headStyle = headStyle.Bold(true)
		barStyle = barStyle.Foreground(lipgloss.Color("6"))
	}

	labelWidth := runewidth.StringWidth("total")
	countWidth := len(counts.Sprintf("%d", total))
	for _, r := range rows {
		labelWidth = max(labelWidth, runewidth.StringWidth(Truncate(r.Label, maxLabel)))
		countWidth = max(countWidth, len(counts.Sprintf("%d", r.Count)))
	}

	var b strings.Builder
	b.WriteString(headStyle.Render(title))
	b.WriteByte('\n')
	for _, r := range rows {
		label := Truncate(r.Label, maxLabel)
		share := 0.0
		if total > 0 {
			share = float64(r.Count) / float64(total)
		}
		fmt.Fprintf(&b, "  %s  %*s  %5.1f%%  %s\n",
			padRight(label, labelWidth),
			countWidth, counts.Sprintf("%d", r.Count),
			share*100,
			barStyle.Render(strings.Repeat("#", int(share*barWidth+0.5))))
	}
	fmt.Fprintf(&b, "  %s  %*s\n", headStyle.Render(padRight("total", labelWidth)), countWidth, counts.Sprintf("%d", total))
	return b.String()
}

func padRight(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// Truncate shortens value to width display cells, marking the cut with "...".
func Truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
