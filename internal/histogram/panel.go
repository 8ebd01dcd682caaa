package histogram

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Adithya-Monish-Kumar-K/termhist/internal/indexer/index"
)

// Panel is one rendered histogram. Lines[0] is the header.
type Panel struct {
	Path  string
	Terms int
	Lines []string
}

// RenderEntry renders a header naming the entry's path followed by at most
// maxLines-1 ranked rows of "<bar> <count> <term>". Bars are scaled to the
// entry's own largest count.
func RenderEntry(entry *index.EntryData, maxLines int) Panel {
	p := Panel{
		Path:  entry.Path(),
		Terms: entry.Len(),
		Lines: []string{entry.Path() + ":"},
	}
	rows := maxLines - 1
	if rows <= 0 {
		return p
	}
	ranked := entry.TopN(rows)
	if len(ranked) == 0 {
		return p
	}
	top := float64(ranked[0].Count)
	for _, tc := range ranked {
		p.Lines = append(p.Lines, fmt.Sprintf("%s %d %s",
			Bar(float64(tc.Count)/top, BarWidth), tc.Count, tc.Term.String()))
	}
	return p
}

// widths measures display width independently of the locale, so the block
// glyphs of a bar always count as one cell.
var widths = &runewidth.Condition{EastAsianWidth: false, StrictEmojiNeutral: true}

// String joins the panel's lines.
func (p Panel) String() string {
	return strings.Join(p.Lines, "\n")
}

// Width returns the display width of the widest line.
func (p Panel) Width() int {
	widest := 0
	for _, line := range p.Lines {
		widest = max(widest, widths.StringWidth(line))
	}
	return widest
}

// compact replaces the header with the path cut from the left to the width
// of the widest row, plus one trailing space, so long paths do not decide
// the grid column width and adjacent columns keep a gutter. A panel without
// rows keeps only the space.
func (p Panel) compact() Panel {
	if len(p.Lines) == 0 {
		return p
	}
	rowWidth := 0
	for _, line := range p.Lines[1:] {
		rowWidth = max(rowWidth, widths.StringWidth(line))
	}
	lines := make([]string, len(p.Lines))
	copy(lines, p.Lines)
	lines[0] = truncateLeft(p.Path, rowWidth) + " "
	p.Lines = lines
	return p
}

// truncateLeft keeps the rightmost runes of s that fit in width cells.
func truncateLeft(s string, width int) string {
	if widths.StringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	used := 0
	start := len(runes)
	for start > 0 {
		w := widths.RuneWidth(runes[start-1])
		if used+w > width {
			break
		}
		used += w
		start--
	}
	return string(runes[start:])
}

// pad left-justifies s to width display cells.
func pad(s string, width int) string {
	if gap := width - widths.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
