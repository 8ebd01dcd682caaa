// Package histogram renders term tables as ranked bar charts and composes
// several of them into terminal layouts.
package histogram

import (
	"math"
	"strings"
)

// BarWidth is the number of cells used for every bar.
const BarWidth = 10

// glyphs holds the nine fill levels of one cell, empty through full.
var glyphs = []rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉', '█'}

const levels = 8

// Bar quantizes fraction (clamped to 0..1) into width cells of eighths.
// All cells before the single partial cell are full, all after it empty.
func Bar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	if math.IsNaN(fraction) || fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	remaining := int(math.Round(fraction * float64(width*levels)))

	var b strings.Builder
	b.Grow(width * 3)
	for i := 0; i < width; i++ {
		level := min(remaining, levels)
		remaining -= level
		b.WriteRune(glyphs[level])
	}
	return b.String()
}
