package histogram

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/termhist/pkg/errors"
)

func TestParseStyle(t *testing.T) {
	tests := []struct {
		name string
		want Style
	}{
		{"stacked", Stacked},
		{"vert", Stacked},
		{"tabular", Tabular},
		{"hori", Tabular},
		{"grid", Grid},
		{"GRID", Grid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStyle(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseStyle("diagonal")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidStyle))
	assert.Equal(t, apperrors.ExitUsage, apperrors.ExitCode(err))
}

func TestMaxLines(t *testing.T) {
	assert.Equal(t, 6, Layout{Height: 40, Capped: true}.MaxLines(5))
	assert.Equal(t, 40, Layout{Height: 40}.MaxLines(5))
}

func TestWriteStacked(t *testing.T) {
	var buf bytes.Buffer
	panels := []Panel{
		{Path: "a", Lines: []string{"a:", "row"}},
		{Path: "b", Lines: []string{"b:"}},
	}
	require.NoError(t, WriteStacked(&buf, panels))
	assert.Equal(t, "a:\nrow\n\nb:\n\n", buf.String())
}

func row20(label string) string {
	return label + strings.Repeat("x", 20-len(label))
}

func TestWriteGridFourColumns(t *testing.T) {
	var panels []Panel
	for _, name := range []string{"p1", "p2", "p3", "p4"} {
		panels = append(panels, Panel{Path: name, Terms: 1, Lines: []string{name + ":", row20(name)}})
	}
	var buf bytes.Buffer
	require.NoError(t, WriteGrid(&buf, panels, 80, false))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, pad("p1 ", 20)+pad("p2 ", 20)+pad("p3 ", 20)+pad("p4 ", 20), lines[0])
	assert.Equal(t, row20("p1")+row20("p2")+row20("p3")+row20("p4"), lines[1])
}

func TestWriteGridWraps(t *testing.T) {
	var panels []Panel
	for _, name := range []string{"p1", "p2", "p3", "p4", "p5"} {
		panels = append(panels, Panel{Path: name, Terms: 1, Lines: []string{name + ":", row20(name)}})
	}
	var buf bytes.Buffer
	require.NoError(t, WriteGrid(&buf, panels, 80, false))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, pad("p5 ", 20), lines[2])
	assert.Equal(t, row20("p5"), lines[3])
}

func TestWriteGridFallsBackToStacked(t *testing.T) {
	wide := strings.Repeat("y", 45)
	panels := []Panel{
		{Path: "a", Terms: 1, Lines: []string{"a:", wide}},
		{Path: "b", Terms: 1, Lines: []string{"b:", "short"}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteGrid(&buf, panels, 80, false))
	assert.Equal(t, "a \n"+wide+"\nb \nshort\n", buf.String())
}

func TestWriteGridAbsentCellsKeepAlignment(t *testing.T) {
	panels := []Panel{
		{Path: "a", Terms: 0, Lines: []string{"a:"}},
		{Path: "b", Terms: 1, Lines: []string{"b:", "0123456789"}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteGrid(&buf, panels, 80, false))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, pad(" ", 10)+pad("b ", 10), lines[0])
	assert.Equal(t, strings.Repeat(" ", 10)+"0123456789", lines[1])
}

func TestWriteGridDensestFirst(t *testing.T) {
	panels := []Panel{
		{Path: "sparse", Terms: 1, Lines: []string{"sparse:", "0123456789"}},
		{Path: "dense", Terms: 3, Lines: []string{"dense:", "abcdefghij"}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteGrid(&buf, panels, 80, true))
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.True(t, strings.HasPrefix(first, "dense "), first)

	buf.Reset()
	require.NoError(t, WriteGrid(&buf, panels, 80, false))
	first = strings.SplitN(buf.String(), "\n", 2)[0]
	assert.True(t, strings.HasPrefix(first, "sparse "), first)
}

func TestWriteGridEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGrid(&buf, nil, 80, true))
	assert.Empty(t, buf.String())
}

func TestWriteTabular(t *testing.T) {
	e1 := entry("left", map[string]int{"apple": 3, "banana": 1})
	e2 := entry("right", map[string]int{"cherry": 2})
	panels := []Panel{RenderEntry(e1, 10), RenderEntry(e2, 10)}

	var buf bytes.Buffer
	require.NoError(t, WriteTabular(&buf, panels))
	out := buf.String()

	for _, want := range []string{"┌", "┘", "│", "left:", "right:", "3 apple", "1 banana", "2 cherry"} {
		assert.Contains(t, out, want)
	}
	// tallest panel (3 lines) plus top and bottom border
	assert.Len(t, strings.Split(strings.TrimSuffix(out, "\n"), "\n"), 5)

	var again bytes.Buffer
	require.NoError(t, WriteTabular(&again, panels))
	assert.Equal(t, out, again.String())
}

func TestComposeDispatch(t *testing.T) {
	panels := []Panel{{Path: "a", Lines: []string{"a:", "row"}}}

	var stacked, viaLayout bytes.Buffer
	require.NoError(t, WriteStacked(&stacked, panels))
	require.NoError(t, Layout{Style: Stacked, Width: 80, Height: 40}.Compose(&viaLayout, panels))
	assert.Equal(t, stacked.String(), viaLayout.String())

	var grid bytes.Buffer
	require.NoError(t, Layout{Style: Grid, Width: 80, Height: 40}.Compose(&grid, panels))
	assert.Equal(t, "a  \nrow\n", grid.String())
}

func barPanels(names ...string) []Panel {
	var panels []Panel
	for _, name := range names {
		panels = append(panels, RenderEntry(entry(name, map[string]int{"alpha": 4, "beta": 1}), 10))
	}
	return panels
}

func TestWriteGridIgnoresAmbiguousWidthLocale(t *testing.T) {
	prev := runewidth.DefaultCondition.EastAsianWidth
	runewidth.DefaultCondition.EastAsianWidth = true
	t.Cleanup(func() { runewidth.DefaultCondition.EastAsianWidth = prev })
	require.Equal(t, 2, runewidth.StringWidth("█"), "block glyphs count double under a CJK locale")

	var buf bytes.Buffer
	require.NoError(t, WriteGrid(&buf, barPanels("p1", "p2", "p3", "p4"), 80, false))

	top := "██████████ 4 alpha"
	low := "██▌        1 beta "
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, pad("p1 ", 18)+pad("p2 ", 18)+pad("p3 ", 18)+pad("p4 ", 18), lines[0])
	assert.Equal(t, strings.Repeat(top, 4), lines[1])
	assert.Equal(t, strings.Repeat(low, 4), lines[2])
}

func TestWriteGridEmptyPanelWithLongPath(t *testing.T) {
	empty := Panel{Path: "/" + strings.Repeat("deep/", 12) + "root", Lines: []string{"/" + strings.Repeat("deep/", 12) + "root:"}}
	panels := append([]Panel{empty}, barPanels("p1")...)

	var buf bytes.Buffer
	require.NoError(t, WriteGrid(&buf, panels, 80, false))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3, "empty panel must not force the stacked fallback")
	assert.Equal(t, pad(" ", 18)+pad("p1 ", 18), lines[0])
	assert.Equal(t, strings.Repeat(" ", 18)+"██████████ 4 alpha", lines[1])
}
