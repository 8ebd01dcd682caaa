package histogram

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	apperrors "github.com/Adithya-Monish-Kumar-K/termhist/pkg/errors"
)

// Style selects how panels are composed.
type Style int

const (
	Stacked Style = iota
	Tabular
	Grid
)

func (s Style) String() string {
	switch s {
	case Stacked:
		return "stacked"
	case Tabular:
		return "tabular"
	case Grid:
		return "grid"
	default:
		return fmt.Sprintf("style(%d)", int(s))
	}
}

// ParseStyle accepts the style names and their short aliases vert and hori.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "stacked", "vert":
		return Stacked, nil
	case "tabular", "hori":
		return Tabular, nil
	case "grid":
		return Grid, nil
	}
	return Stacked, apperrors.Newf(apperrors.ErrInvalidStyle, apperrors.ExitUsage,
		"%q (want stacked, tabular or grid)", name)
}

// Layout composes panels for a terminal of Width x Height cells. Capped
// records whether the row count was given explicitly; without it grid
// panels are ordered densest first.
type Layout struct {
	Style  Style
	Width  int
	Height int
	Capped bool
}

// MaxLines is the per-panel line budget: count rows plus a header when a
// count was given, otherwise the terminal height.
func (l Layout) MaxLines(count int) int {
	if l.Capped && count > 0 {
		return count + 1
	}
	return l.Height
}

func (l Layout) Compose(w io.Writer, panels []Panel) error {
	switch l.Style {
	case Tabular:
		return WriteTabular(w, panels)
	case Grid:
		return WriteGrid(w, panels, l.Width, !l.Capped)
	default:
		return WriteStacked(w, panels)
	}
}

// WriteStacked prints each panel followed by a blank line.
func WriteStacked(w io.Writer, panels []Panel) error {
	for _, p := range panels {
		if _, err := fmt.Fprintf(w, "%s\n\n", p.String()); err != nil {
			return fmt.Errorf("writing panel %s: %w", p.Path, err)
		}
	}
	return nil
}

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// WriteTabular prints the panels side by side as the columns of one
// bordered table row.
func WriteTabular(w io.Writer, panels []Panel) error {
	if len(panels) == 0 {
		return nil
	}
	cells := make([]string, len(panels))
	for i, p := range panels {
		cells[i] = p.String()
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle }).
		Row(cells...)
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	return nil
}

// WriteGrid packs panels into as many columns as fit width, each column as
// wide as the widest line of any panel. When that line exceeds half the
// width the panels are printed one after another instead.
func WriteGrid(w io.Writer, panels []Panel, width int, densestFirst bool) error {
	if len(panels) == 0 {
		return nil
	}
	cells := make([]Panel, len(panels))
	for i, p := range panels {
		cells[i] = p.compact()
	}
	if densestFirst {
		sort.SliceStable(cells, func(i, j int) bool {
			return cells[i].Terms > cells[j].Terms
		})
	}

	longest, tallest := 0, 0
	for _, p := range cells {
		longest = max(longest, p.Width())
		tallest = max(tallest, len(p.Lines))
	}
	if longest == 0 || longest > width/2 {
		for _, p := range cells {
			if _, err := fmt.Fprintln(w, p.String()); err != nil {
				return fmt.Errorf("writing panel %s: %w", p.Path, err)
			}
		}
		return nil
	}

	columns := width / longest
	rows := (len(cells) + columns - 1) / columns
	for row := 0; row < rows; row++ {
		for line := 0; line < tallest; line++ {
			var b strings.Builder
			pending := 0
			for col := 0; col < columns; col++ {
				idx := row*columns + col
				if idx >= len(cells) || line >= len(cells[idx].Lines) {
					pending++
					continue
				}
				// keep later columns aligned under absent cells
				b.WriteString(strings.Repeat(" ", pending*longest))
				pending = 0
				b.WriteString(pad(cells[idx].Lines[line], longest))
			}
			if b.Len() == 0 {
				continue
			}
			b.WriteByte('\n')
			if _, err := io.WriteString(w, b.String()); err != nil {
				return fmt.Errorf("writing grid row: %w", err)
			}
		}
	}
	return nil
}
