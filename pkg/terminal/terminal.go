// Package terminal reports the geometry of the viewing terminal.
package terminal

import (
	"os"

	"github.com/mattn/go-isatty"
)

// Fallback geometry used when the output is not a terminal or the size
// cannot be queried.
const (
	FallbackWidth  = 80
	FallbackHeight = 40
)

// Size is a terminal geometry in character cells.
type Size struct {
	Width  int
	Height int
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Detect returns the geometry of f, or the fallback when f is not a terminal
// or the platform query fails.
func Detect(f *os.File) Size {
	if !IsTerminal(f) {
		return Size{Width: FallbackWidth, Height: FallbackHeight}
	}
	w, h, err := query(f.Fd())
	if err != nil || w <= 0 || h <= 0 {
		return Size{Width: FallbackWidth, Height: FallbackHeight}
	}
	return Size{Width: w, Height: h}
}

// Override replaces any non-zero dimension of s with the explicit value.
func (s Size) Override(width, height int) Size {
	if width > 0 {
		s.Width = width
	}
	if height > 0 {
		s.Height = height
	}
	return s
}
