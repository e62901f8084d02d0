// Package components provides ANSI-aware text primitives and box drawing
// onto the page grid.
package components

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// VisibleLen returns the visible width of s in terminal cells. ANSI escape
// sequences are ignored and wide characters count as two.
func VisibleLen(s string) int {
	return ansi.StringWidth(s)
}

// TruncateWithTail truncates s to at most maxWidth visible cells,
// appending tail if anything was cut. The tail counts toward maxWidth.
func TruncateWithTail(s string, maxWidth int, tail string) string {
	if maxWidth <= 0 {
		return ""
	}
	return ansi.Truncate(s, maxWidth, tail)
}

// PadCenter pads s with spaces on both sides so that it is centred within
// width. Odd padding puts the extra space on the right.
func PadCenter(s string, width int) string {
	vis := VisibleLen(s)
	if vis >= width {
		return s
	}
	total := width - vis
	left := total / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", total-left)
}

// Wrap word-wraps s at width, respecting wide characters. Words longer
// than width are broken.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	return strings.Split(ansi.Wrap(s, width, ""), "\n")
}

// Clamp wraps s to width and keeps at most lines lines, ending the last
// kept line with an ellipsis when text was dropped.
func Clamp(s string, width, lines int) []string {
	out := Wrap(s, width)
	if lines <= 0 || len(out) <= lines {
		return out
	}
	out = out[:lines]
	last := strings.TrimRight(out[lines-1], " ")
	if VisibleLen(last)+1 > width {
		last = TruncateWithTail(last, width, "…")
	} else {
		last += "…"
	}
	out[lines-1] = last
	return out
}
