package widgets

import (
	"gitlab.com/tinyland/lab/lantern/pkg/components"
	limage "gitlab.com/tinyland/lab/lantern/pkg/image"
	"gitlab.com/tinyland/lab/lantern/pkg/surface"
)

// Page geometry in cells.
const (
	margin      = 2
	avatarCols  = 12
	avatarRows  = 6
	headerRows  = avatarRows
	cardRows    = 6
	cardMinCols = 30
	cardGap     = 2
)

// Layout records where each part of the page was placed.
type Layout struct {
	Header surface.Rect
	Avatar surface.Rect
	Title  surface.Rect
	Label  surface.Rect
	Notice surface.Rect
	Cards  []surface.Rect
	Footer surface.Rect
	Pixel  surface.Rect
}

// Compute lays out a w×h page with room for up to n cards. Cards that do
// not fit above the footer are dropped.
func Compute(w, h, n int) Layout {
	var l Layout
	inner := max(w-2*margin, 0)

	l.Header = surface.Rect{X: margin, Y: 1, W: inner, H: headerRows}
	av := min(avatarCols, inner/3)
	if px, rows := limage.CellsFor(av, avatarRows); px > 0 {
		l.Avatar = surface.Rect{X: margin, Y: 1, W: px, H: rows}
	}
	l.Label = surface.Rect{X: margin, Y: l.Header.Y + l.Header.H + 1, W: inner, H: 1}
	l.Footer = surface.Rect{X: 0, Y: h - 1, W: w, H: 1}
	if w > 0 {
		l.Pixel = surface.Rect{X: w - 1, Y: h - 1, W: 1, H: 1}
	}

	top := l.Label.Y + 2
	l.Notice = surface.Rect{X: margin, Y: top, W: inner, H: 1}

	cols := components.ColumnsFor(inner, cardMinCols, cardGap, 3)
	xs, ws := components.Columns(inner, cols, cardGap)
	for i := 0; i < n; i++ {
		row, col := i/cols, i%cols
		y := top + row*(cardRows+1)
		if y+cardRows > l.Footer.Y-1 {
			break
		}
		l.Cards = append(l.Cards, surface.Rect{X: margin + xs[col], Y: y, W: ws[col], H: cardRows})
	}
	return l
}
