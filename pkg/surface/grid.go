// Package surface is the presentation surface the page and its effects
// draw on: a terminal cell grid, RGBA effect layers composited over it, and
// the Page that tracks every addressable region the effects may mutate.
package surface

import (
	"image/color"

	"github.com/mattn/go-runewidth"
)

// Cell is one terminal character cell.
type Cell struct {
	Ch   rune
	FG   color.RGBA
	BG   color.RGBA
	Zone string

	// cont marks the right half of a wide rune.
	cont bool
}

// Rect is a cell rectangle.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Grid is a fixed-size cell buffer.
type Grid struct {
	W, H  int
	Cells []Cell
}

// NewGrid returns a w×h grid filled with blank cells on bg.
func NewGrid(w, h int, fg, bg color.RGBA) *Grid {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	g := &Grid{W: w, H: h, Cells: make([]Cell, w*h)}
	for i := range g.Cells {
		g.Cells[i] = Cell{Ch: ' ', FG: fg, BG: bg}
	}
	return g
}

// At returns the cell at (x, y) or nil when out of bounds.
func (g *Grid) At(x, y int) *Cell {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return nil
	}
	return &g.Cells[y*g.W+x]
}

// Set writes a single rune. Out-of-bounds writes are dropped.
func (g *Grid) Set(x, y int, ch rune, fg, bg color.RGBA) {
	if c := g.At(x, y); c != nil {
		*c = Cell{Ch: ch, FG: fg, BG: bg, Zone: c.Zone}
	}
}

// DrawString writes s starting at (x, y), clipped to maxW cells (or the
// grid edge when maxW <= 0). Wide runes take two cells. It returns the
// number of cells written.
func (g *Grid) DrawString(x, y int, s string, fg, bg color.RGBA, maxW int) int {
	if y < 0 || y >= g.H {
		return 0
	}
	limit := g.W - x
	if maxW > 0 && maxW < limit {
		limit = maxW
	}
	used := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if used+w > limit {
			break
		}
		cx := x + used
		if c := g.At(cx, y); c != nil {
			*c = Cell{Ch: r, FG: fg, BG: bg, Zone: c.Zone}
		}
		if w == 2 {
			if c := g.At(cx+1, y); c != nil {
				*c = Cell{Ch: ' ', FG: fg, BG: bg, Zone: c.Zone, cont: true}
			}
		}
		used += w
	}
	return used
}

// Fill paints r with blank cells on bg.
func (g *Grid) Fill(r Rect, fg, bg color.RGBA) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			if c := g.At(x, y); c != nil {
				*c = Cell{Ch: ' ', FG: fg, BG: bg, Zone: c.Zone}
			}
		}
	}
}

// MarkZone tags every cell in r with a clickable zone id.
func (g *Grid) MarkZone(r Rect, id string) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			if c := g.At(x, y); c != nil {
				c.Zone = id
			}
		}
	}
}

// Row returns the text of row y without styling, for tests and logs.
func (g *Grid) Row(y int) string {
	if y < 0 || y >= g.H {
		return ""
	}
	rs := make([]rune, 0, g.W)
	for x := 0; x < g.W; x++ {
		c := g.Cells[y*g.W+x]
		if c.cont {
			continue
		}
		rs = append(rs, c.Ch)
	}
	return string(rs)
}

// ShiftX moves every row dx cells horizontally, filling the gap with bg.
func (g *Grid) ShiftX(dx int, bg color.RGBA) {
	if dx == 0 || g.W == 0 {
		return
	}
	row := make([]Cell, g.W)
	for y := 0; y < g.H; y++ {
		base := y * g.W
		copy(row, g.Cells[base:base+g.W])
		for x := 0; x < g.W; x++ {
			src := x - dx
			if src < 0 || src >= g.W {
				g.Cells[base+x] = Cell{Ch: ' ', FG: bg, BG: bg}
				continue
			}
			g.Cells[base+x] = row[src]
		}
	}
}
