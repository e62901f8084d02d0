package components

import (
	"image/color"

	"gitlab.com/tinyland/lab/lantern/pkg/surface"
)

// BorderStyle selects which set of box-drawing characters to use.
type BorderStyle int

const (
	// BorderNone fills the box without drawing an edge.
	BorderNone BorderStyle = iota
	// BorderSingle uses single-line box-drawing characters.
	BorderSingle
	// BorderRounded uses single-line characters with rounded corners.
	BorderRounded
	// BorderDashed uses dashed box-drawing characters.
	BorderDashed
)

// borderChars: top-left, top-right, bottom-left, bottom-right,
// horizontal, vertical.
type borderChars struct {
	TopLeft, TopRight, BottomLeft, BottomRight rune
	Horizontal, Vertical                       rune
}

var borderSets = map[BorderStyle]borderChars{
	BorderSingle:  {'┌', '┐', '└', '┘', '─', '│'},
	BorderRounded: {'╭', '╮', '╰', '╯', '─', '│'},
	BorderDashed:  {'┌', '┐', '└', '┘', '┄', '┆'},
}

// BoxStyle controls the visual appearance of a drawn box.
type BoxStyle struct {
	Border BorderStyle
	Edge   color.RGBA
	FG     color.RGBA
	BG     color.RGBA
}

// DrawBox fills r with st.BG and draws its border. It returns the inner
// content rectangle. Boxes smaller than 2×2 are filled only.
func DrawBox(g *surface.Grid, r surface.Rect, st BoxStyle) surface.Rect {
	g.Fill(r, st.FG, st.BG)
	set, ok := borderSets[st.Border]
	if !ok || r.W < 2 || r.H < 2 {
		return r
	}

	x0, y0, x1, y1 := r.X, r.Y, r.X+r.W-1, r.Y+r.H-1
	for x := x0 + 1; x < x1; x++ {
		g.Set(x, y0, set.Horizontal, st.Edge, st.BG)
		g.Set(x, y1, set.Horizontal, st.Edge, st.BG)
	}
	for y := y0 + 1; y < y1; y++ {
		g.Set(x0, y, set.Vertical, st.Edge, st.BG)
		g.Set(x1, y, set.Vertical, st.Edge, st.BG)
	}
	g.Set(x0, y0, set.TopLeft, st.Edge, st.BG)
	g.Set(x1, y0, set.TopRight, st.Edge, st.BG)
	g.Set(x0, y1, set.BottomLeft, st.Edge, st.BG)
	g.Set(x1, y1, set.BottomRight, st.Edge, st.BG)

	return surface.Rect{X: r.X + 1, Y: r.Y + 1, W: r.W - 2, H: r.H - 2}
}

// Columns splits width into n columns separated by gap cells and returns
// each column's x offset and width. The remainder goes to the leftmost
// columns.
func Columns(width, n, gap int) (xs, ws []int) {
	if n <= 0 {
		return nil, nil
	}
	avail := width - gap*(n-1)
	if avail < n {
		avail = n
	}
	base, extra := avail/n, avail%n
	x := 0
	for i := 0; i < n; i++ {
		w := base
		if i < extra {
			w++
		}
		xs = append(xs, x)
		ws = append(ws, w)
		x += w + gap
	}
	return xs, ws
}

// ColumnsFor picks how many columns of at least minW cells fit in width,
// capped at maxN.
func ColumnsFor(width, minW, gap, maxN int) int {
	if minW <= 0 {
		return max(maxN, 1)
	}
	n := (width + gap) / (minW + gap)
	return max(1, min(n, maxN))
}
