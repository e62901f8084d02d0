package widgets

import (
	"gitlab.com/tinyland/lab/lantern/pkg/components"
	limage "gitlab.com/tinyland/lab/lantern/pkg/image"
	"gitlab.com/tinyland/lab/lantern/pkg/surface"
)

// Header is the profile block content.
type Header struct {
	Login  string
	Bio    string
	Avatar *limage.Avatar
	// Status is shown dimmed under the bio, e.g. a loading spinner or a
	// stale-data note.
	Status string
}

// DrawHeader paints the header into l.Header and marks the login as the
// title zone. It returns the title rectangle.
func DrawHeader(g *surface.Grid, l Layout, h Header, pal Palette, alternate bool) surface.Rect {
	g.Fill(l.Header, pal.FG, pal.BG)

	textX := l.Header.X
	if l.Avatar.W > 0 {
		if h.Avatar != nil {
			limage.DrawHalfblocks(g, l.Avatar.X, l.Avatar.Y, h.Avatar.Frame(l.Avatar.W, l.Avatar.H*2, alternate))
		} else {
			g.Fill(l.Avatar, pal.Dim, pal.CardBorder)
		}
		textX = l.Avatar.X + l.Avatar.W + 2
	}
	textW := l.Header.X + l.Header.W - textX
	if textW <= 0 {
		return surface.Rect{}
	}

	y := l.Header.Y + 1
	n := g.DrawString(textX, y, h.Login, pal.Title, pal.BG, textW)
	title := surface.Rect{X: textX, Y: y, W: n, H: 1}
	if n > 0 {
		g.MarkZone(title, ZoneTitle)
	}

	y += 2
	for _, line := range components.Clamp(h.Bio, textW, 2) {
		g.DrawString(textX, y, line, pal.FG, pal.BG, textW)
		y++
	}
	if h.Status != "" && y < l.Header.Y+l.Header.H {
		g.DrawString(textX, y, components.TruncateWithTail(h.Status, textW, "…"), pal.Dim, pal.BG, textW)
	}
	return title
}
