package surface

import (
	"image/color"
	"time"
)

// TrailGlyph is the rune drawn for a pointer-trail marker.
const TrailGlyph = '•'

// Style carries the colours Compose needs that are not stored in layers.
type Style struct {
	Trail    color.RGBA
	Blackout color.RGBA
	Shake    int
}

// Compose draws the page's effect regions onto g in stacking order: the
// ambient noise layer, trail markers, the transition overlay when active,
// blackout covers and finally the jitter offset.
func (p *Page) Compose(g *Grid, now time.Time, st Style) {
	applyLayer(g, p.noise)

	for _, m := range p.markers {
		c := g.At(m.X, m.Y)
		if c == nil {
			continue
		}
		c.Ch = TrailGlyph
		c.FG = Mix(st.Trail, c.BG, m.Age(now))
	}

	if p.overlayActive {
		applyLayer(g, p.overlay)
	}

	if len(p.blackouts) > 0 {
		g.Fill(Rect{W: g.W, H: g.H}, st.Blackout, st.Blackout)
		return
	}

	if p.shake {
		g.ShiftX(ShakeOffset(now, st.Shake), st.Blackout)
	}
}

// ShakeOffset returns the horizontal jitter for a frame at now, cycling
// through -amp, 0 and +amp every 50ms.
func ShakeOffset(now time.Time, amp int) int {
	if amp <= 0 {
		amp = 1
	}
	switch (now.UnixMilli() / 50) % 3 {
	case 0:
		return -amp
	case 1:
		return amp
	default:
		return 0
	}
}

func applyLayer(g *Grid, l *Layer) {
	if l == nil {
		return
	}
	w, h := min(g.W, l.W), min(g.H, l.H)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := l.Pix[y*l.W+x]
			if px.A == 0 {
				continue
			}
			c := &g.Cells[y*g.W+x]
			c.BG = blend(opaque(c.BG), px, BlendOver)
			c.FG = blend(opaque(c.FG), px, BlendOver)
		}
	}
}

func opaque(c color.RGBA) color.RGBA {
	c.A = 255
	return c
}
