package surface

import "image/color"

// BlendMode selects how a fill combines with existing layer pixels.
type BlendMode int

const (
	// BlendOver is ordinary source-over alpha compositing.
	BlendOver BlendMode = iota
	// BlendScreen is additive-style screen blending, used for the chromatic
	// ghosting in the transition.
	BlendScreen
)

// Layer is a straight-alpha RGBA buffer with one pixel per grid cell.
type Layer struct {
	W, H int
	Pix  []color.RGBA
}

// NewLayer returns a transparent w×h layer.
func NewLayer(w, h int) *Layer {
	l := &Layer{}
	l.Resize(w, h)
	return l
}

// Resize reallocates the layer to w×h and clears it.
func (l *Layer) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	l.W, l.H = w, h
	if cap(l.Pix) >= w*h {
		l.Pix = l.Pix[:w*h]
		l.Clear()
		return
	}
	l.Pix = make([]color.RGBA, w*h)
}

// Clear makes every pixel transparent.
func (l *Layer) Clear() {
	for i := range l.Pix {
		l.Pix[i] = color.RGBA{}
	}
}

// Empty reports whether every pixel is fully transparent.
func (l *Layer) Empty() bool {
	for _, p := range l.Pix {
		if p.A != 0 {
			return false
		}
	}
	return true
}

// At returns the pixel at (x, y); out-of-bounds reads are transparent.
func (l *Layer) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= l.W || y >= l.H {
		return color.RGBA{}
	}
	return l.Pix[y*l.W+x]
}

// Set overwrites the pixel at (x, y).
func (l *Layer) Set(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= l.W || y >= l.H {
		return
	}
	l.Pix[y*l.W+x] = c
}

// FillRect blends c over the rectangle, clipped to the layer.
func (l *Layer) FillRect(r Rect, c color.RGBA, mode BlendMode) {
	x0, y0 := max(r.X, 0), max(r.Y, 0)
	x1, y1 := min(r.X+r.W, l.W), min(r.Y+r.H, l.H)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			i := y*l.W + x
			l.Pix[i] = blend(l.Pix[i], c, mode)
		}
	}
}

// blend composites src over dst using straight alpha.
func blend(dst, src color.RGBA, mode BlendMode) color.RGBA {
	if src.A == 0 {
		return dst
	}
	sa := float64(src.A) / 255
	da := float64(dst.A) / 255
	outA := sa + da*(1-sa)
	if outA <= 0 {
		return color.RGBA{}
	}

	ch := func(s, d uint8) uint8 {
		sc := float64(s) / 255
		dc := float64(d) / 255
		mixed := sc
		if mode == BlendScreen {
			mixed = 1 - (1-sc)*(1-dc)
		}
		// Where dst is transparent, screen degenerates to the source colour.
		c := mixed*da + sc*(1-da)
		out := (c*sa + dc*da*(1-sa)) / outA
		return clamp8(out * 255)
	}

	return color.RGBA{
		R: ch(src.R, dst.R),
		G: ch(src.G, dst.G),
		B: ch(src.B, dst.B),
		A: clamp8(outA * 255),
	}
}

// Mix linearly interpolates from a to b by t in [0, 1], ignoring alpha.
func Mix(a, b color.RGBA, t float64) color.RGBA {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return color.RGBA{R: b.R, G: b.G, B: b.B, A: 255}
	}
	f := func(x, y uint8) uint8 {
		return clamp8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{R: f(a.R, b.R), G: f(a.G, b.G), B: f(a.B, b.B), A: 255}
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
