package image

import (
	"image"
	"image/color"

	"gitlab.com/tinyland/lab/lantern/pkg/surface"
)

// UpperHalf is drawn with the top pixel as foreground and the bottom pixel
// as background.
const UpperHalf = '▀'

// CellsFor returns the pixel size of a square avatar that fits in a box of
// cols×rows cells at two pixels per cell row.
func CellsFor(cols, rows int) (px, cellRows int) {
	px = min(cols, rows*2)
	if px < 2 {
		return 0, 0
	}
	px -= px % 2
	return px, px / 2
}

// DrawHalfblocks paints img into g with its top-left cell at (x, y). Each
// cell shows two vertically stacked pixels. Transparent pixels keep the
// cell's existing background.
func DrawHalfblocks(g *surface.Grid, x, y int, img *image.NRGBA) {
	if img == nil {
		return
	}
	b := img.Bounds()
	for py := 0; py < b.Dy(); py += 2 {
		for px := 0; px < b.Dx(); px++ {
			c := g.At(x+px, y+py/2)
			if c == nil {
				continue
			}
			top := over(img.NRGBAAt(b.Min.X+px, b.Min.Y+py), c.BG)
			bot := c.BG
			if py+1 < b.Dy() {
				bot = over(img.NRGBAAt(b.Min.X+px, b.Min.Y+py+1), c.BG)
			}
			g.Set(x+px, y+py/2, UpperHalf, top, bot)
		}
	}
}

func over(p color.NRGBA, bg color.RGBA) color.RGBA {
	a := uint32(p.A)
	mix := func(s, d uint8) uint8 {
		return uint8((uint32(s)*a + uint32(d)*(255-a) + 127) / 255)
	}
	return color.RGBA{R: mix(p.R, bg.R), G: mix(p.G, bg.G), B: mix(p.B, bg.B), A: 255}
}
