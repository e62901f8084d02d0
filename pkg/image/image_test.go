package image

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"gitlab.com/tinyland/lab/lantern/pkg/surface"
	"gitlab.com/tinyland/lab/lantern/pkg/terminal"
)

func pngBytes(t *testing.T, w, h int, fill func(x, y int) color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, fill(x, y))
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode(nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("Decode(nil) = %v", err)
	}
	if _, err := Decode([]byte("not an image")); err == nil {
		t.Error("garbage should not decode")
	}
}

func TestFrameScalesAndCaches(t *testing.T) {
	data := pngBytes(t, 64, 32, func(x, y int) color.NRGBA {
		return color.NRGBA{R: uint8(x * 4), G: 100, B: 50, A: 255}
	})
	a, err := NewAvatar(data)
	if err != nil {
		t.Fatal(err)
	}
	f := a.Frame(8, 8, false)
	if f.Bounds().Dx() != 8 || f.Bounds().Dy() != 8 {
		t.Fatalf("frame is %v", f.Bounds())
	}
	if a.Frame(8, 8, false) != f {
		t.Error("same size should hit the frame cache")
	}
	if a.Frame(0, 8, false) != nil {
		t.Error("empty size should give nil")
	}
}

func TestAlternateFrameIsGray(t *testing.T) {
	data := pngBytes(t, 16, 16, func(x, y int) color.NRGBA {
		return color.NRGBA{R: 220, G: 40, B: 90, A: 255}
	})
	a, err := NewAvatar(data)
	if err != nil {
		t.Fatal(err)
	}
	f := a.Frame(4, 4, true)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			p := f.NRGBAAt(x, y)
			if p.R != p.G || p.G != p.B {
				t.Fatalf("pixel (%d,%d) = %v is not gray", x, y, p)
			}
		}
	}
}

func TestCropToAspect(t *testing.T) {
	wide := cropToAspect(image.Rect(0, 0, 100, 50), 1, 1)
	if wide != image.Rect(25, 0, 75, 50) {
		t.Errorf("wide crop = %v", wide)
	}
	tall := cropToAspect(image.Rect(0, 0, 40, 100), 2, 1)
	if tall != image.Rect(0, 40, 40, 60) {
		t.Errorf("tall crop = %v", tall)
	}
	sq := image.Rect(0, 0, 10, 10)
	if cropToAspect(sq, 3, 3) != sq {
		t.Error("matching aspect should not crop")
	}
}

func TestCellsFor(t *testing.T) {
	cases := []struct{ cols, rows, px, cellRows int }{
		{20, 5, 10, 5},
		{7, 10, 6, 3},
		{1, 1, 0, 0},
	}
	for _, c := range cases {
		px, r := CellsFor(c.cols, c.rows)
		if px != c.px || r != c.cellRows {
			t.Errorf("CellsFor(%d,%d) = %d,%d want %d,%d", c.cols, c.rows, px, r, c.px, c.cellRows)
		}
	}
}

func TestDrawHalfblocks(t *testing.T) {
	bg := color.RGBA{0, 0, 0, 255}
	g := surface.NewGrid(4, 2, bg, bg)
	img := image.NewNRGBA(image.Rect(0, 0, 2, 3))
	red := color.NRGBA{255, 0, 0, 255}
	blue := color.NRGBA{0, 0, 255, 255}
	img.SetNRGBA(0, 0, red)
	img.SetNRGBA(0, 1, blue)
	img.SetNRGBA(1, 0, color.NRGBA{}) // transparent
	img.SetNRGBA(0, 2, red)

	DrawHalfblocks(g, 1, 0, img)

	c := g.At(1, 0)
	if c.Ch != UpperHalf || c.FG != (color.RGBA{255, 0, 0, 255}) || c.BG != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("cell (1,0) = %+v", *c)
	}
	if g.At(2, 0).FG != bg {
		t.Errorf("transparent pixel should show the background, got %v", g.At(2, 0).FG)
	}
	last := g.At(1, 1)
	if last.FG != (color.RGBA{255, 0, 0, 255}) || last.BG != bg {
		t.Errorf("odd last row should use background below, got %+v", *last)
	}
	if g.At(0, 0).Ch != ' ' {
		t.Error("cells left of the image are untouched")
	}
}

func TestInlineRejectsHalfblocks(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	if _, err := Inline(img, terminal.ProtocolHalfblocks, 2, 1); err == nil {
		t.Error("halfblocks is not inline")
	}
	if _, err := Inline(nil, terminal.ProtocolKitty, 2, 1); err == nil {
		t.Error("nil image should error")
	}
}
