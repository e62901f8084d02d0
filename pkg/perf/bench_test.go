package perf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/lantern/pkg/banner"
	"gitlab.com/tinyland/lab/lantern/pkg/collectors/github"
	limage "gitlab.com/tinyland/lab/lantern/pkg/image"
	"gitlab.com/tinyland/lab/lantern/pkg/surface"
	"gitlab.com/tinyland/lab/lantern/pkg/terminal"
	"gitlab.com/tinyland/lab/lantern/pkg/theme"
	"gitlab.com/tinyland/lab/lantern/pkg/widgets"
)

var pfEpoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// pfMakeImage returns a w×h diagonal gradient.
func pfMakeImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / max(w-1, 1)),
				G: uint8(y * 255 / max(h-1, 1)),
				B: 0x80,
				A: 0xff,
			})
		}
	}
	return img
}

func pfMakeAvatar(tb testing.TB) *limage.Avatar {
	tb.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, pfMakeImage(256, 256)); err != nil {
		tb.Fatal(err)
	}
	a, err := limage.NewAvatar(buf.Bytes())
	if err != nil {
		tb.Fatal(err)
	}
	return a
}

// pfMakePage returns a 120×40 page carrying a full trail and two
// flickering cards, the busiest steady state the effects produce.
func pfMakePage() *surface.Page {
	p := surface.NewPage(120, 40, "Repositories")
	for i := 0; i < 20; i++ {
		p.AddMarker(10+i*3, 20, pfEpoch, 600*time.Millisecond)
	}
	p.SetCardCount(6)
	p.SetFlicker(1, true)
	p.SetFlicker(4, true)
	return p
}

func pfMakeView(tb testing.TB) widgets.View {
	return widgets.View{
		Snapshot: github.Demo("lantern"),
		User:     "lantern",
		Avatar:   pfMakeAvatar(tb),
		Footer:   "(c) 2026 lantern",
		Now:      pfEpoch.Add(150 * time.Millisecond),
	}
}

// BenchmarkPageFrame renders, composes and emits one full frame.
func BenchmarkPageFrame(b *testing.B) {
	page := pfMakePage()
	v := pfMakeView(b)
	pal := widgets.PaletteOf(theme.Get("healing"))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g, _ := widgets.Render(page, v, pal)
		page.Compose(g, v.Now, pal.Effects())
		_ = surface.Emit(g, termenv.TrueColor, nil)
	}
}

func BenchmarkEmit(b *testing.B) {
	page := pfMakePage()
	v := pfMakeView(b)
	pal := widgets.PaletteOf(theme.Get("hollow"))
	g, _ := widgets.Render(page, v, pal)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = surface.Emit(g, termenv.TrueColor, nil)
	}
}

func BenchmarkCompose(b *testing.B) {
	page := pfMakePage()
	page.SetShake(true)
	pal := widgets.PaletteOf(theme.Get("hollow"))
	g := surface.NewGrid(120, 40, pal.FG, pal.BG)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		page.Compose(g, pfEpoch, pal.Effects())
	}
}

func BenchmarkAvatarFrame(b *testing.B) {
	a := pfMakeAvatar(b)
	a.Frame(12, 12, false)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = a.Frame(12, 12, false)
	}
}

func BenchmarkAvatarPrepare(b *testing.B) {
	src := pfMakeImage(460, 460)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = limage.Prepare(src, 20, 20, i%2 == 1)
	}
}

func BenchmarkCardBanner(b *testing.B) {
	snap := github.Demo("lantern")
	a := pfMakeAvatar(b)
	opts := banner.Options{
		Preset:   banner.Standard,
		Protocol: terminal.ProtocolHalfblocks,
		Theme:    theme.Get("healing"),
		Profile:  termenv.TrueColor,
		Label:    "Repositories",
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = banner.Render(snap, a, opts)
	}
}
