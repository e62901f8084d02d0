package surface

import (
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
	epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
)

func TestGridDrawStringClips(t *testing.T) {
	g := NewGrid(5, 1, white, black)
	n := g.DrawString(1, 0, "hello world", white, black, 0)
	assert.Equal(t, 4, n)
	assert.Equal(t, " hell", g.Row(0))

	n = g.DrawString(0, 0, "abc", white, black, 2)
	assert.Equal(t, 2, n)
	assert.Equal(t, "abell", g.Row(0))

	assert.Zero(t, g.DrawString(0, 3, "x", white, black, 0), "out-of-range row")
}

func TestGridWideRunes(t *testing.T) {
	g := NewGrid(4, 1, white, black)
	n := g.DrawString(0, 0, "日本語", white, black, 0)
	assert.Equal(t, 4, n, "third rune does not fit")
	assert.Equal(t, "日本", g.Row(0))
}

func TestGridZonesSurviveDrawing(t *testing.T) {
	g := NewGrid(6, 2, white, black)
	g.MarkZone(Rect{X: 1, Y: 0, W: 3, H: 1}, "title")
	g.DrawString(0, 0, "abcdef", white, black, 0)
	assert.Equal(t, "", g.At(0, 0).Zone)
	assert.Equal(t, "title", g.At(1, 0).Zone)
	assert.Equal(t, "title", g.At(3, 0).Zone)
	assert.Equal(t, "", g.At(4, 0).Zone)
	assert.Nil(t, g.At(6, 0))
}

func TestGridShiftX(t *testing.T) {
	g := NewGrid(4, 1, white, black)
	g.DrawString(0, 0, "abcd", white, black, 0)
	g.ShiftX(1, black)
	assert.Equal(t, " abc", g.Row(0))
	g.ShiftX(-2, black)
	assert.Equal(t, "bc  ", g.Row(0))
}

func TestLayerFillRectClips(t *testing.T) {
	l := NewLayer(3, 3)
	require.True(t, l.Empty())

	red := color.RGBA{255, 0, 0, 255}
	l.FillRect(Rect{X: -1, Y: 2, W: 10, H: 10}, red, BlendOver)
	assert.Equal(t, red, l.At(0, 2))
	assert.Equal(t, red, l.At(2, 2))
	assert.Equal(t, color.RGBA{}, l.At(0, 1))
	assert.False(t, l.Empty())

	l.Clear()
	assert.True(t, l.Empty())
}

func TestBlendScreenBrightens(t *testing.T) {
	dst := color.RGBA{100, 100, 100, 255}
	over := blend(dst, color.RGBA{0, 255, 0, 128}, BlendOver)
	screen := blend(dst, color.RGBA{0, 255, 0, 128}, BlendScreen)

	assert.Equal(t, uint8(255), screen.A)
	assert.GreaterOrEqual(t, screen.R, over.R, "screen never darkens")
	assert.GreaterOrEqual(t, screen.R, dst.R)
	assert.Greater(t, screen.G, dst.G)
}

func TestBlendOntoTransparentKeepsSource(t *testing.T) {
	src := color.RGBA{10, 20, 30, 200}
	assert.Equal(t, src, blend(color.RGBA{}, src, BlendScreen))
	assert.Equal(t, src, blend(color.RGBA{}, src, BlendOver))
}

func TestPageSubscriptions(t *testing.T) {
	p := NewPage(10, 5, "Repositories")

	var sizes [][2]int
	unsub := p.OnResize(func(w, h int) { sizes = append(sizes, [2]int{w, h}) })
	p.Resize(20, 6)
	p.Resize(20, 6)
	assert.Equal(t, [][2]int{{20, 6}}, sizes, "unchanged size is not an event")

	unsub()
	unsub()
	p.Resize(1, 1)
	assert.Len(t, sizes, 1)

	moves := 0
	stop := p.OnPointerMove(func(int, int) { moves++ })
	p.PointerMove(1, 1)
	stop()
	p.PointerMove(2, 2)
	assert.Equal(t, 1, moves)
	assert.Zero(t, p.Audit().PointerSubs)
	assert.Zero(t, p.Audit().ResizeSubs)
}

func TestPageMarkers(t *testing.T) {
	p := NewPage(10, 5, "")
	a := p.AddMarker(1, 1, epoch, time.Second)
	b := p.AddMarker(2, 2, epoch, time.Second)

	oldest, ok := p.OldestMarker()
	require.True(t, ok)
	assert.Equal(t, a.ID, oldest.ID)

	assert.True(t, p.RemoveMarker(a.ID))
	assert.False(t, p.RemoveMarker(a.ID))
	assert.Equal(t, 1, p.MarkerCount())
	assert.Equal(t, b.ID, p.Markers()[0].ID)

	assert.InDelta(t, 0.5, b.Age(epoch.Add(500*time.Millisecond)), 1e-9)
	assert.Equal(t, 1.0, b.Age(epoch.Add(time.Hour)))

	p.ClearMarkers()
	_, ok = p.OldestMarker()
	assert.False(t, ok)
}

func TestPageFlickerDropsVanishedCards(t *testing.T) {
	p := NewPage(10, 5, "")
	p.SetCardCount(6)
	p.SetFlicker(1, true)
	p.SetFlicker(5, true)
	p.SetCardCount(3)
	assert.True(t, p.Flickering(1))
	assert.False(t, p.Flickering(5))
	p.ClearFlicker()
	assert.Zero(t, p.Audit().Flickers)
}

func TestPageAuditBaseline(t *testing.T) {
	p := NewPage(8, 4, "Repositories")
	base := p.Audit()

	p.AddClass(ClassAlternate)
	prev := p.SetLabel("Remnants")
	id := p.AddBlackout()
	p.SetShake(true)
	p.ActivateOverlay().FillRect(Rect{W: 8, H: 4}, white, BlendOver)
	p.Noise().Resize(8, 4)
	p.Noise().Set(0, 0, white)
	assert.NotEqual(t, base, p.Audit())

	p.RemoveClass(ClassAlternate)
	p.SetLabel(prev)
	assert.True(t, p.RemoveBlackout(id))
	assert.False(t, p.RemoveBlackout(id))
	p.SetShake(false)
	p.DeactivateOverlay()
	p.Noise().Clear()
	assert.Equal(t, base, p.Audit())
}

func TestComposeStacking(t *testing.T) {
	p := NewPage(4, 2, "")
	g := NewGrid(4, 2, white, black)
	trail := color.RGBA{255, 0, 51, 255}

	p.AddMarker(1, 0, epoch, time.Second)
	p.Compose(g, epoch, Style{Trail: trail, Blackout: black})
	assert.Equal(t, TrailGlyph, g.At(1, 0).Ch)
	assert.Equal(t, trail, g.At(1, 0).FG, "fresh marker is full colour")

	g = NewGrid(4, 2, white, black)
	p.Compose(g, epoch.Add(time.Second), Style{Trail: trail, Blackout: black})
	assert.Equal(t, black, g.At(1, 0).FG, "decayed marker fades to background")

	p.AddBlackout()
	g = NewGrid(4, 2, white, black)
	g.DrawString(0, 1, "abcd", white, black, 0)
	p.Compose(g, epoch, Style{Trail: trail, Blackout: black})
	assert.Equal(t, "    ", g.Row(1))
}

func TestComposeOverlayOnlyWhenActive(t *testing.T) {
	p := NewPage(2, 1, "")
	red := color.RGBA{255, 0, 0, 255}
	p.Overlay().Resize(2, 1)
	p.Overlay().Set(0, 0, red)

	g := NewGrid(2, 1, white, black)
	p.Compose(g, epoch, Style{})
	assert.Equal(t, black, g.At(0, 0).BG)

	p.ActivateOverlay().Set(0, 0, red)
	p.Compose(g, epoch, Style{})
	assert.Equal(t, red, g.At(0, 0).BG)
}

func TestShakeOffsetCycles(t *testing.T) {
	seen := map[int]bool{}
	for i := 0; i < 6; i++ {
		seen[ShakeOffset(epoch.Add(time.Duration(i)*50*time.Millisecond), 1)] = true
	}
	assert.Equal(t, map[int]bool{-1: true, 0: true, 1: true}, seen)
}

func TestEmitExactWidth(t *testing.T) {
	g := NewGrid(5, 3, white, black)
	g.DrawString(0, 0, "ab日", white, black, 0)
	g.DrawString(2, 1, "x日", white, black, 0)
	g.DrawString(0, 2, "日本", white, black, 0)
	g.ShiftX(1, black)

	rows := strings.Split(Emit(g, termenv.Ascii, nil), "\n")
	require.Len(t, rows, 3)
	assert.Equal(t, " ab日", rows[0])
	assert.Equal(t, "   x ", rows[1], "wide rune pushed to the edge loses its tail")
	assert.Equal(t, " 日本", rows[2])

	g.ShiftX(-2, black)
	rows = strings.Split(Emit(g, termenv.Ascii, nil), "\n")
	assert.Equal(t, " 本  ", rows[2], "orphaned tail becomes a space")
	for _, r := range rows {
		assert.Equal(t, 5, runewidth.StringWidth(r), "row %q", r)
	}
}

func TestEmitMarksZones(t *testing.T) {
	g := NewGrid(6, 1, white, black)
	g.DrawString(0, 0, "abcdef", white, black, 0)
	g.MarkZone(Rect{X: 2, Y: 0, W: 2, H: 1}, "title")

	out := Emit(g, termenv.Ascii, func(id, s string) string { return "[" + id + ":" + s + "]" })
	assert.Equal(t, "ab[title:cd]ef", out)
}

func TestEmitTrueColor(t *testing.T) {
	g := NewGrid(1, 1, white, color.RGBA{255, 0, 51, 255})
	out := Emit(g, termenv.TrueColor, nil)
	assert.Contains(t, out, "48;2;255;0;51")
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#ff0033")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{255, 0, 51, 255}, c)

	c, err = ParseHex("0f0")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, c)

	_, err = ParseHex("#12345")
	assert.Error(t, err)
	_, err = ParseHex("#zzzzzz")
	assert.Error(t, err)

	assert.Equal(t, "#ff0033", Hex(color.RGBA{255, 0, 51, 255}))
}
