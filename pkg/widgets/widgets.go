// Package widgets draws the landing page onto a surface grid: the profile
// header, the repository card grid, the section label and the footer.
// Effect layers are composited on top afterwards by surface.Page.
package widgets

import (
	"fmt"
	"image/color"

	"gitlab.com/tinyland/lab/lantern/pkg/surface"
	"gitlab.com/tinyland/lab/lantern/pkg/theme"
)

// Zone ids for the clickable regions.
const (
	ZoneTitle = "lantern-title"
	ZonePixel = "lantern-pixel"
)

// CardZone returns the zone id of card i.
func CardZone(i int) string { return fmt.Sprintf("lantern-card-%d", i) }

// CardIndex parses a card zone id. It reports false for other zones.
func CardIndex(zone string) (int, bool) {
	var i int
	if _, err := fmt.Sscanf(zone, "lantern-card-%d", &i); err != nil {
		return 0, false
	}
	return i, true
}

// Palette is a theme resolved to colours.
type Palette struct {
	BG, FG, Dim, Accent                       color.RGBA
	Title, Label, Card, CardBorder, CardTitle color.RGBA
	Star, Trail, Blackout, Scramble           color.RGBA
	HelpKey, HelpDesc                         color.RGBA
}

// PaletteOf resolves t. Malformed entries fall back to the healing theme's
// colour for the same slot.
func PaletteOf(t theme.Theme) Palette {
	base := theme.Get("healing")
	c := func(v, fallback string) color.RGBA {
		if rgba, err := surface.ParseHex(v); err == nil {
			return rgba
		}
		return surface.MustHex(fallback)
	}
	return Palette{
		BG:         c(t.Background, base.Background),
		FG:         c(t.Foreground, base.Foreground),
		Dim:        c(t.Dim, base.Dim),
		Accent:     c(t.Accent, base.Accent),
		Title:      c(t.Title, base.Title),
		Label:      c(t.Label, base.Label),
		Card:       c(t.Card, base.Card),
		CardBorder: c(t.CardBorder, base.CardBorder),
		CardTitle:  c(t.CardTitle, base.CardTitle),
		Star:       c(t.Star, base.Star),
		Trail:      c(t.Trail, base.Trail),
		Blackout:   c(t.Blackout, base.Blackout),
		Scramble:   c(t.Scramble, base.Scramble),
		HelpKey:    c(t.HelpKey, base.HelpKey),
		HelpDesc:   c(t.HelpDesc, base.HelpDesc),
	}
}

// Effects returns the colours surface.Page.Compose needs.
func (p Palette) Effects() surface.Style {
	return surface.Style{Trail: p.Trail, Blackout: p.Blackout, Shake: 1}
}
