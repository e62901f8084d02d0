package widgets

import (
	"fmt"
	"math/rand/v2"
	"time"

	"gitlab.com/tinyland/lab/lantern/pkg/collectors/github"
	"gitlab.com/tinyland/lab/lantern/pkg/components"
	"gitlab.com/tinyland/lab/lantern/pkg/surface"
)

const (
	langDot   = "●"
	starGlyph = "★"
	forkGlyph = "⑂"

	brailleBase  = 0x2800
	brailleCount = 256
	// Scrambled glyphs change this often.
	scrambleStep = 50 * time.Millisecond
)

// DrawCards paints one card per rect in l.Cards from repos. Cards whose
// flicker flag is set on page are scrambled. It returns how many cards
// were drawn.
func DrawCards(g *surface.Grid, l Layout, repos []github.Repo, page *surface.Page, pal Palette, now time.Time) int {
	n := min(len(repos), len(l.Cards))
	for i := 0; i < n; i++ {
		inner := drawCard(g, l.Cards[i], repos[i], pal)
		g.MarkZone(l.Cards[i], CardZone(i))
		if page != nil && page.Flickering(i) {
			scramble(g, inner, pal, now, i)
		}
	}
	return n
}

func drawCard(g *surface.Grid, r surface.Rect, repo github.Repo, pal Palette) surface.Rect {
	inner := components.DrawBox(g, r, components.BoxStyle{
		Border: components.BorderRounded,
		Edge:   pal.CardBorder,
		FG:     pal.FG,
		BG:     pal.Card,
	})
	x, w := inner.X+1, inner.W-2
	if w <= 0 || inner.H <= 0 {
		return inner
	}

	g.DrawString(x, inner.Y, components.TruncateWithTail(repo.Name, w, "…"), pal.CardTitle, pal.Card, w)
	for i, line := range components.Clamp(repo.Desc(), w, inner.H-2) {
		g.DrawString(x, inner.Y+1+i, line, pal.Dim, pal.Card, w)
	}

	y := inner.Y + inner.H - 1
	used := 0
	if repo.Language != "" {
		dot := surface.MustHex(github.DefaultLanguageColor)
		if c, err := surface.ParseHex(github.LanguageColor(repo.Language)); err == nil {
			dot = c
		}
		used += g.DrawString(x, y, langDot, dot, pal.Card, w)
		used += g.DrawString(x+used, y, " "+repo.Language+"  ", pal.FG, pal.Card, w-used)
	}
	used += g.DrawString(x+used, y, starGlyph, pal.Star, pal.Card, w-used)
	used += g.DrawString(x+used, y, fmt.Sprintf(" %d  ", repo.Stars), pal.FG, pal.Card, w-used)
	g.DrawString(x+used, y, fmt.Sprintf("%s %d", forkGlyph, repo.Forks), pal.FG, pal.Card, w-used)
	return inner
}

// scramble replaces every glyph inside r with random braille. The choice
// is stable within one scrambleStep so a redraw does not reshuffle.
func scramble(g *surface.Grid, r surface.Rect, pal Palette, now time.Time, card int) {
	step := uint64(now.UnixMilli() / scrambleStep.Milliseconds())
	rnd := rand.New(rand.NewPCG(step, uint64(card)))
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			c := g.At(x, y)
			if c == nil || c.Ch == ' ' {
				continue
			}
			g.Set(x, y, rune(brailleBase+rnd.IntN(brailleCount)), pal.Scramble, c.BG)
		}
	}
}
