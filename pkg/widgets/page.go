package widgets

import (
	"time"

	"gitlab.com/tinyland/lab/lantern/pkg/collectors/github"
	"gitlab.com/tinyland/lab/lantern/pkg/components"
	limage "gitlab.com/tinyland/lab/lantern/pkg/image"
	"gitlab.com/tinyland/lab/lantern/pkg/surface"
)

// Loading is the bio text before the first snapshot arrives.
const Loading = "Loading..."

// View is everything Render needs for one frame.
type View struct {
	Snapshot  *github.Snapshot
	User      string
	Avatar    *limage.Avatar
	Footer    string
	Status    string
	Alternate bool
	Now       time.Time
}

// Render draws the whole page for page's current size and label, records
// the card count on page, and returns the layout used.
func Render(page *surface.Page, v View, pal Palette) (*surface.Grid, Layout) {
	w, h := page.Size()
	g := surface.NewGrid(w, h, pal.FG, pal.BG)

	var repos []github.Repo
	hdr := Header{Login: v.User, Bio: Loading, Avatar: v.Avatar, Status: v.Status}
	notice := ""
	if s := v.Snapshot; s != nil {
		repos = s.Repos
		hdr.Login = s.Login()
		hdr.Bio = s.Bio()
		notice = s.Notice()
	}

	l := Compute(w, h, len(repos))
	l.Title = DrawHeader(g, l, hdr, pal, v.Alternate)

	g.DrawString(l.Label.X, l.Label.Y, page.Label(), pal.Label, pal.BG, l.Label.W)

	if notice != "" {
		g.DrawString(l.Notice.X, l.Notice.Y, notice, pal.Dim, pal.BG, l.Notice.W)
	}
	page.SetCardCount(DrawCards(g, l, repos, page, pal, v.Now))

	DrawFooter(g, l, v.Footer, pal)
	return g, l
}

// DrawFooter centres text on the footer row and places the hidden pixel
// in the bottom-right cell.
func DrawFooter(g *surface.Grid, l Layout, text string, pal Palette) {
	if l.Footer.W <= 0 || l.Footer.Y < 0 {
		return
	}
	g.Fill(l.Footer, pal.Dim, pal.BG)
	line := components.PadCenter(components.TruncateWithTail(text, l.Footer.W-2, "…"), l.Footer.W-2)
	g.DrawString(1, l.Footer.Y, line, pal.Dim, pal.BG, l.Footer.W-2)

	if l.Pixel.W > 0 {
		// Nearly background, so it only shows to someone looking for it.
		g.Set(l.Pixel.X, l.Pixel.Y, '.', surface.Mix(pal.BG, pal.Dim, 0.08), pal.BG)
		g.MarkZone(l.Pixel, ZonePixel)
	}
}
