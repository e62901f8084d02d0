// Package starship renders a one-line summary of the cached GitHub profile
// for use as a starship custom module:
//
//	[custom.lantern]
//	command = "lantern -prompt"
//	when = true
//
// It never touches the network; an empty line means nothing is cached.
package starship

import (
	"fmt"
	"time"

	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/lantern/pkg/cache"
	"gitlab.com/tinyland/lab/lantern/pkg/collectors/github"
	"gitlab.com/tinyland/lab/lantern/pkg/surface"
	"gitlab.com/tinyland/lab/lantern/pkg/theme"
	"gitlab.com/tinyland/lab/lantern/pkg/widgets"
)

// Config controls which segments appear.
type Config struct {
	Store *cache.Store
	User  string

	ShowStars bool
	ShowTop   bool

	// MaxAge drops cached data older than this; zero keeps anything.
	MaxAge   time.Duration
	MaxWidth int // default 60

	Theme   theme.Theme
	Profile termenv.Profile
	Now     func() time.Time
}

// Segment is one piece of the line.
type Segment struct {
	Icon  string
	Text  string
	Color string // #rrggbb, empty for the default foreground
}

const ssDefaultMaxWidth = 60

// Render reads the cached profile and repositories and returns the line.
func Render(cfg Config) string {
	if cfg.Store == nil || cfg.User == "" {
		return ""
	}
	if cfg.MaxWidth <= 0 {
		cfg.MaxWidth = ssDefaultMaxWidth
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	pal := widgets.PaletteOf(cfg.Theme)

	var segments []Segment
	profile, pAt, ok := cache.GetStaleTyped[*github.Profile](cfg.Store, "profile:"+cfg.User)
	if ok && profile != nil && ssFresh(cfg, pAt) {
		segments = append(segments, Segment{Icon: "@", Text: profile.Login, Color: surface.Hex(pal.Title)})
	}

	repos, rAt, ok := cache.GetStaleTyped[[]github.Repo](cfg.Store, "repos:"+cfg.User)
	if ok && len(repos) > 0 && ssFresh(cfg, rAt) {
		if cfg.ShowStars {
			total := 0
			for _, r := range repos {
				total += r.Stars
			}
			segments = append(segments, Segment{Icon: "★", Text: ssCount(total), Color: surface.Hex(pal.Star)})
		}
		if cfg.ShowTop {
			top := github.TopRepos(repos, 1)[0]
			seg := Segment{Icon: "▲", Text: top.Name}
			if c := github.LanguageColor(top.Language); c != "" {
				seg.Color = c
			}
			segments = append(segments, seg)
		}
	}

	return ssFormatLine(segments, cfg.MaxWidth, cfg.Profile, surface.Hex(pal.Dim))
}

func ssFresh(cfg Config, at time.Time) bool {
	return cfg.MaxAge <= 0 || cfg.Now().Sub(at) <= cfg.MaxAge
}

// ssCount abbreviates large counts: 999, 1.2k, 34k.
func ssCount(n int) string {
	switch {
	case n < 1000:
		return fmt.Sprint(n)
	case n < 10_000:
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	default:
		return fmt.Sprintf("%dk", n/1000)
	}
}
