// Package banner renders the non-interactive profile card printed by
// `lantern -card`: avatar, login, bio and the top repositories in one
// bordered block sized to the terminal.
package banner

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/lantern/pkg/collectors/github"
	"gitlab.com/tinyland/lab/lantern/pkg/components"
	limage "gitlab.com/tinyland/lab/lantern/pkg/image"
	"gitlab.com/tinyland/lab/lantern/pkg/surface"
	"gitlab.com/tinyland/lab/lantern/pkg/terminal"
	"gitlab.com/tinyland/lab/lantern/pkg/theme"
	"gitlab.com/tinyland/lab/lantern/pkg/widgets"
)

// Preset is a named card width with a matching avatar size.
type Preset struct {
	Name       string
	Width      int
	AvatarCols int
}

var (
	// Compact drops the avatar for narrow terminals.
	Compact = Preset{"compact", 48, 0}
	// Standard fits a typical 80-column terminal.
	Standard = Preset{"standard", 76, 16}
	// Wide is used from 100 columns up.
	Wide = Preset{"wide", 96, 20}
)

// SelectPreset returns the widest preset that fits termWidth.
func SelectPreset(termWidth int) Preset {
	for _, p := range []Preset{Wide, Standard} {
		if termWidth >= p.Width {
			return p
		}
	}
	return Compact
}

// Options controls one card render.
type Options struct {
	Preset   Preset
	Protocol terminal.GraphicsProtocol
	Theme    theme.Theme
	Profile  termenv.Profile
	Label    string
	Footer   string
}

// Render returns the card for snap. Avatar may be nil. With an inline
// graphics protocol the avatar escape is printed above the box; with
// halfblocks it sits inside the box to the left of the text.
func Render(snap *github.Snapshot, avatar *limage.Avatar, opts Options) string {
	pal := widgets.PaletteOf(opts.Theme)
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(opts.Profile)
	hex := func(c color.RGBA) lipgloss.Color { return lipgloss.Color(surface.Hex(c)) }

	inner := max(opts.Preset.Width-4, 10)
	var avatarBlock, inline string
	if avatar != nil && opts.Preset.AvatarCols > 0 {
		px, rows := limage.CellsFor(opts.Preset.AvatarCols, opts.Preset.AvatarCols/2)
		if opts.Protocol.Inline() {
			s, err := limage.Inline(avatar.Source(), opts.Protocol, px, rows)
			if err == nil {
				inline = s
			}
		}
		if inline == "" && px > 0 {
			g := surface.NewGrid(px, rows, pal.FG, pal.Card)
			limage.DrawHalfblocks(g, 0, 0, avatar.Frame(px, rows*2, false))
			avatarBlock = surface.Emit(g, opts.Profile, nil)
			inner -= px + 2
		}
	}

	text := textColumn(snap, inner, opts, pal, r, hex)
	body := text
	if avatarBlock != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, avatarBlock, "  ", text)
	}

	box := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(hex(pal.CardBorder)).
		Padding(0, 1).
		Render(body)

	var out strings.Builder
	if inline != "" {
		out.WriteString(inline)
		out.WriteString("\n")
	}
	out.WriteString(box)
	if opts.Footer != "" {
		out.WriteString("\n")
		out.WriteString(r.NewStyle().Foreground(hex(pal.Dim)).Render(
			components.PadCenter(opts.Footer, lipgloss.Width(box))))
	}
	return out.String()
}

func textColumn(snap *github.Snapshot, width int, opts Options, pal widgets.Palette, r *lipgloss.Renderer, hex func(color.RGBA) lipgloss.Color) string {
	title := r.NewStyle().Bold(true).Foreground(hex(pal.Title))
	fg := r.NewStyle().Foreground(hex(pal.FG))
	dim := r.NewStyle().Foreground(hex(pal.Dim))
	label := r.NewStyle().Foreground(hex(pal.Label))
	star := r.NewStyle().Foreground(hex(pal.Star))

	lines := []string{title.Render(components.TruncateWithTail(snap.Login(), width, "…"))}
	for _, l := range components.Clamp(snap.Bio(), width, 3) {
		lines = append(lines, fg.Render(l))
	}
	lines = append(lines, "")
	if opts.Label != "" {
		lines = append(lines, label.Render(opts.Label))
	}

	if notice := snap.Notice(); notice != "" {
		lines = append(lines, dim.Render(notice))
		return strings.Join(lines, "\n")
	}
	for _, repo := range github.TopRepos(snap.Repos, github.MaxCards) {
		stars := fmt.Sprintf("★ %-4d ", repo.Stars)
		rest := width - lipgloss.Width(stars)
		line := star.Render(stars) + fg.Render(components.TruncateWithTail(repo.Name, rest, "…"))
		if repo.Language != "" {
			used := lipgloss.Width(stars) + lipgloss.Width(repo.Name) + 2
			if used+lipgloss.Width(repo.Language)+2 <= width {
				dot := r.NewStyle().Foreground(lipgloss.Color(github.LanguageColor(repo.Language)))
				line += "  " + dot.Render("●") + dim.Render(" "+repo.Language)
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
