package surface

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

// ZoneMarker wraps s in an invisible clickable-zone marker for id.
type ZoneMarker func(id, s string) string

// Emit renders g as newline-separated rows of styled text for the given
// colour profile. Adjacent cells sharing colours and zone are grouped into
// one styled run. Every row is exactly g.W columns wide; wide runes split by
// a shift or the right edge are emitted as spaces.
func Emit(g *Grid, profile termenv.Profile, mark ZoneMarker) string {
	var out strings.Builder
	for y := 0; y < g.H; y++ {
		if y > 0 {
			out.WriteByte('\n')
		}
		emitRow(&out, g.Cells[y*g.W:(y+1)*g.W], profile, mark)
	}
	return out.String()
}

type run struct {
	fg, bg color.RGBA
	zone   string
	text   strings.Builder
}

func emitRow(out *strings.Builder, row []Cell, profile termenv.Profile, mark ZoneMarker) {
	var cur *run
	flush := func() {
		if cur == nil {
			return
		}
		s := profile.String(cur.text.String()).
			Foreground(profile.Color(Hex(cur.fg))).
			Background(profile.Color(Hex(cur.bg))).
			String()
		if cur.zone != "" && mark != nil {
			s = mark(cur.zone, s)
		}
		out.WriteString(s)
		cur = nil
	}

	for x := 0; x < len(row); x++ {
		c := row[x]
		ch := c.Ch
		wide := false
		switch {
		case c.cont:
			// Continuation without its lead cell.
			ch = ' '
		case runewidth.RuneWidth(ch) == 2:
			if x+1 < len(row) && row[x+1].cont {
				wide = true
			} else {
				ch = ' '
			}
		case ch == 0:
			ch = ' '
		}

		if cur == nil || cur.fg != c.FG || cur.bg != c.BG || cur.zone != c.Zone {
			flush()
			cur = &run{fg: c.FG, bg: c.BG, zone: c.Zone}
		}
		cur.text.WriteRune(ch)
		if wide {
			x++
		}
	}
	flush()
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses #rgb or #rrggbb into an opaque colour.
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("surface: invalid hex colour %q", "#"+s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("surface: invalid hex colour %q: %w", "#"+s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// MustHex is ParseHex for compile-time constants.
func MustHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}
