package starship

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

const ssSeparator = "│"

// ssFormatLine joins segments with a dim separator, dropping the rightmost
// ones once the visible width would exceed maxWidth.
func ssFormatLine(segments []Segment, maxWidth int, p termenv.Profile, dim string) string {
	if len(segments) == 0 {
		return ""
	}
	sep := " " + p.String(ssSeparator).Foreground(p.Color(dim)).String() + " "
	sepWidth := ansi.StringWidth(sep)

	var b strings.Builder
	width := 0
	for i, seg := range segments {
		s := p.String(seg.Icon + " " + seg.Text)
		if seg.Color != "" {
			s = s.Foreground(p.Color(seg.Color))
		}
		text := s.String()

		need := ansi.StringWidth(text)
		if i > 0 {
			need += sepWidth
		}
		if width+need > maxWidth {
			break
		}
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(text)
		width += need
	}
	return b.String()
}
