package app

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/lantern/pkg/surface"
	"gitlab.com/tinyland/lab/lantern/pkg/widgets"
)

// headerStatus is the dim line under the bio.
func (m *Model) headerStatus() string {
	switch {
	case m.fetching:
		return m.spinner.View() + " fetching"
	case m.snapshot != nil && m.snapshot.Stale:
		return "showing cached data"
	case m.lastErr != nil && m.snapshot == nil:
		return "offline"
	case m.snapshot != nil && !m.snapshot.FetchedAt.IsZero():
		return fmt.Sprintf("updated %s", m.snapshot.FetchedAt.Local().Format("15:04"))
	}
	return ""
}

// statusView renders the key help and the transient status on the last
// row(s) of the terminal.
func (m *Model) statusView(pal widgets.Palette) string {
	key := lipgloss.NewStyle().Foreground(lipgloss.Color(surface.Hex(pal.HelpKey)))
	desc := lipgloss.NewStyle().Foreground(lipgloss.Color(surface.Hex(pal.HelpDesc)))
	m.help.Styles.ShortKey = key
	m.help.Styles.ShortDesc = desc
	m.help.Styles.FullKey = key
	m.help.Styles.FullDesc = desc
	m.help.Styles.ShortSeparator = desc
	m.help.Styles.FullSeparator = desc

	bar := lipgloss.NewStyle().
		Width(max(m.width, 0)).
		Background(lipgloss.Color(surface.Hex(pal.BG)))

	left := m.help.View(m.keys)
	if m.status == "" || m.help.ShowAll {
		return bar.Render(left)
	}
	right := desc.Render(m.status)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return bar.Render(left)
	}
	return bar.Render(lipgloss.JoinHorizontal(lipgloss.Top, left, lipgloss.NewStyle().Width(gap).Render(""), right))
}
