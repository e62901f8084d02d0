package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/lantern/pkg/trigger"
	"gitlab.com/tinyland/lab/lantern/pkg/widgets"
)

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionMotion:
		if w, h := m.deps.Page.Size(); msg.X < w && msg.Y < h {
			m.deps.Page.PointerMove(msg.X, msg.Y)
		}
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.click(m.hitTest(msg))
	}
}

func (m *Model) click(id string) {
	now := m.deps.Now()
	switch id {
	case widgets.ZoneTitle:
		m.gesture(trigger.TitleClick, now)
	case widgets.ZonePixel:
		m.gesture(trigger.HiddenPixelClick, now)
	default:
		if i, ok := widgets.CardIndex(id); ok && m.snapshot != nil && i < len(m.snapshot.Repos) {
			m.status = m.snapshot.Repos[i].HTMLURL
			if m.status == "" {
				m.status = m.snapshot.Repos[i].Name
			}
		}
	}
}

func (m *Model) gesture(kind trigger.Kind, now time.Time) {
	if !m.deps.Detector.Observe(kind, now) {
		return
	}
	route := m.deps.Switcher.Request()
	m.log.Debug("switch requested", "gesture", kind, "route", route)
}

// hitTest returns the zone under the pointer. Zones registered with the
// zone manager win; the last rendered grid is the fallback.
func (m *Model) hitTest(msg tea.MouseMsg) string {
	if z := m.deps.Zones; z != nil {
		ids := []string{widgets.ZoneTitle, widgets.ZonePixel}
		for i := range m.lastLayout.Cards {
			ids = append(ids, widgets.CardZone(i))
		}
		for _, id := range ids {
			if info := z.Get(id); info != nil && !info.IsZero() && info.InBounds(msg) {
				return id
			}
		}
	}
	if m.lastGrid != nil {
		if c := m.lastGrid.At(msg.X, msg.Y); c != nil {
			return c.Zone
		}
	}
	return ""
}
