package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/lantern/pkg/collectors"
	"gitlab.com/tinyland/lab/lantern/pkg/collectors/github"
	"gitlab.com/tinyland/lab/lantern/pkg/effects"
	limage "gitlab.com/tinyland/lab/lantern/pkg/image"
	"gitlab.com/tinyland/lab/lantern/pkg/mode"
	"gitlab.com/tinyland/lab/lantern/pkg/sched"
	"gitlab.com/tinyland/lab/lantern/pkg/surface"
	"gitlab.com/tinyland/lab/lantern/pkg/theme"
	"gitlab.com/tinyland/lab/lantern/pkg/trigger"
	"gitlab.com/tinyland/lab/lantern/pkg/widgets"
)

// Dispatcher runs scheduler callbacks delivered as messages.
type Dispatcher interface {
	Dispatch(sched.FireMsg) bool
}

// Requester starts or leaves the alternate mode.
type Requester interface {
	Request() effects.Route
}

// Deps wires a Model to the rest of the program.
type Deps struct {
	Page     *surface.Page
	Mode     mode.Reader
	Loop     Dispatcher
	Detector *trigger.Detector
	Switcher Requester

	// Updates delivers collector results. May be nil.
	Updates <-chan collectors.Update
	// Refresh drops cached data and collects again. Nil disables the key.
	Refresh func(context.Context) error
	// Snapshot is shown before the first update, e.g. demo data.
	Snapshot *github.Snapshot

	User      string
	Title     string
	Normal    theme.Theme
	Alternate theme.Theme
	Profile   termenv.Profile
	Zones     *zone.Manager
	Now       func() time.Time
	Logger    *slog.Logger
	Context   context.Context

	// FrameInterval is the shortest gap between repaints caused by
	// scheduler messages. Zero repaints on every message.
	FrameInterval time.Duration
}

// Model is the root Bubbletea model.
type Model struct {
	deps Deps
	log  *slog.Logger
	ctx  context.Context

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	width, height int
	snapshot      *github.Snapshot
	avatar        *limage.Avatar
	avatarSize    int
	fetching      bool
	status        string
	lastErr       error
	titleSet      string

	normal, alternate widgets.Palette
	lastGrid          *surface.Grid
	lastLayout        widgets.Layout

	frame      string
	paintedAt  time.Time
	reuse      bool
	repainting bool
}

// repaintMsg is the trailing repaint for scheduler messages that arrived
// too soon after the previous paint.
type repaintMsg struct{}

// New builds a Model. Page, Mode and Switcher are required.
func New(d Deps) *Model {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Context == nil {
		d.Context = context.Background()
	}
	log := d.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.Detector == nil {
		d.Detector = trigger.NewDetector()
	}
	if d.Normal.Name == "" {
		d.Normal = theme.Get("healing")
	}
	if d.Alternate.Name == "" {
		d.Alternate = theme.Get("hollow")
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := &Model{
		deps:      d,
		log:       log.With("component", "app"),
		ctx:       d.Context,
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		snapshot:  d.Snapshot,
		fetching:  d.Snapshot == nil && d.Updates != nil,
		normal:    widgets.PaletteOf(d.Normal),
		alternate: widgets.PaletteOf(d.Alternate),
	}
	m.keys.Refresh.SetEnabled(d.Refresh != nil)
	return m
}

// Init starts the spinner, the collector listener and, for a preset
// snapshot, the avatar decode.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, WaitForUpdate(m.deps.Updates)}
	if m.snapshot != nil {
		cmds = append(cmds, m.snapshotCmds()...)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.reuse = false
	switch msg := msg.(type) {
	case sched.FireMsg:
		if m.deps.Loop != nil {
			m.deps.Loop.Dispatch(msg)
		}
		return m, m.coalesce()

	case repaintMsg:
		m.repainting = false
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.relayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case DataUpdateEvent:
		cmds := []tea.Cmd{WaitForUpdate(m.deps.Updates)}
		cmds = append(cmds, m.applyUpdate(msg)...)
		return m, tea.Batch(cmds...)

	case RefreshDoneEvent:
		m.fetching = false
		if msg.Err != nil {
			m.log.Warn("refresh failed", "error", msg.Err)
			m.lastErr = msg.Err
		}
		return m, nil

	case avatarEvent:
		if msg.Err != nil {
			m.log.Warn("avatar decode failed", "error", msg.Err)
			return m, nil
		}
		m.avatar = msg.Avatar
		return m, nil

	case spinner.TickMsg:
		if !m.fetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// coalesce keeps the previous frame when a scheduler message lands within
// one frame interval of the last paint, and arranges a single trailing
// repaint so the final state of a burst is still drawn.
func (m *Model) coalesce() tea.Cmd {
	iv := m.deps.FrameInterval
	if iv <= 0 || m.frame == "" {
		return nil
	}
	since := m.deps.Now().Sub(m.paintedAt)
	if since >= iv {
		return nil
	}
	m.reuse = true
	if m.repainting {
		return nil
	}
	m.repainting = true
	return tea.Tick(iv-since, func(time.Time) tea.Msg { return repaintMsg{} })
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.relayout()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		if m.fetching {
			return m, nil
		}
		m.fetching = true
		m.lastErr = nil
		m.log.Info("manual refresh")
		return m, tea.Batch(m.spinner.Tick, RefreshCmd(m.ctx, m.deps.Refresh))
	}
	return m, nil
}

func (m *Model) applyUpdate(ev DataUpdateEvent) []tea.Cmd {
	if ev.Source != github.Name {
		return nil
	}
	m.fetching = false
	m.lastErr = ev.Err
	snap, ok := ev.Data.(*github.Snapshot)
	if !ok || snap == nil {
		if ev.Err != nil {
			m.log.Warn("collector failed", "source", ev.Source, "error", ev.Err)
		}
		return nil
	}
	if ev.Err != nil {
		m.log.Info("partial snapshot", "error", ev.Err)
	}
	m.snapshot = snap
	return m.snapshotCmds()
}

// snapshotCmds sets the terminal title and decodes a changed avatar.
func (m *Model) snapshotCmds() []tea.Cmd {
	var cmds []tea.Cmd
	if t := fmt.Sprintf("%s - %s", m.snapshot.Login(), m.deps.Title); t != m.titleSet {
		m.titleSet = t
		cmds = append(cmds, tea.SetWindowTitle(t))
	}
	if n := len(m.snapshot.Avatar); n > 0 && n != m.avatarSize {
		m.avatarSize = n
		cmds = append(cmds, decodeAvatarCmd(m.snapshot.Avatar))
	}
	return cmds
}

// relayout gives the page everything above the status bar.
func (m *Model) relayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	statusH := lipgloss.Height(m.statusView(m.palette()))
	m.deps.Page.Resize(m.width, max(m.height-statusH, 0))
}

func (m *Model) alternateMode() bool {
	return m.deps.Mode != nil && m.deps.Mode.Is(mode.Alternate)
}

func (m *Model) palette() widgets.Palette {
	if m.alternateMode() {
		return m.alternate
	}
	return m.normal
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.reuse {
		m.reuse = false
		return m.frame
	}
	pal := m.palette()
	now := m.deps.Now()

	g, l := widgets.Render(m.deps.Page, widgets.View{
		Snapshot:  m.snapshot,
		User:      m.deps.User,
		Avatar:    m.avatar,
		Footer:    m.deps.Title,
		Status:    m.headerStatus(),
		Alternate: m.alternateMode(),
		Now:       now,
	}, pal)
	m.deps.Page.Compose(g, now, pal.Effects())
	m.lastGrid, m.lastLayout = g, l

	var mark surface.ZoneMarker
	if m.deps.Zones != nil {
		mark = m.deps.Zones.Mark
	}
	out := surface.Emit(g, m.deps.Profile, mark) + "\n" + m.statusView(pal)
	if m.deps.Zones != nil {
		out = m.deps.Zones.Scan(out)
	}
	m.frame, m.paintedAt = out, now
	return out
}

// Width returns the terminal width.
func (m *Model) Width() int { return m.width }

// Height returns the terminal height.
func (m *Model) Height() int { return m.height }

// Snapshot returns the data currently shown.
func (m *Model) Snapshot() *github.Snapshot { return m.snapshot }

// Status returns the transient status line text.
func (m *Model) Status() string { return m.status }
