package app

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/lantern/pkg/collectors"
	"gitlab.com/tinyland/lab/lantern/pkg/collectors/github"
	"gitlab.com/tinyland/lab/lantern/pkg/effects"
	"gitlab.com/tinyland/lab/lantern/pkg/mode"
	"gitlab.com/tinyland/lab/lantern/pkg/sched"
	"gitlab.com/tinyland/lab/lantern/pkg/surface"
	"gitlab.com/tinyland/lab/lantern/pkg/transition"
	"gitlab.com/tinyland/lab/lantern/pkg/trigger"
	"gitlab.com/tinyland/lab/lantern/pkg/widgets"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type recordingLoop struct{ got []sched.FireMsg }

func (r *recordingLoop) Dispatch(msg sched.FireMsg) bool {
	r.got = append(r.got, msg)
	return true
}

type testRig struct {
	clock    *sched.Manual
	page     *surface.Page
	mode     *mode.Switch
	director *transition.Director
	loop     *recordingLoop
	m        *Model
}

// newTestRig wires a model to real effects on a manual clock.
func newTestRig(t *testing.T, d Deps) *testRig {
	t.Helper()
	r := &testRig{
		clock: sched.NewManual(epoch, sched.FrameInterval(30)),
		page:  surface.NewPage(0, 0, "// featured projects"),
		mode:  mode.NewSwitch(),
		loop:  &recordingLoop{},
	}
	rng := rand.New(rand.NewPCG(3, 4))
	orch := effects.NewOrchestrator(effects.Config{
		Scheduler:  r.clock,
		Page:       r.page,
		Mode:       r.mode,
		Rand:       rng,
		Generators: []effects.Generator{effects.NewNoise(), effects.NewTrail(), effects.NewDisrupt()},
	})
	r.director = transition.NewDirector(transition.Config{
		Scheduler:  r.clock,
		Page:       r.page,
		Mode:       r.mode,
		Rand:       rng,
		OnComplete: func() { orch.Enter() },
	})

	d.Page = r.page
	d.Mode = r.mode
	d.Loop = r.loop
	d.Switcher = effects.NewSwitcher(orch, r.director, nil)
	d.Now = r.clock.Now
	d.Profile = termenv.Ascii
	if d.Title == "" {
		d.Title = "tinyland"
	}
	r.m = New(d)
	r.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	return r
}

func (r *testRig) send(msg tea.Msg) tea.Cmd {
	_, cmd := r.m.Update(msg)
	return cmd
}

func (r *testRig) clickAt(x, y int) {
	r.m.View()
	r.send(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
}

func (r *testRig) clickTitle(t *testing.T) {
	t.Helper()
	r.m.View()
	title := r.m.lastLayout.Title
	if title.W == 0 {
		t.Fatal("no title zone rendered")
	}
	r.clickAt(title.X, title.Y)
}

func (r *testRig) clickPixel() {
	w, h := r.page.Size()
	r.clickAt(w-1, h-1)
}

// runCmd executes cmd and flattens batches.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestWindowSizeLeavesRoomForStatusBar(t *testing.T) {
	r := newTestRig(t, Deps{Snapshot: github.Demo("octocat")})
	if r.m.Width() != 100 || r.m.Height() != 40 {
		t.Fatalf("size = %dx%d", r.m.Width(), r.m.Height())
	}
	if w, h := r.page.Size(); w != 100 || h != 39 {
		t.Errorf("page size = %dx%d, want 100x39", w, h)
	}

	r.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if _, h := r.page.Size(); h >= 39 {
		t.Errorf("full help should shrink the page, height %d", h)
	}
	r.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if _, h := r.page.Size(); h != 39 {
		t.Errorf("page height %d after closing help", h)
	}
}

func TestViewRendersPage(t *testing.T) {
	r := newTestRig(t, Deps{Snapshot: github.Demo("octocat")})
	out := r.m.View()
	for _, want := range []string{"octocat", "// featured projects", "lantern", "quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("view is missing %q", want)
		}
	}
	if got := strings.Count(out, "\n") + 1; got != 40 {
		t.Errorf("view has %d lines, want 40", got)
	}
}

func TestTitleBurstEntersAlternateMode(t *testing.T) {
	r := newTestRig(t, Deps{Snapshot: github.Demo("octocat")})

	for i := 0; i < trigger.DefaultClicks-1; i++ {
		r.clickTitle(t)
	}
	if r.director.Active() {
		t.Fatal("transition started before the burst completed")
	}
	r.clickTitle(t)
	if !r.director.Active() {
		t.Fatal("sixth click should start the transition")
	}

	r.clock.Advance(2 * time.Second)
	if !r.mode.Is(mode.Alternate) {
		t.Fatalf("mode = %v after transition", r.mode.Current())
	}
	if out := r.m.View(); !strings.Contains(out, effects.DefaultAlternateLabel) {
		t.Error("alternate label not rendered")
	}

	r.clickPixel()
	if !r.mode.Is(mode.Normal) {
		t.Error("hidden pixel should leave alternate mode at once")
	}
	if r.page.Label() != "// featured projects" {
		t.Errorf("label = %q", r.page.Label())
	}
}

func TestHiddenPixelStartsTransition(t *testing.T) {
	r := newTestRig(t, Deps{Snapshot: github.Demo("octocat")})
	r.clickPixel()
	if !r.director.Active() {
		t.Fatal("hidden pixel should start the transition")
	}
	r.clickPixel()
	if !r.director.Active() || !r.mode.Is(mode.Normal) {
		t.Error("second click during the transition is ignored")
	}
}

func TestPaletteFollowsMode(t *testing.T) {
	r := newTestRig(t, Deps{Snapshot: github.Demo("octocat")})
	if r.m.palette() != r.m.normal {
		t.Error("normal mode should use the normal palette")
	}
	r.mode.Set(mode.Alternate)
	if r.m.palette() != r.m.alternate {
		t.Error("alternate mode should use the alternate palette")
	}
}

func TestPointerMotionReachesPage(t *testing.T) {
	r := newTestRig(t, Deps{})
	r.send(tea.MouseMsg{X: 7, Y: 3, Action: tea.MouseActionMotion})
	if x, y := r.page.Pointer(); x != 7 || y != 3 {
		t.Errorf("pointer = %d,%d", x, y)
	}
	r.send(tea.MouseMsg{X: 5, Y: 39, Action: tea.MouseActionMotion})
	if _, y := r.page.Pointer(); y != 3 {
		t.Error("motion over the status bar is not a page move")
	}
}

func TestCardClickShowsURL(t *testing.T) {
	snap := github.Demo("octocat")
	snap.Repos[0].HTMLURL = "https://github.com/octocat/lantern"
	r := newTestRig(t, Deps{Snapshot: snap})
	r.m.View()
	card := r.m.lastLayout.Cards[0]
	r.clickAt(card.X+1, card.Y+1)
	if r.m.Status() != snap.Repos[0].HTMLURL {
		t.Errorf("status = %q", r.m.Status())
	}
	if !strings.Contains(r.m.View(), "octocat/lantern") {
		t.Error("status bar should show the URL")
	}
}

func TestFireMsgIsDispatched(t *testing.T) {
	r := newTestRig(t, Deps{})
	msg := sched.FireMsg{ID: 9, At: epoch}
	r.send(msg)
	if len(r.loop.got) != 1 || r.loop.got[0] != msg {
		t.Errorf("dispatched %v", r.loop.got)
	}
}

func TestSchedulerRepaintsAreCoalesced(t *testing.T) {
	r := newTestRig(t, Deps{FrameInterval: 50 * time.Millisecond})
	first := r.m.View()

	r.page.SetLabel("// remnants")
	if cmd := r.send(sched.FireMsg{ID: 1, At: epoch}); cmd == nil {
		t.Fatal("a message inside the frame interval should schedule a trailing repaint")
	}
	if got := r.m.View(); got != first {
		t.Error("a message inside the frame interval should reuse the previous frame")
	}
	if cmd := r.send(sched.FireMsg{ID: 2, At: epoch}); cmd != nil {
		t.Error("only one trailing repaint may be pending")
	}
	r.m.View()
	if len(r.loop.got) != 2 {
		t.Errorf("every message is still dispatched, got %d", len(r.loop.got))
	}

	r.send(repaintMsg{})
	if !strings.Contains(r.m.View(), "// remnants") {
		t.Error("the trailing repaint should draw the latest state")
	}

	r.clock.Advance(60 * time.Millisecond)
	r.page.SetLabel("// later")
	if cmd := r.send(sched.FireMsg{ID: 3, At: r.clock.Now()}); cmd != nil {
		t.Error("a message after the frame interval repaints immediately")
	}
	if !strings.Contains(r.m.View(), "// later") {
		t.Error("expected a fresh frame")
	}
}

func TestOtherMessagesAlwaysRepaint(t *testing.T) {
	r := newTestRig(t, Deps{FrameInterval: time.Second})
	r.m.View()
	r.send(sched.FireMsg{ID: 1, At: epoch})
	r.page.SetLabel("// moved")
	r.send(tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionMotion})
	if !strings.Contains(r.m.View(), "// moved") {
		t.Error("input must not be held back by scheduler coalescing")
	}
}

func TestDataUpdateReplacesSnapshot(t *testing.T) {
	ch := make(chan collectors.Update, 1)
	r := newTestRig(t, Deps{Updates: ch, User: "octocat"})
	if !r.m.fetching {
		t.Fatal("model should start fetching when it has no data")
	}
	if !strings.Contains(r.m.View(), widgets.Loading) {
		t.Error("loading text missing")
	}

	r.send(DataUpdateEvent{Source: "other", Data: 1})
	if r.m.Snapshot() != nil {
		t.Fatal("foreign source must be ignored")
	}

	snap := github.Demo("octocat")
	cmd := r.send(DataUpdateEvent{Source: github.Name, Data: snap, Timestamp: epoch})
	if r.m.Snapshot() != snap || r.m.fetching {
		t.Error("snapshot not applied")
	}
	if r.m.titleSet != "octocat - tinyland" {
		t.Errorf("title = %q", r.m.titleSet)
	}
	if cmd == nil {
		t.Error("expected a follow-up wait command")
	}

	failed := &github.Snapshot{User: "octocat", ReposErr: errors.New("503")}
	r.send(DataUpdateEvent{Source: github.Name, Data: failed, Err: failed.ReposErr})
	if !strings.Contains(r.m.View(), github.ReposFailed) {
		t.Error("repo failure placeholder missing")
	}
}

func TestWaitForUpdate(t *testing.T) {
	if WaitForUpdate(nil) != nil {
		t.Error("nil channel gives nil cmd")
	}
	ch := make(chan collectors.Update, 1)
	ch <- collectors.Update{Source: github.Name, Data: 1, Timestamp: epoch}
	got := WaitForUpdate(ch)()
	if ev, ok := got.(DataUpdateEvent); !ok || ev.Source != github.Name || ev.Data != 1 {
		t.Errorf("got %#v", got)
	}
	close(ch)
	if got := WaitForUpdate(ch)(); got != nil {
		t.Errorf("closed channel gave %#v", got)
	}
}

func TestRefreshKey(t *testing.T) {
	calls := 0
	r := newTestRig(t, Deps{
		Snapshot: github.Demo("octocat"),
		Refresh: func(context.Context) error {
			calls++
			return errors.New("offline")
		},
	})

	cmd := r.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if !r.m.fetching {
		t.Fatal("refresh should mark the model fetching")
	}
	if again := r.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}}); again != nil {
		t.Error("refresh while fetching is ignored")
	}

	var done *RefreshDoneEvent
	for _, msg := range runCmd(cmd) {
		if ev, ok := msg.(RefreshDoneEvent); ok {
			done = &ev
		}
	}
	if done == nil || calls != 1 {
		t.Fatalf("refresh ran %d times, done=%v", calls, done)
	}
	r.send(*done)
	if r.m.fetching || r.m.lastErr == nil {
		t.Error("refresh result not applied")
	}
}

func TestRefreshDisabledWithoutHook(t *testing.T) {
	r := newTestRig(t, Deps{Snapshot: github.Demo("octocat")})
	if cmd := r.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}}); cmd != nil || r.m.fetching {
		t.Error("refresh without a hook should do nothing")
	}
}

func TestQuitKeys(t *testing.T) {
	r := newTestRig(t, Deps{})
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		cmd := r.send(k)
		if cmd == nil {
			t.Fatalf("%q: no command", k.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%q did not quit", k.String())
		}
	}
}

func TestAvatarDecodeFailureIsLogged(t *testing.T) {
	r := newTestRig(t, Deps{})
	msgs := runCmd(decodeAvatarCmd([]byte("nope")))
	if len(msgs) != 1 {
		t.Fatalf("got %d messages", len(msgs))
	}
	r.send(msgs[0])
	if r.m.avatar != nil {
		t.Error("bad avatar should not be kept")
	}
	if ev := decodeAvatarCmd(nil)(); ev.(avatarEvent).Avatar != nil {
		t.Error("empty avatar decodes to nothing")
	}
}
