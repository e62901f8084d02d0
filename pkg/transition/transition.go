// Package transition runs the timed glitch animation that bridges Normal
// mode and Alternate mode entry.
//
// The animation paints onto the page's overlay layer once per animation
// frame. Its length is measured in elapsed time from the first frame, so a
// slow terminal and a fast one cut over at the same moment; only the number
// of frames drawn differs.
//
// The animation flashes saturated noise for its whole duration. The
// duration is bounded and there is no reduced-motion variant.
package transition

import (
	"errors"
	"image/color"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"gitlab.com/tinyland/lab/lantern/pkg/mode"
	"gitlab.com/tinyland/lab/lantern/pkg/sched"
	"gitlab.com/tinyland/lab/lantern/pkg/surface"
)

// DefaultDuration is the length of the transition.
const DefaultDuration = 1500 * time.Millisecond

var (
	// ErrNotNormal is returned by Begin outside Normal mode.
	ErrNotNormal = errors.New("transition: mode is not normal")
	// ErrInProgress is returned by Begin while a run is active.
	ErrInProgress = errors.New("transition: already in progress")
)

// Config wires a Director to its collaborators.
type Config struct {
	Scheduler sched.Scheduler
	Page      *surface.Page
	Mode      mode.Reader

	// Rand drives every random choice; tests pass a seeded source.
	Rand *rand.Rand

	// Duration defaults to DefaultDuration.
	Duration time.Duration

	// OnComplete is invoked exactly once per finished run.
	OnComplete func()

	Logger *slog.Logger
}

// Stats describes the most recent finished run.
type Stats struct {
	Frames  int
	Elapsed time.Duration
}

type run struct {
	frame   sched.Handle
	started bool
	start   time.Time
	frames  int
}

// Director owns at most one transition run at a time.
type Director struct {
	cfg  Config
	log  *slog.Logger
	rng  *rand.Rand
	run  *run
	last Stats
}

// NewDirector returns a Director, filling unset Config fields with
// defaults.
func NewDirector(cfg Config) *Director {
	if cfg.Duration <= 0 {
		cfg.Duration = DefaultDuration
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Director{cfg: cfg, log: log.With("component", "transition"), rng: rng}
}

// Begin activates the overlay and starts the frame loop.
func (d *Director) Begin() error {
	if !d.cfg.Mode.Is(mode.Normal) {
		return ErrNotNormal
	}
	if d.run != nil {
		return ErrInProgress
	}
	d.cfg.Page.ActivateOverlay()
	d.run = &run{}
	d.run.frame = d.cfg.Scheduler.Frame(d.draw)
	d.log.Debug("transition started", "duration", d.cfg.Duration)
	return nil
}

// Abort cancels the active run without handing off. It reports whether a
// run was active.
func (d *Director) Abort() bool {
	if d.run == nil {
		return false
	}
	d.cfg.Scheduler.Cancel(d.run.frame)
	d.run = nil
	d.cfg.Page.DeactivateOverlay()
	d.log.Debug("transition aborted")
	return true
}

// Active reports whether a run is in flight.
func (d *Director) Active() bool { return d.run != nil }

// LastRun returns statistics for the most recent completed run.
func (d *Director) LastRun() Stats { return d.last }

func (d *Director) draw(now time.Time) {
	r := d.run
	if r == nil {
		return
	}
	if !r.started {
		r.started = true
		r.start = now
	}
	elapsed := now.Sub(r.start)
	if elapsed >= d.cfg.Duration {
		d.finish(r, elapsed)
		return
	}

	r.frames++
	d.paint(float64(elapsed) / float64(d.cfg.Duration))
	r.frame = d.cfg.Scheduler.Frame(d.draw)
}

func (d *Director) finish(r *run, elapsed time.Duration) {
	d.run = nil
	d.cfg.Page.DeactivateOverlay()
	d.last = Stats{Frames: r.frames, Elapsed: elapsed}
	d.log.Debug("transition complete", "frames", r.frames, "elapsed", elapsed)
	if d.cfg.OnComplete != nil {
		d.cfg.OnComplete()
	}
}

// TearCount returns how many tear bands are drawn at progress p in [0, 1).
func TearCount(p float64) int {
	return int(math.Floor(3 + 12*p))
}

// Nominal cell size in pixels. Band geometry is specified in pixels and
// converted with these.
const (
	cellWidthPx  = 8
	cellHeightPx = 16
)

// pxToCols converts a horizontal pixel distance to whole columns, truncating
// toward zero.
func pxToCols(px float64) int { return int(px / cellWidthPx) }

// pxToRows converts a pixel height to rows, at least one.
func pxToRows(px float64) int { return max(1, int(math.Ceil(px/cellHeightPx))) }

// tearBand returns the height and horizontal offset of one tear band from
// two uniform draws in [0, 1).
func tearBand(p, rh, ro float64) (h, off int) {
	return pxToRows(1 + rh*(5+15*p)), pxToCols((ro - 0.5) * (40 + 80*p))
}

// Overlay colours.
var (
	ghostRed   = [3]uint8{255, 0, 51}
	ghostGreen = [3]uint8{0, 255, 65}
)

func (d *Director) paint(p float64) {
	l := d.cfg.Page.Overlay()
	rng := d.rng

	alpha := uint8(math.Floor(180 * (1 - 0.3*p)))
	for i := range l.Pix {
		noise := rng.Float64() * 255
		on := 0.0
		if rng.Float64() > 0.5+0.3*p {
			on = 1
		}
		var g, b float64
		if rng.Float64() > 0.7 {
			g = 255
		}
		if rng.Float64() > 0.8 {
			b = noise
		}
		l.Pix[i] = colorOf(noise*on, g*on, b*on, alpha)
	}

	for range TearCount(p) {
		y := int(rng.Float64() * float64(l.H))
		h, off := tearBand(p, rng.Float64(), rng.Float64())
		red := 139.0
		if rng.Float64() > 0.5 {
			red = 255
		}
		blue := 0.0
		if rng.Float64() > 0.5 {
			blue = 51
		}
		l.FillRect(surface.Rect{X: off, Y: y, W: l.W, H: h}, colorOf(red, 0, blue, 102), surface.BlendOver)
	}

	if rng.Float64() > 0.6 {
		d.ghost(l, ghostRed, 0.1+rng.Float64()*0.2)
		d.ghost(l, ghostGreen, 0.1+rng.Float64()*0.15)
	}
}

func (d *Director) ghost(l *surface.Layer, c [3]uint8, a float64) {
	off := int(math.Round((d.rng.Float64() - 0.5) * 32 / cellWidthPx))
	fill := colorOf(float64(c[0]), float64(c[1]), float64(c[2]), uint8(a*255))
	l.FillRect(surface.Rect{X: off, W: l.W, H: l.H}, fill, surface.BlendScreen)
}

func colorOf(r, g, b float64, a uint8) color.RGBA {
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: a}
}
