package effects

import (
	"image/color"
	"time"

	"gitlab.com/tinyland/lab/lantern/pkg/mode"
	"gitlab.com/tinyland/lab/lantern/pkg/sched"
	"gitlab.com/tinyland/lab/lantern/pkg/surface"
)

// Noise paints analogue static over the whole page every frame.
type Noise struct {
	// Block is the side of the square cell blocks sharing one value.
	Block int
	// Alpha is the opacity of every block.
	Alpha uint8

	running bool
}

// NewNoise returns the ambient noise generator with 3×3 blocks at alpha 40.
func NewNoise() *Noise {
	return &Noise{Block: 3, Alpha: 40}
}

// Name implements Generator.
func (n *Noise) Name() string { return "noise" }

// Start implements Generator.
func (n *Noise) Start(env Env) (Disposer, error) {
	if n.running {
		return nil, ErrAlreadyRunning
	}
	n.running = true

	rng := env.rng()
	layer := env.Page.Noise()
	layer.Resize(env.Page.Size())
	unsubscribe := env.Page.OnResize(func(w, h int) { layer.Resize(w, h) })

	var frame sched.Handle
	var draw func(time.Time)
	draw = func(time.Time) {
		frame = 0
		if !env.Mode.Is(mode.Alternate) {
			return
		}
		n.paint(layer, rng.Float64)
		frame = env.Scheduler.Frame(draw)
	}
	draw(env.Scheduler.Now())

	return once(func() {
		env.Scheduler.Cancel(frame)
		unsubscribe()
		layer.Clear()
		n.running = false
	}), nil
}

func (n *Noise) paint(l *surface.Layer, rnd func() float64) {
	b := max(n.Block, 1)
	for y := 0; y < l.H; y += b {
		for x := 0; x < l.W; x += b {
			v := rnd() * 255
			c := color.RGBA{R: uint8(v), G: uint8(v * 0.8), B: uint8(v * 0.6), A: n.Alpha}
			for dy := 0; dy < b && y+dy < l.H; dy++ {
				for dx := 0; dx < b && x+dx < l.W; dx++ {
					l.Pix[(y+dy)*l.W+x+dx] = c
				}
			}
		}
	}
}
