package audio

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
)

// Soundscape levels and frequencies.
const (
	DroneFreq      = 55.0
	DroneDetune    = 55.5
	SubDroneFreq   = 27.5
	DroneGain      = 0.3
	DetuneGain     = 0.25
	SubDroneGain   = 0.2
	HumCutoff      = 800.0
	HumQ           = 1.0
	HumGain        = 0.08
	BreathRate     = 0.18
	BreathDepth    = 0.06
	BreathCentre   = 600.0
	BreathQ        = 2.0
	NoiseAmplitude = 0.5
	MasterLevel    = 0.15

	NoiseLength = 2 * time.Second
	FadeIn      = 2 * time.Second
)

type source interface {
	Node
	Start() error
	Stop()
}

// Graph is one built soundscape. A Graph is never restarted; Stop tears it
// down for good and a new Build is needed to play again.
type Graph struct {
	ctx     *Context
	master  *Gain
	sources []source
	nodes   []Node
}

// Build constructs the soundscape on ctx and starts every source. The
// master gain is held at zero and ramps to MasterLevel over FadeIn of the
// context clock.
func Build(ctx *Context, rng *rand.Rand) (*Graph, error) {
	g := &Graph{ctx: ctx}
	if err := g.build(rng); err != nil {
		g.Stop()
		return nil, err
	}
	return g, nil
}

func (g *Graph) build(rng *rand.Rand) error {
	ctx := g.ctx
	g.master = ctx.NewGain(MasterLevel)
	g.nodes = append(g.nodes, g.master)
	if err := g.master.Connect(ctx.Destination()); err != nil {
		return err
	}

	// Beating drones and the sub-octave.
	for _, d := range []struct {
		wave Waveform
		freq float64
		gain float64
	}{
		{Sine, DroneFreq, DroneGain},
		{Sine, DroneDetune, DetuneGain},
		{Triangle, SubDroneFreq, SubDroneGain},
	} {
		osc, err := ctx.NewOscillator(d.wave, d.freq)
		if err != nil {
			return fmt.Errorf("audio: drone: %w", err)
		}
		if err := g.chain(osc, ctx.NewGain(d.gain), g.master); err != nil {
			return err
		}
		g.sources = append(g.sources, osc)
	}

	noise := noiseBuffer(ctx.SampleRate(), rng)

	// Electrical hum.
	hum := ctx.NewBufferSource(noise, true)
	if err := g.chain(hum, ctx.NewBiquad(Lowpass, HumCutoff, HumQ), ctx.NewGain(HumGain), g.master); err != nil {
		return err
	}
	g.sources = append(g.sources, hum)

	// Breathing: an LFO drives the gain of band-passed noise whose own
	// gain rests at zero.
	lfo, err := ctx.NewOscillator(Sine, BreathRate)
	if err != nil {
		return fmt.Errorf("audio: breath lfo: %w", err)
	}
	depth := ctx.NewGain(BreathDepth)
	breathGain := ctx.NewGain(0)
	if err := g.chain(lfo, depth); err != nil {
		return err
	}
	g.nodes = append(g.nodes, depth)
	if err := depth.ConnectParam(breathGain.Gain()); err != nil {
		return err
	}
	breath := ctx.NewBufferSource(noise, true)
	if err := g.chain(breath, ctx.NewBiquad(Bandpass, BreathCentre, BreathQ), breathGain, g.master); err != nil {
		return err
	}
	g.sources = append(g.sources, lfo, breath)

	now := ctx.CurrentTime()
	g.master.Gain().SetValueAtTime(0, now)
	g.master.Gain().LinearRampToValueAtTime(MasterLevel, now+FadeIn.Seconds())

	for _, s := range g.sources {
		if err := s.Start(); err != nil {
			return err
		}
	}
	return nil
}

// chain connects each node to the next and records them for teardown.
// The last node is assumed to be recorded already.
func (g *Graph) chain(nodes ...Node) error {
	for i := 0; i < len(nodes)-1; i++ {
		g.nodes = append(g.nodes, nodes[i])
		if err := nodes[i].Connect(nodes[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// Master returns the master gain node.
func (g *Graph) Master() *Gain { return g.master }

// Context returns the graph's context.
func (g *Graph) Context() *Context { return g.ctx }

// Nodes returns how many nodes the graph created, excluding the destination.
func (g *Graph) Nodes() int { return len(g.nodes) }

// Stop stops every source, disconnects every node and closes the context.
// It tolerates repeated calls.
func (g *Graph) Stop() {
	for _, s := range g.sources {
		s.Stop()
	}
	for _, n := range g.nodes {
		n.Disconnect()
	}
	_ = g.ctx.Close()
}

// noiseBuffer records NoiseLength of white noise in [-NoiseAmplitude,
// NoiseAmplitude].
func noiseBuffer(rate beep.SampleRate, rng *rand.Rand) *beep.Buffer {
	buf := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 1, Precision: 3})
	white := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := (rng.Float64()*2 - 1) * NoiseAmplitude
			samples[i][0], samples[i][1] = v, v
		}
		return len(samples), true
	})
	buf.Append(beep.Take(rate.N(NoiseLength), white))
	return buf
}
