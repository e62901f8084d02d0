package audio

import (
	"fmt"
	"math"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
)

// Destination is the graph output. It implements beep.Streamer so it can
// be handed straight to the speaker; every Stream call advances the
// context clock.
type Destination struct {
	*node
}

func (d *Destination) process(out []float64, t0 int) {
	d.mixInputs(out, t0)
}

// Stream implements beep.Streamer. A closed context ends the stream.
func (d *Destination) Stream(samples [][2]float64) (int, bool) {
	c := d.ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, false
	}
	for i, v := range d.pull(c.frame, len(samples)) {
		v = max(-1, min(1, v))
		samples[i][0], samples[i][1] = v, v
	}
	c.frame += len(samples)
	return len(samples), true
}

// Err implements beep.Streamer.
func (d *Destination) Err() error { return nil }

// Gain scales the sum of its inputs by an automatable gain.
type Gain struct {
	*node
	gain    *Param
	scratch []float64
}

// NewGain returns a gain node with initial gain v.
func (c *Context) NewGain(v float64) *Gain {
	g := &Gain{gain: newParam(c, v)}
	g.node = c.register("gain", g.process)
	return g
}

// Gain returns the gain parameter.
func (g *Gain) Gain() *Param { return g.gain }

func (g *Gain) process(out []float64, t0 int) {
	g.mixInputs(out, t0)
	if cap(g.scratch) < len(out) {
		g.scratch = make([]float64, len(out))
	}
	gain := g.scratch[:len(out)]
	g.gain.fill(gain, t0)
	for i := range out {
		out[i] *= gain[i]
	}
}

// Waveform selects an oscillator shape.
type Waveform int

const (
	Sine Waveform = iota
	Triangle
)

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Triangle:
		return "triangle"
	default:
		return fmt.Sprintf("waveform(%d)", int(w))
	}
}

// Oscillator is a periodic source. It is silent until started.
type Oscillator struct {
	*node
	freq float64
	wave beep.Streamer
	buf  [][2]float64
}

// NewOscillator returns a stopped oscillator at freq Hz.
func (c *Context) NewOscillator(w Waveform, freq float64) (*Oscillator, error) {
	if freq <= 0 || freq >= float64(c.rate)/2 {
		return nil, fmt.Errorf("%w: %g Hz at %d Hz", ErrInvalidFrequency, freq, c.rate)
	}
	o := &Oscillator{freq: freq}
	switch w {
	case Sine:
		s, err := generators.SineTone(c.rate, freq)
		if err != nil {
			return nil, fmt.Errorf("audio: sine %g Hz: %w", freq, err)
		}
		o.wave = s
	case Triangle:
		o.wave = triangleTone(c.rate, freq)
	default:
		return nil, fmt.Errorf("audio: unsupported %v", w)
	}
	o.node = c.register("oscillator", o.process)
	return o, nil
}

// Frequency returns the oscillator frequency in Hz.
func (o *Oscillator) Frequency() float64 { return o.freq }

// Start begins producing output.
func (o *Oscillator) Start() error { return o.start() }

// Stop silences the oscillator. Stopping twice is a no-op.
func (o *Oscillator) Stop() { o.stop() }

func (o *Oscillator) process(out []float64, _ int) {
	if !o.playing {
		return
	}
	o.buf = streamMono(o.wave, o.buf, out)
}

// triangleTone starts at zero and rises, like a sine of the same phase.
func triangleTone(sr beep.SampleRate, freq float64) beep.Streamer {
	dt := freq / float64(sr)
	phase := 0.0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			p := math.Mod(phase+0.75, 1)
			v := 4*math.Abs(p-0.5) - 1
			samples[i][0], samples[i][1] = v, v
			_, phase = math.Modf(phase + dt)
		}
		return len(samples), true
	})
}

// BufferSource plays a recorded buffer, optionally looping forever.
type BufferSource struct {
	*node
	stream beep.Streamer
	buf    [][2]float64
}

// NewBufferSource returns a stopped source reading b from the start.
// Sources sharing a buffer keep independent positions.
func (c *Context) NewBufferSource(b *beep.Buffer, loop bool) *BufferSource {
	var s beep.Streamer = b.Streamer(0, b.Len())
	if loop {
		s = beep.Loop(-1, b.Streamer(0, b.Len()))
	}
	bs := &BufferSource{stream: s}
	bs.node = c.register("buffer-source", bs.process)
	return bs
}

// Start begins playback.
func (b *BufferSource) Start() error { return b.start() }

// Stop halts playback. Stopping twice is a no-op.
func (b *BufferSource) Stop() { b.stop() }

func (b *BufferSource) process(out []float64, _ int) {
	if !b.playing {
		return
	}
	var ended bool
	b.buf, ended = streamMonoEnded(b.stream, b.buf, out)
	if ended {
		b.playing = false
	}
}

func streamMono(s beep.Streamer, buf [][2]float64, out []float64) [][2]float64 {
	buf, _ = streamMonoEnded(s, buf, out)
	return buf
}

func streamMonoEnded(s beep.Streamer, buf [][2]float64, out []float64) ([][2]float64, bool) {
	if cap(buf) < len(out) {
		buf = make([][2]float64, len(out))
	}
	buf = buf[:len(out)]
	n, ok := s.Stream(buf)
	for i := 0; i < n; i++ {
		out[i] = buf[i][0]
	}
	return buf, !ok || n < len(out)
}

// FilterType selects a biquad response.
type FilterType int

const (
	Lowpass FilterType = iota
	Bandpass
)

// Biquad is a second-order IIR filter using the audio-EQ cookbook
// coefficients. Frequency and Q are read once per block.
type Biquad struct {
	*node
	typ            FilterType
	frequency, q   *Param
	x1, x2, y1, y2 float64
}

// NewBiquad returns a filter of typ at freq Hz with quality q. For Lowpass
// q is the resonance in dB; for Bandpass it is the linear quality factor.
func (c *Context) NewBiquad(typ FilterType, freq, q float64) *Biquad {
	f := &Biquad{typ: typ, frequency: newParam(c, freq), q: newParam(c, q)}
	f.node = c.register("biquad", f.process)
	return f
}

// Frequency returns the cutoff or centre frequency parameter.
func (f *Biquad) Frequency() *Param { return f.frequency }

// Q returns the quality parameter.
func (f *Biquad) Q() *Param { return f.q }

func (f *Biquad) process(out []float64, t0 int) {
	f.mixInputs(out, t0)

	rate := float64(f.ctx.rate)
	t := float64(t0) / rate
	freq := min(max(f.frequency.valueAt(t), 1), rate/2-1)
	q := f.q.valueAt(t)

	w0 := 2 * math.Pi * freq / rate
	cosw, sinw := math.Cos(w0), math.Sin(w0)

	var b0, b1, b2, alpha float64
	switch f.typ {
	case Bandpass:
		if q <= 0 {
			q = 1e-4
		}
		alpha = sinw / (2 * q)
		b0, b1, b2 = alpha, 0, -alpha
	default:
		alpha = sinw / (2 * math.Pow(10, q/20))
		b0 = (1 - cosw) / 2
		b1 = 1 - cosw
		b2 = b0
	}
	a0 := 1 + alpha
	a1 := -2 * cosw
	a2 := 1 - alpha

	b0, b1, b2, a1, a2 = b0/a0, b1/a0, b2/a0, a1/a0, a2/a0
	for i, x := range out {
		y := b0*x + b1*f.x1 + b2*f.x2 - a1*f.y1 - a2*f.y2
		f.x2, f.x1 = f.x1, x
		f.y2, f.y1 = f.y1, y
		out[i] = y
	}
}
