package audio

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// ErrAudioUnavailable wraps every failure to build the graph or open the
// output device.
var ErrAudioUnavailable = errors.New("audio: unavailable")

// Output is a sink that pulls samples from a playing graph.
type Output interface {
	Open(rate beep.SampleRate, s beep.Streamer) error
	Close() error
}

// Speaker entry points. beep's speaker can be initialised once per process
// and never reopened, so only CloseSpeaker calls speakerClose.
var (
	speakerInit   = speaker.Init
	speakerPlay   = func(s beep.Streamer) { speaker.Play(s) }
	speakerLock   = speaker.Lock
	speakerUnlock = speaker.Unlock
	speakerClear  = speaker.Clear
	speakerClose  = speaker.Close
)

// device is the process-wide speaker state.
var device struct {
	mu   sync.Mutex
	rate beep.SampleRate // zero until initialised
}

// openDevice initialises the speaker on first use and returns the rate it
// runs at. A failed initialisation is retried by the next call.
func openDevice(rate beep.SampleRate, buf time.Duration) (beep.SampleRate, error) {
	device.mu.Lock()
	defer device.mu.Unlock()
	if device.rate != 0 {
		return device.rate, nil
	}
	if err := speakerInit(rate, rate.N(buf)); err != nil {
		return 0, err
	}
	device.rate = rate
	return rate, nil
}

// CloseSpeaker releases the audio device at program exit. It is a no-op
// when the speaker was never opened.
func CloseSpeaker() {
	device.mu.Lock()
	defer device.mu.Unlock()
	if device.rate == 0 {
		return
	}
	speakerClear()
	speakerClose()
	device.rate = 0
}

// SpeakerOutput plays through the system audio device. The device stays
// open between runs; Close only detaches the stream.
type SpeakerOutput struct {
	// Buffer is the device buffer length; 100ms when zero.
	Buffer time.Duration

	mu   sync.Mutex
	ctrl *beep.Ctrl
}

// Open starts playing s, initialising the speaker on first use. A stream
// at a rate other than the device's is resampled.
func (o *SpeakerOutput) Open(rate beep.SampleRate, s beep.Streamer) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ctrl != nil {
		return fmt.Errorf("audio: speaker output already open")
	}

	buf := o.Buffer
	if buf <= 0 {
		buf = 100 * time.Millisecond
	}
	devRate, err := openDevice(rate, buf)
	if err != nil {
		return err
	}
	if devRate != rate {
		s = beep.Resample(4, rate, devRate, s)
	}
	o.ctrl = &beep.Ctrl{Streamer: s}
	speakerPlay(o.ctrl)
	return nil
}

// Close pauses and detaches the stream and clears the speaker's mixer.
func (o *SpeakerOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ctrl == nil {
		return nil
	}
	speakerLock()
	o.ctrl.Paused = true
	o.ctrl.Streamer = nil
	speakerUnlock()
	speakerClear()
	o.ctrl = nil
	return nil
}

// NullOutput accepts a stream without playing it. Tests drive it with
// Pull; Err makes Open fail as an unavailable device would.
type NullOutput struct {
	Err error

	mu     sync.Mutex
	stream beep.Streamer
}

// Open implements Output.
func (o *NullOutput) Open(_ beep.SampleRate, s beep.Streamer) error {
	if o.Err != nil {
		return o.Err
	}
	o.mu.Lock()
	o.stream = s
	o.mu.Unlock()
	return nil
}

// Close implements Output.
func (o *NullOutput) Close() error {
	o.mu.Lock()
	o.stream = nil
	o.mu.Unlock()
	return nil
}

// Pull renders n samples from the open stream, as a device callback
// would. It reports how many samples were produced.
func (o *NullOutput) Pull(n int) int {
	o.mu.Lock()
	s := o.stream
	o.mu.Unlock()
	if s == nil {
		return 0
	}
	got, _ := s.Stream(make([][2]float64, n))
	return got
}

// Attached reports whether a stream is attached.
func (o *NullOutput) Attached() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stream != nil
}

// EngineConfig configures an Engine.
type EngineConfig struct {
	Output     Output
	SampleRate beep.SampleRate
	Rand       *rand.Rand
	Logger     *slog.Logger

	// Audible gates the output; while it reports false the graph keeps
	// running but the device receives silence. Nil means always audible.
	Audible func() bool
}

// Engine starts and stops the soundscape. Every Start builds a fresh
// Context and Graph; nothing is reused across runs.
type Engine struct {
	out  Output
	rate beep.SampleRate
	rng  *rand.Rand
	log  *slog.Logger
	gate func() bool

	mu    sync.Mutex
	graph *Graph
}

// NewEngine returns a stopped Engine.
func NewEngine(cfg EngineConfig) *Engine {
	e := &Engine{out: cfg.Output, rate: cfg.SampleRate, rng: cfg.Rand, log: cfg.Logger, gate: cfg.Audible}
	if e.out == nil {
		e.out = &SpeakerOutput{}
	}
	if e.rate <= 0 {
		e.rate = DefaultSampleRate
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if e.log == nil {
		e.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e.log = e.log.With("component", "audio")
	return e
}

// Start builds a new graph and opens the output. A failure leaves the
// engine stopped and wraps ErrAudioUnavailable.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.graph != nil {
		return fmt.Errorf("audio: start: already running")
	}

	g, err := Build(NewContext(e.rate), e.rng)
	if err != nil {
		return fmt.Errorf("%w: build graph: %w", ErrAudioUnavailable, err)
	}
	var s beep.Streamer = g.Context().Destination()
	if e.gate != nil {
		s = gated{Streamer: s, audible: e.gate}
	}
	if err := e.out.Open(e.rate, s); err != nil {
		g.Stop()
		return fmt.Errorf("%w: open output: %w", ErrAudioUnavailable, err)
	}
	e.graph = g
	e.log.Debug("soundscape started", "rate", int(e.rate), "nodes", g.Nodes())
	return nil
}

// Stop closes the output and tears down the graph. Stopping a stopped
// engine is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.graph == nil {
		return
	}
	if err := e.out.Close(); err != nil {
		e.log.Warn("closing audio output", "error", err)
	}
	e.graph.Stop()
	e.log.Debug("soundscape stopped", "elapsed", e.graph.Context().CurrentTime())
	e.graph = nil
}

// Running reports whether a graph is playing.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph != nil
}

// Graph returns the playing graph, or nil when stopped.
func (e *Engine) Graph() *Graph {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph
}

type gated struct {
	beep.Streamer
	audible func() bool
}

func (g gated) Stream(samples [][2]float64) (int, bool) {
	n, ok := g.Streamer.Stream(samples)
	if !g.audible() {
		clear(samples[:n])
	}
	return n, ok
}
