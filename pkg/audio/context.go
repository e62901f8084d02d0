// Package audio synthesises the ambient soundscape of Alternate mode.
//
// Sound is produced by a small pull-based graph of mono nodes owned by a
// Context. The Context's Destination is a beep.Streamer; whoever drives it
// (the speaker, or a test) advances the Context clock by the number of
// samples rendered. Parameter automation is scheduled against that clock,
// never against wall time.
package audio

import (
	"errors"
	"sync"

	"github.com/gopxl/beep"
)

// DefaultSampleRate is the rate used when none is configured.
const DefaultSampleRate = beep.SampleRate(44100)

var (
	// ErrClosed is returned when mutating a graph whose Context is closed.
	ErrClosed = errors.New("audio: context closed")
	// ErrForeignNode is returned when connecting nodes of different contexts.
	ErrForeignNode = errors.New("audio: node belongs to another context")
	// ErrInvalidFrequency is returned for frequencies outside (0, rate/2).
	ErrInvalidFrequency = errors.New("audio: invalid frequency")
)

// Context owns a graph's nodes and its sample clock. All methods are safe
// for concurrent use; rendering holds the lock for a whole block.
type Context struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	frame  int
	nodes  []*node
	closed bool
	dest   *Destination
}

// NewContext returns an open Context rendering at rate.
func NewContext(rate beep.SampleRate) *Context {
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	c := &Context{rate: rate}
	c.dest = &Destination{}
	c.dest.node = c.register("destination", c.dest.process)
	return c
}

// SampleRate returns the rendering rate.
func (c *Context) SampleRate() beep.SampleRate { return c.rate }

// CurrentTime returns the context clock in seconds: samples rendered so
// far divided by the sample rate.
func (c *Context) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now()
}

func (c *Context) now() float64 {
	return float64(c.frame) / float64(c.rate)
}

// Destination returns the node whose input is the graph output.
func (c *Context) Destination() *Destination { return c.dest }

// LiveNodes returns how many nodes are still connected or playing.
func (c *Context) LiveNodes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, nd := range c.nodes {
		if nd.live() {
			n++
		}
	}
	return n
}

// Connections returns the number of edges in the graph, counting
// connections into parameters.
func (c *Context) Connections() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, nd := range c.nodes {
		n += len(nd.outputs) + len(nd.params)
	}
	return n
}

// Closed reports whether Close has been called.
func (c *Context) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close stops every source, severs every connection and releases the
// node registry. Closing twice is a no-op.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	for _, nd := range c.nodes {
		nd.playing = false
		nd.disconnect()
	}
	c.nodes = nil
	c.closed = true
	return nil
}

// Render pulls n samples through the graph and returns the mono output.
// It is the offline counterpart of Destination.Stream.
func (c *Context) Render(n int) []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]float64, n)
	if c.closed {
		return out
	}
	copy(out, c.dest.pull(c.frame, n))
	c.frame += n
	return out
}

func (c *Context) register(kind string, render func(out []float64, t0 int)) *node {
	nd := &node{ctx: c, kind: kind, render: render, cacheT0: -1}
	c.mu.Lock()
	if !c.closed {
		c.nodes = append(c.nodes, nd)
	}
	c.mu.Unlock()
	return nd
}
