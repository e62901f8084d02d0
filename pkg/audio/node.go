package audio

import "slices"

// Node is a unit of the synthesis graph.
type Node interface {
	// Connect routes this node's output into dst.
	Connect(dst Node) error
	// ConnectParam routes this node's output into p, adding to its value.
	ConnectParam(p *Param) error
	// Disconnect removes every outgoing connection. It tolerates being
	// called on an already disconnected node.
	Disconnect()

	core() *node
}

type node struct {
	ctx     *Context
	kind    string
	render  func(out []float64, t0 int)
	playing bool

	inputs  []*node
	outputs []*node
	params  []*Param

	cacheT0 int
	cache   []float64
}

func (n *node) core() *node { return n }

func (n *node) live() bool {
	return n.playing || len(n.inputs) > 0 || len(n.outputs) > 0 || len(n.params) > 0
}

// Connect implements Node.
func (n *node) Connect(dst Node) error {
	d := dst.core()
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	if n.ctx.closed {
		return ErrClosed
	}
	if d.ctx != n.ctx {
		return ErrForeignNode
	}
	d.inputs = append(d.inputs, n)
	n.outputs = append(n.outputs, d)
	return nil
}

// ConnectParam implements Node.
func (n *node) ConnectParam(p *Param) error {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	if n.ctx.closed {
		return ErrClosed
	}
	if p.ctx != n.ctx {
		return ErrForeignNode
	}
	p.inputs = append(p.inputs, n)
	n.params = append(n.params, p)
	return nil
}

// Disconnect implements Node.
func (n *node) Disconnect() {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	n.disconnect()
}

func (n *node) disconnect() {
	for _, d := range n.outputs {
		d.inputs = slices.DeleteFunc(d.inputs, func(x *node) bool { return x == n })
	}
	for _, p := range n.params {
		p.inputs = slices.DeleteFunc(p.inputs, func(x *node) bool { return x == n })
	}
	n.outputs = nil
	n.params = nil
}

// pull returns this node's output for [t0, t0+count). A block is rendered
// once and shared by every consumer. Callers hold ctx.mu.
func (n *node) pull(t0, count int) []float64 {
	if n.cacheT0 == t0 && len(n.cache) == count {
		return n.cache
	}
	if cap(n.cache) < count {
		n.cache = make([]float64, count)
	}
	n.cache = n.cache[:count]
	clear(n.cache)
	if n.render != nil {
		n.render(n.cache, t0)
	}
	n.cacheT0 = t0
	return n.cache
}

func (n *node) mixInputs(out []float64, t0 int) {
	for _, in := range n.inputs {
		for i, v := range in.pull(t0, len(out)) {
			out[i] += v
		}
	}
}

// start and stop implement the source lifecycle for oscillators and
// buffer sources. Stopping twice is a no-op.
func (n *node) start() error {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	if n.ctx.closed {
		return ErrClosed
	}
	n.playing = true
	return nil
}

func (n *node) stop() {
	n.ctx.mu.Lock()
	n.playing = false
	n.ctx.mu.Unlock()
}
