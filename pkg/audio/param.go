package audio

import "sort"

type automation struct {
	at   float64
	v    float64
	ramp bool
}

// Param is an automatable node parameter. Its value at any instant is the
// automation curve plus the sum of every node connected into it.
type Param struct {
	ctx    *Context
	value  float64
	events []automation
	inputs []*node
}

func newParam(ctx *Context, v float64) *Param {
	return &Param{ctx: ctx, value: v}
}

// Value returns the intrinsic value used before any automation event.
func (p *Param) Value() float64 {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	return p.value
}

// SetValue sets the intrinsic value.
func (p *Param) SetValue(v float64) {
	p.ctx.mu.Lock()
	p.value = v
	p.ctx.mu.Unlock()
}

// SetValueAtTime jumps to v at context time t seconds.
func (p *Param) SetValueAtTime(v, t float64) {
	p.schedule(automation{at: t, v: v})
}

// LinearRampToValueAtTime ramps linearly from the previous event to v,
// arriving at context time t seconds.
func (p *Param) LinearRampToValueAtTime(v, t float64) {
	p.schedule(automation{at: t, v: v, ramp: true})
}

func (p *Param) schedule(e automation) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].at > e.at })
	p.events = append(p.events, automation{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = e
}

// ValueAt returns the automation curve at context time t, excluding
// connected inputs.
func (p *Param) ValueAt(t float64) float64 {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	return p.valueAt(t)
}

func (p *Param) valueAt(t float64) float64 {
	v, vt := p.value, 0.0
	for _, e := range p.events {
		if e.at <= t {
			v, vt = e.v, e.at
			continue
		}
		if e.ramp {
			span := e.at - vt
			if span <= 0 {
				return e.v
			}
			return v + (e.v-v)*(t-vt)/span
		}
		break
	}
	return v
}

// fill writes the parameter's per-sample value for [t0, t0+len(out)).
// Callers hold ctx.mu.
func (p *Param) fill(out []float64, t0 int) {
	rate := float64(p.ctx.rate)
	if len(p.events) == 0 {
		for i := range out {
			out[i] = p.value
		}
	} else {
		for i := range out {
			out[i] = p.valueAt(float64(t0+i) / rate)
		}
	}
	for _, in := range p.inputs {
		for i, v := range in.pull(t0, len(out)) {
			out[i] += v
		}
	}
}
