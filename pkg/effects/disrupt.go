package effects

import (
	"time"

	"gitlab.com/tinyland/lab/lantern/pkg/mode"
	"gitlab.com/tinyland/lab/lantern/pkg/sched"
)

// Period is an inclusive range a random interval is drawn from.
type Period struct {
	Min, Max time.Duration
}

func (p Period) roll(rnd func(int64) int64) time.Duration {
	if p.Max <= p.Min {
		return p.Min
	}
	return p.Min + time.Duration(rnd(int64(p.Max-p.Min)+1))
}

// Disrupt fires three kinds of brief startling events at random intervals:
// a card flicker, a full-screen blackout and a page jitter.
type Disrupt struct {
	Flicker  Period
	Blackout Period
	Jitter   Period

	FlickerFor  time.Duration
	BlackoutFor time.Duration
	JitterFor   time.Duration

	running bool
}

// NewDisrupt returns the disruptive event scheduler with its standard
// timings.
func NewDisrupt() *Disrupt {
	return &Disrupt{
		Flicker:     Period{3 * time.Second, 8 * time.Second},
		Blackout:    Period{8 * time.Second, 15 * time.Second},
		Jitter:      Period{5 * time.Second, 10 * time.Second},
		FlickerFor:  300 * time.Millisecond,
		BlackoutFor: 100 * time.Millisecond,
		JitterFor:   150 * time.Millisecond,
	}
}

// Name implements Generator.
func (d *Disrupt) Name() string { return "disrupt" }

// Start implements Generator. Each chain re-rolls its period every time it
// fires and stops re-arming once it observes a mode other than Alternate.
func (d *Disrupt) Start(env Env) (Disposer, error) {
	if d.running {
		return nil, ErrAlreadyRunning
	}
	d.running = true

	var (
		page      = env.Page
		s         = env.Scheduler
		rng       = env.rng()
		log       = env.logger()
		pending   = make(map[*sched.Handle]struct{})
		blackouts = make(map[int]struct{})
	)

	// later runs fn after delay and forgets the handle once it fires.
	later := func(delay time.Duration, fn func()) {
		h := new(sched.Handle)
		*h = s.After(delay, func() {
			delete(pending, h)
			fn()
		})
		pending[h] = struct{}{}
	}

	var arm func(p Period, fire func())
	arm = func(p Period, fire func()) {
		later(p.roll(rng.Int64N), func() {
			if !env.Mode.Is(mode.Alternate) {
				return
			}
			fire()
			arm(p, fire)
		})
	}

	arm(d.Flicker, func() {
		n := page.CardCount()
		if n == 0 {
			return
		}
		i := rng.IntN(n)
		page.SetFlicker(i, true)
		log.Debug("card flicker", "card", i)
		later(d.FlickerFor, func() { page.SetFlicker(i, false) })
	})
	arm(d.Blackout, func() {
		id := page.AddBlackout()
		blackouts[id] = struct{}{}
		log.Debug("blackout")
		later(d.BlackoutFor, func() {
			delete(blackouts, id)
			page.RemoveBlackout(id)
		})
	})
	arm(d.Jitter, func() {
		page.SetShake(true)
		later(d.JitterFor, func() { page.SetShake(false) })
	})

	return once(func() {
		for h := range pending {
			s.Cancel(*h)
			delete(pending, h)
		}
		for id := range blackouts {
			page.RemoveBlackout(id)
			delete(blackouts, id)
		}
		page.SetShake(false)
		page.ClearFlicker()
		d.running = false
	}), nil
}
