package sched

import "time"

type manualEntry struct {
	due   time.Time
	fn    func()
	frame func(time.Time)
}

// Manual is a deterministic Scheduler driven by Advance. Callbacks run
// synchronously, in due order, on the goroutine calling Advance. It is the
// scheduler used by tests and by offline rendering.
type Manual struct {
	now           time.Time
	frameInterval time.Duration
	next          Handle
	entries       map[Handle]*manualEntry
}

// NewManual returns a Manual clock starting at start with frames spaced by
// frameInterval (FrameInterval(DefaultFrameRate) if non-positive).
func NewManual(start time.Time, frameInterval time.Duration) *Manual {
	if frameInterval <= 0 {
		frameInterval = FrameInterval(DefaultFrameRate)
	}
	return &Manual{
		now:           start,
		frameInterval: frameInterval,
		entries:       make(map[Handle]*manualEntry),
	}
}

// Now returns the simulated time.
func (m *Manual) Now() time.Time { return m.now }

// FrameInterval returns the simulated frame spacing.
func (m *Manual) FrameInterval() time.Duration { return m.frameInterval }

// After schedules fn at Now()+d.
func (m *Manual) After(d time.Duration, fn func()) Handle {
	return m.add(&manualEntry{due: m.now.Add(d), fn: fn})
}

// Frame schedules fn one frame interval from now.
func (m *Manual) Frame(fn func(now time.Time)) Handle {
	return m.add(&manualEntry{due: m.now.Add(m.frameInterval), frame: fn})
}

func (m *Manual) add(e *manualEntry) Handle {
	m.next++
	m.entries[m.next] = e
	return m.next
}

// Cancel removes a pending callback.
func (m *Manual) Cancel(h Handle) bool {
	if _, ok := m.entries[h]; !ok {
		return false
	}
	delete(m.entries, h)
	return true
}

// Live returns the number of pending callbacks.
func (m *Manual) Live() int { return len(m.entries) }

// Dispatch satisfies the host interface; Manual never posts messages.
func (m *Manual) Dispatch(FireMsg) bool { return false }

// Advance moves the clock forward by d, running every callback that comes
// due on the way. Callbacks scheduled while advancing run too if they fall
// inside the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		id, e := m.earliest()
		if e == nil || e.due.After(target) {
			break
		}
		m.fire(id, e)
	}
	m.now = target
}

// Step runs the single earliest callback, moving the clock to its due time.
// It reports false when nothing is pending.
func (m *Manual) Step() bool {
	id, e := m.earliest()
	if e == nil {
		return false
	}
	m.fire(id, e)
	return true
}

func (m *Manual) fire(id Handle, e *manualEntry) {
	delete(m.entries, id)
	if e.due.After(m.now) {
		m.now = e.due
	}
	if e.frame != nil {
		e.frame(m.now)
	} else if e.fn != nil {
		e.fn()
	}
}

func (m *Manual) earliest() (Handle, *manualEntry) {
	var (
		bestID Handle
		best   *manualEntry
	)
	for id, e := range m.entries {
		if best == nil || e.due.Before(best.due) || (e.due.Equal(best.due) && id < bestID) {
			bestID, best = id, e
		}
	}
	return bestID, best
}
