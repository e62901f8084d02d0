package sched

import (
	"sync"
	"time"
)

// FireMsg is posted into the host program when a timer or frame comes due.
// The host hands it back to Loop.Dispatch from its update loop.
type FireMsg struct {
	ID Handle
	At time.Time
}

type loopEntry struct {
	timer *time.Timer
	fn    func()
	frame func(time.Time)
}

// Loop is the production Scheduler. Timers are armed with time.AfterFunc,
// but their callbacks only run when the host dispatches the resulting
// FireMsg, which keeps all effect code on one goroutine.
type Loop struct {
	mu            sync.Mutex
	post          func(any)
	frameInterval time.Duration
	next          Handle
	entries       map[Handle]*loopEntry
}

// NewLoop creates a Loop whose frames are spaced for fps frames per second.
func NewLoop(fps int) *Loop {
	return &Loop{
		frameInterval: FrameInterval(fps),
		entries:       make(map[Handle]*loopEntry),
	}
}

// Attach sets the function used to deliver FireMsgs, typically
// (*tea.Program).Send. Messages due before Attach are dropped.
func (l *Loop) Attach(post func(any)) {
	l.mu.Lock()
	l.post = post
	l.mu.Unlock()
}

// Now returns wall-clock time.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// After schedules fn to run once after d.
func (l *Loop) After(d time.Duration, fn func()) Handle {
	return l.schedule(d, &loopEntry{fn: fn})
}

// Frame schedules fn for the next frame.
func (l *Loop) Frame(fn func(now time.Time)) Handle {
	return l.schedule(l.frameInterval, &loopEntry{frame: fn})
}

func (l *Loop) schedule(d time.Duration, e *loopEntry) Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.next++
	id := l.next
	l.entries[id] = e
	e.timer = time.AfterFunc(d, func() { l.deliver(id) })
	return id
}

func (l *Loop) deliver(id Handle) {
	l.mu.Lock()
	_, live := l.entries[id]
	post := l.post
	l.mu.Unlock()

	if live && post != nil {
		post(FireMsg{ID: id, At: time.Now()})
	}
}

// Dispatch runs the callback behind msg if its handle is still live. It
// must be called from the host's update loop. A cancelled handle makes the
// message a no-op.
func (l *Loop) Dispatch(msg FireMsg) bool {
	l.mu.Lock()
	e, ok := l.entries[msg.ID]
	if ok {
		delete(l.entries, msg.ID)
	}
	l.mu.Unlock()

	if !ok {
		return false
	}
	if e.frame != nil {
		e.frame(msg.At)
	} else if e.fn != nil {
		e.fn()
	}
	return true
}

// Cancel stops the timer behind h.
func (l *Loop) Cancel(h Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[h]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(l.entries, h)
	return true
}

// Live returns the number of pending callbacks.
func (l *Loop) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Close cancels every pending callback.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for id, e := range l.entries {
		e.timer.Stop()
		delete(l.entries, id)
	}
	l.post = nil
}
