// Package sched provides the cooperative timer and animation-frame
// scheduler the page effects run on. Every callback is delivered on the
// Bubbletea update goroutine, so effects never need locks; every scheduled
// callback is identified by a Handle that can be cancelled exactly once.
package sched

import "time"

// Handle identifies one pending timer or frame callback. The zero Handle
// never refers to a live callback.
type Handle uint64

// DefaultFrameRate is the animation frame rate used when none is configured.
const DefaultFrameRate = 30

// Scheduler issues one-shot timers and animation frames.
type Scheduler interface {
	// Now returns the scheduler's clock.
	Now() time.Time

	// After runs fn once after d has elapsed.
	After(d time.Duration, fn func()) Handle

	// Frame runs fn at the next animation frame with the frame timestamp.
	Frame(fn func(now time.Time)) Handle

	// Cancel releases a pending callback. It reports whether h was still
	// live; cancelling an inert handle is a no-op.
	Cancel(h Handle) bool

	// Live returns the number of callbacks still pending.
	Live() int
}

// FrameInterval converts a frame rate into the delay between frames.
// Non-positive rates fall back to DefaultFrameRate.
func FrameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	return time.Second / time.Duration(fps)
}
