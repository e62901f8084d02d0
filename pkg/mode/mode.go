// Package mode holds the process-wide presentation mode. A single Switch is
// owned by the effects orchestrator; every other component receives the
// read-only Reader view and re-reads it on every cycle instead of caching.
package mode

import "sync/atomic"

// Mode is the current presentation state of the page.
type Mode int32

const (
	Normal Mode = iota
	Alternate
)

// String returns the lowercase mode name used in logs.
func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Alternate:
		return "alternate"
	default:
		return "unknown"
	}
}

// Reader is the read-only view of the mode handed to effect generators.
type Reader interface {
	Current() Mode
	Is(m Mode) bool
}

// Switch is the single writable mode value. Reads are atomic so the audio
// output goroutine can observe it without joining the update loop.
type Switch struct {
	v atomic.Int32
}

// NewSwitch returns a Switch in Normal mode.
func NewSwitch() *Switch {
	return &Switch{}
}

// Current returns the mode at the time of the call.
func (s *Switch) Current() Mode {
	return Mode(s.v.Load())
}

// Is reports whether the current mode equals m.
func (s *Switch) Is(m Mode) bool {
	return s.Current() == m
}

// Set stores m and returns the previous mode.
func (s *Switch) Set(m Mode) Mode {
	return Mode(s.v.Swap(int32(m)))
}
