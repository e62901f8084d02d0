// Package trigger recognises the covert gestures that request a mode switch.
package trigger

import "time"

// Kind is the type of gesture observed.
type Kind int

const (
	// TitleClick is a click on the page title. Activation needs a burst.
	TitleClick Kind = iota
	// HiddenPixelClick is a click on the concealed footer cell.
	HiddenPixelClick
)

func (k Kind) String() string {
	switch k {
	case TitleClick:
		return "title"
	case HiddenPixelClick:
		return "hidden-pixel"
	default:
		return "unknown"
	}
}

const (
	// DefaultWindow is the trailing span a title-click burst must fit in.
	DefaultWindow = 3000 * time.Millisecond
	// DefaultClicks is the burst length that requests activation.
	DefaultClicks = 6
)

// Detector turns gestures into activation requests. It is not safe for
// concurrent use; gestures arrive on the update loop.
type Detector struct {
	window time.Duration
	need   int
	clicks []time.Time
}

// NewDetector returns a Detector using DefaultWindow and DefaultClicks.
func NewDetector() *Detector {
	return &Detector{window: DefaultWindow, need: DefaultClicks}
}

// Observe records a gesture at time at and reports whether it requests
// activation. A satisfied title burst clears the window so residual clicks
// cannot fire a second time.
func (d *Detector) Observe(kind Kind, at time.Time) bool {
	switch kind {
	case HiddenPixelClick:
		return true
	case TitleClick:
	default:
		return false
	}

	d.clicks = append(d.clicks, at)
	cut := 0
	for cut < len(d.clicks) && at.Sub(d.clicks[cut]) > d.window {
		cut++
	}
	d.clicks = d.clicks[cut:]

	if len(d.clicks) >= d.need {
		d.clicks = nil
		return true
	}
	return false
}

// Pending returns the number of title clicks still inside the window.
func (d *Detector) Pending() int { return len(d.clicks) }

// Reset drops every recorded click.
func (d *Detector) Reset() { d.clicks = nil }
