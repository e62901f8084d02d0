package surface

import (
	"sort"
	"time"
)

// Root classes toggled on the page.
const (
	ClassAlternate = "alternate"
)

// Marker is one pointer-trail marker in the trail container.
type Marker struct {
	ID    int
	X, Y  int
	Born  time.Time
	Decay time.Duration
}

// Age returns how far through its decay the marker is at now, in [0, 1].
func (m Marker) Age(now time.Time) float64 {
	if m.Decay <= 0 {
		return 1
	}
	a := float64(now.Sub(m.Born)) / float64(m.Decay)
	switch {
	case a < 0:
		return 0
	case a > 1:
		return 1
	default:
		return a
	}
}

// Audit is a snapshot of every live page node and subscription. Two audits
// compare equal when the page holds the same set of transient resources.
type Audit struct {
	Markers        int
	Blackouts      int
	Flickers       int
	ResizeSubs     int
	PointerSubs    int
	Shaking        bool
	OverlayActive  bool
	OverlayPainted bool
	NoisePainted   bool
	Alternate      bool
	Label          string
}

// Page is the mutable presentation surface. It is not safe for concurrent
// use; all mutation happens on the update loop.
type Page struct {
	w, h int

	overlay       *Layer
	overlayActive bool
	noise         *Layer

	markers    []Marker
	nextMarker int

	label   string
	classes map[string]bool
	shake   bool

	blackouts    map[int]struct{}
	nextBlackout int
	cards        int
	flicker      map[int]bool
	resizeSubs   map[int]func(w, h int)
	pointerSubs  map[int]func(x, y int)
	nextSub      int
	pointerX     int
	pointerY     int
}

// NewPage returns a page for a w×h viewport with the given section label.
func NewPage(w, h int, label string) *Page {
	return &Page{
		w:           w,
		h:           h,
		overlay:     NewLayer(w, h),
		noise:       NewLayer(0, 0),
		label:       label,
		classes:     make(map[string]bool),
		blackouts:   make(map[int]struct{}),
		flicker:     make(map[int]bool),
		resizeSubs:  make(map[int]func(int, int)),
		pointerSubs: make(map[int]func(int, int)),
	}
}

// Size returns the viewport size in cells.
func (p *Page) Size() (int, int) { return p.w, p.h }

// Resize updates the viewport and notifies resize subscribers.
func (p *Page) Resize(w, h int) {
	if w == p.w && h == p.h {
		return
	}
	p.w, p.h = w, h
	if p.overlayActive {
		p.overlay.Resize(w, h)
	}
	for _, id := range sortedKeys(p.resizeSubs) {
		if fn, ok := p.resizeSubs[id]; ok {
			fn(w, h)
		}
	}
}

// OnResize subscribes fn to viewport changes. The returned function
// unsubscribes and may be called any number of times.
func (p *Page) OnResize(fn func(w, h int)) func() {
	p.nextSub++
	id := p.nextSub
	p.resizeSubs[id] = fn
	return func() { delete(p.resizeSubs, id) }
}

// Pointer returns the last pointer position.
func (p *Page) Pointer() (int, int) { return p.pointerX, p.pointerY }

// PointerMove records the pointer position and notifies subscribers.
func (p *Page) PointerMove(x, y int) {
	p.pointerX, p.pointerY = x, y
	for _, id := range sortedKeys(p.pointerSubs) {
		if fn, ok := p.pointerSubs[id]; ok {
			fn(x, y)
		}
	}
}

// OnPointerMove subscribes fn to pointer movement.
func (p *Page) OnPointerMove(fn func(x, y int)) func() {
	p.nextSub++
	id := p.nextSub
	p.pointerSubs[id] = fn
	return func() { delete(p.pointerSubs, id) }
}

// --- overlay and noise regions ---

// Overlay returns the transition overlay layer.
func (p *Page) Overlay() *Layer { return p.overlay }

// ActivateOverlay sizes the overlay to the viewport and shows it.
func (p *Page) ActivateOverlay() *Layer {
	p.overlay.Resize(p.w, p.h)
	p.overlayActive = true
	return p.overlay
}

// DeactivateOverlay clears and hides the overlay.
func (p *Page) DeactivateOverlay() {
	p.overlay.Clear()
	p.overlayActive = false
}

// OverlayActive reports whether the overlay is shown.
func (p *Page) OverlayActive() bool { return p.overlayActive }

// Noise returns the ambient noise layer.
func (p *Page) Noise() *Layer { return p.noise }

// --- trail container ---

// AddMarker appends a trail marker and returns it.
func (p *Page) AddMarker(x, y int, born time.Time, decay time.Duration) Marker {
	p.nextMarker++
	m := Marker{ID: p.nextMarker, X: x, Y: y, Born: born, Decay: decay}
	p.markers = append(p.markers, m)
	return m
}

// RemoveMarker drops the marker with id; removing an absent marker is a
// no-op.
func (p *Page) RemoveMarker(id int) bool {
	for i, m := range p.markers {
		if m.ID == id {
			p.markers = append(p.markers[:i], p.markers[i+1:]...)
			return true
		}
	}
	return false
}

// OldestMarker returns the first marker in the container.
func (p *Page) OldestMarker() (Marker, bool) {
	if len(p.markers) == 0 {
		return Marker{}, false
	}
	return p.markers[0], true
}

// Markers returns a copy of the live markers, oldest first.
func (p *Page) Markers() []Marker {
	out := make([]Marker, len(p.markers))
	copy(out, p.markers)
	return out
}

// MarkerCount returns the number of live markers.
func (p *Page) MarkerCount() int { return len(p.markers) }

// ClearMarkers removes every marker immediately.
func (p *Page) ClearMarkers() { p.markers = nil }

// --- label and root classes ---

// Label returns the swappable section label.
func (p *Page) Label() string { return p.label }

// SetLabel replaces the section label and returns the previous text.
func (p *Page) SetLabel(s string) string {
	prev := p.label
	p.label = s
	return prev
}

// AddClass sets a root class.
func (p *Page) AddClass(name string) { p.classes[name] = true }

// RemoveClass clears a root class.
func (p *Page) RemoveClass(name string) { delete(p.classes, name) }

// HasClass reports whether a root class is set.
func (p *Page) HasClass(name string) bool { return p.classes[name] }

// --- disruptive state ---

// SetShake toggles the page jitter state.
func (p *Page) SetShake(on bool) { p.shake = on }

// Shaking reports whether jitter is active.
func (p *Page) Shaking() bool { return p.shake }

// AddBlackout adds an opaque full-viewport cover and returns its id.
func (p *Page) AddBlackout() int {
	p.nextBlackout++
	p.blackouts[p.nextBlackout] = struct{}{}
	return p.nextBlackout
}

// RemoveBlackout removes a cover; absent ids are ignored.
func (p *Page) RemoveBlackout(id int) bool {
	if _, ok := p.blackouts[id]; !ok {
		return false
	}
	delete(p.blackouts, id)
	return true
}

// BlackedOut reports whether any cover is present.
func (p *Page) BlackedOut() bool { return len(p.blackouts) > 0 }

// SetCardCount records how many item cards are currently rendered. Flicker
// flags for cards that no longer exist are dropped.
func (p *Page) SetCardCount(n int) {
	p.cards = n
	for i := range p.flicker {
		if i >= n {
			delete(p.flicker, i)
		}
	}
}

// CardCount returns the number of rendered cards.
func (p *Page) CardCount() int { return p.cards }

// SetFlicker toggles the flicker state of card i.
func (p *Page) SetFlicker(i int, on bool) {
	if on {
		p.flicker[i] = true
		return
	}
	delete(p.flicker, i)
}

// Flickering reports whether card i is flickering.
func (p *Page) Flickering(i int) bool { return p.flicker[i] }

// ClearFlicker resets every card's flicker state.
func (p *Page) ClearFlicker() {
	for i := range p.flicker {
		delete(p.flicker, i)
	}
}

// Audit snapshots the page's transient resources.
func (p *Page) Audit() Audit {
	return Audit{
		Markers:        len(p.markers),
		Blackouts:      len(p.blackouts),
		Flickers:       len(p.flicker),
		ResizeSubs:     len(p.resizeSubs),
		PointerSubs:    len(p.pointerSubs),
		Shaking:        p.shake,
		OverlayActive:  p.overlayActive,
		OverlayPainted: !p.overlay.Empty(),
		NoisePainted:   !p.noise.Empty(),
		Alternate:      p.classes[ClassAlternate],
		Label:          p.label,
	}
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
