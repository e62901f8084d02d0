package effects

import (
	"time"

	"gitlab.com/tinyland/lab/lantern/pkg/mode"
	"gitlab.com/tinyland/lab/lantern/pkg/sched"
)

// Trail leaves fading markers behind the pointer.
type Trail struct {
	// Every spawns one marker per this many pointer moves.
	Every int
	// Cap bounds the number of live markers; the oldest is evicted.
	Cap int
	// Decay is how long a marker lives.
	Decay time.Duration

	running bool
}

// NewTrail returns the pointer-trail generator: every third move, at most
// 30 markers, each fading over 800ms.
func NewTrail() *Trail {
	return &Trail{Every: 3, Cap: 30, Decay: 800 * time.Millisecond}
}

// Name implements Generator.
func (t *Trail) Name() string { return "trail" }

// Start implements Generator.
func (t *Trail) Start(env Env) (Disposer, error) {
	if t.running {
		return nil, ErrAlreadyRunning
	}
	t.running = true

	page := env.Page
	every := max(t.Every, 1)
	limit := max(t.Cap, 1)
	timers := make(map[int]sched.Handle)
	moves := 0

	evict := func(id int) {
		page.RemoveMarker(id)
		if h, ok := timers[id]; ok {
			env.Scheduler.Cancel(h)
			delete(timers, id)
		}
	}

	unsubscribe := page.OnPointerMove(func(x, y int) {
		if !env.Mode.Is(mode.Alternate) {
			return
		}
		moves++
		if moves%every != 0 {
			return
		}
		m := page.AddMarker(x, y, env.Scheduler.Now(), t.Decay)
		timers[m.ID] = env.Scheduler.After(t.Decay, func() {
			delete(timers, m.ID)
			page.RemoveMarker(m.ID)
		})
		for page.MarkerCount() > limit {
			oldest, _ := page.OldestMarker()
			evict(oldest.ID)
		}
	})

	return once(func() {
		unsubscribe()
		for id, h := range timers {
			env.Scheduler.Cancel(h)
			delete(timers, id)
		}
		page.ClearMarkers()
		t.running = false
	}), nil
}
