// Package effects runs the ambient effects of Alternate mode.
//
// Four generators (ambient noise, pointer trail, disruptive events and the
// soundscape) are started together by the Orchestrator on mode entry. Each
// Start returns one Disposer that releases everything the run created;
// the Orchestrator is the only caller of Dispose and the only writer of the
// mode.
package effects

import (
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"sort"

	"gitlab.com/tinyland/lab/lantern/pkg/mode"
	"gitlab.com/tinyland/lab/lantern/pkg/sched"
	"gitlab.com/tinyland/lab/lantern/pkg/surface"
)

// ErrAlreadyRunning is returned by Start on a generator whose previous run
// has not been disposed.
var ErrAlreadyRunning = errors.New("effects: generator already running")

// Env is what a generator may touch while running.
type Env struct {
	Scheduler sched.Scheduler
	Page      *surface.Page
	Mode      mode.Reader
	Rand      *rand.Rand
	Logger    *slog.Logger
}

func (e Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e.Logger
}

func (e Env) rng() *rand.Rand {
	if e.Rand == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e.Rand
}

// Disposer releases one generator run. Dispose must tolerate repeated
// calls.
type Disposer interface {
	Dispose()
}

// DisposeFunc adapts a function to Disposer. The function runs at most
// once.
type DisposeFunc func()

// Dispose implements Disposer.
func (f DisposeFunc) Dispose() {
	if f != nil {
		f()
	}
}

// once wraps fn so only the first call has an effect.
func once(fn func()) DisposeFunc {
	done := false
	return func() {
		if done {
			return
		}
		done = true
		fn()
	}
}

// Generator is one independently startable effect.
type Generator interface {
	Name() string
	Start(env Env) (Disposer, error)
}

// HandleSet maps generator names to their live Disposers.
type HandleSet struct {
	m map[string]Disposer
}

// NewHandleSet returns an empty set.
func NewHandleSet() *HandleSet {
	return &HandleSet{m: make(map[string]Disposer)}
}

// Add records d under name. An existing handle for name is disposed first.
func (s *HandleSet) Add(name string, d Disposer) {
	if old, ok := s.m[name]; ok {
		old.Dispose()
	}
	s.m[name] = d
}

// Dispose releases the handle for name, if any.
func (s *HandleSet) Dispose(name string) bool {
	d, ok := s.m[name]
	if !ok {
		return false
	}
	delete(s.m, name)
	d.Dispose()
	return true
}

// DisposeAll releases every handle in name order and empties the set.
func (s *HandleSet) DisposeAll() {
	for _, name := range s.Names() {
		s.Dispose(name)
	}
}

// Len returns the number of live handles.
func (s *HandleSet) Len() int { return len(s.m) }

// Names returns the recorded generator names, sorted.
func (s *HandleSet) Names() []string {
	names := make([]string, 0, len(s.m))
	for n := range s.m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
