package effects

import (
	"io"
	"log/slog"

	"gitlab.com/tinyland/lab/lantern/pkg/mode"
)

// Transitioner is the part of the transition director the Switcher uses.
type Transitioner interface {
	Begin() error
	Active() bool
}

// Route describes what a switch request did.
type Route int

const (
	// RouteIgnored means a transition was already running.
	RouteIgnored Route = iota
	// RouteTransition means a transition into Alternate mode began.
	RouteTransition
	// RouteExit means Alternate mode was left directly.
	RouteExit
	// RouteFailed means the transition refused to start.
	RouteFailed
)

func (r Route) String() string {
	switch r {
	case RouteIgnored:
		return "ignored"
	case RouteTransition:
		return "transition"
	case RouteExit:
		return "exit"
	case RouteFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Switcher routes activation requests from the trigger detector.
type Switcher struct {
	orch       *Orchestrator
	transition Transitioner
	log        *slog.Logger
}

// NewSwitcher returns a Switcher. The transition's completion callback is
// expected to call orch.Enter.
func NewSwitcher(orch *Orchestrator, t Transitioner, log *slog.Logger) *Switcher {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Switcher{orch: orch, transition: t, log: log.With("component", "switch")}
}

// Request toggles the mode. From Alternate it exits immediately; from
// Normal it starts the transition unless one is already running.
func (s *Switcher) Request() Route {
	if s.orch.Mode().Is(mode.Alternate) {
		s.orch.Exit()
		return RouteExit
	}
	if s.transition.Active() {
		s.log.Debug("switch ignored, transition in progress")
		return RouteIgnored
	}
	if err := s.transition.Begin(); err != nil {
		s.log.Warn("transition refused", "error", err)
		return RouteFailed
	}
	return RouteTransition
}
