// Package collectors defines the interfaces, registry, and runner for
// lantern's data sources. Each collector (today only the GitHub profile)
// implements Collector and is driven by a Runner that fans results into a
// single updates channel consumed by the TUI.
package collectors

import (
	"context"
	"time"
)

// Collector is the interface all data sources implement. Implementations
// live in sub-packages (e.g., pkg/collectors/github).
type Collector interface {
	// Name returns a unique identifier for this collector.
	Name() string

	// Collect performs one collection cycle. The returned value is opaque
	// here; consumers type-switch on it.
	Collect(ctx context.Context) (any, error)

	// Interval returns how often this collector should run. Zero means
	// only once at start and on explicit RunOnce.
	Interval() time.Duration
}

// Status tracks the runtime state of a single collector.
type Status struct {
	Name        string
	Healthy     bool
	LastRun     time.Time
	LastError   error
	RunCount    int64
	ErrorCount  int64
	LastLatency time.Duration
}

// Update carries the result of a single collection cycle from a collector
// goroutine to the consumer. Data may be non-nil alongside Error when the
// collector degraded to cached or placeholder content.
type Update struct {
	Source    string
	Data      any
	Timestamp time.Time
	Error     error
}
