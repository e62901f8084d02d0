package collectors

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"
)

type entry struct {
	c      Collector
	status Status
}

// Registry holds the named collectors and their run history. It is safe
// for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register adds c under its name. A second collector with the same name is
// rejected.
func (r *Registry) Register(c Collector) error {
	name := c.Name()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.entries[name]; dup {
		return fmt.Errorf("collectors: %q already registered", name)
	}
	r.entries[name] = &entry{c: c, status: Status{Name: name, Healthy: true}}
	return nil
}

// Get returns the collector registered as name.
func (r *Registry) Get(name string) (Collector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[name]; ok {
		return e.c, true
	}
	return nil, false
}

// List returns the registered names in lexical order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.entries))
}

// Status returns a snapshot of name's run history.
func (r *Registry) Status(name string) (Status, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[name]; ok {
		return e.status, true
	}
	return Status{}, false
}

// record folds one finished run into name's status.
func (r *Registry) record(name string, start time.Time, latency time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	if !ok {
		return
	}
	s := &e.status
	s.LastRun, s.LastLatency, s.LastError = start, latency, err
	s.Healthy = err == nil
	s.RunCount++
	if err != nil {
		s.ErrorCount++
	}
}
