package collectors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// DefaultUpdateBufferSize is a sensible capacity for the updates channel.
const DefaultUpdateBufferSize = 16

// ErrRunning is returned by Start on a runner that is already started.
var ErrRunning = errors.New("collectors: runner already started")

// Runner drives every registered collector on its own goroutine and ticker.
type Runner struct {
	reg     *Registry
	updates chan<- Update
	log     *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewRunner returns a runner that publishes to updates. A nil logger
// discards.
func NewRunner(reg *Registry, updates chan<- Update, logger *slog.Logger) *Runner {
	log := logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{reg: reg, updates: updates, log: log.With("component", "collectors")}
}

// Start launches one goroutine per collector. Each collector runs
// immediately and then on its interval until ctx is cancelled or Stop is
// called.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return ErrRunning
	}
	r.started = true

	ctx, r.cancel = context.WithCancel(ctx)
	for _, name := range r.reg.List() {
		c, ok := r.reg.Get(name)
		if !ok {
			continue
		}
		r.wg.Add(1)
		go r.loop(ctx, c)
	}
	return nil
}

// Stop cancels every collector goroutine and waits for them to exit.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
}

// RunOnce runs the named collector synchronously, publishes the result, and
// returns it.
func (r *Runner) RunOnce(ctx context.Context, name string) (any, error) {
	c, ok := r.reg.Get(name)
	if !ok {
		return nil, fmt.Errorf("collectors: %q not registered", name)
	}
	u := r.collect(ctx, c)
	r.publish(ctx, u)
	return u.Data, u.Error
}

// Health reports each collector's last known health.
func (r *Runner) Health() map[string]bool {
	out := make(map[string]bool)
	for _, name := range r.reg.List() {
		if s, ok := r.reg.Status(name); ok {
			out[name] = s.Healthy
		}
	}
	return out
}

func (r *Runner) loop(ctx context.Context, c Collector) {
	defer r.wg.Done()

	r.publish(ctx, r.collect(ctx, c))

	interval := c.Interval()
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.publish(ctx, r.collect(ctx, c))
		}
	}
}

func (r *Runner) collect(ctx context.Context, c Collector) Update {
	start := time.Now()
	data, err := c.Collect(ctx)
	latency := time.Since(start)
	if latency <= 0 {
		latency = time.Nanosecond
	}

	r.reg.record(c.Name(), start, latency, err)
	if err != nil {
		r.log.Warn("collection failed", "collector", c.Name(), "error", err)
	} else {
		r.log.Debug("collected", "collector", c.Name(), "latency", latency)
	}
	return Update{Source: c.Name(), Data: data, Timestamp: time.Now(), Error: err}
}

func (r *Runner) publish(ctx context.Context, u Update) {
	select {
	case r.updates <- u:
	case <-ctx.Done():
	}
}
