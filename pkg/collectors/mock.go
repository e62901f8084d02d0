package collectors

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// MockCollector implements Collector for tests and the -demo flag.
type MockCollector struct {
	name     string
	interval time.Duration

	mu   sync.RWMutex
	data any
	err  error

	calls atomic.Int64

	// CollectFunc, if set, overrides the configured data and error.
	CollectFunc func(ctx context.Context) (any, error)
}

// MockOption configures a MockCollector.
type MockOption func(*MockCollector)

// WithData sets the data returned by Collect.
func WithData(data any) MockOption {
	return func(m *MockCollector) { m.data = data }
}

// WithError sets the error returned by Collect.
func WithError(err error) MockOption {
	return func(m *MockCollector) { m.err = err }
}

// WithCollectFunc sets a custom Collect.
func WithCollectFunc(fn func(ctx context.Context) (any, error)) MockOption {
	return func(m *MockCollector) { m.CollectFunc = fn }
}

// NewMockCollector creates a mock collector.
func NewMockCollector(name string, interval time.Duration, opts ...MockOption) *MockCollector {
	m := &MockCollector{name: name, interval: interval}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MockCollector) Name() string            { return m.name }
func (m *MockCollector) Interval() time.Duration { return m.interval }

// SetData updates the returned data.
func (m *MockCollector) SetData(data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
}

// SetError updates the returned error.
func (m *MockCollector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockCollector) Collect(ctx context.Context) (any, error) {
	m.calls.Add(1)
	if m.CollectFunc != nil {
		return m.CollectFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data, m.err
}

// CallCount returns how many times Collect has been called.
func (m *MockCollector) CallCount() int64 { return m.calls.Load() }
