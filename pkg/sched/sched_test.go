package sched

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFrameIntervalDefaults(t *testing.T) {
	assert.Equal(t, time.Second/30, FrameInterval(0))
	assert.Equal(t, time.Second/30, FrameInterval(-5))
	assert.Equal(t, time.Second/144, FrameInterval(144))
}

// --- Manual ---

func TestManualAfterFiresAtDueTime(t *testing.T) {
	m := NewManual(epoch, 0)
	var firedAt time.Time
	m.After(250*time.Millisecond, func() { firedAt = m.Now() })

	m.Advance(249 * time.Millisecond)
	assert.True(t, firedAt.IsZero(), "fired early")

	m.Advance(time.Millisecond)
	assert.Equal(t, epoch.Add(250*time.Millisecond), firedAt)
	assert.Equal(t, 0, m.Live())
}

func TestManualRunsInDueOrder(t *testing.T) {
	m := NewManual(epoch, 0)
	var order []int
	m.After(30*time.Millisecond, func() { order = append(order, 3) })
	m.After(10*time.Millisecond, func() { order = append(order, 1) })
	m.After(20*time.Millisecond, func() { order = append(order, 2) })
	m.After(20*time.Millisecond, func() { order = append(order, 22) })

	m.Advance(time.Second)
	assert.Equal(t, []int{1, 2, 22, 3}, order)
}

func TestManualCallbacksScheduledDuringAdvanceRun(t *testing.T) {
	m := NewManual(epoch, 0)
	count := 0
	var tick func()
	tick = func() {
		count++
		m.After(100*time.Millisecond, tick)
	}
	m.After(100*time.Millisecond, tick)

	m.Advance(time.Second)
	assert.Equal(t, 10, count)
	assert.Equal(t, 1, m.Live(), "the next tick stays armed")
}

func TestManualCancelIsIdempotent(t *testing.T) {
	m := NewManual(epoch, 0)
	fired := false
	h := m.After(time.Millisecond, func() { fired = true })

	assert.True(t, m.Cancel(h))
	assert.False(t, m.Cancel(h), "second cancel should report inert handle")
	assert.False(t, m.Cancel(0))

	m.Advance(time.Second)
	assert.False(t, fired)
}

func TestManualFramesCarryTimestamps(t *testing.T) {
	interval := FrameInterval(60)
	m := NewManual(epoch, interval)
	var stamps []time.Time
	var draw func(time.Time)
	draw = func(now time.Time) {
		stamps = append(stamps, now)
		if len(stamps) < 3 {
			m.Frame(draw)
		}
	}
	m.Frame(draw)
	m.Advance(time.Second)

	require.Len(t, stamps, 3)
	for i, s := range stamps {
		assert.Equal(t, epoch.Add(time.Duration(i+1)*interval), s)
	}
}

func TestManualStep(t *testing.T) {
	m := NewManual(epoch, 0)
	assert.False(t, m.Step())

	fired := false
	m.After(time.Hour, func() { fired = true })
	assert.True(t, m.Step())
	assert.True(t, fired)
	assert.Equal(t, epoch.Add(time.Hour), m.Now())
}

// --- Loop ---

func TestLoopDeliversThroughPost(t *testing.T) {
	defer goleak.VerifyNone(t)

	l := NewLoop(60)
	msgs := make(chan any, 4)
	l.Attach(func(m any) { msgs <- m })

	ran := false
	h := l.After(5*time.Millisecond, func() { ran = true })
	assert.Equal(t, 1, l.Live())

	select {
	case m := <-msgs:
		fm, ok := m.(FireMsg)
		require.True(t, ok, "expected FireMsg, got %T", m)
		assert.Equal(t, h, fm.ID)
		assert.True(t, l.Dispatch(fm))
	case <-time.After(2 * time.Second):
		t.Fatal("timer never posted")
	}

	assert.True(t, ran)
	assert.Equal(t, 0, l.Live())
}

func TestLoopDispatchAfterCancelIsNoop(t *testing.T) {
	l := NewLoop(30)
	ran := false
	h := l.After(time.Hour, func() { ran = true })

	assert.True(t, l.Cancel(h))
	assert.False(t, l.Cancel(h))
	assert.False(t, l.Dispatch(FireMsg{ID: h, At: time.Now()}))
	assert.False(t, ran)
	assert.Equal(t, 0, l.Live())
}

func TestLoopFramePassesTimestamp(t *testing.T) {
	l := NewLoop(30)
	var got time.Time
	h := l.Frame(func(now time.Time) { got = now })

	at := epoch.Add(time.Minute)
	assert.True(t, l.Dispatch(FireMsg{ID: h, At: at}))
	assert.Equal(t, at, got)
}

func TestLoopCloseCancelsEverything(t *testing.T) {
	defer goleak.VerifyNone(t)

	l := NewLoop(30)
	var mu sync.Mutex
	posted := 0
	l.Attach(func(any) {
		mu.Lock()
		posted++
		mu.Unlock()
	})
	for i := 0; i < 5; i++ {
		l.After(20*time.Millisecond, func() {})
	}
	l.Close()
	assert.Equal(t, 0, l.Live())

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, posted)
}
