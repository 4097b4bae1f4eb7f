package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var epoch = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func TestManualRunsCallbacksInDeadlineOrder(t *testing.T) {
	m := NewManual(epoch)
	var order []string

	m.AfterFunc(3*time.Second, func() { order = append(order, "c") })
	m.AfterFunc(1*time.Second, func() { order = append(order, "a") })
	m.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	m.AfterFunc(2*time.Second, func() { order = append(order, "b2") })

	m.Advance(2 * time.Second)
	assert.Equal(t, []string{"a", "b", "b2"}, order)
	assert.Equal(t, 1, m.Pending())

	m.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "b2", "c"}, order)
	assert.Equal(t, epoch.Add(3*time.Second), m.Now())
}

func TestManualRunsChainedCallbacksWithinWindow(t *testing.T) {
	m := NewManual(epoch)
	var fired []time.Time

	var step func()
	step = func() {
		fired = append(fired, m.Now())
		if len(fired) < 3 {
			m.AfterFunc(time.Second, step)
		}
	}
	m.AfterFunc(time.Second, step)

	m.Advance(10 * time.Second)
	require.Len(t, fired, 3)
	assert.Equal(t, epoch.Add(1*time.Second), fired[0])
	assert.Equal(t, epoch.Add(3*time.Second), fired[2])
	assert.Equal(t, epoch.Add(10*time.Second), m.Now())
}

func TestManualStop(t *testing.T) {
	m := NewManual(epoch)
	ran := false
	timer := m.AfterFunc(time.Second, func() { ran = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop reports nothing pending")

	m.Advance(time.Minute)
	assert.False(t, ran)
}

func TestManualStopAfterFire(t *testing.T) {
	m := NewManual(epoch)
	timer := m.AfterFunc(time.Second, func() {})
	m.Advance(time.Second)
	assert.False(t, timer.Stop())
}

func TestGroupStopAll(t *testing.T) {
	m := NewManual(epoch)
	var g Group
	var count int

	g.Schedule(m, time.Second, func() { count++ })
	g.Schedule(m, 2*time.Second, func() { count++ })
	assert.Equal(t, 2, g.Len())

	m.Advance(time.Second)
	assert.Equal(t, 1, g.Len(), "fired timers leave the group")
	assert.Equal(t, 1, g.StopAll(), "only the unfired timer was pending")
	assert.Equal(t, 0, g.Len())

	m.Advance(time.Minute)
	assert.Equal(t, 1, count)
}

func TestGroupDoesNotGrowWithFiredTimers(t *testing.T) {
	m := NewManual(epoch)
	var g Group

	// Each callback schedules the next, like a chain of breathing phases
	var chain func()
	steps := 0
	chain = func() {
		steps++
		if steps < 50 {
			g.Schedule(m, time.Second, chain)
		}
	}
	g.Schedule(m, time.Second, chain)

	m.Advance(10 * time.Second)
	assert.Equal(t, 10, steps)
	assert.Equal(t, 1, g.Len())

	m.Advance(time.Hour)
	assert.Equal(t, 50, steps)
	assert.Equal(t, 0, g.Len())
	assert.Equal(t, 0, g.StopAll())
}

func TestGroupStopAllIsReusable(t *testing.T) {
	m := NewManual(epoch)
	var g Group
	ran := false

	g.Schedule(m, time.Second, func() {})
	g.StopAll()
	g.Schedule(m, time.Second, func() { ran = true })
	assert.Equal(t, 1, g.Len())

	m.Advance(time.Second)
	assert.True(t, ran)
	assert.Equal(t, 0, g.Len())
}

func TestRealAfterFunc(t *testing.T) {
	defer goleak.VerifyNone(t)

	var fired atomic.Bool
	done := make(chan struct{})
	NewReal().AfterFunc(5*time.Millisecond, func() {
		fired.Store(true)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("real timer never fired")
	}
	assert.True(t, fired.Load())

	stopped := NewReal().AfterFunc(time.Hour, func() {})
	assert.True(t, stopped.Stop())
}
