package scheduler

import (
	"sync"
	"time"
)

// Timer is a handle to a scheduled callback
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the
	// callback already ran or was already stopped.
	Stop() bool
}

// Scheduler runs a callback once after a delay
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Real schedules callbacks on the wall clock
type Real struct{}

// NewReal returns a wall-clock scheduler
func NewReal() Real {
	return Real{}
}

// AfterFunc schedules f on its own goroutine after d
func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Group tracks pending callbacks so they can be cancelled together.
// A callback leaves the group when it fires.
type Group struct {
	mu     sync.Mutex
	nextID int
	timers map[int]Timer
}

// Schedule runs f after d on s and tracks it until it fires or is stopped
func (g *Group) Schedule(s Scheduler, d time.Duration, f func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.timers == nil {
		g.timers = make(map[int]Timer)
	}
	id := g.nextID
	g.nextID++
	// The callback waits on g.mu, so it cannot forget the id before it is stored
	g.timers[id] = s.AfterFunc(d, func() {
		g.forget(id)
		f()
	})
}

func (g *Group) forget(id int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.timers, id)
}

// StopAll stops every tracked timer and forgets them.
// It returns how many timers were still pending.
func (g *Group) StopAll() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	stopped := 0
	for _, t := range g.timers {
		if t.Stop() {
			stopped++
		}
	}
	g.timers = nil
	return stopped
}

// Len returns the number of timers that have neither fired nor been stopped
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.timers)
}
