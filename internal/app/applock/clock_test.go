package applock

import (
	"sync"
	"time"
)

// fakeClock is a manually advanced Clock. Deferred timers fire on the test
// goroutine during Advance, never asynchronously, so tests stay deterministic.
// The ticker it hands out never ticks; poll behavior is tested by calling
// pollTick directly.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer

	// dropOneShots simulates a host that throttles or discards one-shot
	// timers: AfterFunc still returns a Timer, but it never fires.
	dropOneShots bool

	// ticks, when set, backs the ticker handed to the poll loop so a test
	// can feed it; by default the ticker never ticks.
	ticks chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: fn}
	if !c.dropOneShots {
		c.timers = append(c.timers, t)
	}
	return t
}

func (c *fakeClock) NewTicker(d time.Duration) Ticker {
	if c.ticks != nil {
		return fakeTicker{ch: c.ticks}
	}
	return fakeTicker{ch: make(chan time.Time)}
}

// Advance moves simulated time forward and fires every unstopped timer whose
// deadline has passed, in registration order, on the calling goroutine.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	remaining := c.timers[:0]
	for _, t := range c.timers {
		switch {
		case t.stopped:
		case !t.at.After(c.now):
			t.fired = true
			due = append(due, t)
		default:
			remaining = append(remaining, t)
		}
	}
	c.timers = remaining
	c.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	pending := !t.stopped && !t.fired
	t.stopped = true
	return pending
}

type fakeTicker struct{ ch chan time.Time }

func (t fakeTicker) C() <-chan time.Time { return t.ch }
func (t fakeTicker) Stop()               {}
