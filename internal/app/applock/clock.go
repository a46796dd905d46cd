package applock

import "time"

// Clock abstracts time for the guard. Production code uses SystemClock;
// tests substitute a fake that advances manually so auto-lock expiry is
// driven by simulated time, not wall time.
type Clock interface {
	Now() time.Time

	// AfterFunc schedules fn to run after d on its own goroutine.
	AfterFunc(d time.Duration, fn func()) Timer

	// NewTicker returns a ticker for the polling backstop.
	NewTicker(d time.Duration) Ticker
}

// Timer is a cancelable one-shot timer.
type Timer interface {
	// Stop cancels the timer, reporting whether it was still pending.
	Stop() bool
}

// Ticker delivers periodic ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// SystemClock is the real-time Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

func (SystemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

type systemTicker struct{ t *time.Ticker }

func (t systemTicker) C() <-chan time.Time { return t.t.C }
func (t systemTicker) Stop()               { t.t.Stop() }
