package applock

import (
	"testing"
	"time"

	"github.com/coinkeep/coinkeep/internal/domain"
)

func TestBackgroundLocksImmediatelyWhenConfigured(t *testing.T) {
	g, _, _ := newTestGuard(t, armedSettings(domain.AutoLock5m))

	var events []bool
	g.SetLockStateChangeListener(func(locked bool) { events = append(events, locked) })

	g.HandleLifecycle(domain.PhaseBackground)
	if !g.Locked() {
		t.Fatal("backgrounding did not lock with LockOnBackground set")
	}
	if st := g.Status(); !st.WasInBackground {
		t.Error("background marker not set")
	}
	if len(events) != 1 || events[0] != true {
		t.Errorf("events = %v, want [true]", events)
	}
}

func TestInactiveTreatedAsBackground(t *testing.T) {
	g, _, _ := newTestGuard(t, armedSettings(domain.AutoLock5m))

	g.HandleLifecycle(domain.PhaseInactive)
	if !g.Locked() {
		t.Error("inactive phase not treated as backgrounding")
	}
}

func TestForegroundRelocksAfterBackground(t *testing.T) {
	// LockOnBackground off: the lock is deferred to the return trip.
	rec := armedSettings(domain.AutoLock5m)
	rec.LockOnBackground = false
	g, _, _ := newTestGuard(t, rec)

	g.HandleLifecycle(domain.PhaseBackground)
	if g.Locked() {
		t.Fatal("locked at background time with LockOnBackground off")
	}

	g.HandleLifecycle(domain.PhaseActive)
	if !g.Locked() {
		t.Fatal("return from background did not re-lock with a PIN set")
	}
	if st := g.Status(); st.WasInBackground {
		t.Error("background marker not cleared on foreground")
	}
}

func TestForegroundWithoutCredentialDoesNotLock(t *testing.T) {
	g, clk, _ := newTestGuard(t, &domain.AppLockSettings{
		Enabled:      true,
		AutoLockTime: domain.AutoLock10s,
	})

	g.HandleLifecycle(domain.PhaseBackground)
	// Backgrounding suspends the countdown entirely.
	clk.Advance(time.Minute)
	if g.Locked() {
		t.Fatal("inactivity timer ran while backgrounded")
	}

	g.HandleLifecycle(domain.PhaseActive)
	if g.Locked() {
		t.Fatal("re-locked on foreground with no credential configured")
	}

	// The countdown restarts from the foreground moment.
	clk.Advance(10 * time.Second)
	if !g.Locked() {
		t.Error("countdown not re-armed after foregrounding")
	}
}

// An idle eternity under the "never" window must not lock, but a background
// round trip afterwards still must.
func TestNeverWindowStillRelocksAfterBackground(t *testing.T) {
	rec := armedSettings(domain.AutoLockNever)
	rec.LockOnBackground = false
	g, clk, _ := newTestGuard(t, rec)

	clk.Advance(time.Hour)
	g.pollTick()
	if g.Locked() {
		t.Fatal("\"never\" window locked on inactivity")
	}

	g.HandleLifecycle(domain.PhaseBackground)
	if g.Locked() {
		t.Fatal("locked at background time with LockOnBackground off")
	}
	g.HandleLifecycle(domain.PhaseActive)
	if !g.Locked() {
		t.Fatal("return from background did not re-lock under the never window")
	}
	if !g.ShouldShowLockScreen() {
		t.Error("re-lock did not demand the lock screen")
	}
}

func TestLifecycleNoOpWhenDisabled(t *testing.T) {
	g, _, _ := newTestGuard(t, &domain.AppLockSettings{
		AutoLockTime:     domain.AutoLock10s,
		LockOnBackground: true,
		HasPINSet:        true,
	})

	g.HandleLifecycle(domain.PhaseBackground)
	g.HandleLifecycle(domain.PhaseActive)
	if g.Locked() {
		t.Error("disabled guard reacted to lifecycle events")
	}
	if st := g.Status(); st.WasInBackground {
		t.Error("disabled guard tracked background state")
	}
}

// Full trip with immediate auto-lock and lock-on-background: the guard stays
// locked across the background round trip and re-locks the instant the fresh
// session goes idle.
func TestImmediateLockBackgroundRoundTrip(t *testing.T) {
	g, clk, _ := newTestGuard(t, armedSettings(domain.AutoLockImmediate))

	clk.Advance(time.Millisecond)
	if !g.Locked() {
		t.Fatal("immediate window did not lock")
	}

	g.HandleLifecycle(domain.PhaseBackground)
	g.HandleLifecycle(domain.PhaseActive)
	if !g.Locked() {
		t.Fatal("unlocked by the background round trip")
	}

	g.Unlock()
	if g.Locked() {
		t.Fatal("unlock did not take")
	}
	clk.Advance(time.Millisecond)
	if !g.Locked() {
		t.Error("immediate window did not re-lock the fresh session")
	}
}
