// Package applock implements the application-lock state machine: a
// process-wide guard that decides whether the app's content must be hidden
// behind a lock screen, based on configurable timeouts, foreground/background
// transitions, and observed user activity.
//
// One Guard exists per process. It is constructed by the daemon's
// composition root and handed to whatever surface needs it; nothing in this
// package reaches for ambient globals.
package applock

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/coinkeep/coinkeep/internal/domain"
	"github.com/coinkeep/coinkeep/internal/infra/metrics"
)

// pollInterval is the cadence of the polling backstop. The deferred timer is
// the primary mechanism; the poll catches expiries on hosts that throttle or
// drop one-shot timers, and makes expiry deterministic under test.
const pollInterval = time.Second

// Lock reasons, used for logging and metrics labels.
const (
	reasonManual     = "manual"
	reasonTimer      = "timer"
	reasonBackground = "background"
	reasonForeground = "foreground"
)

// Guard owns the lock state and the current settings record.
//
// Internal lock state is distinct from the externally observable lock-screen
// requirement: ShouldShowLockScreen never reports true unless the feature is
// enabled AND a credential (PIN or biometric) is configured, even when the
// internal locked flag is set.
type Guard struct {
	mu    sync.Mutex
	clock Clock
	store domain.SettingsStore

	settings *domain.AppLockSettings // nil until Initialize
	locked   bool

	lastActivity        time.Time
	backgroundEnteredAt time.Time
	wasInBackground     bool

	sessionID string // uuid of the current unlocked session

	listener func(locked bool) // single subscriber; replaced on re-register
	autoLock Timer             // pending deferred auto-lock, nil when disarmed

	pollStop chan struct{}
	pollDone chan struct{}
}

// Status is a snapshot of the guard for the control API.
type Status struct {
	Locked               bool      `json:"locked"`
	ShouldShowLockScreen bool      `json:"should_show_lock_screen"`
	SessionID            string    `json:"session_id,omitempty"`
	LastActivityAt       time.Time `json:"last_activity_at"`
	WasInBackground      bool      `json:"was_in_background"`
}

// New creates a Guard backed by the given settings store.
func New(store domain.SettingsStore) *Guard {
	return NewWithClock(store, SystemClock{})
}

// NewWithClock creates a Guard with an explicit clock. Tests use this to
// drive auto-lock expiry from simulated time.
func NewWithClock(store domain.SettingsStore, clock Clock) *Guard {
	return &Guard{clock: clock, store: store}
}

// Initialize loads the settings record and arms the timer subsystem.
// A load failure recovers locally to the safe-disabled default and is never
// surfaced. Callers must call Initialize exactly once, before querying lock
// state.
func (g *Guard) Initialize() {
	s, err := g.store.LoadAppLockSettings()
	if err != nil {
		log.Printf("[applock] load settings: %v (using safe defaults)", err)
	}
	if s == nil {
		def := domain.DefaultAppLockSettings()
		s = &def
	}

	g.mu.Lock()
	g.settings = s
	g.lastActivity = g.clock.Now()
	g.armAutoLockLocked()
	g.pollStop = make(chan struct{})
	g.pollDone = make(chan struct{})
	g.mu.Unlock()

	go g.pollLoop()
}

// Settings returns a copy of the current settings record, or nil before
// Initialize completes.
func (g *Guard) Settings() *domain.AppLockSettings {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.settings == nil {
		return nil
	}
	s := *g.settings
	return &s
}

// UpdateSettings persists next, atomically replaces the in-memory record,
// and force-unlocks when the feature was just disabled: the UI must never
// stay stuck behind a lock screen after the user turns locking off.
//
// A persistence failure is logged; the in-memory record is still replaced
// and stays authoritative for the current session.
func (g *Guard) UpdateSettings(next domain.AppLockSettings) {
	if err := g.store.SaveAppLockSettings(next); err != nil {
		log.Printf("[applock] save settings: %v (in-memory record still updated)", err)
	}

	g.mu.Lock()
	g.settings = &next

	var notify func(bool)
	if next.Enabled {
		// Re-arm with the new duration so a stale deadline from the old
		// record cannot fire.
		g.armAutoLockLocked()
	} else {
		notify = g.unlockLocked()
		g.cancelAutoLockLocked()
	}
	g.mu.Unlock()

	metrics.SettingsUpdates.Inc()
	if notify != nil {
		notify(false)
	}
}

// Lock transitions to the locked state. No-op when the feature is disabled
// or the guard is already locked (idempotent).
func (g *Guard) Lock() {
	g.mu.Lock()
	notify := g.lockLocked(reasonManual)
	g.mu.Unlock()
	if notify != nil {
		notify(true)
	}
}

// Unlock transitions to the unlocked state, clears the background marker and
// restarts the auto-lock countdown. Safe to call when already unlocked
// (idempotent). The credential verifier calls this on success.
func (g *Guard) Unlock() {
	g.mu.Lock()
	notify := g.unlockLocked()
	g.mu.Unlock()
	if notify != nil {
		notify(false)
	}
}

// ShouldShowLockScreen reports whether the host UI must render the
// credential verifier right now.
func (g *Guard) ShouldShowLockScreen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := g.settings
	return s != nil && s.Enabled && s.HasCredential() && g.locked
}

// Locked reports the internal lock state. Most callers want
// ShouldShowLockScreen instead.
func (g *Guard) Locked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.locked
}

// RecordActivity marks the user as active and resets the auto-lock
// countdown. Cheap enough for touch handlers; callers debounce high-rate
// streams themselves. No-op while locked or disabled.
func (g *Guard) RecordActivity() {
	g.mu.Lock()
	s := g.settings
	if s == nil || !s.Enabled || g.locked {
		g.mu.Unlock()
		return
	}
	g.lastActivity = g.clock.Now()
	g.armAutoLockLocked()
	g.mu.Unlock()

	metrics.ActivityEvents.Inc()
}

// SetLockStateChangeListener registers the single lock-state subscriber.
// A second registration silently replaces the first.
func (g *Guard) SetLockStateChangeListener(fn func(locked bool)) {
	g.mu.Lock()
	g.listener = fn
	g.mu.Unlock()
}

// Status returns a snapshot for the control API.
func (g *Guard) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := g.settings
	return Status{
		Locked:               g.locked,
		ShouldShowLockScreen: s != nil && s.Enabled && s.HasCredential() && g.locked,
		SessionID:            g.sessionID,
		LastActivityAt:       g.lastActivity,
		WasInBackground:      g.wasInBackground,
	}
}

// Cleanup cancels every timer, ticker and listener the guard registered.
// Called once at process teardown; skipping it leaks the 1-second poll for
// the remainder of the process.
func (g *Guard) Cleanup() {
	g.mu.Lock()
	g.cancelAutoLockLocked()
	g.listener = nil
	stop := g.pollStop
	g.pollStop = nil
	g.mu.Unlock()

	if stop != nil {
		close(stop)
		<-g.pollDone
	}
}

// ─── Internals ──────────────────────────────────────────────────────────────
// The locked/unlocked mutations run under g.mu and hand back the listener
// callback, which the caller invokes after releasing the mutex. That keeps
// the notification synchronous without holding the lock across foreign code.

// lockLocked performs the lock transition. Caller holds g.mu.
// Returns the listener to invoke with true, or nil when nothing changed.
func (g *Guard) lockLocked(reason string) func(bool) {
	s := g.settings
	if s == nil || !s.Enabled || g.locked {
		return nil
	}
	g.locked = true
	g.sessionID = ""
	g.cancelAutoLockLocked()

	metrics.Locks.WithLabelValues(reason).Inc()
	metrics.LockedState.Set(1)
	log.Printf("[applock] locked (%s)", reason)
	return g.listener
}

// unlockLocked performs the unlock transition. Caller holds g.mu.
// Returns the listener to invoke with false, or nil when nothing changed.
func (g *Guard) unlockLocked() func(bool) {
	if !g.locked {
		return nil
	}
	g.locked = false
	g.backgroundEnteredAt = time.Time{}
	g.lastActivity = g.clock.Now()
	g.sessionID = uuid.NewString()
	g.armAutoLockLocked()

	metrics.Unlocks.Inc()
	metrics.LockedState.Set(0)
	log.Printf("[applock] unlocked (session %s)", g.sessionID)
	return g.listener
}

// armAutoLockLocked cancels any pending deferred auto-lock and schedules a
// fresh one for the configured duration. Caller holds g.mu.
func (g *Guard) armAutoLockLocked() {
	g.cancelAutoLockLocked()
	s := g.settings
	if s == nil || !s.Enabled || g.locked {
		return
	}
	d := s.AutoLockTime.Duration()
	if d < 0 {
		return // never: timer logically disabled
	}
	g.autoLock = g.clock.AfterFunc(d, g.autoLockExpired)
}

func (g *Guard) cancelAutoLockLocked() {
	if g.autoLock != nil {
		g.autoLock.Stop()
		g.autoLock = nil
	}
}

// autoLockExpired fires on the deferred timer's goroutine.
func (g *Guard) autoLockExpired() {
	g.mu.Lock()
	notify := g.lockLocked(reasonTimer)
	g.mu.Unlock()
	if notify != nil {
		notify(true)
	}
}

func (g *Guard) pollLoop() {
	defer close(g.pollDone)

	// Capture the stop channel once: Cleanup nils the field under g.mu, and
	// re-reading it here would race and could miss the close.
	g.mu.Lock()
	stop := g.pollStop
	g.mu.Unlock()

	ticker := g.clock.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			g.pollTick()
		}
	}
}

// pollTick compares elapsed inactivity against the configured window and
// locks when exceeded. Redundant with the deferred timer; both funnel into
// the same idempotent transition, so a double fire is harmless.
func (g *Guard) pollTick() {
	g.mu.Lock()
	s := g.settings
	if s == nil || !s.Enabled || g.locked {
		g.mu.Unlock()
		return
	}
	d := s.AutoLockTime.Duration()
	if d < 0 || g.clock.Now().Sub(g.lastActivity) < d {
		g.mu.Unlock()
		return
	}
	notify := g.lockLocked(reasonTimer)
	g.mu.Unlock()
	if notify != nil {
		notify(true)
	}
}
