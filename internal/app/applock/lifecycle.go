package applock

import (
	"time"

	"github.com/coinkeep/coinkeep/internal/domain"
)

// HandleLifecycle applies a host lifecycle transition to the lock state.
// "inactive" and "background" are treated identically.
//
// Policy: any return from background re-locks the app when a credential is
// configured, independent of LockOnBackground. LockOnBackground only decides
// whether the lock happens at background time or on the way back in. A
// "locked for N background seconds" grace window is deliberately not offered;
// presence of any backgrounding is sufficient to require re-authentication.
func (g *Guard) HandleLifecycle(phase domain.LifecyclePhase) {
	switch phase {
	case domain.PhaseBackground, domain.PhaseInactive:
		g.handleBackground()
	case domain.PhaseActive:
		g.handleForeground()
	}
}

func (g *Guard) handleBackground() {
	g.mu.Lock()
	s := g.settings
	if s == nil || !s.Enabled {
		g.mu.Unlock()
		return
	}
	g.backgroundEnteredAt = g.clock.Now()
	g.wasInBackground = true

	// No need to keep ticking while backgrounded.
	g.cancelAutoLockLocked()

	var notify func(bool)
	if s.LockOnBackground {
		notify = g.lockLocked(reasonBackground)
	}
	g.mu.Unlock()

	if notify != nil {
		notify(true)
	}
}

func (g *Guard) handleForeground() {
	g.mu.Lock()
	s := g.settings
	if s == nil || !s.Enabled {
		g.mu.Unlock()
		return
	}

	var notify func(bool)
	if g.wasInBackground && s.HasCredential() {
		notify = g.lockLocked(reasonForeground)
	}

	g.lastActivity = g.clock.Now()
	g.wasInBackground = false
	g.backgroundEnteredAt = time.Time{}
	if !g.locked {
		g.armAutoLockLocked()
	}
	g.mu.Unlock()

	if notify != nil {
		notify(true)
	}
}
