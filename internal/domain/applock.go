package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// ─── Auto-Lock Duration ─────────────────────────────────────────────────────

// AutoLockTime is the configured inactivity window before the app locks
// itself. Closed enum: every value has an explicit duration in Duration.
type AutoLockTime int

const (
	AutoLockImmediate AutoLockTime = iota
	AutoLock10s
	AutoLock30s
	AutoLock1m
	AutoLock2m
	AutoLock5m
	AutoLock10m
	AutoLock15m
	AutoLock30m
	AutoLock1h
	AutoLockNever
)

// DefaultAutoLockTime is used when a stored or transmitted value cannot be
// recognized. Unknown values recover to this, never to an error.
const DefaultAutoLockTime = AutoLock5m

// Duration returns the inactivity window for this setting.
// AutoLockImmediate returns 0 (lock on the very next reset cycle).
// AutoLockNever returns a negative duration: the timer is disabled, but the
// subsystem stays enabled for background-lock purposes.
func (t AutoLockTime) Duration() time.Duration {
	switch t {
	case AutoLockImmediate:
		return 0
	case AutoLock10s:
		return 10 * time.Second
	case AutoLock30s:
		return 30 * time.Second
	case AutoLock1m:
		return time.Minute
	case AutoLock2m:
		return 2 * time.Minute
	case AutoLock5m:
		return 5 * time.Minute
	case AutoLock10m:
		return 10 * time.Minute
	case AutoLock15m:
		return 15 * time.Minute
	case AutoLock30m:
		return 30 * time.Minute
	case AutoLock1h:
		return time.Hour
	case AutoLockNever:
		return -1
	default:
		return DefaultAutoLockTime.Duration()
	}
}

// String returns the wire form of the setting.
func (t AutoLockTime) String() string {
	switch t {
	case AutoLockImmediate:
		return "immediate"
	case AutoLock10s:
		return "10s"
	case AutoLock30s:
		return "30s"
	case AutoLock1m:
		return "1min"
	case AutoLock2m:
		return "2min"
	case AutoLock5m:
		return "5min"
	case AutoLock10m:
		return "10min"
	case AutoLock15m:
		return "15min"
	case AutoLock30m:
		return "30min"
	case AutoLock1h:
		return "1hour"
	case AutoLockNever:
		return "never"
	default:
		return DefaultAutoLockTime.String()
	}
}

// ParseAutoLockTime parses the wire form. Unrecognized values fall back to
// DefaultAutoLockTime with ok=false so callers can log the recovery.
func ParseAutoLockTime(s string) (AutoLockTime, bool) {
	switch s {
	case "immediate":
		return AutoLockImmediate, true
	case "10s":
		return AutoLock10s, true
	case "30s":
		return AutoLock30s, true
	case "1min":
		return AutoLock1m, true
	case "2min":
		return AutoLock2m, true
	case "5min":
		return AutoLock5m, true
	case "10min":
		return AutoLock10m, true
	case "15min":
		return AutoLock15m, true
	case "30min":
		return AutoLock30m, true
	case "1hour":
		return AutoLock1h, true
	case "never":
		return AutoLockNever, true
	default:
		return DefaultAutoLockTime, false
	}
}

// MarshalJSON encodes the setting as its wire string.
func (t AutoLockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes the wire string, recovering unknown values to the
// default rather than failing.
func (t *AutoLockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("auto_lock_time: %w", err)
	}
	parsed, _ := ParseAutoLockTime(s)
	*t = parsed
	return nil
}

// ─── App-Lock Settings ──────────────────────────────────────────────────────

// AppLockSettings is the persisted app-lock settings record.
// When Enabled is false the whole subsystem is inert.
type AppLockSettings struct {
	Enabled          bool         `json:"is_enabled"`
	AutoLockTime     AutoLockTime `json:"auto_lock_time"`
	LockOnBackground bool         `json:"lock_on_background"`
	RequireBiometric bool         `json:"require_biometric"`
	HasPINSet        bool         `json:"has_pin_set"`
}

// DefaultAppLockSettings is the safe fallback when no record is stored or
// the stored record cannot be read: disabled, 5-minute window, lock on
// background, no credential configured.
func DefaultAppLockSettings() AppLockSettings {
	return AppLockSettings{
		Enabled:          false,
		AutoLockTime:     AutoLock5m,
		LockOnBackground: true,
	}
}

// HasCredential reports whether a lock screen is meaningful for the user.
// A lock with neither a PIN nor biometrics configured must never be shown.
func (s AppLockSettings) HasCredential() bool {
	return s.HasPINSet || s.RequireBiometric
}

// ─── Lifecycle ──────────────────────────────────────────────────────────────

// LifecyclePhase is a host-delivered application lifecycle signal.
// PhaseInactive is treated identically to PhaseBackground.
type LifecyclePhase string

const (
	PhaseActive     LifecyclePhase = "active"
	PhaseInactive   LifecyclePhase = "inactive"
	PhaseBackground LifecyclePhase = "background"
)

// ParseLifecyclePhase validates a wire-form lifecycle phase.
func ParseLifecyclePhase(s string) (LifecyclePhase, error) {
	switch LifecyclePhase(s) {
	case PhaseActive, PhaseInactive, PhaseBackground:
		return LifecyclePhase(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLifecyclePhase, s)
	}
}
