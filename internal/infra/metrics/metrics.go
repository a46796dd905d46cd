// Package metrics provides Prometheus metrics for Coinkeep: counters and
// gauges for lock transitions, user activity, and the personal ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── App Lock ───────────────────────────────────────────────────────────────

// Locks counts lock transitions by reason (manual, timer, background,
// foreground).
var Locks = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "coinkeep",
	Name:      "applock_locks_total",
	Help:      "Total lock transitions by reason.",
}, []string{"reason"})

// Unlocks counts unlock transitions.
var Unlocks = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "coinkeep",
	Name:      "applock_unlocks_total",
	Help:      "Total unlock transitions.",
})

// LockedState tracks the current internal lock state (1=locked, 0=unlocked).
var LockedState = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "coinkeep",
	Name:      "applock_locked",
	Help:      "Current internal lock state (1=locked, 0=unlocked).",
})

// ActivityEvents counts recorded user-activity events.
var ActivityEvents = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "coinkeep",
	Name:      "applock_activity_events_total",
	Help:      "Total user-activity events recorded.",
})

// SettingsUpdates counts app-lock settings replacements.
var SettingsUpdates = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "coinkeep",
	Name:      "applock_settings_updates_total",
	Help:      "Total app-lock settings updates.",
})

// ─── Ledger ─────────────────────────────────────────────────────────────────

// TransactionsRecorded counts ledger transactions by kind.
var TransactionsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "coinkeep",
	Name:      "ledger_transactions_total",
	Help:      "Total ledger transactions recorded.",
}, []string{"kind"})

// CashBalance tracks the current cash account balance in cents.
var CashBalance = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "coinkeep",
	Name:      "ledger_cash_balance_cents",
	Help:      "Current cash account balance in cents.",
})
