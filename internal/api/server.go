// Package api provides the localhost HTTP control surface for Coinkeep.
// The mobile/desktop shell drives the app-lock subsystem and the ledger
// through it, and observes lock state via polling or the SSE event feed.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coinkeep/coinkeep/internal/app/applock"
	"github.com/coinkeep/coinkeep/internal/app/ledger"
	"github.com/coinkeep/coinkeep/internal/health"
)

// Server is the Coinkeep control API server.
type Server struct {
	guard          *applock.Guard
	ledger         *ledger.Service
	health         *health.Checker
	lockEvents     *LockEventHub
	metricsEnabled bool
}

// NewServer creates a new control API server.
func NewServer(guard *applock.Guard, ledger *ledger.Service) *Server {
	return &Server{guard: guard, ledger: ledger}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealthChecker sets the health checker backing /health.
func (s *Server) SetHealthChecker(h *health.Checker) { s.health = h }

// SetLockEventHub sets the SSE hub for lock-state change events.
func (s *Server) SetLockEventHub(h *LockEventHub) { s.lockEvents = h }

// LockEventHub returns the hub (for broadcasting from the daemon listener).
func (s *Server) LockEventHub() *LockEventHub { return s.lockEvents }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": "0.1.0",
		})
	})

	// App-lock surface. Initialize/Cleanup belong to the daemon; everything
	// else is exposed to the shell here.
	r.Route("/api/lock", func(r chi.Router) {
		r.Get("/status", s.handleLockStatus)
		r.Post("/", s.handleLock)
		r.Get("/events", s.handleLockEvents)
	})
	r.Post("/api/unlock", s.handleUnlock)
	r.Post("/api/activity", s.handleActivity)
	r.Post("/api/lifecycle", s.handleLifecycle)
	r.Get("/api/settings", s.handleGetSettings)
	r.Put("/api/settings", s.handlePutSettings)

	// Ledger surface
	r.Route("/api/transactions", func(r chi.Router) {
		r.Get("/", s.handleListTransactions)
		r.Post("/", s.handleAddTransaction)
		r.Delete("/{id}", s.handleDeleteTransaction)
	})
	r.Get("/api/balance", s.handleBalance)
	r.Get("/api/summary", s.handleSummary)

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	status := http.StatusOK
	if !s.health.IsHealthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"healthy": s.health.IsHealthy(),
		"checks":  s.health.Statuses(),
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for local shells (the UI runs in its own
// webview origin).
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
