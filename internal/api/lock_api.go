package api

import (
	"encoding/json"
	"net/http"

	"github.com/coinkeep/coinkeep/internal/domain"
)

// ─── Lock State ─────────────────────────────────────────────────────────────

func (s *Server) handleLockStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.guard.Status())
}

func (s *Server) handleLock(w http.ResponseWriter, r *http.Request) {
	s.guard.Lock()
	writeJSON(w, http.StatusOK, s.guard.Status())
}

// handleUnlock is called by the credential verifier on success. Retry and
// lockout counting live in the verifier, not here.
func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	s.guard.Unlock()
	writeJSON(w, http.StatusOK, s.guard.Status())
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	s.guard.RecordActivity()
	w.WriteHeader(http.StatusNoContent)
}

// ─── Lifecycle ──────────────────────────────────────────────────────────────

type lifecycleRequest struct {
	Phase string `json:"phase"`
}

func (s *Server) handleLifecycle(w http.ResponseWriter, r *http.Request) {
	var req lifecycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	phase, err := domain.ParseLifecyclePhase(req.Phase)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.guard.HandleLifecycle(phase)
	writeJSON(w, http.StatusOK, s.guard.Status())
}

// ─── Settings ───────────────────────────────────────────────────────────────

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings := s.guard.Settings()
	if settings == nil {
		writeError(w, http.StatusServiceUnavailable, domain.ErrNotInitialized.Error())
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var next domain.AppLockSettings
	if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.guard.UpdateSettings(next)
	writeJSON(w, http.StatusOK, s.guard.Settings())
}
