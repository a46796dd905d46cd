package api

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

// LockEventHub fans lock-state changes out to SSE subscribers. The guard's
// single in-process listener is owned by the daemon, which broadcasts here;
// external shells subscribe over HTTP instead of registering callbacks.
type LockEventHub struct {
	mu   sync.Mutex
	subs map[chan bool]struct{}
}

// NewLockEventHub creates an empty hub.
func NewLockEventHub() *LockEventHub {
	return &LockEventHub{subs: make(map[chan bool]struct{})}
}

// Broadcast delivers a lock-state change to all subscribers. Slow
// subscribers drop events rather than block the guard's notification path.
func (h *LockEventHub) Broadcast(locked bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- locked:
		default:
		}
	}
}

func (h *LockEventHub) subscribe() chan bool {
	ch := make(chan bool, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *LockEventHub) unsubscribe(ch chan bool) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
}

// handleLockEvents streams lock-state changes as SSE events.
func (s *Server) handleLockEvents(w http.ResponseWriter, r *http.Request) {
	if s.lockEvents == nil {
		writeError(w, http.StatusNotFound, "lock event feed not enabled")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.lockEvents.subscribe()
	defer s.lockEvents.unsubscribe(ch)

	// Initial state so the shell can render before the first transition
	fmt.Fprintf(w, "data: {\"locked\": %t}\n\n", s.guard.Locked())
	flusher.Flush()

	keepAlive := time.NewTicker(30 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case locked := <-ch:
			fmt.Fprintf(w, "data: {\"locked\": %t}\n\n", locked)
			flusher.Flush()
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		}
	}
}
