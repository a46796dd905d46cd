package api

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coinkeep/coinkeep/internal/app/applock"
	"github.com/coinkeep/coinkeep/internal/app/ledger"
	"github.com/coinkeep/coinkeep/internal/domain"
	"github.com/coinkeep/coinkeep/internal/infra/sqlite"
)

// newTestHandler wires a real guard and ledger over a temp database, the way
// the daemon composes them. The seeded settings use the "never" window so no
// wall-clock timer can fire mid-test.
func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	seed := domain.AppLockSettings{
		Enabled:          true,
		AutoLockTime:     domain.AutoLockNever,
		LockOnBackground: true,
		HasPINSet:        true,
	}
	if err := db.SaveAppLockSettings(seed); err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	guard := applock.New(db)
	guard.Initialize()
	t.Cleanup(guard.Cleanup)

	srv := NewServer(guard, ledger.NewService(db))
	hub := NewLockEventHub()
	srv.SetLockEventHub(hub)
	guard.SetLockStateChangeListener(hub.Broadcast)
	return srv.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeStatus(t *testing.T, w *httptest.ResponseRecorder) applock.Status {
	t.Helper()
	var st applock.Status
	if err := json.NewDecoder(w.Body).Decode(&st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	return st
}

func TestLockStatusLockUnlock(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, "GET", "/api/lock/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status code = %d", w.Code)
	}
	if st := decodeStatus(t, w); st.Locked {
		t.Fatal("fresh guard reports locked")
	}

	w = doJSON(t, h, "POST", "/api/lock", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("lock code = %d", w.Code)
	}
	st := decodeStatus(t, w)
	if !st.Locked || !st.ShouldShowLockScreen {
		t.Errorf("after lock: %+v", st)
	}

	w = doJSON(t, h, "POST", "/api/unlock", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unlock code = %d", w.Code)
	}
	st = decodeStatus(t, w)
	if st.Locked {
		t.Error("still locked after unlock")
	}
	if st.SessionID == "" {
		t.Error("unlock did not start a session")
	}
}

func TestLifecycleEndpoint(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, "POST", "/api/lifecycle", map[string]string{"phase": "background"})
	if w.Code != http.StatusOK {
		t.Fatalf("lifecycle code = %d, body %s", w.Code, w.Body)
	}
	if st := decodeStatus(t, w); !st.Locked || !st.WasInBackground {
		t.Errorf("after background: %+v", st)
	}

	w = doJSON(t, h, "POST", "/api/lifecycle", map[string]string{"phase": "hibernating"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown phase code = %d, want 400", w.Code)
	}

	req := httptest.NewRequest("POST", "/api/lifecycle", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body code = %d, want 400", rec.Code)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, "GET", "/api/settings", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get settings code = %d", w.Code)
	}
	var s domain.AppLockSettings
	if err := json.NewDecoder(w.Body).Decode(&s); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if !s.Enabled || s.AutoLockTime != domain.AutoLockNever || !s.HasPINSet {
		t.Errorf("seeded settings = %+v", s)
	}

	// Disabling through the API must release an active lock.
	doJSON(t, h, "POST", "/api/lock", nil)
	w = doJSON(t, h, "PUT", "/api/settings", map[string]any{"is_enabled": false})
	if w.Code != http.StatusOK {
		t.Fatalf("put settings code = %d", w.Code)
	}
	w = doJSON(t, h, "GET", "/api/lock/status", nil)
	if st := decodeStatus(t, w); st.Locked {
		t.Error("lock survived disabling the feature")
	}

	// Unknown enum values on the wire recover to the default.
	w = doJSON(t, h, "PUT", "/api/settings", map[string]any{
		"is_enabled":     true,
		"auto_lock_time": "whenever",
		"has_pin_set":    true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("put settings code = %d", w.Code)
	}
	var applied domain.AppLockSettings
	if err := json.NewDecoder(w.Body).Decode(&applied); err != nil {
		t.Fatalf("decode applied: %v", err)
	}
	if applied.AutoLockTime != domain.DefaultAutoLockTime {
		t.Errorf("unknown enum applied as %v, want %v", applied.AutoLockTime, domain.DefaultAutoLockTime)
	}
}

func TestActivityEndpoint(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, "POST", "/api/activity", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("activity code = %d, want 204", w.Code)
	}
}

func TestTransactionEndpoints(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, "POST", "/api/transactions", map[string]any{
		"kind": "income", "category": "salary", "amount_cents": 100000,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add code = %d, body %s", w.Code, w.Body)
	}
	var tx domain.Transaction
	if err := json.NewDecoder(w.Body).Decode(&tx); err != nil {
		t.Fatalf("decode tx: %v", err)
	}
	if tx.ID == "" || tx.Kind != domain.TxIncome {
		t.Errorf("created tx = %+v", tx)
	}

	w = doJSON(t, h, "GET", "/api/transactions?limit=10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list code = %d", w.Code)
	}
	var list struct {
		Transactions []domain.Transaction `json:"transactions"`
	}
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Transactions) != 1 {
		t.Fatalf("listed %d transactions, want 1", len(list.Transactions))
	}

	w = doJSON(t, h, "GET", "/api/balance", nil)
	var bal struct {
		BalanceCents int64 `json:"balance_cents"`
	}
	if err := json.NewDecoder(w.Body).Decode(&bal); err != nil {
		t.Fatalf("decode balance: %v", err)
	}
	if bal.BalanceCents != 100000 {
		t.Errorf("balance = %d, want 100000", bal.BalanceCents)
	}

	w = doJSON(t, h, "DELETE", "/api/transactions/"+tx.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete code = %d, want 204", w.Code)
	}
	w = doJSON(t, h, "DELETE", "/api/transactions/"+tx.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("repeat delete code = %d, want 404", w.Code)
	}
}

func TestTransactionValidation(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, "POST", "/api/transactions", map[string]any{
		"kind": "transfer", "amount_cents": 100,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown kind code = %d, want 400", w.Code)
	}

	w = doJSON(t, h, "POST", "/api/transactions", map[string]any{
		"kind": "expense", "amount_cents": 0,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("zero amount code = %d, want 400", w.Code)
	}

	w = doJSON(t, h, "GET", "/api/transactions?limit=nope", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad limit code = %d, want 400", w.Code)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	h := newTestHandler(t)

	doJSON(t, h, "POST", "/api/transactions", map[string]any{
		"kind": "expense", "category": "rent", "amount_cents": 90000,
	})

	w := doJSON(t, h, "GET", "/api/summary", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("summary code = %d", w.Code)
	}
	var sum domain.MonthlySummary
	if err := json.NewDecoder(w.Body).Decode(&sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if sum.ExpenseCents != 90000 {
		t.Errorf("expenses = %d, want 90000", sum.ExpenseCents)
	}

	w = doJSON(t, h, "GET", "/api/summary?month=13", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad month code = %d, want 400", w.Code)
	}
}

func TestHealthWithoutChecker(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("health code = %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest("OPTIONS", "/api/lock/status", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("preflight code = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestLockEventsInitialState(t *testing.T) {
	h := newTestHandler(t)

	ts := httptest.NewServer(h)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/lock/events")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	if err != nil {
		t.Fatalf("read initial event: %v", err)
	}
	if want := fmt.Sprintf("data: {\"locked\": %t}", false); strings.TrimSpace(line) != want {
		t.Errorf("initial event = %q, want %q", strings.TrimSpace(line), want)
	}
}

func TestLockEventHubBroadcast(t *testing.T) {
	hub := NewLockEventHub()
	ch := hub.subscribe()
	defer hub.unsubscribe(ch)

	hub.Broadcast(true)
	select {
	case locked := <-ch:
		if !locked {
			t.Error("broadcast delivered false, want true")
		}
	default:
		t.Fatal("broadcast did not reach the subscriber")
	}

	// A full subscriber drops events instead of blocking the caller.
	full := hub.subscribe()
	defer hub.unsubscribe(full)
	for i := 0; i < cap(full)+4; i++ {
		hub.Broadcast(false)
	}
}
