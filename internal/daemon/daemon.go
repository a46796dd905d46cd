package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coinkeep/coinkeep/internal/api"
	"github.com/coinkeep/coinkeep/internal/app/applock"
	"github.com/coinkeep/coinkeep/internal/app/ledger"
	"github.com/coinkeep/coinkeep/internal/health"
	"github.com/coinkeep/coinkeep/internal/infra/sqlite"
)

// Daemon is the core Coinkeep runtime. It is the composition root: it
// constructs the one process-wide app-lock Guard and wires every service.
type Daemon struct {
	Config Config
	DB     *sqlite.DB
	Guard  *applock.Guard
	Ledger *ledger.Service
	Health *health.Checker
	Server *api.Server
	cancel context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	// Open SQLite
	db, err := sqlite.Open(coinkeepHome())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// The app-lock guard: constructed once, lives for the process.
	guard := applock.New(db)
	guard.Initialize()

	ledgerSvc := ledger.NewService(db)

	srv := api.NewServer(guard, ledgerSvc)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	// Fan lock-state changes out to SSE subscribers. The hub is the single
	// registered listener; shells observe over HTTP.
	hub := api.NewLockEventHub()
	srv.SetLockEventHub(hub)
	guard.SetLockStateChangeListener(hub.Broadcast)

	checker := health.NewChecker(db, coinkeepHome())
	srv.SetHealthChecker(checker)

	// Cold-start gate: the guard never auto-locks on construction, so the
	// hosting process locks before anything is served when a credential is
	// configured.
	if cfg.AppLock.ColdStartLock {
		if s := guard.Settings(); s != nil && s.Enabled && s.HasCredential() {
			guard.Lock()
		}
	}

	return &Daemon{
		Config: cfg,
		DB:     db,
		Guard:  guard,
		Ledger: ledgerSvc,
		Health: checker,
		Server: srv,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // SSE lock-event streams stay open indefinitely
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		d.Guard.Cleanup()
		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("Coinkeep serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}
	if d.Guard.ShouldShowLockScreen() {
		log.Printf("[daemon] starting locked (credential required)")
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.Guard != nil {
		d.Guard.Cleanup()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
