package daemon

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// ManagedWindow is the reconciler's view of a chrome-managed window.
type ManagedWindow interface {
	Alive() bool
	Shutdown()
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically checks whether the managed window still exists
// and tears chrome management down when it has gone away without a close
// notification (crashed host, window destroyed behind our back).
type Reconciler struct {
	interval time.Duration
	managed  ManagedWindow
	logger   *slog.Logger
	onGone   func()
}

// NewReconciler creates a reconciler for one managed window. onGone fires
// once, after the window has been cleaned up.
func NewReconciler(cfg ReconcilerConfig, managed ManagedWindow, onGone func()) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Reconciler{
		interval: interval,
		managed:  managed,
		logger:   logger,
		onGone:   onGone,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled or
// the window is gone.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			if r.reconcile() {
				return
			}
		}
	}
}

// reconcile performs a single pass; true means the window is gone and the
// loop should end.
func (r *Reconciler) reconcile() bool {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	if r.managed.Alive() {
		return false
	}

	r.logger.Info("managed window gone, shutting chrome management down")
	r.managed.Shutdown()
	if r.onGone != nil {
		r.onGone()
	}
	return true
}
