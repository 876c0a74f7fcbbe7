package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/wmstack/internal/stacking"
)

// WindowLister is a function that returns the windows currently mapped.
type WindowLister func() ([]stacking.WindowID, error)

// Tracker is the set of windows being reconciled.
type Tracker interface {
	Tracked() []stacking.WindowID
	Forget(w stacking.WindowID)
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger

	// Exists confirms a window missing from the listing is really gone.
	// Unmapped panels are tracked but never listed.
	Exists func(w stacking.WindowID) bool

	// Exec runs a reconciliation pass. It defaults to calling it directly;
	// the daemon routes it onto the session goroutine.
	Exec func(pass func())
}

// Reconciler periodically drops tracked windows whose destroy
// notification was missed.
type Reconciler struct {
	interval    time.Duration
	tracker     Tracker
	listWindows WindowLister
	exists      func(w stacking.WindowID) bool
	exec        func(pass func())
	logger      *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, tracker Tracker, listWindows WindowLister) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	exec := cfg.Exec
	if exec == nil {
		exec = func(pass func()) { pass() }
	}

	return &Reconciler{
		interval:    interval,
		tracker:     tracker,
		listWindows: listWindows,
		exists:      cfg.Exists,
		exec:        exec,
		logger:      logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
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
			r.exec(r.reconcile)
		}
	}
}

func (r *Reconciler) reconcile() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	tracked := r.tracker.Tracked()
	if len(tracked) == 0 {
		return
	}

	actual, err := r.listWindows()
	if err != nil {
		r.logger.Error("reconciler: failed to list windows", "error", err)
		return
	}

	actualIDs := make(map[stacking.WindowID]bool, len(actual))
	for _, w := range actual {
		actualIDs[w] = true
	}

	for _, w := range tracked {
		if actualIDs[w] {
			continue
		}
		if r.exists != nil && r.exists(w) {
			continue
		}
		r.logger.Info("reconciler: dropping vanished window", "window", w)
		r.tracker.Forget(w)
	}
}

// ReconcileNow runs a reconciliation pass on the calling goroutine.
func (r *Reconciler) ReconcileNow() {
	r.reconcile()
}
