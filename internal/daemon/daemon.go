package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/1broseidon/wmstack/internal/config"
	wmdbus "github.com/1broseidon/wmstack/internal/dbus"
	"github.com/1broseidon/wmstack/internal/ipc"
	"github.com/1broseidon/wmstack/internal/logging"
	"github.com/1broseidon/wmstack/internal/platform"
	"github.com/1broseidon/wmstack/internal/stacking"
	"github.com/charmbracelet/log"
)

// requestTimeout bounds how long an IPC or D-Bus request waits for the
// session goroutine.
const requestTimeout = 5 * time.Second

// Options configures a Daemon.
type Options struct {
	// ConfigPath is re-read on reload. Empty disables file reloads.
	ConfigPath string
	Config     *config.Config

	// LogHandler, when set, has its level updated from log_level on reload.
	LogHandler *log.Logger
	Logger     *slog.Logger
}

// Daemon wires a Session to its control surfaces: the IPC socket, the
// D-Bus service, the config watcher and the reconciler.
type Daemon struct {
	opts    Options
	backend platform.Backend
	session *Session
	logger  *slog.Logger

	mu              sync.Mutex
	cfg             *config.Config
	reconcileCancel context.CancelFunc
	runCtx          context.Context
	dbusRunning     bool
}

var _ ipc.Handler = (*Daemon)(nil)

// New creates a daemon for backend. The session is created immediately
// so listeners can be attached before Run.
func New(backend platform.Backend, events platform.EventSource, opts Options) *Daemon {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	d := &Daemon{
		opts:    opts,
		backend: backend,
		logger:  logger,
		cfg:     cfg,
	}
	d.session = NewSession(backend, events, sessionConfig(cfg, logger))
	return d
}

func sessionConfig(cfg *config.Config, logger *slog.Logger) SessionConfig {
	return SessionConfig{
		Mapping: platform.AtomMapping{
			OnTopStates:       cfg.OnTopStates,
			PanelTypes:        cfg.PanelTypes,
			RaisedPanelStates: cfg.RaisedPanelStates,
		},
		PublishClientList: cfg.PublishClientListStacking,
		Logger:            logger,
	}
}

// Session returns the managed session.
func (d *Daemon) Session() *Session {
	return d.session
}

// Run starts the control surfaces and blocks in the session loop.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d.mu.Lock()
	cfg := d.cfg
	d.runCtx = ctx
	d.mu.Unlock()

	if cfg.DBus.Enabled {
		svc := wmdbus.NewStackingService(wmdbus.Options{
			BusName:    cfg.DBus.BusName,
			ObjectPath: cfg.DBus.ObjectPath,
		}, d, d.logger.With("component", "dbus"))
		if err := svc.Start(); err != nil {
			d.logger.Warn("dbus service unavailable", "error", err)
		} else {
			d.session.AddListener(svc)
			d.dbusRunning = true
			defer svc.Stop()
		}
	}

	if cfg.IPC.Enabled {
		srv, err := ipc.NewServer(d, d.logger.With("component", "ipc"))
		if err != nil {
			return err
		}
		if err := srv.Start(); err != nil {
			return err
		}
		defer srv.Stop()
	}

	if d.opts.ConfigPath != "" {
		watcher, err := config.NewWatcher(d.opts.ConfigPath, d.logger)
		if err != nil {
			d.logger.Warn("config hot reload unavailable", "error", err)
		} else if err := watcher.Start(); err != nil {
			d.logger.Warn("config hot reload unavailable", "error", err)
		} else {
			defer watcher.Stop()
			go d.reloadOn(ctx, watcher.Changes(), "config file changed")
		}
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	hupEvents := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				select {
				case hupEvents <- struct{}{}:
				default:
				}
			}
		}
	}()
	go d.reloadOn(ctx, hupEvents, "SIGHUP")

	d.startReconciler(cfg.ReconcileInterval.Duration())

	return d.session.Run(ctx)
}

func (d *Daemon) reloadOn(ctx context.Context, events <-chan struct{}, reason string) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-events:
			d.logger.Info("reloading config", "reason", reason)
			if err := d.Reload(); err != nil {
				d.logger.Error("config reload failed", "error", err)
			}
		}
	}
}

// startReconciler (re)starts the reconciler. A zero interval disables it.
func (d *Daemon) startReconciler(interval time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.reconcileCancel != nil {
		d.reconcileCancel()
		d.reconcileCancel = nil
	}
	if interval <= 0 || d.runCtx == nil {
		return
	}

	ctx, cancel := context.WithCancel(d.runCtx)
	d.reconcileCancel = cancel

	r := NewReconciler(ReconcilerConfig{
		Interval: interval,
		Logger:   d.logger.With("component", "reconciler"),
		Exists:   d.backend.WindowExists,
		Exec: func(pass func()) {
			if err := d.session.Do(ctx, pass); err != nil {
				d.logger.Debug("reconcile skipped", "error", err)
			}
		},
	}, d.session, d.backend.TopLevelWindows)
	go r.Run(ctx)
}

// Reload re-reads the config file and applies it to the running session.
func (d *Daemon) Reload() error {
	if d.opts.ConfigPath == "" {
		return fmt.Errorf("no config file to reload")
	}
	res, err := config.LoadFromPath(d.opts.ConfigPath)
	if err != nil {
		return err
	}
	return d.Apply(res.Config)
}

// Apply installs cfg. D-Bus and IPC enablement only change on restart.
func (d *Daemon) Apply(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if d.opts.LogHandler != nil {
		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		d.opts.LogHandler.SetLevel(level)
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if err := d.session.Do(ctx, func() {
		d.session.Configure(sessionConfig(cfg, d.logger))
	}); err != nil {
		return fmt.Errorf("failed to apply config: %w", err)
	}

	d.mu.Lock()
	previous := d.cfg.ReconcileInterval
	d.cfg = cfg
	d.mu.Unlock()

	if previous != cfg.ReconcileInterval {
		d.startReconciler(cfg.ReconcileInterval.Duration())
	}

	d.logger.Info("config applied", "log_level", cfg.LogLevel, "reconcile_interval", cfg.ReconcileInterval.Duration())
	return nil
}

// Config returns the active configuration.
func (d *Daemon) Config() *config.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

func (d *Daemon) do(fn func()) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	return d.session.Do(ctx, fn)
}

// Status implements ipc.Handler. It fails when the session does not
// answer in time or has stopped.
func (d *Daemon) Status() (ipc.StatusData, error) {
	status := ipc.StatusData{
		SessionID:     d.session.ID(),
		StartedAt:     d.session.StartedAt(),
		UptimeSeconds: int64(time.Since(d.session.StartedAt()).Seconds()),
		DBus:          d.dbusRunning,
		DaemonRunning: true,
	}
	err := d.do(func() {
		snap := d.session.Manager().Snapshot()
		status.Windows = len(snap.Stack)
		status.Panels = len(snap.Panels)
		status.Dirty = snap.Dirty
		status.Refreshes = snap.Refreshes
		status.LastCommands = snap.LastCommands
	})
	if err != nil {
		return ipc.StatusData{}, fmt.Errorf("failed to read session status: %w", err)
	}
	return status, nil
}

// Stack implements ipc.Handler.
func (d *Daemon) Stack() (ipc.StackData, error) {
	var data ipc.StackData
	err := d.do(func() {
		data = stackData(d.session.Manager().Snapshot(), d.backend)
	})
	if err != nil {
		return ipc.StackData{}, fmt.Errorf("failed to read stack: %w", err)
	}
	return data, nil
}

func stackData(snap stacking.Snapshot, backend platform.Backend) ipc.StackData {
	data := ipc.StackData{
		Windows: make([]ipc.WindowEntry, 0, len(snap.Stack)),
		Panels:  make([]ipc.PanelEntry, 0, len(snap.Panels)),
		Dirty:   snap.Dirty,
	}
	for _, e := range snap.Stack {
		info := backend.Info(e.ID)
		data.Windows = append(data.Windows, ipc.WindowEntry{
			ID:           uint32(e.ID),
			Layer:        e.Layer.String(),
			TransientFor: uint32(e.TransientFor),
			Class:        info.Class,
			Title:        info.Title,
		})
	}
	for _, p := range snap.Panels {
		data.Panels = append(data.Panels, ipc.PanelEntry{
			ID:      uint32(p.ID),
			OnTop:   p.OnTop,
			Visible: p.Visible,
			Screen:  p.Screen,
		})
	}
	return data
}

// Raise implements ipc.Handler and dbus.Controller.
func (d *Daemon) Raise(window uint32) error {
	var err error
	if doErr := d.do(func() { err = d.session.Raise(stacking.WindowID(window)) }); doErr != nil {
		return doErr
	}
	return err
}

// Lower implements ipc.Handler and dbus.Controller.
func (d *Daemon) Lower(window uint32) error {
	var err error
	if doErr := d.do(func() { err = d.session.Lower(stacking.WindowID(window)) }); doErr != nil {
		return doErr
	}
	return err
}

// Refresh implements ipc.Handler. It forces a full restack pass.
func (d *Daemon) Refresh() (ipc.RefreshData, error) {
	var data ipc.RefreshData
	err := d.do(func() {
		m := d.session.Manager()
		m.MarkDirty()
		m.Refresh()
		data.Commands = m.Snapshot().LastCommands
	})
	return data, err
}
