package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"beholder/internal/config"
	"beholder/internal/metrics"
)

// Subscriber is the pub/sub consumer the daemon drives.
type Subscriber interface {
	Start(ctx context.Context) error
	Close() error
}

// Sweeper runs the periodic download ETA sweep.
type Sweeper interface {
	SweepLoop(ctx context.Context, interval time.Duration)
}

// Daemon coordinates the subscriber, the sweep loop, and the metrics
// endpoint, and enforces single-instance execution via a lock file.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	subscriber Subscriber
	sweeper    Sweeper

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	metricsSrv *http.Server
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	LockFilePath string
	MetricsBind  string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, sub Subscriber, sweeper Sweeper, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || sub == nil || sweeper == nil || logger == nil {
		return nil, errors.New("daemon requires config, subscriber, sweeper, and logger")
	}

	lockPath := filepath.Join(cfg.StateDir, "beholderd.lock")
	return &Daemon{
		cfg:        cfg,
		logger:     logger.With("session", uuid.NewString()),
		subscriber: sub,
		sweeper:    sweeper,
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock, starts the metrics endpoint, subscribes to
// the pipeline topics, and launches the sweep loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another beholder daemon instance is already running")
	}

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("register metrics: %w", err)
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	d.startMetricsServer()

	if err := d.subscriber.Start(d.ctx); err != nil {
		d.teardown()
		return fmt.Errorf("start subscriber: %w", err)
	}

	interval := time.Duration(d.cfg.Watcher.SweepInterval) * time.Minute
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.sweeper.SweepLoop(d.ctx, interval)
	}()

	d.running.Store(true)
	d.logger.Info("beholder daemon started",
		"lock", d.lockPath,
		"topics", d.cfg.Redis.Topics,
		"sweep_interval", interval.String())
	return nil
}

func (d *Daemon) startMetricsServer() {
	bind := d.cfg.Watcher.MetricsBind
	if bind == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	d.metricsSrv = &http.Server{Addr: bind, Handler: mux}

	go func() {
		if err := d.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			d.logger.Warn("metrics endpoint failed", "bind", bind, "error", err)
		}
	}()
	d.logger.Info("metrics endpoint listening", "bind", bind)
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	d.teardown()
	d.running.Store(false)
	d.logger.Info("beholder daemon stopped")
}

func (d *Daemon) teardown() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if err := d.subscriber.Close(); err != nil {
		d.logger.Warn("subscriber close failed", "error", err)
	}
	d.wg.Wait()

	if d.metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = d.metricsSrv.Shutdown(shutdownCtx)
		cancel()
		d.metricsSrv = nil
	}

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", "error", err)
	}
	d.ctx = nil
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		LockFilePath: d.lockPath,
		MetricsBind:  d.cfg.Watcher.MetricsBind,
	}
}
