package daemon_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"beholder/internal/config"
	"beholder/internal/daemon"
	"beholder/internal/testsupport"
)

type stubSubscriber struct {
	startErr error
	started  atomic.Int32
	closed   atomic.Int32
}

func (s *stubSubscriber) Start(context.Context) error {
	s.started.Add(1)
	return s.startErr
}

func (s *stubSubscriber) Close() error {
	s.closed.Add(1)
	return nil
}

type stubSweeper struct {
	entered chan struct{}
}

func newStubSweeper() *stubSweeper {
	return &stubSweeper{entered: make(chan struct{})}
}

func (s *stubSweeper) SweepLoop(ctx context.Context, _ time.Duration) {
	close(s.entered)
	<-ctx.Done()
}

func newConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Watcher.MetricsBind = ""
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return cfg
}

func TestStartStopLifecycle(t *testing.T) {
	cfg := newConfig(t)
	sub := &stubSubscriber{}
	sweeper := newStubSweeper()

	d, err := daemon.New(cfg, sub, sweeper, testsupport.NewLogger())
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer d.Stop()

	if !d.Status().Running {
		t.Error("daemon not reported running")
	}
	select {
	case <-sweeper.entered:
	case <-time.After(time.Second):
		t.Fatal("sweep loop never started")
	}

	if err := d.Start(context.Background()); err == nil {
		t.Error("second start on running daemon accepted")
	}

	d.Stop()
	if d.Status().Running {
		t.Error("daemon still reported running after stop")
	}
	if sub.closed.Load() == 0 {
		t.Error("subscriber not closed on stop")
	}
}

func TestSecondInstanceRejected(t *testing.T) {
	cfg := newConfig(t)

	first, err := daemon.New(cfg, &stubSubscriber{}, newStubSweeper(), testsupport.NewLogger())
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("start first: %v", err)
	}
	defer first.Stop()

	second, err := daemon.New(cfg, &stubSubscriber{}, newStubSweeper(), testsupport.NewLogger())
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("second instance acquired the lock")
	}
}

func TestSubscriberFailureReleasesLock(t *testing.T) {
	cfg := newConfig(t)

	broken, err := daemon.New(cfg, &stubSubscriber{startErr: errors.New("redis down")}, newStubSweeper(), testsupport.NewLogger())
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	if err := broken.Start(context.Background()); err == nil {
		t.Fatal("start succeeded with failing subscriber")
	}
	if broken.Status().Running {
		t.Error("failed start left daemon running")
	}

	recovered, err := daemon.New(cfg, &stubSubscriber{}, newStubSweeper(), testsupport.NewLogger())
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	if err := recovered.Start(context.Background()); err != nil {
		t.Fatalf("lock not released by failed start: %v", err)
	}
	recovered.Stop()
}
