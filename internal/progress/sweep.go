package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"beholder/internal/metrics"
	"beholder/internal/store"
	"beholder/internal/timeutil"
)

// RunSweep walks the stage records for the watched stage class, purges
// completed or never-started downloads, and posts a humanized ETA for the
// rest. Concurrent invocations are collapsed: a tick that arrives while a
// sweep is in flight is skipped, not queued.
func (t *Tracker) RunSweep(ctx context.Context) error {
	if !t.sweeping.CompareAndSwap(false, true) {
		metrics.SweepSkipped()
		t.logger.Debug("sweep already running, skipping tick")
		return nil
	}
	defer t.sweeping.Store(false)

	logger := t.logger.With("sweep_run", uuid.NewString())

	keys, err := t.store.KeysByPrefix(ctx, store.JobKeyPrefix)
	if err != nil {
		return fmt.Errorf("list stage records: %w", err)
	}

	for _, key := range keys {
		jobID, stage, ok := store.ParseStageKey(key)
		if !ok || stage != t.sweepStage {
			continue
		}
		if err := t.sweepRecord(ctx, logger, key, jobID, stage); err != nil {
			logger.Warn("sweep record failed", "key", key, "error", err)
		}
	}

	metrics.SweepRun()
	return nil
}

func (t *Tracker) sweepRecord(ctx context.Context, logger *slog.Logger, key, jobID, stage string) error {
	raw, err := t.store.GetField(ctx, key, fieldPercent)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	percent, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("parse percent %q: %w", raw, err)
	}

	if percent == 0 || percent == 100 {
		logger.Info("purging stale stage record", "key", key, "percent", percent)
		return t.store.DeleteKey(ctx, key)
	}

	started, err := t.readTimestamp(ctx, key, fieldStarted)
	if err != nil {
		return err
	}

	elapsed := timeutil.MinutesSince(t.clock.Now(), started)
	// minutes elapsed / percent done * percent remaining
	etaMinutes := int(math.Floor((elapsed / float64(percent)) * float64(100-percent)))

	t.comment(ctx, jobID, fmt.Sprintf("%s: progress **%d%%** (eta: %s)",
		stage, percent, timeutil.HumanizeMinutes(etaMinutes)))
	return nil
}

// SweepLoop runs an immediate sweep and then one per interval until the
// context is cancelled.
func (t *Tracker) SweepLoop(ctx context.Context, interval time.Duration) {
	if err := t.RunSweep(ctx); err != nil {
		t.logger.Warn("sweep failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.RunSweep(ctx); err != nil {
				t.logger.Warn("sweep failed", "error", err)
			}
		}
	}
}
