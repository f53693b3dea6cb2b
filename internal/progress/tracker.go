package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"beholder/internal/notify"
	"beholder/internal/store"
	"beholder/internal/timeutil"
)

// Stage record field names, shared with the CLI through the store package.
const (
	fieldStarted  = store.FieldStarted
	fieldFinished = store.FieldFinished
	fieldPercent  = store.FieldPercent
)

// Stages that never produce progress state or notifications. Queue chatter is
// noise and errors arrive on their own channel.
var ignoredStages = map[string]struct{}{
	"queue": {},
	"error": {},
}

// Tracker derives durable stage/subtask state and narrative notifications
// from the raw progress stream. It holds no state of its own; everything
// lives in the shared store so redelivered or reordered events cannot corrupt
// more than the field they rewrite.
type Tracker struct {
	store      store.Store
	sink       notify.Sink
	clock      timeutil.Clock
	logger     *slog.Logger
	sweepStage string

	sweeping atomic.Bool
}

// New constructs a progress tracker. sweepStage names the long-running stage
// class the periodic ETA sweep watches (typically "download").
func New(st store.Store, sink notify.Sink, clock timeutil.Clock, logger *slog.Logger, sweepStage string) *Tracker {
	return &Tracker{
		store:      st,
		sink:       sink,
		clock:      clock,
		logger:     logger.With("component", "progress"),
		sweepStage: sweepStage,
	}
}

// rule is one row of the decision table: the first matching rule's apply runs,
// then the unconditional percent write follows regardless.
type rule struct {
	name  string
	match func(Event) bool
	apply func(context.Context, Event, time.Time) error
}

func (t *Tracker) rules() []rule {
	return []rule{
		{
			name:  "stage start",
			match: func(e Event) bool { return e.Percent == 0 && e.Subtask == e.SubtaskCount },
			apply: t.stageStart,
		},
		{
			name:  "stage finish",
			match: func(e Event) bool { return e.Percent == 100 && e.Subtask == e.SubtaskCount },
			apply: t.stageFinish,
		},
		{
			name:  "subtask start",
			match: func(e Event) bool { return e.Percent == 0 && e.SubtaskCount > 0 },
			apply: t.subtaskStart,
		},
		{
			name:  "subtask finish",
			match: func(e Event) bool { return e.Percent == 100 && e.Subtask > 0 },
			apply: t.subtaskFinish,
		},
	}
}

// HandleProgress consumes one progress event. Store failures are returned;
// notification failures are logged and swallowed so one bad external call
// never blocks state persistence.
func (t *Tracker) HandleProgress(ctx context.Context, event Event) error {
	if event.Stage == "" {
		return errors.New("progress event missing stage")
	}
	if event.Percent < 0 || event.Percent > 100 {
		return fmt.Errorf("progress percent %d out of range", event.Percent)
	}
	if _, ok := ignoredStages[event.Stage]; ok {
		return nil
	}

	now := t.clock.Now()
	logger := t.logger.With("job", event.JobID, "stage", event.Stage, "percent", event.Percent)

	for _, r := range t.rules() {
		if !r.match(event) {
			continue
		}
		logger.Debug("matched transition", "transition", r.name)
		if err := r.apply(ctx, event, now); err != nil {
			return fmt.Errorf("%s: %w", r.name, err)
		}
		break
	}

	// Last-known percent is always current for the ETA sweep, whichever
	// transition (or none) matched.
	key := store.StageKey(event.JobID, event.Stage)
	if err := t.store.SetField(ctx, key, fieldPercent, fmt.Sprintf("%d", event.Percent)); err != nil {
		return fmt.Errorf("update percent: %w", err)
	}
	return nil
}

func (t *Tracker) stageStart(ctx context.Context, e Event, now time.Time) error {
	key := store.StageKey(e.JobID, e.Stage)
	if err := t.store.SetField(ctx, key, fieldStarted, now.Format(time.RFC3339Nano)); err != nil {
		return err
	}

	text := fmt.Sprintf("Started stage **%s**", e.Stage)
	if e.Host != "" {
		text = fmt.Sprintf("Started stage **%s** on _%s_", e.Stage, e.Host)
	}
	t.comment(ctx, e.JobID, text)
	return nil
}

func (t *Tracker) stageFinish(ctx context.Context, e Event, now time.Time) error {
	key := store.StageKey(e.JobID, e.Stage)
	started, err := t.readTimestamp(ctx, key, fieldStarted)

	if setErr := t.store.SetField(ctx, key, fieldFinished, now.Format(time.RFC3339Nano)); setErr != nil {
		return setErr
	}

	if err != nil {
		t.logger.Warn("stage finished without a recorded start", "job", e.JobID, "stage", e.Stage, "error", err)
		return nil
	}

	minutes := timeutil.MinutesSince(now, started)
	t.comment(ctx, e.JobID, fmt.Sprintf("Finished stage '%s' in **%s minutes**.", e.Stage, timeutil.FormatMinutes(minutes)))
	return nil
}

func (t *Tracker) subtaskStart(ctx context.Context, e Event, now time.Time) error {
	key := store.SubtaskKey(e.JobID, e.Stage, e.Subtask)
	// Silent: a comment per subtask start would drown the card in noise.
	return t.store.SetField(ctx, key, fieldStarted, now.Format(time.RFC3339Nano))
}

func (t *Tracker) subtaskFinish(ctx context.Context, e Event, now time.Time) error {
	key := store.SubtaskKey(e.JobID, e.Stage, e.Subtask)
	started, err := t.readTimestamp(ctx, key, fieldStarted)

	if err != nil {
		t.logger.Warn("subtask finished without a recorded start", "job", e.JobID, "stage", e.Stage, "subtask", e.Subtask, "error", err)
	} else {
		minutes := timeutil.MinutesSince(now, started)
		t.comment(ctx, e.JobID, fmt.Sprintf("%s: Finished sub-task **%d** out of **%d** in **%s minutes**",
			e.Stage, e.Subtask, e.SubtaskCount, timeutil.FormatMinutes(minutes)))

		if e.Subtask == 1 {
			// Linear extrapolation from the first subtask. Deliberately
			// naive; the estimate is advisory.
			estimate := minutes * float64(e.SubtaskCount)
			t.comment(ctx, e.JobID, fmt.Sprintf("%s: Estimating completion in **%s minutes**",
				e.Stage, timeutil.FormatMinutes(estimate)))
		}
	}

	return t.store.SetField(ctx, key, fieldFinished, now.Format(time.RFC3339Nano))
}

func (t *Tracker) readTimestamp(ctx context.Context, key, field string) (time.Time, error) {
	raw, err := t.store.GetField(ctx, key, field)
	if err != nil {
		return time.Time{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s.%s: %w", key, field, err)
	}
	return ts, nil
}

func (t *Tracker) comment(ctx context.Context, jobID, text string) {
	if err := t.sink.PostComment(ctx, jobID, text); err != nil {
		t.logger.Warn("post comment failed", "job", jobID, "error", err)
	}
}
