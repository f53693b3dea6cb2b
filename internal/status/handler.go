package status

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"beholder/internal/config"
	"beholder/internal/jobs"
	"beholder/internal/notify"
)

// Event is a job status transition reported by the pipeline.
type Event struct {
	JobID  string
	Status jobs.Status
	Host   string
}

// Handler persists status transitions and fans out card moves and deploy
// hooks. Persistence is the only step that can fail the handler; everything
// downstream is advisory.
type Handler struct {
	jobs        jobs.Store
	sink        notify.Sink
	lists       map[jobs.Status]string
	deployHooks bool
	chatChannel string
	logger      *slog.Logger
}

// New builds a status handler from config. The status→list map comes from
// [tracker.lists]; statuses without an entry keep their card in place.
func New(cfg *config.Config, jobStore jobs.Store, sink notify.Sink, logger *slog.Logger) *Handler {
	lists := make(map[jobs.Status]string, len(cfg.Tracker.Lists))
	for raw, listID := range cfg.Tracker.Lists {
		status, err := jobs.ParseStatus(raw)
		if err != nil {
			logger.Warn("ignoring list mapping for unknown status", "status", raw)
			continue
		}
		lists[status] = listID
	}

	return &Handler{
		jobs:        jobStore,
		sink:        sink,
		lists:       lists,
		deployHooks: cfg.Watcher.DeployHooks,
		chatChannel: cfg.Chat.Channel,
		logger:      logger.With("component", "status"),
	}
}

// HandleStatus applies one status transition.
func (h *Handler) HandleStatus(ctx context.Context, event Event) error {
	logger := h.logger.With("job", event.JobID, "status", string(event.Status))

	// Persist first; derived state always outranks notification delivery.
	if err := h.jobs.SetStatus(ctx, event.JobID, event.Status); err != nil {
		return fmt.Errorf("persist status: %w", err)
	}

	record, err := h.jobs.Get(ctx, event.JobID)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			logger.Warn("job record missing, skipping notifications")
			return nil
		}
		return fmt.Errorf("load job record: %w", err)
	}

	label := event.Status.Label()

	if record.CreatorKind != jobs.CreatorTracker {
		logger.Info("job not tracker-created, skipping tracker notification", "creator", string(record.CreatorKind))
	} else {
		h.notifyTracker(ctx, logger, record, event.Status, label)
	}

	if event.Status == jobs.StatusDeployed && h.deployHooks {
		h.fireDeployHooks(ctx, logger, event.JobID, label)
	}

	return nil
}

func (h *Handler) notifyTracker(ctx context.Context, logger *slog.Logger, record *jobs.Record, status jobs.Status, label string) {
	if err := h.sink.PostComment(ctx, record.CreatorRef, fmt.Sprintf("Status is now: **%s**", label)); err != nil {
		logger.Warn("post status comment failed", "error", err)
	}

	listID, ok := h.lists[status]
	if !ok {
		logger.Warn("no destination list configured for status, skipping move")
		return
	}
	if err := h.sink.MoveCard(ctx, record.CreatorRef, listID); err != nil {
		logger.Warn("card move failed", "list", listID, "error", err)
	}
}

// fireDeployHooks announces availability and refreshes the media library.
// Both are best effort; failures are logged and never bubble up.
func (h *Handler) fireDeployHooks(ctx context.Context, logger *slog.Logger, jobID, label string) {
	if err := h.sink.PostChatMessage(ctx, h.chatChannel, fmt.Sprintf("%s: job %s is now available", label, jobID)); err != nil {
		logger.Warn("deploy chat announcement failed", "error", err)
	}
	if err := h.sink.RefreshMediaLibrary(ctx); err != nil {
		logger.Warn("media library refresh failed", "error", err)
	}
}
