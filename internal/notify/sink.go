package notify

import (
	"context"
	"log/slog"

	"beholder/internal/config"
	"beholder/internal/metrics"
)

const userAgent = "Beholder-Go/0.1.0"

// Sink is the side-effect boundary for everything downstream of a derived
// narrative: tracker comments, card moves, chat posts, and media-server
// refreshes. Callers treat failures per the isolation policy: log, never
// block state persistence or acknowledgment.
type Sink interface {
	PostComment(ctx context.Context, ref, text string) error
	MoveCard(ctx context.Context, ref, listID string) error
	PostChatMessage(ctx context.Context, channel, text string) error
	RefreshMediaLibrary(ctx context.Context) error
}

// New builds the production sink from config. Collaborators that are not
// configured (or suppressed via the tracker toggle) degrade to no-ops so the
// watcher runs in partial environments.
func New(cfg *config.Config, logger *slog.Logger) Sink {
	s := &sink{logger: logger}

	if cfg.TrackerEnabled() {
		s.tracker = newTrackerClient(cfg.Tracker)
	} else {
		logger.Info("tracker notifications disabled")
	}
	if cfg.Chat.WebhookURL != "" {
		s.chat = newChatClient(cfg.Chat)
	}
	if cfg.MediaServer.URL != "" && cfg.MediaServer.Token != "" {
		s.media = newMediaClient(cfg.MediaServer)
	}

	return s
}

type sink struct {
	tracker *trackerClient
	chat    *chatClient
	media   *mediaClient
	logger  *slog.Logger
}

func (s *sink) PostComment(ctx context.Context, ref, text string) error {
	if s.tracker == nil {
		s.logger.Debug("skipping tracker comment", "ref", ref)
		return nil
	}
	if err := s.tracker.postComment(ctx, ref, text); err != nil {
		metrics.NotificationFailed("comment")
		return err
	}
	metrics.NotificationSent("comment")
	return nil
}

func (s *sink) MoveCard(ctx context.Context, ref, listID string) error {
	if s.tracker == nil {
		s.logger.Debug("skipping card move", "ref", ref, "list", listID)
		return nil
	}
	if err := s.tracker.moveCard(ctx, ref, listID); err != nil {
		metrics.NotificationFailed("move")
		return err
	}
	metrics.NotificationSent("move")
	return nil
}

func (s *sink) PostChatMessage(ctx context.Context, channel, text string) error {
	if s.chat == nil {
		s.logger.Debug("skipping chat message", "channel", channel)
		return nil
	}
	if err := s.chat.post(ctx, channel, text); err != nil {
		metrics.NotificationFailed("chat")
		return err
	}
	metrics.NotificationSent("chat")
	return nil
}

func (s *sink) RefreshMediaLibrary(ctx context.Context) error {
	if s.media == nil {
		s.logger.Debug("skipping media library refresh")
		return nil
	}
	if err := s.media.refresh(ctx); err != nil {
		metrics.NotificationFailed("refresh")
		return err
	}
	metrics.NotificationSent("refresh")
	return nil
}
