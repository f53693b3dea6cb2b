package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"beholder/internal/jobs"
	"beholder/internal/notify"
	"beholder/internal/progress"
	"beholder/internal/status"
)

// ProgressTracker applies decoded progress events.
type ProgressTracker interface {
	HandleProgress(ctx context.Context, event progress.Event) error
}

// StatusHandler applies decoded status transitions.
type StatusHandler interface {
	HandleStatus(ctx context.Context, event status.Event) error
}

type progressPayload struct {
	Job     string  `json:"job"`
	Stage   string  `json:"stage"`
	Percent float64 `json:"percent"`
	Host    string  `json:"host"`
	Data    *struct {
		SubTask  int `json:"subTask"`
		SubTasks int `json:"subTasks"`
	} `json:"data"`
}

// NewProgressHandler decodes progress payloads and forwards them to the
// tracker. Payloads without a data object are plain stage-level events.
func NewProgressHandler(tracker ProgressTracker) Handler {
	return HandlerFunc(func(ctx context.Context, payload []byte) error {
		var msg progressPayload
		if err := json.Unmarshal(payload, &msg); err != nil {
			return &DecodeError{Err: err}
		}
		if msg.Job == "" {
			return &DecodeError{Err: fmt.Errorf("progress payload missing job id")}
		}

		event := progress.Event{
			JobID:   msg.Job,
			Stage:   msg.Stage,
			Percent: int(msg.Percent),
			Host:    msg.Host,
		}
		if msg.Data != nil {
			event.Subtask = msg.Data.SubTask
			event.SubtaskCount = msg.Data.SubTasks
		}
		return tracker.HandleProgress(ctx, event)
	})
}

type statusPayload struct {
	Job    string `json:"job"`
	Status string `json:"status"`
	Host   string `json:"host"`
}

// NewStatusHandler decodes status payloads. Unknown status names are a decode
// failure: replaying them cannot help, so they are dropped at the router.
func NewStatusHandler(handler StatusHandler) Handler {
	return HandlerFunc(func(ctx context.Context, payload []byte) error {
		var msg statusPayload
		if err := json.Unmarshal(payload, &msg); err != nil {
			return &DecodeError{Err: err}
		}
		if msg.Job == "" {
			return &DecodeError{Err: fmt.Errorf("status payload missing job id")}
		}
		parsed, err := jobs.ParseStatus(msg.Status)
		if err != nil {
			return &DecodeError{Err: err}
		}
		return handler.HandleStatus(ctx, status.Event{JobID: msg.Job, Status: parsed, Host: msg.Host})
	})
}

type errorPayload struct {
	Job     string `json:"job"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// knownErrors maps pipeline error codes to an operator hint posted alongside
// the failure comment.
var knownErrors = map[string]string{
	"ERRDLSTALL": "Try finding another source.",
}

// NewErrorHandler posts failure comments on the job's tracker card. A known
// error code gets a follow-up comment with the suggested fix.
func NewErrorHandler(sink notify.Sink, logger *slog.Logger) Handler {
	log := logger.With("component", "error_handler")
	return HandlerFunc(func(ctx context.Context, payload []byte) error {
		var msg errorPayload
		if err := json.Unmarshal(payload, &msg); err != nil {
			return &DecodeError{Err: err}
		}
		if msg.Job == "" {
			return &DecodeError{Err: fmt.Errorf("error payload missing job id")}
		}

		text := fmt.Sprintf("%s: Failed: %s", msg.Stage, msg.Message)
		if err := sink.PostComment(ctx, msg.Job, text); err != nil {
			log.Warn("failure comment not delivered", "job", msg.Job, "error", err)
		}

		if hint, ok := knownErrors[msg.Code]; ok {
			if err := sink.PostComment(ctx, msg.Job, "Suggested fix: "+hint); err != nil {
				log.Warn("hint comment not delivered", "job", msg.Job, "code", msg.Code, "error", err)
			}
		}
		return nil
	})
}
