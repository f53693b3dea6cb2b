package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"beholder/internal/notify"
)

// userEvents maps named pipeline events to the comment posted on each job
// card named in the event's cause list.
var userEvents = map[string]string{
	"scaleUpPending": "**Scale up pending**",
}

type userEventPayload struct {
	Event string   `json:"event"`
	Cause []string `json:"cause"`
}

// NewUserEventHandler decodes the generic event envelope. Events without a
// table entry are logged and acknowledged so new pipeline events never wedge
// the subscription.
func NewUserEventHandler(sink notify.Sink, logger *slog.Logger) Handler {
	log := logger.With("component", "user_events")
	return HandlerFunc(func(ctx context.Context, payload []byte) error {
		var msg userEventPayload
		if err := json.Unmarshal(payload, &msg); err != nil {
			return &DecodeError{Err: err}
		}
		if msg.Event == "" {
			return &DecodeError{Err: fmt.Errorf("event payload missing event name")}
		}

		text, ok := userEvents[msg.Event]
		if !ok {
			log.Warn("no comment configured for event", "event", msg.Event)
			return nil
		}

		for _, jobID := range msg.Cause {
			if err := sink.PostComment(ctx, jobID, text); err != nil {
				log.Warn("event comment not delivered", "event", msg.Event, "job", jobID, "error", err)
			}
		}
		return nil
	})
}
