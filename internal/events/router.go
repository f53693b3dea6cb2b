package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"beholder/internal/metrics"
)

// Handler consumes one decoded payload for a topic.
type Handler interface {
	Handle(ctx context.Context, payload []byte) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, payload []byte) error

func (f HandlerFunc) Handle(ctx context.Context, payload []byte) error {
	return f(ctx, payload)
}

// DecodeError marks a payload that cannot be parsed. Such messages are
// dropped and acknowledged: a malformed payload will not become parseable on
// redelivery.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode payload: %v", e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// Router maps topics to their handlers. The table is built once at startup;
// Register rejects duplicates so wiring mistakes surface before the daemon
// subscribes to anything.
type Router struct {
	handlers map[Topic]Handler
	logger   *slog.Logger
}

// NewRouter returns an empty router.
func NewRouter(logger *slog.Logger) *Router {
	return &Router{
		handlers: make(map[Topic]Handler),
		logger:   logger.With("component", "router"),
	}
}

// Register binds a handler to a topic.
func (r *Router) Register(topic Topic, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("nil handler for topic %s", topic)
	}
	if _, exists := r.handlers[topic]; exists {
		return fmt.Errorf("handler already registered for topic %s", topic)
	}
	r.handlers[topic] = handler
	return nil
}

// Topics returns the registered topic set.
func (r *Router) Topics() []Topic {
	topics := make([]Topic, 0, len(r.handlers))
	for topic := range r.handlers {
		topics = append(topics, topic)
	}
	return topics
}

// Dispatch routes one raw message. Unknown topics and undecodable payloads
// are logged and acknowledged (nil return); handler failures propagate so the
// caller can log them, but the message is never redelivered on our account.
func (r *Router) Dispatch(ctx context.Context, channel string, payload []byte) error {
	topic, ok := ParseTopic(channel)
	if !ok {
		metrics.EventDropped(channel, "unknown_topic")
		r.logger.Warn("message on unknown topic", "channel", channel)
		return nil
	}

	handler, ok := r.handlers[topic]
	if !ok {
		metrics.EventDropped(string(topic), "unregistered")
		r.logger.Warn("no handler registered for topic", "topic", string(topic))
		return nil
	}

	if err := handler.Handle(ctx, payload); err != nil {
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			metrics.EventDropped(string(topic), "decode")
			r.logger.Warn("dropping undecodable payload", "topic", string(topic), "error", err)
			return nil
		}
		return fmt.Errorf("handle %s event: %w", topic, err)
	}

	metrics.EventDispatched(string(topic))
	return nil
}
