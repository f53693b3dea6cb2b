package subscriber

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"beholder/internal/config"
)

// Dispatcher routes one raw message from a channel.
type Dispatcher interface {
	Dispatch(ctx context.Context, channel string, payload []byte) error
}

// Subscriber consumes the configured pub/sub topics on a dedicated redis
// connection. Each topic gets its own subscription and goroutine, so messages
// on one topic are handled in publish order while topics never block each
// other.
type Subscriber struct {
	client     *goredis.Client
	dispatcher Dispatcher
	topics     []string
	logger     *slog.Logger

	mu   sync.Mutex
	subs []*goredis.PubSub
	wg   sync.WaitGroup
}

// New connects to redis and verifies the connection. The subscriber uses its
// own client because subscribed connections cannot serve regular commands.
func New(ctx context.Context, cfg *config.Config, dispatcher Dispatcher, logger *slog.Logger) (*Subscriber, error) {
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher required")
	}
	if len(cfg.Redis.Topics) == 0 {
		return nil, fmt.Errorf("no pub/sub topics configured")
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Redis.Addr,
		DB:          cfg.Redis.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Subscriber{
		client:     client,
		dispatcher: dispatcher,
		topics:     cfg.Redis.Topics,
		logger:     logger.With("component", "subscriber"),
	}, nil
}

// Start subscribes to every configured topic and begins dispatching. It
// returns once all subscriptions are confirmed by the server.
func (s *Subscriber) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.subs) != 0 {
		return fmt.Errorf("subscriber already started")
	}

	for _, topic := range s.topics {
		sub := s.client.Subscribe(ctx, topic)
		if _, err := sub.Receive(ctx); err != nil {
			_ = sub.Close()
			s.closeSubsLocked()
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
		s.subs = append(s.subs, sub)

		s.wg.Add(1)
		go s.consume(ctx, topic, sub)
		s.logger.Info("subscribed", "topic", topic)
	}
	return nil
}

func (s *Subscriber) consume(ctx context.Context, topic string, sub *goredis.PubSub) {
	defer s.wg.Done()
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok || msg == nil {
				s.logger.Warn("subscription channel closed", "topic", topic)
				return
			}
			if err := s.dispatcher.Dispatch(ctx, msg.Channel, []byte(msg.Payload)); err != nil {
				s.logger.Error("dispatch failed", "topic", topic, "error", err)
			}
		}
	}
}

// Close tears down all subscriptions and waits for the consumers to drain.
func (s *Subscriber) Close() error {
	s.mu.Lock()
	s.closeSubsLocked()
	s.mu.Unlock()

	s.wg.Wait()
	return s.client.Close()
}

func (s *Subscriber) closeSubsLocked() {
	for _, sub := range s.subs {
		_ = sub.Close()
	}
	s.subs = nil
}
