package subscriber_test

import (
	"context"
	"testing"

	"beholder/internal/subscriber"
	"beholder/internal/testsupport"
)

type noopDispatcher struct{}

func (noopDispatcher) Dispatch(context.Context, string, []byte) error { return nil }

func TestNewRequiresDispatcher(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if _, err := subscriber.New(context.Background(), cfg, nil, testsupport.NewLogger()); err == nil {
		t.Fatal("nil dispatcher accepted")
	}
}

func TestNewRequiresTopics(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Redis.Topics = nil
	if _, err := subscriber.New(context.Background(), cfg, noopDispatcher{}, testsupport.NewLogger()); err == nil {
		t.Fatal("empty topic list accepted")
	}
}

func TestNewFailsFastWithoutServer(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Redis.Addr = "127.0.0.1:1" // nothing listens here
	if _, err := subscriber.New(context.Background(), cfg, noopDispatcher{}, testsupport.NewLogger()); err == nil {
		t.Fatal("expected connection error")
	}
}
