package notify_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"beholder/internal/config"
	"beholder/internal/notify"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTrackerPostCommentSendsQueryParams(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Tracker.Enabled = true
	cfg.Tracker.BaseURL = server.URL
	cfg.Tracker.Key = "k"
	cfg.Tracker.Token = "t"

	sink := notify.New(&cfg, testLogger())
	if err := sink.PostComment(context.Background(), "card-1", "Started stage **download**"); err != nil {
		t.Fatalf("post comment: %v", err)
	}

	if captured == nil {
		t.Fatal("no request captured")
	}
	if captured.Method != http.MethodPost {
		t.Errorf("method = %s", captured.Method)
	}
	if captured.URL.Path != "/1/cards/card-1/actions/comments" {
		t.Errorf("path = %s", captured.URL.Path)
	}
	query := captured.URL.Query()
	if query.Get("text") != "Started stage **download**" {
		t.Errorf("text = %q", query.Get("text"))
	}
	if query.Get("key") != "k" || query.Get("token") != "t" {
		t.Errorf("auth params = %q/%q", query.Get("key"), query.Get("token"))
	}
}

func TestTrackerMoveCardSetsListID(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Tracker.Enabled = true
	cfg.Tracker.BaseURL = server.URL
	cfg.Tracker.Key = "k"
	cfg.Tracker.Token = "t"

	sink := notify.New(&cfg, testLogger())
	if err := sink.MoveCard(context.Background(), "card-2", "list-7"); err != nil {
		t.Fatalf("move card: %v", err)
	}

	if captured.Method != http.MethodPut {
		t.Errorf("method = %s", captured.Method)
	}
	if captured.URL.Path != "/1/cards/card-2" {
		t.Errorf("path = %s", captured.URL.Path)
	}
	if captured.URL.Query().Get("idList") != "list-7" {
		t.Errorf("idList = %q", captured.URL.Query().Get("idList"))
	}
}

func TestSuppressedTrackerSkipsCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected tracker call: %s", r.URL)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Tracker.Enabled = true
	cfg.Tracker.BaseURL = server.URL
	cfg.Tracker.Key = "k"
	cfg.Tracker.Token = "t"
	t.Setenv(config.DisableTrackerEnv, "1")

	sink := notify.New(&cfg, testLogger())
	if err := sink.PostComment(context.Background(), "card-1", "hello"); err != nil {
		t.Fatalf("post comment: %v", err)
	}
	if err := sink.MoveCard(context.Background(), "card-1", "list-1"); err != nil {
		t.Fatalf("move card: %v", err)
	}
}

func TestChatPostSendsJSONPayload(t *testing.T) {
	var payload map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Chat.WebhookURL = server.URL
	cfg.Chat.Channel = "#media"

	sink := notify.New(&cfg, testLogger())
	if err := sink.PostChatMessage(context.Background(), "", "Deployed: job J1"); err != nil {
		t.Fatalf("post chat: %v", err)
	}
	if payload["channel"] != "#media" {
		t.Errorf("channel = %q", payload["channel"])
	}
	if payload["text"] != "Deployed: job J1" {
		t.Errorf("text = %q", payload["text"])
	}
}

func TestMediaRefreshSendsTokenHeader(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.MediaServer.URL = server.URL
	cfg.MediaServer.Token = "secret"
	cfg.MediaServer.Library = "Movies"

	sink := notify.New(&cfg, testLogger())
	if err := sink.RefreshMediaLibrary(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if captured.URL.Path != "/library/sections/Movies/refresh" {
		t.Errorf("path = %s", captured.URL.Path)
	}
	if captured.Header.Get("X-Media-Token") != "secret" {
		t.Errorf("token header = %q", captured.Header.Get("X-Media-Token"))
	}
}

func TestTrackerErrorSurfacesToCaller(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Tracker.Enabled = true
	cfg.Tracker.BaseURL = server.URL
	cfg.Tracker.Key = "k"
	cfg.Tracker.Token = "t"

	sink := notify.New(&cfg, testLogger())
	if err := sink.PostComment(context.Background(), "card-1", "text"); err == nil {
		t.Fatal("expected error from failing tracker")
	}
}

func TestUnconfiguredCollaboratorsAreNoops(t *testing.T) {
	cfg := config.Default()
	sink := notify.New(&cfg, testLogger())
	ctx := context.Background()

	if err := sink.PostComment(ctx, "ref", "text"); err != nil {
		t.Fatalf("comment noop: %v", err)
	}
	if err := sink.PostChatMessage(ctx, "#x", "text"); err != nil {
		t.Fatalf("chat noop: %v", err)
	}
	if err := sink.RefreshMediaLibrary(ctx); err != nil {
		t.Fatalf("refresh noop: %v", err)
	}
}
