package jobs_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"beholder/internal/jobs"
)

func openTestStore(t *testing.T) jobs.Store {
	t.Helper()
	store, err := jobs.OpenPath(filepath.Join(t.TempDir(), "jobs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestUpsertAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := &jobs.Record{
		ID:          "J1",
		Status:      jobs.StatusQueued,
		CreatorKind: jobs.CreatorTracker,
		CreatorRef:  "card-9",
	}
	if err := store.Upsert(ctx, rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := store.Get(ctx, "J1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != jobs.StatusQueued || got.CreatorKind != jobs.CreatorTracker || got.CreatorRef != "card-9" {
		t.Fatalf("record = %+v", got)
	}
}

func TestGetMissingReturnsErrNotFound(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Get(context.Background(), "absent"); !errors.Is(err, jobs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetStatusUpdatesExistingRecord(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, &jobs.Record{ID: "J2", Status: jobs.StatusQueued, CreatorKind: jobs.CreatorOther}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.SetStatus(ctx, "J2", jobs.StatusDeployed); err != nil {
		t.Fatalf("set status: %v", err)
	}

	got, err := store.Get(ctx, "J2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != jobs.StatusDeployed {
		t.Fatalf("status = %q, want deployed", got.Status)
	}
	if got.CreatorKind != jobs.CreatorOther {
		t.Fatalf("creator kind changed: %q", got.CreatorKind)
	}
}

func TestSetStatusInsertsUnknownJob(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.SetStatus(ctx, "J3", jobs.StatusDownloading); err != nil {
		t.Fatalf("set status: %v", err)
	}
	got, err := store.Get(ctx, "J3")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != jobs.StatusDownloading || got.CreatorKind != jobs.CreatorOther {
		t.Fatalf("record = %+v", got)
	}
}

func TestParseStatus(t *testing.T) {
	if status, err := jobs.ParseStatus("DEPLOYED"); err != nil || status != jobs.StatusDeployed {
		t.Fatalf("ParseStatus(DEPLOYED) = %q, %v", status, err)
	}
	if _, err := jobs.ParseStatus("nonsense"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestStatusLabel(t *testing.T) {
	if got := jobs.StatusDeployed.Label(); got != "Deployed" {
		t.Fatalf("label = %q", got)
	}
}
