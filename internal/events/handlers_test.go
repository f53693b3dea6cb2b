package events_test

import (
	"context"
	"errors"
	"testing"

	"beholder/internal/events"
	"beholder/internal/jobs"
	"beholder/internal/progress"
	"beholder/internal/status"
	"beholder/internal/testsupport"
)

type recordingTracker struct {
	events []progress.Event
	err    error
}

func (r *recordingTracker) HandleProgress(_ context.Context, event progress.Event) error {
	r.events = append(r.events, event)
	return r.err
}

type recordingStatus struct {
	events []status.Event
}

func (r *recordingStatus) HandleStatus(_ context.Context, event status.Event) error {
	r.events = append(r.events, event)
	return nil
}

func TestProgressHandlerDecodesSubtasks(t *testing.T) {
	tracker := &recordingTracker{}
	handler := events.NewProgressHandler(tracker)

	payload := []byte(`{"job":"J1","stage":"convert","percent":100,"host":"worker-2","data":{"subTask":2,"subTasks":5}}`)
	if err := handler.Handle(context.Background(), payload); err != nil {
		t.Fatalf("handle: %v", err)
	}

	want := progress.Event{JobID: "J1", Stage: "convert", Percent: 100, Host: "worker-2", Subtask: 2, SubtaskCount: 5}
	if len(tracker.events) != 1 || tracker.events[0] != want {
		t.Fatalf("events = %+v, want %+v", tracker.events, want)
	}
}

func TestProgressHandlerWithoutDataObject(t *testing.T) {
	tracker := &recordingTracker{}
	handler := events.NewProgressHandler(tracker)

	if err := handler.Handle(context.Background(), []byte(`{"job":"J2","stage":"download","percent":0}`)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	got := tracker.events[0]
	if got.Subtask != 0 || got.SubtaskCount != 0 {
		t.Errorf("missing data object must decode to zero subtasks, got %+v", got)
	}
}

func TestProgressHandlerRejectsMalformedPayloads(t *testing.T) {
	handler := events.NewProgressHandler(&recordingTracker{})
	var decodeErr *events.DecodeError

	if err := handler.Handle(context.Background(), []byte("not json")); !errors.As(err, &decodeErr) {
		t.Errorf("malformed json: error = %v", err)
	}
	if err := handler.Handle(context.Background(), []byte(`{"stage":"convert"}`)); !errors.As(err, &decodeErr) {
		t.Errorf("missing job id: error = %v", err)
	}
}

func TestStatusHandlerDecodes(t *testing.T) {
	rec := &recordingStatus{}
	handler := events.NewStatusHandler(rec)

	if err := handler.Handle(context.Background(), []byte(`{"job":"J1","status":"deployed","host":"worker-1"}`)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	want := status.Event{JobID: "J1", Status: jobs.StatusDeployed, Host: "worker-1"}
	if len(rec.events) != 1 || rec.events[0] != want {
		t.Fatalf("events = %+v, want %+v", rec.events, want)
	}
}

func TestStatusHandlerRejectsUnknownStatus(t *testing.T) {
	handler := events.NewStatusHandler(&recordingStatus{})
	var decodeErr *events.DecodeError

	err := handler.Handle(context.Background(), []byte(`{"job":"J1","status":"exploded"}`))
	if !errors.As(err, &decodeErr) {
		t.Fatalf("unknown status: error = %v", err)
	}
}

func TestErrorHandlerPostsFailureComment(t *testing.T) {
	sink := testsupport.NewRecordingSink()
	handler := events.NewErrorHandler(sink, testsupport.NewLogger())

	payload := []byte(`{"job":"J1","stage":"download","message":"connection reset"}`)
	if err := handler.Handle(context.Background(), payload); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(sink.Comments) != 1 || sink.Comments[0].Ref != "J1" {
		t.Fatalf("comments = %+v", sink.Comments)
	}
	if sink.Comments[0].Text != "download: Failed: connection reset" {
		t.Errorf("comment = %q", sink.Comments[0].Text)
	}
}

func TestErrorHandlerAddsHintForKnownCode(t *testing.T) {
	sink := testsupport.NewRecordingSink()
	handler := events.NewErrorHandler(sink, testsupport.NewLogger())

	payload := []byte(`{"job":"J1","stage":"download","message":"stalled at 0 B/s","code":"ERRDLSTALL"}`)
	if err := handler.Handle(context.Background(), payload); err != nil {
		t.Fatalf("handle: %v", err)
	}

	texts := sink.CommentTexts()
	if len(texts) != 2 {
		t.Fatalf("comments = %v", texts)
	}
	if texts[0] != "download: Failed: stalled at 0 B/s" || texts[1] != "Suggested fix: Try finding another source." {
		t.Errorf("comments = %v", texts)
	}
}

func TestErrorHandlerSwallowsSinkFailures(t *testing.T) {
	sink := testsupport.NewRecordingSink()
	sink.Err = errors.New("tracker down")
	handler := events.NewErrorHandler(sink, testsupport.NewLogger())

	if err := handler.Handle(context.Background(), []byte(`{"job":"J1","stage":"x","message":"y"}`)); err != nil {
		t.Fatalf("sink failure must not fail the handler: %v", err)
	}
}

func TestUserEventHandlerCommentsEachCause(t *testing.T) {
	sink := testsupport.NewRecordingSink()
	handler := events.NewUserEventHandler(sink, testsupport.NewLogger())

	payload := []byte(`{"event":"scaleUpPending","cause":["J1","J2"]}`)
	if err := handler.Handle(context.Background(), payload); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(sink.Comments) != 2 {
		t.Fatalf("comments = %+v", sink.Comments)
	}
	for i, jobID := range []string{"J1", "J2"} {
		if sink.Comments[i].Ref != jobID || sink.Comments[i].Text != "**Scale up pending**" {
			t.Errorf("comment %d = %+v", i, sink.Comments[i])
		}
	}
}

func TestUserEventHandlerIgnoresUnknownEvents(t *testing.T) {
	sink := testsupport.NewRecordingSink()
	handler := events.NewUserEventHandler(sink, testsupport.NewLogger())

	if err := handler.Handle(context.Background(), []byte(`{"event":"diskAlmostFull","cause":["J1"]}`)); err != nil {
		t.Fatalf("unknown events must be acknowledged: %v", err)
	}
	if len(sink.Comments) != 0 {
		t.Fatalf("unexpected comments: %+v", sink.Comments)
	}
}
