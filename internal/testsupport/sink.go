package testsupport

import (
	"context"
	"sync"
)

// CommentCall records one PostComment invocation.
type CommentCall struct {
	Ref  string
	Text string
}

// MoveCall records one MoveCard invocation.
type MoveCall struct {
	Ref    string
	ListID string
}

// ChatCall records one PostChatMessage invocation.
type ChatCall struct {
	Channel string
	Text    string
}

// RecordingSink captures every notification for assertions. Err, when set,
// is returned from all calls to exercise failure isolation.
type RecordingSink struct {
	mu        sync.Mutex
	Comments  []CommentCall
	Moves     []MoveCall
	Chats     []ChatCall
	Refreshes int

	Err error
}

// NewRecordingSink returns an empty recording sink.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

func (s *RecordingSink) PostComment(_ context.Context, ref, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Comments = append(s.Comments, CommentCall{Ref: ref, Text: text})
	return nil
}

func (s *RecordingSink) MoveCard(_ context.Context, ref, listID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Moves = append(s.Moves, MoveCall{Ref: ref, ListID: listID})
	return nil
}

func (s *RecordingSink) PostChatMessage(_ context.Context, channel, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Chats = append(s.Chats, ChatCall{Channel: channel, Text: text})
	return nil
}

func (s *RecordingSink) RefreshMediaLibrary(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Refreshes++
	return nil
}

// CommentTexts returns the recorded comment bodies in order.
func (s *RecordingSink) CommentTexts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	texts := make([]string, len(s.Comments))
	for i, c := range s.Comments {
		texts[i] = c.Text
	}
	return texts
}
