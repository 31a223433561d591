package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vcscsvcscs/vitals-tracker/internal/prompt"
	"github.com/vcscsvcscs/vitals-tracker/pkg/model"
)

const messageTimeLayout = "15:04"

// ChatSession is the assistant conversation state: the transcript, the
// latest fetched snapshot and the bounded snapshot history. It is safe for
// concurrent use.
type ChatSession struct {
	mu       sync.Mutex
	messages []model.ChatMessage
	latest   *model.VitalRecord
	history  *prompt.History
	now      func() time.Time
}

// NewChatSession starts a conversation with the greeting
func NewChatSession(historySize int, now func() time.Time) *ChatSession {
	if now == nil {
		now = time.Now
	}
	s := &ChatSession{
		history: prompt.NewHistory(historySize),
		now:     now,
	}
	s.messages = []model.ChatMessage{s.newMessage(prompt.Greeting, true)}
	return s
}

// Messages returns a copy of the transcript
func (s *ChatSession) Messages() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Latest returns the most recently fetched snapshot
func (s *ChatSession) Latest() (model.VitalRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latest == nil {
		return model.VitalRecord{}, false
	}
	return *s.latest, true
}

// History returns the bounded snapshot history, oldest first
func (s *ChatSession) History() []model.VitalRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.history.Records()
}

// Clear resets the transcript to the greeting. Snapshots are kept.
func (s *ChatSession) Clear() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = []model.ChatMessage{s.newMessage(prompt.ClearedGreeting, true)}
	out := make([]model.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *ChatSession) append(text string, isBot bool) model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.newMessage(text, isBot)
	s.messages = append(s.messages, msg)
	return msg
}

// recordSnapshot stores a fetched snapshot and returns the updated history
func (s *ChatSession) recordSnapshot(r model.VitalRecord, keepInHistory bool) []model.VitalRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest := r
	s.latest = &latest
	if keepInHistory {
		s.history.Push(r)
	}
	return s.history.Records()
}

func (s *ChatSession) newMessage(text string, isBot bool) model.ChatMessage {
	return model.ChatMessage{
		ID:        uuid.NewString(),
		Text:      text,
		IsBot:     isBot,
		Timestamp: s.now().Format(messageTimeLayout),
	}
}
