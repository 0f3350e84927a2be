package client

import (
	"sync"
	"time"

	"coffee-chat/domain/chat"

	"github.com/google/uuid"
)

const greeting = "Hello! How can I help you today?"

// Metrics are the session aggregates: message count, response time series
// with running mean, and cumulative token usage. TotalTokens always equals
// PromptTokens + CompletionTokens.
type Metrics struct {
	MessageCount        int
	ResponseTimes       []float64
	AverageResponseTime float64
	PromptTokens        int
	CompletionTokens    int
	TotalTokens         int
}

// Store holds one session's conversation and metrics. All mutation goes
// through the mutex; concurrent streams fold their metrics safely even
// though the UI drives one request at a time.
type Store struct {
	mu       sync.Mutex
	messages []*chat.Message
	metrics  Metrics
	err      string
}

func NewStore() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.messages = []*chat.Message{{
		ID:        "1",
		Content:   greeting,
		Sender:    chat.SenderAssistant,
		Timestamp: time.Now(),
	}}
	s.metrics = Metrics{MessageCount: 1}
	s.err = ""
}

// AddMessage appends a new message, assigning an ID if none is set, and
// clears any previous session error. Returns the message ID.
func (s *Store) AddMessage(content string, sender chat.Sender) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := &chat.Message{
		ID:        uuid.NewString(),
		Content:   content,
		Sender:    sender,
		Timestamp: time.Now(),
	}
	s.messages = append(s.messages, msg)
	s.metrics.MessageCount++
	s.err = ""
	return msg.ID
}

// ApplyDelta appends a content fragment to the message with the given ID.
// Unknown IDs are ignored.
func (s *Store) ApplyDelta(id, delta string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, msg := range s.messages {
		if msg.ID == id {
			msg.Content += delta
			return
		}
	}
}

// SetContent replaces the message content outright. Used for the done
// event's fallback when no delta ever arrived.
func (s *Store) SetContent(id, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, msg := range s.messages {
		if msg.ID == id {
			msg.Content = content
			return
		}
	}
}

// Content returns the current content of the message with the given ID.
func (s *Store) Content(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, msg := range s.messages {
		if msg.ID == id {
			return msg.Content
		}
	}
	return ""
}

// FoldMetrics records one completed request: the response time joins the
// series and updates the mean, and token counts accumulate.
func (s *Store) FoldMetrics(responseTime float64, usage *chat.TokenUsage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.ResponseTimes = append(s.metrics.ResponseTimes, responseTime)
	var sum float64
	for _, rt := range s.metrics.ResponseTimes {
		sum += rt
	}
	s.metrics.AverageResponseTime = sum / float64(len(s.metrics.ResponseTimes))

	if usage != nil {
		s.metrics.PromptTokens += usage.Prompt
		s.metrics.CompletionTokens += usage.Completion
		s.metrics.TotalTokens = s.metrics.PromptTokens + s.metrics.CompletionTokens
	}
}

// SetError records the session error.
func (s *Store) SetError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = message
}

// Error returns the current session error, empty if none.
func (s *Store) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Messages returns a snapshot of the conversation.
func (s *Store) Messages() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]chat.Message, len(s.messages))
	for i, msg := range s.messages {
		out[i] = *msg
	}
	return out
}

// Metrics returns a snapshot of the session aggregates.
func (s *Store) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.metrics
	snapshot.ResponseTimes = append([]float64(nil), s.metrics.ResponseTimes...)
	return snapshot
}

// Reset restores the initial greeting-only state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}
