package chat

import "time"

// Core chat entities independent of frameworks and vendors

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one entry in a client session's conversation. Content is
// mutated in place as stream fragments arrive; ID is the join key and is
// stable once assigned.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// PromptMessage is a role-tagged message sent to the completion backend.
type PromptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type TokenUsage struct {
	Prompt     int `json:"prompt"`
	Completion int `json:"completion"`
}

// Add returns the component-wise sum of two usage counts.
func (u TokenUsage) Add(other TokenUsage) TokenUsage {
	return TokenUsage{
		Prompt:     u.Prompt + other.Prompt,
		Completion: u.Completion + other.Completion,
	}
}

// IntentDecision is the classifier's verdict for a single message. It is
// produced once per request and never persisted. The classifier also
// generates a natural-language response which is discarded; only the flags
// and token accounting are kept.
type IntentDecision struct {
	RequiresWeather    bool
	RequiresDirections bool
	FromAddress        string
	Usage              TokenUsage
}

// Completion is the fully materialized output of a blocking generation call.
type Completion struct {
	Content string
	Usage   TokenUsage
}

// Result is the orchestrator's output for one request: final content,
// token usage merged across the classification and generation calls, and
// the response time for the whole pipeline in seconds.
type Result struct {
	Content      string
	Usage        TokenUsage
	ResponseTime float64
}

// StreamMetrics is the metrics payload attached to terminal stream events.
type StreamMetrics struct {
	ResponseTime float64     `json:"responseTime"`
	TokenUsage   *TokenUsage `json:"tokenUsage,omitempty"`
}

// StreamEvent is one record of the wire protocol: a content delta, an
// error, or the terminal done event. Exactly one of Content, Error, or
// Done is meaningful per event; the done event additionally carries the
// full content so a client that never saw a delta can still render.
type StreamEvent struct {
	Content string         `json:"content,omitempty"`
	Error   string         `json:"error,omitempty"`
	Done    bool           `json:"done,omitempty"`
	Metrics *StreamMetrics `json:"metrics,omitempty"`
}

// DeltaEvent builds a content fragment event.
func DeltaEvent(text string) StreamEvent {
	return StreamEvent{Content: text}
}

// ErrorEvent builds a terminal error event with elapsed seconds.
func ErrorEvent(message string, elapsed float64) StreamEvent {
	return StreamEvent{
		Error:   message,
		Metrics: &StreamMetrics{ResponseTime: elapsed},
	}
}

// DoneEvent builds the terminal success event.
func DoneEvent(content string, responseTime float64, usage TokenUsage) StreamEvent {
	return StreamEvent{
		Done:    true,
		Content: content,
		Metrics: &StreamMetrics{
			ResponseTime: responseTime,
			TokenUsage:   &usage,
		},
	}
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
