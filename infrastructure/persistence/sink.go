package persistence

import (
	"coffee-chat/domain/audit"

	"github.com/sirupsen/logrus"
)

// AsyncSink implements audit.Sink on top of the event processor. Writes
// are fire-and-forget; a failed enqueue is logged and otherwise ignored
// so the user-visible request is never affected.
type AsyncSink struct {
	processor audit.EventProcessor
}

// NewAsyncSink creates a sink backed by the given processor
func NewAsyncSink(processor audit.EventProcessor) *AsyncSink {
	return &AsyncSink{processor: processor}
}

func (s *AsyncSink) RecordCompleted(message, response string, responseTimeMs int64, promptTokens, completionTokens int, streaming bool) {
	event := audit.RecordInteractionEvent{
		Interaction: audit.Interaction{
			Message:          message,
			Response:         response,
			Status:           audit.InteractionStatusCompleted,
			Streaming:        streaming,
			ResponseTimeMs:   responseTimeMs,
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
		},
	}
	if err := s.processor.ProcessEvent(event); err != nil {
		logrus.WithError(err).Debug("Could not enqueue completed interaction")
	}
}

func (s *AsyncSink) RecordFailed(message, errMsg string, responseTimeMs int64, streaming bool) {
	event := audit.RecordInteractionEvent{
		Interaction: audit.Interaction{
			Message:        message,
			Status:         audit.InteractionStatusFailed,
			Error:          errMsg,
			Streaming:      streaming,
			ResponseTimeMs: responseTimeMs,
		},
	}
	if err := s.processor.ProcessEvent(event); err != nil {
		logrus.WithError(err).Debug("Could not enqueue failed interaction")
	}
}

// NoopSink is used when persistence is disabled.
type NoopSink struct{}

func NewNoopSink() *NoopSink { return &NoopSink{} }

func (NoopSink) RecordCompleted(message, response string, responseTimeMs int64, promptTokens, completionTokens int, streaming bool) {
}

func (NoopSink) RecordFailed(message, errMsg string, responseTimeMs int64, streaming bool) {}
