package chat

import "context"

// StreamHandler is a generic callback invoked once per streamed item.
type StreamHandler[T any] func(item T) error

// CompletionOptions tune a single backend call. Zero values mean backend
// defaults.
type CompletionOptions struct {
	Temperature *float64
	MaxTokens   int
	JSONObject  bool
}

// CompletionPort abstracts the blocking mode of the generation backend.
type CompletionPort interface {
	Complete(ctx context.Context, messages []PromptMessage, opts *CompletionOptions) (*Completion, error)
}

// StreamPort abstracts the streaming mode. Deltas are delivered one at a
// time through onDelta; the returned usage is only valid after the stream
// has been fully consumed, since the backend attributes token counts to
// the terminal chunk.
type StreamPort interface {
	StreamCompletion(ctx context.Context, messages []PromptMessage, onDelta StreamHandler[string]) (TokenUsage, error)
}

// IntentClassifier decides whether a message needs external context before
// generation.
type IntentClassifier interface {
	Classify(ctx context.Context, message string) (*IntentDecision, error)
}
