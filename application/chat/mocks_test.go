package chat

import (
	"context"

	"coffee-chat/domain/chat"
	"coffee-chat/domain/geo"

	"github.com/stretchr/testify/mock"
)

type MockCompletionPort struct {
	mock.Mock
}

func (m *MockCompletionPort) Complete(ctx context.Context, messages []chat.PromptMessage, opts *chat.CompletionOptions) (*chat.Completion, error) {
	args := m.Called(ctx, messages, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.Completion), args.Error(1)
}

// MockStreamPort replays a fixed sequence of deltas through the handler.
type MockStreamPort struct {
	mock.Mock
	Deltas []string
	Usage  chat.TokenUsage
	Err    error
}

func (m *MockStreamPort) StreamCompletion(ctx context.Context, messages []chat.PromptMessage, onDelta chat.StreamHandler[string]) (chat.TokenUsage, error) {
	m.Called(ctx, messages)
	for _, delta := range m.Deltas {
		if err := onDelta(delta); err != nil {
			return chat.TokenUsage{}, err
		}
	}
	if m.Err != nil {
		return chat.TokenUsage{}, m.Err
	}
	return m.Usage, nil
}

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, message string) (*chat.IntentDecision, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.IntentDecision), args.Error(1)
}

type MockWeatherPort struct {
	mock.Mock
}

func (m *MockWeatherPort) CurrentWeather(ctx context.Context) (*geo.WeatherReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geo.WeatherReport), args.Error(1)
}

type MockDirectionsPort struct {
	mock.Mock
}

func (m *MockDirectionsPort) Directions(ctx context.Context, fromAddress string) (*geo.Route, error) {
	args := m.Called(ctx, fromAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geo.Route), args.Error(1)
}

type MockSink struct {
	mock.Mock
}

func (m *MockSink) RecordCompleted(message, response string, responseTimeMs int64, promptTokens, completionTokens int, streaming bool) {
	m.Called(message, response, responseTimeMs, promptTokens, completionTokens, streaming)
}

func (m *MockSink) RecordFailed(message, errMsg string, responseTimeMs int64, streaming bool) {
	m.Called(message, errMsg, responseTimeMs, streaming)
}
