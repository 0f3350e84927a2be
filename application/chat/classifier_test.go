package chat

import (
	"context"
	"errors"
	"testing"

	"coffee-chat/domain/chat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClassifier_ParsesVerdict(t *testing.T) {
	completer := &MockCompletionPort{}
	completer.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return(&chat.Completion{
		Content: `{"requiresWeather": true, "requiresDirections": true, "fromAddress": "400 Broad St, Seattle", "response": "Let me check that for you."}`,
		Usage:   chat.TokenUsage{Prompt: 50, Completion: 30},
	}, nil)

	classifier := NewClassifier(completer)
	decision, err := classifier.Classify(context.Background(), "How do I get there from the Space Needle, and is it raining?")
	require.NoError(t, err)

	assert.True(t, decision.RequiresWeather)
	assert.True(t, decision.RequiresDirections)
	assert.Equal(t, "400 Broad St, Seattle", decision.FromAddress)
	assert.Equal(t, chat.TokenUsage{Prompt: 50, Completion: 30}, decision.Usage)
}

func TestClassifier_NullFromAddress(t *testing.T) {
	completer := &MockCompletionPort{}
	completer.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return(&chat.Completion{
		Content: `{"requiresWeather": false, "requiresDirections": false, "fromAddress": null, "response": "Hi!"}`,
		Usage:   chat.TokenUsage{Prompt: 40, Completion: 20},
	}, nil)

	classifier := NewClassifier(completer)
	decision, err := classifier.Classify(context.Background(), "What are your hours?")
	require.NoError(t, err)

	assert.False(t, decision.RequiresWeather)
	assert.False(t, decision.RequiresDirections)
	assert.Empty(t, decision.FromAddress)
}

func TestClassifier_ToleratesCodeFence(t *testing.T) {
	completer := &MockCompletionPort{}
	completer.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return(&chat.Completion{
		Content: "```json\n{\"requiresWeather\": true, \"requiresDirections\": false, \"fromAddress\": null, \"response\": \"ok\"}\n```",
	}, nil)

	classifier := NewClassifier(completer)
	decision, err := classifier.Classify(context.Background(), "Is it cold out?")
	require.NoError(t, err)
	assert.True(t, decision.RequiresWeather)
}

func TestClassifier_UsesLowTemperatureJSONMode(t *testing.T) {
	completer := &MockCompletionPort{}
	completer.On("Complete", mock.Anything, mock.Anything, mock.MatchedBy(func(opts *chat.CompletionOptions) bool {
		return opts != nil && opts.JSONObject && opts.MaxTokens == 200 &&
			opts.Temperature != nil && *opts.Temperature == 0.1
	})).Return(&chat.Completion{Content: `{"requiresWeather": false, "requiresDirections": false}`}, nil)

	classifier := NewClassifier(completer)
	_, err := classifier.Classify(context.Background(), "hello")
	require.NoError(t, err)
	completer.AssertExpectations(t)
}

func TestClassifier_BackendFailure(t *testing.T) {
	completer := &MockCompletionPort{}
	completer.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("upstream down"))

	classifier := NewClassifier(completer)
	_, err := classifier.Classify(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, chat.ErrClassification)
}

func TestClassifier_UnparseableVerdict(t *testing.T) {
	completer := &MockCompletionPort{}
	completer.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return(&chat.Completion{
		Content: "I think you want the weather.",
	}, nil)

	classifier := NewClassifier(completer)
	_, err := classifier.Classify(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, chat.ErrClassification)
}
