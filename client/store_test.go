package client

import (
	"testing"

	"coffee-chat/domain/chat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_InitialState(t *testing.T) {
	store := NewStore()

	messages := store.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, chat.SenderAssistant, messages[0].Sender)
	assert.NotEmpty(t, messages[0].Content)

	metrics := store.Metrics()
	assert.Equal(t, 1, metrics.MessageCount)
	assert.Zero(t, metrics.TotalTokens)
	assert.Empty(t, metrics.ResponseTimes)
}

func TestStore_DeltaReassembly(t *testing.T) {
	store := NewStore()
	id := store.AddMessage("", chat.SenderAssistant)

	for _, delta := range []string{"Hel", "lo", " there"} {
		store.ApplyDelta(id, delta)
	}

	assert.Equal(t, "Hello there", store.Content(id))
}

func TestStore_ApplyDeltaUnknownIDIgnored(t *testing.T) {
	store := NewStore()
	store.ApplyDelta("no-such-id", "ghost")

	for _, msg := range store.Messages() {
		assert.NotContains(t, msg.Content, "ghost")
	}
}

func TestStore_TokenTotalInvariant(t *testing.T) {
	store := NewStore()

	store.FoldMetrics(1.0, &chat.TokenUsage{Prompt: 100, Completion: 40})
	store.FoldMetrics(2.0, &chat.TokenUsage{Prompt: 60, Completion: 25})
	store.FoldMetrics(0.5, nil)

	metrics := store.Metrics()
	assert.Equal(t, 160, metrics.PromptTokens)
	assert.Equal(t, 65, metrics.CompletionTokens)
	assert.Equal(t, metrics.PromptTokens+metrics.CompletionTokens, metrics.TotalTokens)
}

func TestStore_AverageResponseTime(t *testing.T) {
	store := NewStore()

	store.FoldMetrics(1.0, nil)
	store.FoldMetrics(3.0, nil)

	metrics := store.Metrics()
	assert.Equal(t, []float64{1.0, 3.0}, metrics.ResponseTimes)
	assert.InDelta(t, 2.0, metrics.AverageResponseTime, 1e-9)
}

func TestStore_AddMessageClearsError(t *testing.T) {
	store := NewStore()
	store.SetError("previous failure")
	require.NotEmpty(t, store.Error())

	store.AddMessage("hello", chat.SenderUser)
	assert.Empty(t, store.Error())
}

func TestStore_Reset(t *testing.T) {
	store := NewStore()
	store.AddMessage("hi", chat.SenderUser)
	store.FoldMetrics(1.5, &chat.TokenUsage{Prompt: 10, Completion: 5})
	store.SetError("boom")

	store.Reset()

	assert.Len(t, store.Messages(), 1)
	assert.Empty(t, store.Error())
	metrics := store.Metrics()
	assert.Equal(t, 1, metrics.MessageCount)
	assert.Zero(t, metrics.TotalTokens)
	assert.Empty(t, metrics.ResponseTimes)
}
