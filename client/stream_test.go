package client

import (
	"errors"
	"strings"
	"testing"

	"coffee-chat/domain/chat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEvents_DecodesInOrder(t *testing.T) {
	body := strings.Join([]string{
		`data: {"content":"Hel"}`,
		"",
		`data: {"content":"lo"}`,
		"",
		`data: {"done":true,"content":"Hello","metrics":{"responseTime":1.5,"tokenUsage":{"prompt":12,"completion":4}}}`,
		"",
	}, "\n")

	var events []chat.StreamEvent
	err := ReadEvents(strings.NewReader(body), func(ev chat.StreamEvent) error {
		events = append(events, ev)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "Hel", events[0].Content)
	assert.Equal(t, "lo", events[1].Content)
	assert.True(t, events[2].Done)
	require.NotNil(t, events[2].Metrics)
	assert.Equal(t, 1.5, events[2].Metrics.ResponseTime)
	require.NotNil(t, events[2].Metrics.TokenUsage)
	assert.Equal(t, 12, events[2].Metrics.TokenUsage.Prompt)
}

func TestReadEvents_SkipsMalformedRecords(t *testing.T) {
	body := strings.Join([]string{
		`data: {"content":"ok"}`,
		`data: {not json at all`,
		`: comment line`,
		`data: {"done":true}`,
	}, "\n")

	var events []chat.StreamEvent
	err := ReadEvents(strings.NewReader(body), func(ev chat.StreamEvent) error {
		events = append(events, ev)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "ok", events[0].Content)
	assert.True(t, events[1].Done)
}

func TestReadEvents_HandlerErrorStopsLoop(t *testing.T) {
	body := strings.Join([]string{
		`data: {"content":"a"}`,
		`data: {"content":"b"}`,
	}, "\n")

	stop := errors.New("stop")
	count := 0
	err := ReadEvents(strings.NewReader(body), func(ev chat.StreamEvent) error {
		count++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, count)
}

func TestReadEvents_EmptyBody(t *testing.T) {
	err := ReadEvents(strings.NewReader(""), func(ev chat.StreamEvent) error {
		t.Fatal("no events expected")
		return nil
	})
	assert.NoError(t, err)
}
