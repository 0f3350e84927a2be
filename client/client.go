package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"coffee-chat/domain/chat"
)

// Client drives one chat session against the backend. Each Send creates
// the user message and an empty assistant message, then folds the stream
// into the store as events arrive.
type Client struct {
	baseURL    string
	apiKey     string
	store      *Store
	httpClient *http.Client
}

func New(baseURL, apiKey string, store *Store) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		store:   store,
		httpClient: &http.Client{
			// Generation can be slow; the stream keeps the connection warm.
			Timeout: 5 * time.Minute,
		},
	}
}

func (c *Client) Store() *Store {
	return c.store
}

// Send posts one message and consumes the response stream. Deltas mutate
// the assistant message in place; the terminal event folds metrics or sets
// the session error. Returns the assistant message ID. onDelta, if non-nil,
// observes each fragment as it is applied.
func (c *Client) Send(ctx context.Context, content string, onDelta func(string)) (string, error) {
	c.store.AddMessage(content, chat.SenderUser)
	assistantID := c.store.AddMessage("", chat.SenderAssistant)

	body, err := json.Marshal(map[string]string{"message": content})
	if err != nil {
		return assistantID, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat/message", bytes.NewReader(body))
	if err != nil {
		return assistantID, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.store.SetError(err.Error())
		return assistantID, fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp chat.ErrorResponse
		msg := fmt.Sprintf("unexpected status %d", resp.StatusCode)
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Message != "" {
			msg = errResp.Message
		}
		c.store.SetError(msg)
		return assistantID, fmt.Errorf("send message: %s", msg)
	}

	failed := false
	err = ReadEvents(resp.Body, func(event chat.StreamEvent) error {
		switch {
		case event.Error != "":
			c.store.SetError(event.Error)
			// keep draining, but stop folding content and metrics
			failed = true
		case failed:
		case event.Done:
			// Fallback-adopt the full content if no delta ever arrived.
			if c.store.Content(assistantID) == "" && event.Content != "" {
				c.store.SetContent(assistantID, event.Content)
			}
			if event.Metrics != nil {
				c.store.FoldMetrics(event.Metrics.ResponseTime, event.Metrics.TokenUsage)
			}
		case event.Content != "":
			c.store.ApplyDelta(assistantID, event.Content)
			if onDelta != nil {
				onDelta(event.Content)
			}
		}
		return nil
	})
	if err != nil {
		c.store.SetError(err.Error())
		return assistantID, fmt.Errorf("read stream: %w", err)
	}

	return assistantID, nil
}
