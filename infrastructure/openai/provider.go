package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	appchat "coffee-chat/domain/chat"

	"github.com/sirupsen/logrus"
)

// Provider talks to an OpenAI-compatible chat-completions endpoint. One
// request per call, no retries: a failed backend call fails the whole
// user-visible request.
type Provider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewProvider(apiKey, baseURL, model string) *Provider {
	// Configure HTTP client with connection pooling
	transport := &http.Transport{
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   50,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}

	return &Provider{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout:   120 * time.Second,
			Transport: transport,
		},
	}
}

type responseFormat struct {
	Type string `json:"type"`
}

type streamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

type apiChatRequest struct {
	Model          string                  `json:"model"`
	Messages       []appchat.PromptMessage `json:"messages"`
	Temperature    *float64                `json:"temperature,omitempty"`
	MaxTokens      int                     `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat         `json:"response_format,omitempty"`
	Stream         bool                    `json:"stream,omitempty"`
	StreamOptions  *streamOptions          `json:"stream_options,omitempty"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type apiChoice struct {
	Index        int                   `json:"index"`
	Message      appchat.PromptMessage `json:"message"`
	FinishReason string                `json:"finish_reason"`
}

type apiChatResponse struct {
	ID      string      `json:"id"`
	Model   string      `json:"model"`
	Choices []apiChoice `json:"choices"`
	Usage   *apiUsage   `json:"usage"`
}

type apiStreamDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

type apiStreamChoice struct {
	Index        int            `json:"index"`
	Delta        apiStreamDelta `json:"delta"`
	FinishReason *string        `json:"finish_reason,omitempty"`
}

type apiStreamChunk struct {
	ID      string            `json:"id"`
	Model   string            `json:"model"`
	Choices []apiStreamChoice `json:"choices"`
	Usage   *apiUsage         `json:"usage,omitempty"`
}

func (u *apiUsage) toDomain() appchat.TokenUsage {
	if u == nil {
		return appchat.TokenUsage{}
	}
	return appchat.TokenUsage{Prompt: u.PromptTokens, Completion: u.CompletionTokens}
}

// Complete issues a blocking chat-completion call.
func (p *Provider) Complete(ctx context.Context, messages []appchat.PromptMessage, opts *appchat.CompletionOptions) (*appchat.Completion, error) {
	body := apiChatRequest{
		Model:    p.model,
		Messages: messages,
	}
	if opts != nil {
		body.Temperature = opts.Temperature
		body.MaxTokens = opts.MaxTokens
		if opts.JSONObject {
			body.ResponseFormat = &responseFormat{Type: "json_object"}
		}
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	hreq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logrus.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(respBody),
			"model":  p.model,
		}).Error("Chat completion API error")
		return nil, fmt.Errorf("llm api error: status %d, model %s: %s", resp.StatusCode, p.model, string(respBody))
	}

	var out apiChatResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("llm api returned no choices for model %s", p.model)
	}

	return &appchat.Completion{
		Content: out.Choices[0].Message.Content,
		Usage:   out.Usage.toDomain(),
	}, nil
}

// StreamCompletion issues a streaming chat-completion call. Each content
// delta is forwarded through onDelta as soon as it is decoded; the backend
// reports usage only on the final chunk, so the returned TokenUsage is
// valid only after the stream has been drained.
func (p *Provider) StreamCompletion(ctx context.Context, messages []appchat.PromptMessage, onDelta appchat.StreamHandler[string]) (appchat.TokenUsage, error) {
	jsonData, err := json.Marshal(apiChatRequest{
		Model:         p.model,
		Messages:      messages,
		Stream:        true,
		StreamOptions: &streamOptions{IncludeUsage: true},
	})
	if err != nil {
		return appchat.TokenUsage{}, fmt.Errorf("marshal: %w", err)
	}

	hreq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return appchat.TokenUsage{}, fmt.Errorf("new request: %w", err)
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(hreq)
	if err != nil {
		return appchat.TokenUsage{}, fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		logrus.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(respBody),
			"model":  p.model,
		}).Error("Streaming chat completion API error")
		return appchat.TokenUsage{}, fmt.Errorf("llm streaming api error: status %d, model %s: %s", resp.StatusCode, p.model, string(respBody))
	}

	var usage appchat.TokenUsage
	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				return usage, nil
			}
			return usage, fmt.Errorf("stream read: %w", err)
		}
		if len(line) < 6 || string(line[:6]) != "data: " {
			continue
		}
		payload := bytes.TrimSpace(line[6:])
		if bytes.Equal(payload, []byte("[DONE]")) {
			return usage, nil
		}
		var chunk apiStreamChunk
		if err := json.Unmarshal(payload, &chunk); err != nil {
			logrus.WithFields(logrus.Fields{
				"payload": string(payload),
				"model":   p.model,
			}).Error("Failed to decode streaming chunk")
			return usage, fmt.Errorf("decode chunk for model %s: %w", p.model, err)
		}
		if chunk.Usage != nil {
			usage = chunk.Usage.toDomain()
		}
		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			if err := onDelta(chunk.Choices[0].Delta.Content); err != nil {
				return usage, err
			}
		}
	}
}
