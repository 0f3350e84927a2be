package openai

import (
	"context"
	"fmt"
	"time"

	appchat "coffee-chat/domain/chat"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// CircuitBreakerConfig holds configuration for circuit breaker behavior
type CircuitBreakerConfig struct {
	Enabled          bool          `yaml:"enabled" json:"enabled"`
	FailureThreshold uint32        `yaml:"failure_threshold" json:"failure_threshold"`
	SuccessThreshold uint32        `yaml:"success_threshold" json:"success_threshold"`
	Timeout          time.Duration `yaml:"timeout" json:"timeout"`
	MaxRequests      uint32        `yaml:"max_requests" json:"max_requests"`
}

// DefaultCircuitBreakerConfig returns sensible defaults for circuit breaker configuration
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          60 * time.Second,
		MaxRequests:      3,
	}
}

// CircuitBreakerProvider wraps the completion backend with a circuit
// breaker. An open circuit fails fast; it never retries, so a tripped
// breaker still means a single failed user-visible request.
type CircuitBreakerProvider struct {
	completer appchat.CompletionPort
	streamer  appchat.StreamPort
	config    CircuitBreakerConfig
	breaker   *gobreaker.CircuitBreaker
}

// NewCircuitBreakerProvider creates a new circuit breaker wrapper around a provider
func NewCircuitBreakerProvider(completer appchat.CompletionPort, streamer appchat.StreamPort, config CircuitBreakerConfig) *CircuitBreakerProvider {
	p := &CircuitBreakerProvider{
		completer: completer,
		streamer:  streamer,
		config:    config,
	}
	if !config.Enabled {
		return p
	}

	settings := gobreaker.Settings{
		Name:        "llm-backend",
		MaxRequests: config.MaxRequests,
		Interval:    0, // No automatic clearing of counts (we rely on timeout)
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= config.FailureThreshold &&
				counts.TotalFailures >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logrus.WithFields(logrus.Fields{
				"breaker":    name,
				"from_state": from,
				"to_state":   to,
			}).Info("Circuit breaker state changed")
		},
	}
	p.breaker = gobreaker.NewCircuitBreaker(settings)
	return p
}

// Complete implements the CompletionPort interface with circuit breaker protection
func (c *CircuitBreakerProvider) Complete(ctx context.Context, messages []appchat.PromptMessage, opts *appchat.CompletionOptions) (*appchat.Completion, error) {
	if !c.config.Enabled {
		return c.completer.Complete(ctx, messages, opts)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.completer.Complete(ctx, messages, opts)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			logrus.WithField("state", c.breaker.State()).Warn("Circuit breaker is open, failing fast")
			return nil, fmt.Errorf("circuit breaker open: llm requests are being rejected to prevent cascade failures")
		}
		return nil, err
	}

	return result.(*appchat.Completion), nil
}

// StreamCompletion implements the StreamPort interface with circuit breaker protection
func (c *CircuitBreakerProvider) StreamCompletion(ctx context.Context, messages []appchat.PromptMessage, onDelta appchat.StreamHandler[string]) (appchat.TokenUsage, error) {
	if !c.config.Enabled {
		return c.streamer.StreamCompletion(ctx, messages, onDelta)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.streamer.StreamCompletion(ctx, messages, onDelta)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			logrus.WithField("state", c.breaker.State()).Warn("Circuit breaker is open for streaming, failing fast")
			return appchat.TokenUsage{}, fmt.Errorf("circuit breaker open: llm requests are being rejected to prevent cascade failures")
		}
		if usage, ok := result.(appchat.TokenUsage); ok {
			return usage, err
		}
		return appchat.TokenUsage{}, err
	}

	return result.(appchat.TokenUsage), nil
}

// State returns the current breaker state for monitoring.
func (c *CircuitBreakerProvider) State() gobreaker.State {
	if c.breaker == nil {
		return gobreaker.StateClosed
	}
	return c.breaker.State()
}
