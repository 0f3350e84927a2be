package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coffee-chat/domain/audit"
	"coffee-chat/domain/chat"
	"coffee-chat/domain/geo"
	"coffee-chat/internal/business"

	"github.com/sirupsen/logrus"
)

// Service orchestrates one chat request end to end: classify, fetch
// external context, generate, account tokens across both backend calls.
type Service struct {
	classifier chat.IntentClassifier
	weather    geo.WeatherPort
	directions geo.DirectionsPort
	completer  chat.CompletionPort
	streamer   chat.StreamPort
	sink       audit.Sink
}

func NewService(
	classifier chat.IntentClassifier,
	weather geo.WeatherPort,
	directions geo.DirectionsPort,
	completer chat.CompletionPort,
	streamer chat.StreamPort,
	sink audit.Sink,
) *Service {
	return &Service{
		classifier: classifier,
		weather:    weather,
		directions: directions,
		completer:  completer,
		streamer:   streamer,
		sink:       sink,
	}
}

// Process handles a request in blocking mode: the full response is
// materialized before returning. Response time covers the whole pipeline
// from classification entry, in seconds.
func (s *Service) Process(ctx context.Context, message string) (*chat.Result, error) {
	start := time.Now()

	prompt, usage, err := s.preparePrompt(ctx, message)
	if err != nil {
		s.sink.RecordFailed(message, err.Error(), time.Since(start).Milliseconds(), false)
		return nil, err
	}

	completion, err := s.completer.Complete(ctx, s.generationMessages(prompt), nil)
	if err != nil {
		wrapped := fmt.Errorf("%w: %v", chat.ErrGeneration, err)
		s.sink.RecordFailed(message, wrapped.Error(), time.Since(start).Milliseconds(), false)
		return nil, wrapped
	}

	usage = usage.Add(completion.Usage)
	elapsed := time.Since(start).Seconds()

	s.sink.RecordCompleted(message, completion.Content, time.Since(start).Milliseconds(), usage.Prompt, usage.Completion, false)

	return &chat.Result{
		Content:      completion.Content,
		Usage:        usage,
		ResponseTime: elapsed,
	}, nil
}

// ProcessStream handles a request in streaming mode. Events are emitted in
// order: zero or more deltas, then exactly one terminal event (done on
// success, error on failure). The terminal event always carries metrics
// with the elapsed seconds; token usage is attached only on success.
func (s *Service) ProcessStream(ctx context.Context, message string, emit chat.StreamHandler[chat.StreamEvent]) error {
	start := time.Now()

	prompt, usage, err := s.preparePrompt(ctx, message)
	if err != nil {
		return s.failStream(message, start, err, emit)
	}

	var content strings.Builder
	streamUsage, err := s.streamer.StreamCompletion(ctx, s.generationMessages(prompt), func(delta string) error {
		content.WriteString(delta)
		return emit(chat.DeltaEvent(delta))
	})
	if err != nil {
		return s.failStream(message, start, fmt.Errorf("%w: %v", chat.ErrGeneration, err), emit)
	}

	usage = usage.Add(streamUsage)
	elapsed := time.Since(start).Seconds()

	logrus.WithFields(logrus.Fields{
		"response_time":     elapsed,
		"prompt_tokens":     usage.Prompt,
		"completion_tokens": usage.Completion,
	}).Info("Chat stream completed")

	s.sink.RecordCompleted(message, content.String(), time.Since(start).Milliseconds(), usage.Prompt, usage.Completion, true)

	return emit(chat.DoneEvent(content.String(), elapsed, usage))
}

// failStream emits the single terminal error event and records the
// failure. The pipeline error is returned for the caller to log; the
// client has already been told.
func (s *Service) failStream(message string, start time.Time, cause error, emit chat.StreamHandler[chat.StreamEvent]) error {
	elapsed := time.Since(start)

	logrus.WithError(cause).WithField("response_time", elapsed.Seconds()).Error("Chat request failed")
	s.sink.RecordFailed(message, cause.Error(), elapsed.Milliseconds(), true)

	if emitErr := emit(chat.ErrorEvent(cause.Error(), elapsed.Seconds())); emitErr != nil {
		return emitErr
	}
	return cause
}

// preparePrompt classifies the message and appends any external context.
// The original message is always preserved; context is appended, never
// substituted. Returns the final user prompt and the classification usage.
func (s *Service) preparePrompt(ctx context.Context, message string) (string, chat.TokenUsage, error) {
	intent, err := s.classifier.Classify(ctx, message)
	if err != nil {
		return "", chat.TokenUsage{}, err
	}

	var extra strings.Builder

	if intent.RequiresWeather {
		report, err := s.weather.CurrentWeather(ctx)
		if err != nil {
			return "", intent.Usage, err
		}
		fmt.Fprintf(&extra, "\nCurrent weather near the shop: %d°F, %s. Feels like %d°F with %d%% humidity.",
			report.Temperature, report.Description, report.FeelsLike, report.Humidity)
	}

	if intent.RequiresDirections && intent.FromAddress != "" {
		route, err := s.directions.Directions(ctx, intent.FromAddress)
		if err != nil {
			return "", intent.Usage, err
		}
		fmt.Fprintf(&extra, "\nDirections from %s: Distance: %s, Estimated time: %s.\nStep-by-step directions:\n%s",
			intent.FromAddress, route.Distance, route.Duration, formatSteps(route.Steps))
	}

	return message + extra.String(), intent.Usage, nil
}

func (s *Service) generationMessages(prompt string) []chat.PromptMessage {
	return []chat.PromptMessage{
		{Role: chat.RoleSystem, Content: business.SystemPrompt},
		{Role: chat.RoleUser, Content: prompt},
	}
}

func formatSteps(steps []string) string {
	var b strings.Builder
	for i, step := range steps {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, step)
	}
	return b.String()
}
