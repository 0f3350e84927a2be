package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"coffee-chat/domain/chat"

	"github.com/sirupsen/logrus"
)

// classifierInstruction asks for a strict JSON verdict. The response field
// the model produces alongside the flags is parsed but never shown to the
// user; only the flags, address, and token accounting survive.
const classifierInstruction = `Analyze if the user's message requires weather or directions information.
Respond in JSON format with the following structure:
{
  "requiresWeather": boolean,
  "requiresDirections": boolean,
  "fromAddress": string or null (extract address if directions are needed),
  "response": "your response here"
}`

// Classifier decides per message whether external context is needed, using
// a single low-temperature JSON-mode completion.
type Classifier struct {
	completer chat.CompletionPort
}

func NewClassifier(completer chat.CompletionPort) *Classifier {
	return &Classifier{completer: completer}
}

type classifierVerdict struct {
	RequiresWeather    bool    `json:"requiresWeather"`
	RequiresDirections bool    `json:"requiresDirections"`
	FromAddress        *string `json:"fromAddress"`
	Response           string  `json:"response"`
}

// Classify issues one backend call and parses the verdict. Any backend or
// parse failure wraps chat.ErrClassification and is fatal for the request.
func (c *Classifier) Classify(ctx context.Context, message string) (*chat.IntentDecision, error) {
	temperature := 0.1
	opts := &chat.CompletionOptions{
		Temperature: &temperature,
		MaxTokens:   200,
		JSONObject:  true,
	}

	messages := []chat.PromptMessage{
		{Role: chat.RoleSystem, Content: classifierInstruction},
		{Role: chat.RoleUser, Content: message},
	}

	completion, err := c.completer.Complete(ctx, messages, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", chat.ErrClassification, err)
	}

	var verdict classifierVerdict
	if err := json.Unmarshal([]byte(stripCodeFence(completion.Content)), &verdict); err != nil {
		logrus.WithError(err).WithField("content", completion.Content).Warn("Classifier returned unparseable verdict")
		return nil, fmt.Errorf("%w: invalid verdict: %v", chat.ErrClassification, err)
	}

	decision := &chat.IntentDecision{
		RequiresWeather:    verdict.RequiresWeather,
		RequiresDirections: verdict.RequiresDirections,
		Usage:              completion.Usage,
	}
	if verdict.FromAddress != nil {
		decision.FromAddress = *verdict.FromAddress
	}

	logrus.WithFields(logrus.Fields{
		"requires_weather":    decision.RequiresWeather,
		"requires_directions": decision.RequiresDirections,
		"has_from_address":    decision.FromAddress != "",
	}).Debug("Intent classified")

	return decision, nil
}

// stripCodeFence tolerates models that wrap JSON-mode output in a markdown
// code fence despite the response format hint.
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
