package intent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/poiesic/rina/ai"
	"github.com/poiesic/rina/core"
)

const (
	// ConfidenceCanonical is reported when the model returned a canonical label.
	ConfidenceCanonical = 0.9

	// ConfidenceUnknownLabel is reported when the model returned a non-canonical word.
	ConfidenceUnknownLabel = 0.5

	// ConfidenceFailed is reported when the call or its response failed.
	ConfidenceFailed = 0.0

	classifierMaxTokens = 8
)

const classifierSystemPrompt = "You are a classifier. Reply with only one word from the list of intents."

const classifierPromptTemplate = `You are a classifier that labels user intents into one of: search_listings, save_listing, create_inquiry, greeting, fallback.

Examples:
User: 'Find me a bedsitter near Kenyatta University under 8k'
Intent: search_listings
User: 'Save listing 5e3f...'
Intent: save_listing
User: 'Hey, hi'
Intent: greeting

User: '%s'
Intent:`

// Outcome is the result of one classification call.
// Err is set when the call failed closed to fallback.
type Outcome struct {
	Intent core.Intent
	Raw    string
	Err    error
}

// Classifier labels text with a few-shot prompt to a language model.
type Classifier struct {
	completer ai.Completer
	logger    *slog.Logger
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier) error

// WithClassifierLogger sets a custom logger.
// Default is slog.Default().
func WithClassifierLogger(logger *slog.Logger) ClassifierOption {
	return func(c *Classifier) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewClassifier creates a Classifier backed by completer.
func NewClassifier(completer ai.Completer, opts ...ClassifierOption) (*Classifier, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	c := &Classifier{completer: completer, logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.logger = c.logger.With("component", "intent_classifier")
	return c, nil
}

// Classify returns the model's label for text. It never returns an error;
// failures come back as fallback with ConfidenceFailed and Outcome.Err set.
func (c *Classifier) Classify(ctx context.Context, text string) Outcome {
	resp, err := c.completer.Complete(ctx, ai.CompletionRequest{
		Messages: []ai.ChatMessage{
			ai.System(classifierSystemPrompt),
			ai.User(fmt.Sprintf(classifierPromptTemplate, text)),
		},
		MaxTokens:   classifierMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return failed(resp, fmt.Errorf("classify: %w", err))
	}

	word := firstWord(resp)
	if word == "" {
		return failed(resp, ErrEmptyResponse)
	}

	if label, ok := core.ParseIntentLabel(word); ok {
		return Outcome{Intent: core.Intent{Label: label, Confidence: ConfidenceCanonical}, Raw: resp}
	}
	c.logger.Debug("classifier returned unknown label", "label", word)
	return Outcome{Intent: core.Intent{Label: core.IntentFallback, Confidence: ConfidenceUnknownLabel}, Raw: resp}
}

func failed(raw string, err error) Outcome {
	return Outcome{
		Intent: core.Intent{Label: core.IntentFallback, Confidence: ConfidenceFailed},
		Raw:    raw,
		Err:    err,
	}
}

// firstWord returns the first whitespace-separated word of s, lower-cased,
// keeping only letters, digits and underscores.
func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return -1
	}, fields[0])
}
