package intent

import (
	"context"
	"log/slog"

	"github.com/poiesic/rina/core"
)

// LabelClassifier produces the classifier signal for a message.
type LabelClassifier interface {
	Classify(ctx context.Context, text string) Outcome
}

var _ LabelClassifier = (*Classifier)(nil)

// Decision is the routing result for one message.
type Decision struct {
	// Branch is the handler selected by the rule table.
	Branch core.IntentLabel
	// Classified is the raw classifier answer, before overrides.
	Classified core.Intent
	// Rule names the rule that fired.
	Rule string
	// Err is the classifier failure, if any.
	Err error
}

// Router classifies a message and applies the rule table.
type Router struct {
	classifier LabelClassifier
	rules      []Rule
	logger     *slog.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router) error

// WithRules replaces the rule table. Default is Rules.
func WithRules(rules []Rule) RouterOption {
	return func(r *Router) error {
		r.rules = rules
		return nil
	}
}

// WithRouterLogger sets a custom logger.
// Default is slog.Default().
func WithRouterLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRouter creates a Router.
func NewRouter(classifier LabelClassifier, opts ...RouterOption) (*Router, error) {
	if classifier == nil {
		return nil, ErrClassifierRequired
	}
	r := &Router{classifier: classifier, rules: Rules, logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "intent_router")
	return r, nil
}

// Route classifies text and returns the selected branch.
func (r *Router) Route(ctx context.Context, text string) Decision {
	outcome := r.classifier.Classify(ctx, text)
	branch, rule := Route(r.rules, NewSignal(outcome.Intent.Label, text))

	r.logger.Debug("routed message",
		"classified", outcome.Intent.Label,
		"confidence", outcome.Intent.Confidence,
		"branch", branch,
		"rule", rule)

	return Decision{
		Branch:     branch,
		Classified: outcome.Intent,
		Rule:       rule,
		Err:        outcome.Err,
	}
}
