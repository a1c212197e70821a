package lang

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/rina/core"
)

// Detector assigns a core.LanguageTag to message text.
// It is safe for concurrent use.
type Detector struct {
	statistical Statistical
	lexicon     *lexicon
	logger      *slog.Logger
}

// Option configures a Detector.
type Option func(*Detector) error

// WithStatistical replaces the statistical pass.
// Default is a Lingua over DefaultCandidates.
func WithStatistical(s Statistical) Option {
	return func(d *Detector) error {
		if s == nil {
			return ErrStatisticalRequired
		}
		d.statistical = s
		return nil
	}
}

// WithLexicon replaces the slang lexicon. Default is ShengLexicon.
func WithLexicon(entries []string) Option {
	return func(d *Detector) error {
		d.lexicon = compileLexicon(entries)
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) error {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
		return nil
	}
}

// NewDetector creates a Detector.
func NewDetector(opts ...Option) (*Detector, error) {
	d := &Detector{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	if d.lexicon == nil {
		d.lexicon = compileLexicon(ShengLexicon)
	}
	if d.statistical == nil {
		d.statistical = NewLingua()
	}
	d.logger = d.logger.With("component", "language_detector")
	return d, nil
}

// Detect returns the language of text. It never fails.
func (d *Detector) Detect(text string) core.LanguageTag {
	if strings.TrimSpace(text) == "" {
		return core.LanguageOther
	}

	tokens := strings.Fields(strings.ToLower(text))
	if d.lexicon.match(tokens) {
		return core.LanguageSheng
	}

	code, err := d.statistically(text)
	if err != nil {
		d.logger.Debug("statistical detection failed", "err", err)
		return core.LanguageOther
	}
	return mapCode(code)
}

func (d *Detector) statistically(text string) (code string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrDetectionPanic, r)
		}
	}()
	return d.statistical.Detect(text)
}

func mapCode(code string) core.LanguageTag {
	code = strings.ToLower(strings.TrimSpace(code))
	switch {
	case code == "":
		return core.LanguageOther
	case code == "sw":
		return core.LanguageSwahili
	case strings.HasPrefix(code, "en"):
		return core.LanguageEnglish
	default:
		return core.LanguageTag(code)
	}
}
