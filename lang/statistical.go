package lang

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Statistical identifies the language of text that carries no slang marker.
// Detect returns a lower-case ISO 639-1 code, or "" when it cannot decide.
type Statistical interface {
	Detect(text string) (string, error)
}

// DefaultCandidates are the languages the statistical pass chooses between.
// Restricting the set keeps short messages from drifting to unrelated languages.
var DefaultCandidates = []lingua.Language{
	lingua.English,
	lingua.Swahili,
	lingua.Somali,
	lingua.French,
	lingua.Arabic,
	lingua.German,
	lingua.Spanish,
	lingua.Portuguese,
}

// Lingua is a Statistical backed by lingua-go's n-gram models.
// It holds no random state, so identical input yields identical output.
type Lingua struct {
	detector lingua.LanguageDetector
}

var _ Statistical = (*Lingua)(nil)

// NewLingua builds a detector over candidates, or DefaultCandidates when none are given.
func NewLingua(candidates ...lingua.Language) *Lingua {
	if len(candidates) < 2 {
		candidates = DefaultCandidates
	}
	return &Lingua{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(candidates...).
			Build(),
	}
}

// Detect implements Statistical.
func (l *Lingua) Detect(text string) (string, error) {
	language, ok := l.detector.DetectLanguageOf(text)
	if !ok {
		return "", nil
	}
	return strings.ToLower(language.IsoCode639_1().String()), nil
}
