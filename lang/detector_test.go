package lang

import (
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/rina/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatistical struct {
	code  string
	err   error
	panic bool
	calls int
}

func (f *fakeStatistical) Detect(text string) (string, error) {
	f.calls++
	if f.panic {
		panic("model exploded")
	}
	return f.code, f.err
}

func newTestDetector(t *testing.T, s Statistical) *Detector {
	t.Helper()
	d, err := NewDetector(WithStatistical(s))
	require.NoError(t, err)
	return d
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		code      string
		expected  core.LanguageTag
		callsStat bool
	}{
		{"empty", "", "en", core.LanguageOther, false},
		{"whitespace only", "  \t\n ", "en", core.LanguageOther, false},
		{"slang token", "Niko na budget ya 8k", "en", core.LanguageSheng, false},
		{"slang wins over swahili", "sasa nataka nyumba", "sw", core.LanguageSheng, false},
		{"slang bigram", "nataka bed moja karibu na KU", "sw", core.LanguageSheng, false},
		{"single bed does not match bigram", "bed only please", "en", core.LanguageEnglish, true},
		{"bigram words must be adjacent", "bed ni moja", "sw", core.LanguageSwahili, true},
		{"slang must be a whole token", "postage stamp", "en", core.LanguageEnglish, true},
		{"punctuation is part of the token", "poa!", "sw", core.LanguageSwahili, true},
		{"swahili", "Nataka nyumba karibu na chuo", "sw", core.LanguageSwahili, true},
		{"english", "Find me a room", "en", core.LanguageEnglish, true},
		{"english variant", "Find me a room", "en-gb", core.LanguageEnglish, true},
		{"pass through", "Je cherche une chambre", "fr", core.LanguageTag("fr"), true},
		{"undetermined", "12345", "", core.LanguageOther, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stat := &fakeStatistical{code: tt.code}
			d := newTestDetector(t, stat)

			assert.Equal(t, tt.expected, d.Detect(tt.text))
			assert.Equal(t, tt.callsStat, stat.calls > 0)
		})
	}
}

func TestDetectDegradesToOther(t *testing.T) {
	t.Run("error", func(t *testing.T) {
		d := newTestDetector(t, &fakeStatistical{err: errors.New("boom")})
		assert.Equal(t, core.LanguageOther, d.Detect("hello there"))
	})

	t.Run("panic", func(t *testing.T) {
		d := newTestDetector(t, &fakeStatistical{panic: true})
		assert.NotPanics(t, func() {
			assert.Equal(t, core.LanguageOther, d.Detect("hello there"))
		})
	})
}

func TestDetectIsDeterministic(t *testing.T) {
	d, err := NewDetector()
	require.NoError(t, err)

	text := "I am looking for a furnished bedsitter near the university with water included"
	first := d.Detect(text)
	for range 10 {
		assert.Equal(t, first, d.Detect(text))
	}
}

func TestLinguaDetectsHousingQueries(t *testing.T) {
	d, err := NewDetector()
	require.NoError(t, err)

	assert.Equal(t, core.LanguageEnglish,
		d.Detect("I am looking for an affordable apartment close to the university campus"))
	assert.Equal(t, core.LanguageSwahili,
		d.Detect("Ninatafuta nyumba ya bei nafuu karibu na chuo kikuu cha Nairobi"))
}

func TestNewDetectorRejectsNilStatistical(t *testing.T) {
	_, err := NewDetector(WithStatistical(nil))
	assert.ErrorIs(t, err, ErrStatisticalRequired)
}

func TestWithLexicon(t *testing.T) {
	d, err := NewDetector(
		WithStatistical(&fakeStatistical{code: "en"}),
		WithLexicon([]string{"Manze", "form ni gani"}),
	)
	require.NoError(t, err)

	assert.Equal(t, core.LanguageSheng, d.Detect("manze hii keja"))
	assert.Equal(t, core.LanguageSheng, d.Detect("form ni gani leo"))
	assert.Equal(t, core.LanguageEnglish, d.Detect("poa sana"))
}

func TestShengLexiconIsLowerCase(t *testing.T) {
	for _, entry := range ShengLexicon {
		assert.Equal(t, entry, strings.ToLower(entry))
	}
}
