package intent

import (
	"strings"

	"github.com/poiesic/rina/core"
)

// Signal is the input to the rule table.
type Signal struct {
	// Classified is the classifier's label.
	Classified core.IntentLabel
	// Text is the message text, lower-cased.
	Text string
}

// NewSignal builds a Signal from the classifier label and raw message text.
func NewSignal(classified core.IntentLabel, text string) Signal {
	return Signal{Classified: classified, Text: strings.ToLower(text)}
}

// Rule maps a Signal to a branch when Match reports true.
type Rule struct {
	Name   string
	Branch core.IntentLabel
	Match  func(Signal) bool
}

// Rules is the ordered routing policy. The first matching rule wins;
// the last rule always matches.
var Rules = []Rule{
	{
		Name:   "search",
		Branch: core.IntentSearchListings,
		Match: func(s Signal) bool {
			return s.Classified == core.IntentSearchListings ||
				(s.Classified == core.IntentFallback && containsAny(s.Text, RentKeywords))
		},
	},
	{
		Name:   "save",
		Branch: core.IntentSaveListing,
		Match: func(s Signal) bool {
			return s.Classified == core.IntentSaveListing || hasAnyPrefix(s.Text, SaveCommandPrefixes)
		},
	},
	{
		Name:   "inquiry",
		Branch: core.IntentCreateInquiry,
		Match: func(s Signal) bool {
			return s.Classified == core.IntentCreateInquiry ||
				hasAnyPrefix(s.Text, InquiryPrefixes) ||
				containsAny(s.Text, ViewingPhrases)
		},
	},
	{
		Name:   "greeting",
		Branch: core.IntentGreeting,
		Match: func(s Signal) bool {
			return s.Classified == core.IntentGreeting
		},
	},
	{
		Name:   "fallback",
		Branch: core.IntentFallback,
		Match:  func(Signal) bool { return true },
	},
}

// Route evaluates rules in order and returns the branch and name of the first match.
// An empty or non-matching table routes to fallback.
func Route(rules []Rule, s Signal) (core.IntentLabel, string) {
	for _, r := range rules {
		if r.Match(s) {
			return r.Branch, r.Name
		}
	}
	return core.IntentFallback, "fallback"
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(text string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}
