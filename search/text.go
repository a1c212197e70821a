package search

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/rina/core"
)

// propertyTypePatterns maps query phrasings to the property type used for reranking.
// Order matters: the first match wins.
var propertyTypePatterns = []struct {
	re   *regexp.Regexp
	name string
}{
	{regexp.MustCompile(`\bbed[\s-]?sit(ter)?s?\b`), "bedsitter"},
	{regexp.MustCompile(`\bsingle(\s+room)?s?\b`), "single room"},
	{regexp.MustCompile(`\bstudios?\b`), "studio"},
	{regexp.MustCompile(`\b(1|one)[\s-]?(bed(room)?s?|br)\b|\bbed moja\b`), "1 bedroom"},
	{regexp.MustCompile(`\b(2|two)[\s-]?(bed(room)?s?|br)\b`), "2 bedroom"},
	{regexp.MustCompile(`\b(3|three)[\s-]?(bed(room)?s?|br)\b`), "3 bedroom"},
	{regexp.MustCompile(`\bhostels?\b`), "hostel"},
	{regexp.MustCompile(`\bapartments?\b|\bflats?\b`), "apartment"},
}

var (
	semiFurnishedRe = regexp.MustCompile(`\bsemi[\s-]?furnished\b`)
	unfurnishedRe   = regexp.MustCompile(`\bun[\s-]?furnished\b`)
	furnishedRe     = regexp.MustCompile(`\bfurnished\b`)

	// maxPriceRe matches "under 8k", "below 10,000", "max 12000", "budget of 9k", "ksh 8000".
	maxPriceRe = regexp.MustCompile(`\b(?:under|below|less than|max(?:imum)?|budget(?: of| is)?|up ?to|ksh\.?|kes)\s*:?\s*(?:ksh\.?|kes)?\s*([0-9][0-9,]*(?:\.[0-9]+)?)\s*(k)?\b`)
)

// ExtractConstraints heuristically parses explicit preferences from a search query.
// Anything it cannot recognise is left unset.
func ExtractConstraints(query string) core.Constraints {
	q := strings.ToLower(query)
	var c core.Constraints

	for _, p := range propertyTypePatterns {
		if p.re.MatchString(q) {
			c.PropertyType = p.name
			break
		}
	}

	switch {
	case semiFurnishedRe.MatchString(q):
		c.Furnishing = "semi-furnished"
	case unfurnishedRe.MatchString(q):
		c.Furnishing = "unfurnished"
	case furnishedRe.MatchString(q):
		c.Furnishing = "furnished"
	}

	if m := maxPriceRe.FindStringSubmatch(q); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			if m[2] == "k" {
				v *= 1000
			}
			c.MaxPrice = &v
		}
	}

	return c
}
