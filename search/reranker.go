package search

import (
	"math"
	"slices"
	"strings"

	"github.com/poiesic/rina/core"
)

// Boost weights added to the retrieval similarity.
const (
	PropertyTypeBoost = 0.2
	PriceBoost        = 0.2
	FurnishingBoost   = 0.1

	// RatingDivisor scales a 0-10 neighborhood rating into the score.
	// A perfect rating adds 1.0, more than every other boost combined.
	RatingDivisor = 10.0
)

// Score computes the rerank score of one candidate under constraints.
func Score(candidate core.RetrievalResult, constraints core.Constraints) float64 {
	score := candidate.Similarity
	l := candidate.Listing
	if l == nil {
		return score
	}

	if constraints.PropertyType != "" && containsFold(l.PropertyType, constraints.PropertyType) {
		score += PropertyTypeBoost
	}

	if constraints.MaxPrice != nil && l.Price != nil {
		maxPrice := *constraints.MaxPrice
		distance := math.Abs(*l.Price-maxPrice) / (maxPrice + 1)
		score += math.Max(0, PriceBoost-distance*PriceBoost)
	}

	if constraints.Furnishing != "" && containsFold(l.Furnishing, constraints.Furnishing) {
		score += FurnishingBoost
	}

	if l.NeighborhoodRating != nil {
		score += *l.NeighborhoodRating / RatingDivisor
	}

	return score
}

// Rerank scores candidates against constraints and returns the best topK by
// non-increasing score. Equal scores keep their input order.
func Rerank(candidates []core.RetrievalResult, constraints core.Constraints, topK int) []core.RankedResult {
	ranked := make([]core.RankedResult, len(candidates))
	for i, c := range candidates {
		ranked[i] = core.RankedResult{RetrievalResult: c, Score: Score(c, constraints)}
	}

	slices.SortStableFunc(ranked, func(a, b core.RankedResult) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	if topK < 0 {
		topK = 0
	}
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

// containsFold reports whether substr is within s, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
