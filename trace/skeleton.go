package trace

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/rina/core"
)

// SkeletonSequence is the minimum step sequence of a traced request.
var SkeletonSequence = []core.StepType{
	core.StepPlan,
	core.StepAct,
	core.StepCritique,
	core.StepDecision,
}

// Skeleton checks that t's steps are numbered 1..k without gaps and contain
// SkeletonSequence in order. Other steps may be interleaved.
func Skeleton(t *core.Trace) error {
	if t == nil {
		return ErrNilTrace
	}

	next := 0
	for i, step := range t.Steps {
		if step.StepNo != i+1 {
			return fmt.Errorf("%w: position %d has step_no %d", ErrStepNumbering, i+1, step.StepNo)
		}
		if next < len(SkeletonSequence) && step.StepType == SkeletonSequence[next] {
			next++
		}
	}
	if next < len(SkeletonSequence) {
		return fmt.Errorf("%w: no %s step", ErrMissingSkeleton, SkeletonSequence[next])
	}
	return nil
}

// DegradePhrases mark a reply as an apology or failure. Matched against the lower-cased reply.
var DegradePhrases = []string{"couldn't find", "trouble", "sorry", "try later", "samahani"}

// Critique is the outcome of the reply heuristic.
type Critique struct {
	MeetsGoal bool
	Note      string
}

// CritiqueReply reports whether reply is free of DegradePhrases.
func CritiqueReply(reply string) Critique {
	low := strings.ToLower(reply)
	for _, p := range DegradePhrases {
		if strings.Contains(low, p) {
			return Critique{MeetsGoal: false, Note: "Response contains apology/issue"}
		}
	}
	return Critique{MeetsGoal: true, Note: "Looks good"}
}

// Excerpt returns at most n runes of s.
func Excerpt(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
