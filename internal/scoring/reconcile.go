package scoring

import "math"

// ReconcileInput carries every score source that may exist for a result.
// All fields are optional; nil means "not produced yet".
type ReconcileInput struct {
	// Explicit is a final score supplied as-is by an upstream source, e.g.
	// the semantic grader. When present it wins outright.
	Explicit *float64
	// Initial is the automatic score computed at submission time.
	Initial *float64
	// Review is the score a reviewer saved through the correction overlay.
	Review *float64
	// Derived is any intermediate recomputed score, used only as a fallback
	// between Review and Initial.
	Derived *float64
}

// Reconcile merges the available scores into one final score.
//
// Precedence: an explicit upstream score is used as-is. Otherwise, when both
// the automatic and the reviewed score exist, the result is their average so
// neither the machine nor the human verdict dominates unilaterally. Otherwise
// the most recently computed value wins, falling back toward the earliest
// available score rather than failing: review, then derived, then initial,
// then zero.
//
// Pure function: callers re-run it whenever any input changes.
func Reconcile(in ReconcileInput) float64 {
	if in.Explicit != nil {
		return *in.Explicit
	}
	if in.Initial != nil && in.Review != nil {
		return Round2((*in.Initial + *in.Review) / 2)
	}
	if in.Review != nil {
		return *in.Review
	}
	if in.Derived != nil {
		return *in.Derived
	}
	if in.Initial != nil {
		return *in.Initial
	}
	return 0
}

// Round2 rounds to two decimal places, the precision scores are stored at.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ClampScore forces a score into [0, totalPoints], the invariant every
// persisted final score must satisfy.
func ClampScore(v, totalPoints float64) float64 {
	if v < 0 {
		return 0
	}
	if totalPoints > 0 && v > totalPoints {
		return totalPoints
	}
	return v
}
