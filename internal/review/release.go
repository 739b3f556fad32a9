package review

import (
	"errors"
	"strings"
	"time"
)

var ErrNoFeedbackAvailable = errors.New("no feedback available to release")

// AutoReleaseAfter is how long a result may stay hidden after completion
// before the gate releases it on its own.
const AutoReleaseAfter = 20 * 24 * time.Hour

// Share makes feedback visible to the candidate. It refuses to release an
// empty payload: some feedback content (automatic summary or grader output)
// must exist first.
//
// The release timestamp is monotonically non-decreasing. Re-sharing after a
// revoke overwrites the old timestamp with the newer one, but visibility is
// never backdated.
func Share(res *ScoreResult, now time.Time, origin ReleaseOrigin) error {
	if !HasFeedback(res) {
		return ErrNoFeedbackAvailable
	}
	res.FeedbackVisibleToCandidate = true
	res.FeedbackReleaseOrigin = origin
	if res.FeedbackReleasedAt == nil || now.After(*res.FeedbackReleasedAt) {
		t := now
		res.FeedbackReleasedAt = &t
	}
	return nil
}

// Revoke hides feedback again. The last release timestamp is kept so the
// release history survives while hidden; sharing again is allowed.
func Revoke(res *ScoreResult) {
	res.FeedbackVisibleToCandidate = false
}

// CheckAutoRelease performs the time-based release: a hidden result whose
// completion is at least AutoReleaseAfter in the past becomes visible,
// tagged as system-initiated. It reports whether a transition happened.
//
// Safe to call repeatedly and from concurrent readers: already-visible
// results, fresh results, and results without feedback content are all
// no-ops.
func CheckAutoRelease(res *ScoreResult, now time.Time) bool {
	if res.FeedbackVisibleToCandidate {
		return false
	}
	if now.Sub(res.CompletedAt) < AutoReleaseAfter {
		return false
	}
	if err := Share(res, now, ReleaseOriginAuto); err != nil {
		return false
	}
	return true
}

// HasFeedback reports whether there is any candidate-facing content to show.
func HasFeedback(res *ScoreResult) bool {
	return strings.TrimSpace(res.Feedback) != ""
}
