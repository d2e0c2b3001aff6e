package idle

import (
	"time"

	"github.com/darjeeling/nudge/internal/activity"
)

// Tracker classifies a single monitor as idle or active against a fixed
// threshold. Cold-start policy: a tracker that has never observed activity
// is never idle, no matter how much wall-clock time elapses.
type Tracker struct {
	threshold    time.Duration
	lastActivity *activity.Record
}

// NewTracker returns a tracker with the given idle threshold.
func NewTracker(threshold time.Duration) *Tracker {
	return &Tracker{threshold: threshold}
}

// Update records a poll result. A nil record leaves state unchanged: a poll
// that found nothing means "still whatever it was", not "activity reset".
// A non-nil record overwrites the previous one, including one whose
// timestamp moved backward (file restore, clock skew) — idleness is simply
// recomputed from whatever the filesystem reports.
func (t *Tracker) Update(rec *activity.Record) {
	if rec != nil {
		t.lastActivity = rec
	}
}

// LastActivity returns the most recent observation, nil before the first.
func (t *Tracker) LastActivity() *activity.Record {
	return t.lastActivity
}

// IsIdle reports whether the elapsed time since the last observed activity
// has reached the threshold. Exactly the threshold counts as idle.
func (t *Tracker) IsIdle(now time.Time) bool {
	if t.lastActivity == nil {
		return false
	}
	return now.Sub(t.lastActivity.Timestamp) >= t.threshold
}

// IdleDuration returns the elapsed time since the last observed activity.
// ok is false before the first observation.
func (t *Tracker) IdleDuration(now time.Time) (time.Duration, bool) {
	if t.lastActivity == nil {
		return 0, false
	}
	return now.Sub(t.lastActivity.Timestamp), true
}

// Threshold returns the configured idle threshold.
func (t *Tracker) Threshold() time.Duration {
	return t.threshold
}
