package idle

import "time"

// WindowKey identifies one hourly firing opportunity. Two instants within
// the same wall-clock hour share a key.
type WindowKey string

// NoWindow is the zero key, held before any firing has happened.
const NoWindow WindowKey = ""

// WindowOf derives the key for the hour containing t.
func WindowOf(t time.Time) WindowKey {
	return WindowKey(t.Truncate(time.Hour).Format("2006-01-02T15"))
}

// NextWindow returns the start of the next hourly firing opportunity.
func NextWindow(t time.Time) time.Time {
	return t.Truncate(time.Hour).Add(time.Hour)
}

// Evaluate decides whether an action may fire now. The gate is stateless;
// the caller owns lastFired and must record WindowOf(now) when it acts on a
// true result. Firing requires all three of: the monitor is idle, the
// wall-clock minute is zero, and this hour's window has not fired yet. A
// process not evaluating during the zero minute misses that hour entirely;
// there is no catch-up.
func Evaluate(now time.Time, idle bool, lastFired WindowKey) bool {
	if !idle {
		return false
	}
	if now.Minute() != 0 {
		return false
	}
	return WindowOf(now) != lastFired
}
