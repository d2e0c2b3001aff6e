package monitor

import (
	"fmt"
	"time"
)

// DefaultLogCapacity is how many execution-log entries each agent keeps.
const DefaultLogCapacity = 5

// LogEntry is one line of an agent's execution log.
type LogEntry struct {
	At      time.Time
	Monitor string
	Text    string
}

// String renders the log line shown in the dashboard and plain output.
func (e LogEntry) String() string {
	return fmt.Sprintf("[%s] [%s] %s", e.Monitor, e.At.Format("2006-01-02 15:04:05"), e.Text)
}

// LogRing is a bounded ordered log; appending past capacity evicts the
// oldest entry first.
type LogRing struct {
	capacity int
	entries  []LogEntry
}

// NewLogRing returns a ring with the given capacity; zero or negative
// means DefaultLogCapacity.
func NewLogRing(capacity int) *LogRing {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &LogRing{capacity: capacity}
}

// Append adds an entry, evicting the oldest when full.
func (r *LogRing) Append(e LogEntry) {
	r.entries = append(r.entries, e)
	if len(r.entries) > r.capacity {
		r.entries = r.entries[1:]
	}
}

// Entries returns a copy of the current entries, oldest first.
func (r *LogRing) Entries() []LogEntry {
	out := make([]LogEntry, len(r.entries))
	copy(out, r.entries)
	return out
}
