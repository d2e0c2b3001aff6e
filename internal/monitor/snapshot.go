package monitor

import (
	"sort"
	"time"

	"github.com/darjeeling/nudge/internal/activity"
	"github.com/darjeeling/nudge/internal/idle"
)

// MergedLogCap bounds the merged execution-log view.
const MergedLogCap = 10

// AgentSnapshot is the read-only view a presentation layer consumes. It is
// plain data; nothing in it reaches back into the agent.
type AgentSnapshot struct {
	Name string
	Now  time.Time

	HasActivity  bool
	LastActivity time.Time
	ProjectPath  string // decoded originating path, "" if unknown
	LastPrompt   string

	Idle         bool
	HasIdleStats bool
	IdleMinutes  int
	NextWindow   time.Time // meaningful when Idle

	TargetDir string
	Prompt    string
	Logs      []LogEntry
}

// Snapshot captures the agent's current state for display.
func (a *Agent) Snapshot(now time.Time) AgentSnapshot {
	snap := AgentSnapshot{
		Name:      a.name,
		Now:       now,
		TargetDir: a.dir,
		Prompt:    a.prompt,
		Logs:      a.Logs(),
	}

	if rec := a.tracker.LastActivity(); rec != nil {
		snap.HasActivity = true
		snap.LastActivity = rec.Timestamp
		if id := a.source.ProjectID(rec.ProjectPath); id != "" {
			snap.ProjectPath = activity.DecodeProjectID(id)
		}
		snap.LastPrompt = a.lastPrompt
	}

	if d, ok := a.tracker.IdleDuration(now); ok {
		snap.HasIdleStats = true
		snap.IdleMinutes = int(d.Minutes())
		snap.Idle = a.tracker.IsIdle(now)
		if snap.Idle {
			snap.NextWindow = idle.NextWindow(now)
		}
	}

	return snap
}

// MergeLogs flattens per-agent logs into one time-ordered view capped to
// the most recent MergedLogCap entries.
func MergeLogs(snaps []AgentSnapshot) []LogEntry {
	var all []LogEntry
	for _, s := range snaps {
		all = append(all, s.Logs...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].At.Before(all[j].At)
	})
	if len(all) > MergedLogCap {
		all = all[len(all)-MergedLogCap:]
	}
	return all
}
