package monitor

import (
	"fmt"
	"time"

	"github.com/darjeeling/nudge/internal/activity"
	"github.com/darjeeling/nudge/internal/idle"
	"github.com/darjeeling/nudge/internal/invoke"
)

// AgentConfig is the capability record that defines one agent. New agent
// kinds need only a new config, not new code.
type AgentConfig struct {
	Name          string
	Dir           string // working directory for the bound action
	Prompt        string // instruction text passed to the action
	Source        activity.Source
	IdleThreshold time.Duration
	Invoker       invoke.Invoker
	LogCapacity   int // zero means DefaultLogCapacity
}

// Agent binds one activity source, idle tracker, gate state, action invoker
// and log buffer. Its state is owned by the scheduler: every method here
// must be called under the scheduler's lock (or from a test driving the
// agent single-threaded).
type Agent struct {
	name    string
	dir     string
	prompt  string
	source  activity.Source
	tracker *idle.Tracker
	invoker invoke.Invoker
	logs    *LogRing

	lastFired   idle.WindowKey
	lastChecked time.Time
	lastPrompt  string
}

// NewAgent builds an agent from its capability record.
func NewAgent(cfg AgentConfig) *Agent {
	return &Agent{
		name:    cfg.Name,
		dir:     cfg.Dir,
		prompt:  cfg.Prompt,
		source:  cfg.Source,
		tracker: idle.NewTracker(cfg.IdleThreshold),
		invoker: cfg.Invoker,
		logs:    NewLogRing(cfg.LogCapacity),
	}
}

// Name returns the agent's display name.
func (a *Agent) Name() string { return a.name }

// RefreshActivity polls the activity source, feeds the tracker and
// refreshes the advisory last-prompt string.
func (a *Agent) RefreshActivity(now time.Time) {
	a.lastChecked = now
	a.tracker.Update(a.source.Poll())
	if prompt, ok := activity.LastPrompt(a.source.HistoryFile); ok {
		a.lastPrompt = prompt
	}
}

// PlanAction evaluates the gate. On a fire decision it consumes this
// hour's window immediately — before the action runs — so a failed or
// slow invocation cannot fire again within the same window. It also
// appends the "executing" log line. The caller then runs Invoke off the
// scheduler goroutine and reports back via CompleteAction.
func (a *Agent) PlanAction(now time.Time) bool {
	if !idle.Evaluate(now, a.tracker.IsIdle(now), a.lastFired) {
		return false
	}
	a.lastFired = idle.WindowOf(now)
	a.appendLog(now, fmt.Sprintf("Executing in %s", a.dir))
	return true
}

// CompleteAction records the outcome of an invocation dispatched after
// PlanAction. Failures are summarized into the log, never propagated; the
// window stays consumed either way.
func (a *Agent) CompleteAction(now time.Time, output string, err error) {
	if err != nil {
		a.appendLog(now, "Error: "+invoke.Truncate(err.Error(), 200))
		return
	}
	a.appendLog(now, output)
}

// LastFired returns the window key of the most recent firing.
func (a *Agent) LastFired() idle.WindowKey { return a.lastFired }

func (a *Agent) appendLog(now time.Time, text string) {
	a.logs.Append(LogEntry{At: now, Monitor: a.name, Text: text})
}

// Logs returns a copy of the agent's recent log entries, oldest first.
func (a *Agent) Logs() []LogEntry {
	return a.logs.Entries()
}
