package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/darjeeling/nudge/internal/history"
	"github.com/darjeeling/nudge/internal/idle"
)

// Clock supplies the scheduler's notion of now. Tests substitute a fake.
type Clock func() time.Time

// TickResolution is the cooperative loop's base cadence.
const TickResolution = time.Second

// SchedulerConfig wires a scheduler.
type SchedulerConfig struct {
	Agents        []*Agent
	CheckInterval time.Duration // activity refresh cadence
	Clock         Clock         // nil means time.Now
	History       *history.DB   // optional action-run audit log
	Logger        *zap.Logger   // nil means zap.NewNop

	// Wake lets a filesystem watcher force an immediate refresh.
	Wake <-chan struct{}
}

// Scheduler drives the agents: activity refreshes at the check interval,
// gate evaluations when the wall-clock minute changes, action invocations
// dispatched off the tick goroutine so one agent's slow action cannot
// stall another's refresh. All agent state is touched under mu.
type Scheduler struct {
	mu     sync.Mutex
	agents []*Agent

	checkInterval time.Duration
	clock         Clock
	hist          *history.DB
	logger        *zap.Logger
	wake          <-chan struct{}

	lastRefresh time.Time
	lastMinute  time.Time

	wg sync.WaitGroup
}

// NewScheduler builds a scheduler over an ordered set of agents.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := cfg.CheckInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Scheduler{
		agents:        cfg.Agents,
		checkInterval: interval,
		clock:         clock,
		hist:          cfg.History,
		logger:        logger,
		wake:          cfg.Wake,
	}
}

// Run drives the tick loop until ctx is canceled, then waits briefly for
// in-flight invocations. Cancellation propagates into invocations, so the
// wait is bounded by how fast they notice; a second interrupt is never
// required.
func (s *Scheduler) Run(ctx context.Context) error {
	// Initial refresh so the first gate check sees fresh state.
	s.refreshAll(s.clock())

	ticker := time.NewTicker(TickResolution)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping")
			s.wg.Wait()
			return ctx.Err()
		case <-ticker.C:
			s.Tick(ctx, s.clock())
		case <-s.wake:
			// Filesystem event: refresh ahead of schedule.
			s.refreshAll(s.clock())
		}
	}
}

// Tick performs one scheduling step at the given instant. Exported so
// tests can drive the cadences deterministically with a fake clock.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	if s.lastRefresh.IsZero() || now.Sub(s.lastRefresh) >= s.checkInterval {
		s.refreshAll(now)
	}

	minute := now.Truncate(time.Minute)
	if !minute.Equal(s.lastMinute) {
		s.lastMinute = minute
		s.checkGates(ctx, now)
	}
}

func (s *Scheduler) refreshAll(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRefresh = now
	for _, a := range s.agents {
		a.RefreshActivity(now)
	}
}

func (s *Scheduler) checkGates(ctx context.Context, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.agents {
		if !a.PlanAction(now) {
			continue
		}
		s.logger.Info("firing action",
			zap.String("monitor", a.name),
			zap.String("window", string(a.lastFired)))
		s.dispatch(ctx, a, a.lastFired)
	}
}

// dispatch runs the invocation on its own goroutine and hands the result
// back under mu. Called with mu held; the goroutine re-acquires it.
func (s *Scheduler) dispatch(ctx context.Context, a *Agent, window idle.WindowKey) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		output, err := a.invoker.Invoke(ctx, a.prompt, a.dir)

		done := s.clock()
		s.mu.Lock()
		a.CompleteAction(done, output, err)
		s.mu.Unlock()

		status := history.StatusOK
		detail := output
		if err != nil {
			status = history.StatusFailed
			detail = err.Error()
			s.logger.Warn("action failed",
				zap.String("monitor", a.name),
				zap.Error(err))
		}
		if s.hist != nil {
			if _, herr := s.hist.RecordRun(a.name, string(window), done, status, detail); herr != nil {
				s.logger.Warn("history write failed", zap.Error(herr))
			}
		}
	}()
}

// Snapshots returns per-agent display snapshots in configured order.
func (s *Scheduler) Snapshots(now time.Time) []AgentSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]AgentSnapshot, 0, len(s.agents))
	for _, a := range s.agents {
		out = append(out, a.Snapshot(now))
	}
	return out
}
