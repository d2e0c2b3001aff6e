package monitor

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/darjeeling/nudge/internal/history"
)

// fakeClock hands out a settable now, safe to advance while dispatch
// goroutines read it.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func schedulerFixture(t *testing.T, lastActivity time.Time, inv *stubInvoker) (*Scheduler, *Agent, *fakeClock) {
	t.Helper()
	a := makeAgent(t, lastActivity, inv)
	clk := &fakeClock{}
	clk.Set(lastActivity.Add(time.Second))
	s := NewScheduler(SchedulerConfig{
		Agents:        []*Agent{a},
		CheckInterval: 30 * time.Second,
		Clock:         clk.Now,
	})
	return s, a, clk
}

func TestTickRefreshCadence(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	inv := &stubInvoker{}
	s, a, clk := schedulerFixture(t, start, inv)
	ctx := context.Background()

	// First tick refreshes (nothing refreshed yet).
	clk.Set(start.Add(time.Second))
	s.Tick(ctx, clk.Now())
	snap := s.Snapshots(clk.Now())[0]
	if !snap.HasActivity || !snap.LastActivity.Equal(start) {
		t.Fatalf("initial refresh missing: %+v", snap)
	}

	// Move the file's mtime forward; a tick inside the interval must not
	// pick it up, one past the interval must.
	bumped := start.Add(10 * time.Second)
	if err := os.Chtimes(a.source.HistoryFile, bumped, bumped); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	clk.Set(start.Add(15 * time.Second))
	s.Tick(ctx, clk.Now())
	if got := s.Snapshots(clk.Now())[0].LastActivity; !got.Equal(start) {
		t.Errorf("refreshed inside the interval: LastActivity = %v", got)
	}

	clk.Set(start.Add(32 * time.Second))
	s.Tick(ctx, clk.Now())
	if got := s.Snapshots(clk.Now())[0].LastActivity; !got.Equal(bumped) {
		t.Errorf("LastActivity = %v, want %v after cadence refresh", got, bumped)
	}
}

func TestSchedulerFiresOncePerWindow(t *testing.T) {
	lastActivity := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	inv := &stubInvoker{output: "Execution completed successfully"}
	s, a, clk := schedulerFixture(t, lastActivity, inv)
	ctx := context.Background()

	// Tick every second through the 13:00 minute; the agent has been idle
	// for an hour.
	start := time.Date(2025, 6, 1, 13, 0, 0, 0, time.Local)
	for i := 0; i < 60; i++ {
		clk.Set(start.Add(time.Duration(i) * time.Second))
		s.Tick(ctx, clk.Now())
	}

	waitFor(t, func() bool { return inv.callCount() == 1 })
	s.wg.Wait()

	if got := inv.callCount(); got != 1 {
		t.Errorf("invoker called %d times in one window, want 1", got)
	}
	if a.LastFired() != "2025-06-01T13" {
		t.Errorf("LastFired = %q", a.LastFired())
	}

	logs := s.Snapshots(clk.Now())[0].Logs
	if len(logs) != 2 {
		t.Fatalf("got %d log entries, want executing + result", len(logs))
	}
	if logs[1].Text != "Execution completed successfully" {
		t.Errorf("result log = %q", logs[1].Text)
	}
}

func TestSchedulerSkipsGateWhileActive(t *testing.T) {
	// Last activity right now: never idle, so minute zero does nothing.
	lastActivity := time.Date(2025, 6, 1, 12, 59, 50, 0, time.Local)
	inv := &stubInvoker{}
	s, _, clk := schedulerFixture(t, lastActivity, inv)
	ctx := context.Background()

	clk.Set(time.Date(2025, 6, 1, 13, 0, 0, 0, time.Local))
	s.Tick(ctx, clk.Now())
	s.wg.Wait()

	if got := inv.callCount(); got != 0 {
		t.Errorf("invoker called %d times while active, want 0", got)
	}
}

func TestSchedulerRecordsHistory(t *testing.T) {
	lastActivity := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	inv := &stubInvoker{output: "done"}
	a := makeAgent(t, lastActivity, inv)
	clk := &fakeClock{}

	db, err := history.Open(t.TempDir() + "/nudge.db")
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	defer db.Close()

	s := NewScheduler(SchedulerConfig{
		Agents:        []*Agent{a},
		CheckInterval: 30 * time.Second,
		Clock:         clk.Now,
		History:       db,
	})
	ctx := context.Background()

	clk.Set(time.Date(2025, 6, 1, 13, 0, 0, 0, time.Local))
	s.Tick(ctx, clk.Now())
	s.wg.Wait()

	waitFor(t, func() bool {
		runs, err := db.RecentRuns("", 10)
		return err == nil && len(runs) == 1
	})

	runs, _ := db.RecentRuns("", 10)
	if runs[0].Monitor != "Claude" || runs[0].Status != history.StatusOK {
		t.Errorf("run = %+v", runs[0])
	}
	if runs[0].WindowKey != "2025-06-01T13" {
		t.Errorf("WindowKey = %q", runs[0].WindowKey)
	}
}

func TestWakeChannelForcesRefresh(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	inv := &stubInvoker{}
	a := makeAgent(t, start, inv)
	clk := &fakeClock{}
	clk.Set(start.Add(time.Second))
	wake := make(chan struct{}, 1)

	s := NewScheduler(SchedulerConfig{
		Agents:        []*Agent{a},
		CheckInterval: time.Hour, // cadence effectively off
		Clock:         clk.Now,
		Wake:          wake,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()

	// Let Run's initial refresh land, then bump the file and wake.
	waitFor(t, func() bool {
		snap := s.Snapshots(clk.Now())[0]
		return snap.HasActivity
	})

	bumped := start.Add(5 * time.Minute)
	if err := os.Chtimes(a.source.HistoryFile, bumped, bumped); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	wake <- struct{}{}

	waitFor(t, func() bool {
		return s.Snapshots(clk.Now())[0].LastActivity.Equal(bumped)
	})

	cancel()
	<-done
}

func TestMergeLogs(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mk := func(name string, offsets ...int) AgentSnapshot {
		var logs []LogEntry
		for _, off := range offsets {
			logs = append(logs, LogEntry{At: base.Add(time.Duration(off) * time.Minute), Monitor: name})
		}
		return AgentSnapshot{Name: name, Logs: logs}
	}

	merged := MergeLogs([]AgentSnapshot{
		mk("Claude", 0, 2, 4, 6, 8, 10),
		mk("GLM", 1, 3, 5, 7, 9, 11),
	})

	if len(merged) != MergedLogCap {
		t.Fatalf("got %d merged entries, want %d", len(merged), MergedLogCap)
	}
	for i := 1; i < len(merged); i++ {
		if merged[i].At.Before(merged[i-1].At) {
			t.Fatal("merged view is not time-ordered")
		}
	}
	// Capped to the most recent entries: minute 2 through 11.
	if !merged[0].At.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("oldest kept = %v, want minute 2", merged[0].At)
	}
}
