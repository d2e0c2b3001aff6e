package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/darjeeling/nudge/internal/monitor"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeProvider struct {
	snaps []monitor.AgentSnapshot
}

func (f *fakeProvider) Snapshots(now time.Time) []monitor.AgentSnapshot {
	out := make([]monitor.AgentSnapshot, len(f.snaps))
	copy(out, f.snaps)
	for i := range out {
		out[i].Now = now
	}
	return out
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testSnapshot(name string) monitor.AgentSnapshot {
	last := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return monitor.AgentSnapshot{
		Name:         name,
		HasActivity:  true,
		LastActivity: last,
		ProjectPath:  "/Users/dj/project",
		LastPrompt:   "fix the tests",
		HasIdleStats: true,
		Idle:         true,
		IdleMinutes:  42,
		NextWindow:   time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC),
		TargetDir:    "/Users/dj/project",
		Prompt:       "analyze this project",
		Logs: []monitor.LogEntry{
			{At: last, Monitor: name, Text: "Executing in /Users/dj/project"},
		},
	}
}

func TestViewRendersMonitorPanel(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 42, 0, 0, time.UTC)
	provider := &fakeProvider{snaps: []monitor.AgentSnapshot{testSnapshot("Claude")}}
	m := NewModel(provider, fixedClock(now))

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(model)

	view := m.View()
	if !strings.Contains(view, "Claude Monitor") {
		t.Error("view missing monitor panel title")
	}
	if !strings.Contains(view, "IDLE (42 minutes)") {
		t.Error("view missing idle status")
	}
	if !strings.Contains(view, "/Users/dj/project") {
		t.Error("view missing decoded project path")
	}
	if !strings.Contains(view, "13:00:00") {
		t.Error("view missing next execution time")
	}
}

func TestTickRefreshesSnapshots(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 42, 0, 0, time.UTC)
	provider := &fakeProvider{snaps: []monitor.AgentSnapshot{testSnapshot("Claude")}}
	m := NewModel(provider, fixedClock(now))

	provider.snaps = append(provider.snaps, testSnapshot("GLM"))

	updated, cmd := m.Update(tickMsg(now))
	m = updated.(model)

	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if len(m.snaps) != 2 {
		t.Errorf("got %d snapshots after tick, want 2", len(m.snaps))
	}
}

func TestSelectionStaysInBounds(t *testing.T) {
	provider := &fakeProvider{snaps: []monitor.AgentSnapshot{testSnapshot("Claude"), testSnapshot("GLM")}}
	m := NewModel(provider, fixedClock(time.Now()))

	press := func(key string) {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
		m = updated.(model)
	}

	press("k") // already at 0
	if m.selectedIdx != 0 {
		t.Errorf("selectedIdx = %d after k at left edge", m.selectedIdx)
	}
	press("j")
	if m.selectedIdx != 1 {
		t.Errorf("selectedIdx = %d after j", m.selectedIdx)
	}
	press("j") // right edge
	if m.selectedIdx != 1 {
		t.Errorf("selectedIdx = %d after j at right edge", m.selectedIdx)
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("hello world", 8); got != "hello..." {
		t.Errorf("truncateString = %q", got)
	}
	if got := truncateString("short", 10); got != "short" {
		t.Errorf("truncateString = %q", got)
	}
	if got := truncateString("anything", 0); got != "" {
		t.Errorf("truncateString = %q", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 3); got != "abcdef" {
		t.Errorf("padRight = %q", got)
	}
}
