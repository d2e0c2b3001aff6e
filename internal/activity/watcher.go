package activity

import (
	"context"

	"github.com/fsnotify/fsnotify"
)

// Watcher subscribes to filesystem events on a set of watch roots and
// coalesces them into wake-up signals. Polling stays the source of truth
// for activity; the watcher only lets the scheduler refresh sooner than
// the next scheduled poll.
type Watcher struct {
	fsw    *fsnotify.Watcher
	events chan struct{}
}

// NewWatcher starts watching the given roots. Roots that do not exist or
// cannot be watched are skipped; a watcher with zero live roots is still
// valid and simply never signals.
func NewWatcher(roots []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, root := range roots {
		_ = fsw.Add(root) // missing roots are fine
	}
	return &Watcher{
		fsw:    fsw,
		events: make(chan struct{}, 1), // buffered so sends never block
	}, nil
}

// Events returns the wake-up channel. Bursts of filesystem events collapse
// into a single pending signal.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Run forwards write/create events until the context is canceled.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			select {
			case w.events <- struct{}{}:
			default:
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// Watch errors degrade to plain polling.
		}
	}
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
