package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/darjeeling/nudge/internal/activity"
	"github.com/darjeeling/nudge/internal/config"
	"github.com/darjeeling/nudge/internal/logging"
	"github.com/darjeeling/nudge/internal/monitor"
	"github.com/darjeeling/nudge/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var runOpts monitorOptions

// AddRunFlags registers the monitor flags on the root command.
func AddRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&runOpts.Directory, "directory", "d", "", "Directory where actions run (default: current directory)")
	cmd.Flags().StringVar(&runOpts.ClaudePrompt, "claude-prompt", "", "Prompt passed to the claude CLI")
	cmd.Flags().StringVar(&runOpts.GLMPrompt, "glm-prompt", "", "Prompt sent to the GLM API")
	cmd.Flags().DurationVar(&runOpts.CheckInterval, "check-interval", 0, "Activity refresh cadence (default 30s)")
	cmd.Flags().DurationVar(&runOpts.IdleThreshold, "idle-threshold", 0, "Idle threshold before actions may fire (default 10m)")
	cmd.Flags().BoolVar(&runOpts.ClaudeOnly, "claude-only", false, "Monitor only Claude")
	cmd.Flags().BoolVar(&runOpts.GLMOnly, "glm-only", false, "Monitor only GLM")
	cmd.Flags().BoolVar(&runOpts.NoTUI, "no-tui", false, "Plain line output even on a terminal")
	cmd.Flags().BoolVar(&runOpts.NoFSEvents, "no-fs-events", false, "Disable filesystem-event accelerated refresh")
}

// RunMonitor is the root command's behavior: build the agent set, start the
// scheduler, and present it until interrupted.
func RunMonitor(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	agents, roots, err := buildAgents(cfg, runOpts)
	if err != nil {
		return err
	}

	interval := runOpts.CheckInterval
	if interval <= 0 {
		interval = cfg.CheckInterval.Std()
	}

	logger := logging.New(config.LogPath())
	defer logger.Sync()

	hist := openHistory()
	if hist != nil {
		defer hist.Close()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wake <-chan struct{}
	if !runOpts.NoFSEvents {
		if w, err := activity.NewWatcher(roots); err == nil {
			defer w.Close()
			go w.Run(ctx)
			wake = w.Events()
		} else {
			logger.Warn("fs events unavailable, polling only", zap.Error(err))
		}
	}

	sched := monitor.NewScheduler(monitor.SchedulerConfig{
		Agents:        agents,
		CheckInterval: interval,
		History:       hist,
		Logger:        logger,
		Wake:          wake,
	})

	logger.Info("monitor starting",
		zap.Int("agents", len(agents)),
		zap.Duration("check_interval", interval))

	schedDone := make(chan error, 1)
	go func() { schedDone <- sched.Run(ctx) }()

	if !runOpts.NoTUI && term.IsTerminal(int(os.Stdout.Fd())) {
		err := tui.Run(sched)
		stop() // TUI exit ends the scheduler too
		<-schedDone
		return err
	}

	return runPlain(ctx, sched, schedDone)
}

// runPlain prints new execution-log lines as they appear; for terminals
// without the TUI and for redirected output.
func runPlain(ctx context.Context, sched *monitor.Scheduler, schedDone <-chan error) error {
	fmt.Println("Monitoring for idle agents... (Ctrl+C to stop)")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var lastLog time.Time
	for {
		select {
		case <-ctx.Done():
			<-schedDone
			fmt.Println("Shutting down monitor...")
			return nil
		case <-ticker.C:
			snaps := sched.Snapshots(time.Now())
			for _, e := range monitor.MergeLogs(snaps) {
				if e.At.After(lastLog) {
					fmt.Println(e.String())
					lastLog = e.At
				}
			}
		}
	}
}
