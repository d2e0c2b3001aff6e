package commands

import (
	"fmt"
	"time"

	"github.com/darjeeling/nudge/internal/config"
	"github.com/darjeeling/nudge/internal/monitor"

	"github.com/spf13/cobra"
)

var statusOpts monitorOptions

// NewStatusCmd returns the one-shot status command: poll every monitor once
// and print a snapshot, no loop.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Poll each monitor once and print its idle state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			agents, _, err := buildAgents(cfg, statusOpts)
			if err != nil {
				return err
			}
			return runStatus(agents)
		},
	}
	cmd.Flags().StringVarP(&statusOpts.Directory, "directory", "d", "", "Directory where actions would run")
	cmd.Flags().DurationVar(&statusOpts.IdleThreshold, "idle-threshold", 0, "Idle threshold (default 10m)")
	cmd.Flags().BoolVar(&statusOpts.ClaudeOnly, "claude-only", false, "Only the Claude monitor")
	cmd.Flags().BoolVar(&statusOpts.GLMOnly, "glm-only", false, "Only the GLM monitor")
	return cmd
}

func runStatus(agents []*monitor.Agent) error {
	now := time.Now()
	for _, a := range agents {
		a.RefreshActivity(now)
		printSnapshot(a.Snapshot(now))
	}
	return nil
}

func printSnapshot(snap monitor.AgentSnapshot) {
	fmt.Printf("%s:\n", snap.Name)
	if !snap.HasActivity {
		fmt.Println("  no activity observed")
		return
	}
	fmt.Printf("  last activity: %s\n", snap.LastActivity.Format("2006-01-02 15:04:05"))
	if snap.ProjectPath != "" {
		fmt.Printf("  last project:  %s\n", snap.ProjectPath)
	}
	if snap.LastPrompt != "" {
		fmt.Printf("  last prompt:   %s\n", snap.LastPrompt)
	}
	if snap.Idle {
		fmt.Printf("  status:        IDLE (%d minutes), next window %s\n",
			snap.IdleMinutes, snap.NextWindow.Format("15:04:05"))
	} else {
		fmt.Printf("  status:        active (%d minutes since last activity)\n", snap.IdleMinutes)
	}
}
