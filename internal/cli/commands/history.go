package commands

import (
	"fmt"

	"github.com/darjeeling/nudge/internal/config"
	"github.com/darjeeling/nudge/internal/history"

	"github.com/spf13/cobra"
)

var (
	historyLimit   int
	historyMonitor string
)

// NewHistoryCmd returns the command that lists recorded action runs.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent action runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := history.Open(config.DBPath())
			if err != nil {
				return err
			}
			defer db.Close()
			return runHistory(db, historyMonitor, historyLimit)
		},
	}
	cmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum runs to show")
	cmd.Flags().StringVar(&historyMonitor, "monitor", "", "Only runs for this monitor")
	return cmd
}

func runHistory(db *history.DB, monitor string, limit int) error {
	runs, err := db.RecentRuns(monitor, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}
	for _, r := range runs {
		line := fmt.Sprintf("[%s] [%s] %s %s",
			r.Monitor, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Status, r.Output)
		fmt.Println(line)
	}
	return nil
}
