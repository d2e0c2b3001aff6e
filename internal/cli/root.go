package cli

import (
	"fmt"
	"os"

	"github.com/darjeeling/nudge/internal/cli/commands"

	"github.com/spf13/cobra"
)

// Execute runs the nudge CLI.
func Execute() {
	rootCmd := &cobra.Command{
		Use:   "nudge",
		Short: "Monitor AI agent activity and run actions when idle at the top of each hour",
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunMonitor(cmd.Context())
		},
		SilenceUsage: true,
	}
	commands.AddRunFlags(rootCmd)

	rootCmd.AddCommand(commands.NewStatusCmd())
	rootCmd.AddCommand(commands.NewHistoryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
