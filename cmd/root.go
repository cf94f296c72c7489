package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fercho159-aq/taskflow/internal/app"
	"github.com/fercho159-aq/taskflow/internal/services"
)

var rootCmd = &cobra.Command{
	Use:   "taskflow",
	Short: "Assigns client tasks to the least loaded person and schedules their due dates.",
	Long: `taskflow keeps a roster of people, their clients and their tasks.
New work goes to the person with the fewest pending hours unless an
assignee is named, and every task gets a due date on the working calendar.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		app.InitDefaultLogger()
		app.MustReadEnv()
		app.MustInitApplicationLogger()
	},
}

// Execute runs the command named on the command line and exits non-zero on
// failure.
func Execute() {
	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		logger := app.Logger()
		logger.Error().
			Err(err).
			Str("command", cmd.Name()).
			Msg("command failed")
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSeedCmd(),
		newDueCmd(func() services.DueDateService {
			return app.MustBuildServices().DueDates
		}),
		newWorkloadCmd(),
	)
}
