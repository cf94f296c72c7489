package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fercho159-aq/taskflow/internal/app"
)

func newWorkloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workload",
		Short: "Show pending hours and active tasks per person",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.MustOpenStorage()
			defer app.CloseStorage()
			app.MustMigrate(cmd.Context())

			entries, err := app.MustBuildServices().Tasks.GetWorkload(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderWorkload(entries))
			return nil
		},
	}
}
