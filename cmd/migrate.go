package main

import (
	"github.com/spf13/cobra"

	"github.com/fercho159-aq/taskflow/internal/app"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the storage tables if they are missing",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			app.MustOpenStorage()
			defer app.CloseStorage()

			app.MustMigrate(cmd.Context())
		},
	}
}
