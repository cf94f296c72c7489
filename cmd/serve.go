package main

import (
	"github.com/spf13/cobra"

	"github.com/fercho159-aq/taskflow/internal/app"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			app.MustOpenStorage()
			defer app.CloseStorage()

			app.MustMigrate(cmd.Context())
			app.MustListenAndServeHTTP(app.MustBuildServices())
		},
	}
}
