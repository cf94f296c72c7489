package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fercho159-aq/taskflow/internal/app"
)

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the stored roster with the contents of a roster file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roster := app.MustReadRoster(file)

			app.MustOpenStorage()
			defer app.CloseStorage()
			app.MustMigrate(cmd.Context())

			result, err := app.MustBuildServices().Seed.Seed(cmd.Context(), roster)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderSeedResult(result))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "roster file (defaults to ROSTER_FILE)")

	return cmd
}
