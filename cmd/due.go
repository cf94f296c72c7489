package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/fercho159-aq/taskflow/internal/services"
)

func newDueCmd(dueDates func() services.DueDateService) *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "due [--start <rfc3339>] [--] <hours>",
		Short: "Print when work of the given length would be finished",
		Long: `due spends the given hours on the working calendar, skipping nights
and weekends, and prints the instant the work would be done.

Put "--" before a value that starts with a dash, e.g. "taskflow due -- -1",
so it is read as hours rather than as a flag.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hours, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid hours %q: %w", args[0], err)
			}

			startAt, err := parseStart(start)
			if err != nil {
				return err
			}

			due, err := dueDates().DueDate(hours, startAt)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderDueDate(hours, startAt, due))
			return nil
		},
	}
	cmd.Flags().StringVarP(&start, "start", "s", "", "start instant in RFC 3339 (defaults to now)")

	return cmd
}

func parseStart(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid start %q: %w", value, err)
	}
	return &t, nil
}
