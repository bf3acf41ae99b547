package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gerunddev/quartet/internal/history"
	"github.com/gerunddev/quartet/internal/report"
)

// historyCmd creates the history subcommand group.
func historyCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse recorded runs",
		Long: `Browse the results of earlier runs. Only runs that completed all four
stages are recorded.`,
	}

	cmd.AddCommand(historyListCmd(g))
	cmd.AddCommand(historyShowCmd(g))

	return cmd
}

func historyListCmd(g *globalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit cannot be negative")
			}

			a, err := appFactory(g.appConfig())
			if err != nil {
				return err
			}
			runs, err := a.ListRuns(limit)
			if err != nil {
				return err
			}
			return report.WriteRunList(cmd.OutOrStdout(), runs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	return cmd
}

func historyShowCmd(g *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a recorded run",
		Long: `Show a recorded run. The ID may be shortened to any unique prefix.

Example:
  quartet history show 0f8fad5b`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			a, err := appFactory(g.appConfig())
			if err != nil {
				return err
			}
			run, err := a.GetRun(args[0])
			if errors.Is(err, history.ErrNotFound) {
				return fmt.Errorf("run not found: %s", args[0])
			}
			if err != nil {
				return err
			}
			return report.WriteRun(cmd.OutOrStdout(), f, run)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: "+report.FormatList())
	return cmd
}
