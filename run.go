package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gerunddev/quartet/internal/app"
	"github.com/gerunddev/quartet/internal/report"
)

func runCmd(g *globalFlags) *cobra.Command {
	var task string
	var format string
	var asJSON bool
	var useTUI bool
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the planner, coder, reviewer and coach on a task",
		Long: `Run the four agents on a task and print their output.

Examples:
  quartet run --task "Create a CLI todo app"
  quartet run --task "Add retries" --format yaml
  quartet run --task "Add retries" --tui`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(task) == "" {
				return fmt.Errorf("--task is required")
			}

			f, err := resolveFormat(format, asJSON)
			if err != nil {
				return err
			}

			cfg := g.appConfig()
			cfg.NoHistory = noHistory
			a, err := appFactory(cfg)
			if err != nil {
				return err
			}

			out, err := a.Run(cmd.Context(), task, app.RunOptions{TUI: useTUI})
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("%w (create one with: quartet init-profile --profile %s)", err, a.ProfilePath())
				}
				return err
			}

			if err := report.WriteResult(cmd.OutOrStdout(), f, out.Result); err != nil {
				return err
			}
			if out.RunID != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved run %s\n", out.RunID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&task, "task", "t", "", "Coding task to solve (required)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: "+report.FormatList())
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output machine-readable JSON (same as --format json)")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "Show a live progress view while the agents run")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run in the history")

	return cmd
}

// resolveFormat combines --format and the --json shorthand.
func resolveFormat(format string, asJSON bool) (report.Format, error) {
	if asJSON {
		if format != "" && !strings.EqualFold(strings.TrimSpace(format), string(report.FormatJSON)) {
			return "", fmt.Errorf("cannot combine --json with --format %s", format)
		}
		return report.FormatJSON, nil
	}
	return report.ParseFormat(format)
}
