package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gerunddev/quartet/internal/report"
)

func initProfileCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init-profile",
		Short: "Create a profile with default settings",
		Long: `Create a profile file with default settings. An existing profile is
never overwritten.

Examples:
  quartet init-profile
  quartet init-profile --profile ~/quartet/me.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFactory(g.appConfig())
			if err != nil {
				return err
			}

			created, err := a.InitProfile()
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "Profile already exists: %s\n", a.ProfilePath())
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created profile at %s\n", a.ProfilePath())
			return nil
		},
	}
}

// profileCmd creates the profile subcommand group.
func profileCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profile commands",
	}
	cmd.AddCommand(profileShowCmd(g))
	return cmd
}

func profileShowCmd(g *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the profile as the agents see it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			a, err := appFactory(g.appConfig())
			if err != nil {
				return err
			}
			p, err := a.Profile()
			if err != nil {
				return err
			}

			switch f {
			case report.FormatJSON:
				return report.WriteJSON(cmd.OutOrStdout(), p)
			case report.FormatYAML:
				return report.WriteYAML(cmd.OutOrStdout(), p)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), p.PromptBlock())
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: "+report.FormatList())
	return cmd
}
