// Package main is the entry point for the quartet CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/gerunddev/quartet/internal/app"
	"github.com/gerunddev/quartet/internal/history"
	"github.com/gerunddev/quartet/internal/profile"
)

// appFactory is the function used to create a new App.
// It can be replaced in tests to mock app creation.
var appFactory = defaultAppFactory

// defaultAppFactory is the production app factory implementation.
func defaultAppFactory(cfg app.Config) (App, error) {
	return app.New(cfg)
}

// App interface defines the methods needed from app.App for testing.
type App interface {
	ProfilePath() string
	InitProfile() (bool, error)
	Profile() (profile.UserProfile, error)
	Run(ctx context.Context, task string, opts app.RunOptions) (*app.Outcome, error)
	ListRuns(limit int) ([]*history.Run, error)
	GetRun(id string) (*history.Run, error)
}

// globalFlags holds the flags shared by every subcommand.
type globalFlags struct {
	profilePath string
	logLevel    string
}

func (g *globalFlags) appConfig() app.Config {
	return app.Config{
		ProfilePath: g.profilePath,
		LogLevel:    g.logLevel,
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "quartet",
		Short: "Personalized multi-agent coding assistant",
		Long: `Quartet runs four agents over a coding task: a planner, a coder, a
reviewer and a coach. Each agent sees your profile, the task and everything
the agents before it produced.

Without OPENAI_API_KEY an offline fallback model is used.

Examples:
  quartet init-profile                          # Write profile.json with defaults
  quartet run --task "Create a CLI todo app"    # Run all four agents
  quartet run --task "..." --json               # Machine-readable output
  quartet history list                          # Show recorded runs`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.profilePath, "profile", "",
		"Path to profile JSON (default from config, profile.json)")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "",
		"Log level: debug, info, warn or error")

	rootCmd.AddCommand(initProfileCmd(g))
	rootCmd.AddCommand(runCmd(g))
	rootCmd.AddCommand(profileCmd(g))
	rootCmd.AddCommand(historyCmd(g))

	return rootCmd
}
