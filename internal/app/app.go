// Package app wires configuration, the model backend, the pipeline, the
// run history and the progress view into the operations the CLI exposes.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gerunddev/quartet/internal/agents"
	"github.com/gerunddev/quartet/internal/config"
	"github.com/gerunddev/quartet/internal/history"
	"github.com/gerunddev/quartet/internal/llm"
	"github.com/gerunddev/quartet/internal/log"
	"github.com/gerunddev/quartet/internal/pipeline"
	"github.com/gerunddev/quartet/internal/profile"
	"github.com/gerunddev/quartet/internal/tui"
)

// ErrHistoryDisabled is returned by history operations when the history is
// turned off in the configuration.
var ErrHistoryDisabled = errors.New("run history is disabled in the configuration")

// Config holds command-line overrides applied on top of the loaded
// configuration. Empty values keep the configured setting.
type Config struct {
	ProfilePath string
	LogLevel    string
	NoHistory   bool
}

// App runs the assistant for one CLI invocation.
type App struct {
	cfg       *config.Config
	noHistory bool

	// For testing: allow injecting a model client
	clientOverride llm.Client
}

// RunOptions controls a single pipeline run.
type RunOptions struct {
	TUI bool
}

// Outcome is a successful run. RunID is empty when history is off or the
// run could not be saved.
type Outcome struct {
	Result      pipeline.Result
	RunID       string
	Backend     string
	ProfilePath string
}

// New loads the configuration and applies the overrides in cfg.
func New(cfg Config) (*App, error) {
	appConfig, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(appConfig, cfg)
}

// NewWithConfig builds an App from an already loaded configuration.
func NewWithConfig(appConfig *config.Config, cfg Config) (*App, error) {
	if cfg.ProfilePath != "" {
		appConfig.ProfilePath = cfg.ProfilePath
	}
	if cfg.LogLevel != "" {
		appConfig.LogLevel = cfg.LogLevel
	}

	level, err := log.ParseLevel(appConfig.LogLevel)
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)

	return &App{
		cfg:       appConfig,
		noHistory: cfg.NoHistory,
	}, nil
}

// SetClient allows injecting a model client for testing.
func (a *App) SetClient(client llm.Client) {
	a.clientOverride = client
}

// ProfilePath returns the profile file this App reads.
func (a *App) ProfilePath() string {
	return a.cfg.ProfilePath
}

// InitProfile writes the default profile unless one already exists.
func (a *App) InitProfile() (created bool, err error) {
	return profile.Init(a.cfg.ProfilePath)
}

// Profile loads the configured profile.
func (a *App) Profile() (profile.UserProfile, error) {
	return profile.Load(a.cfg.ProfilePath)
}

// client returns the model backend for a run.
func (a *App) client() llm.Client {
	if a.clientOverride != nil {
		return a.clientOverride
	}
	return llm.New(a.cfg.LLM)
}

// missions reads the per-role mission overrides named in the configuration.
func (a *App) missions() (map[agents.Role]string, error) {
	out := make(map[agents.Role]string)
	for _, role := range agents.Roles() {
		mission, err := a.cfg.GetAgentMission(role.String())
		if err != nil {
			return nil, fmt.Errorf("failed to load %s mission: %w", role, err)
		}
		if mission != "" {
			out[role] = mission
		}
	}
	return out, nil
}

// Run loads the profile, runs the four agents on task and records the
// result in the history. A failed run is never recorded.
func (a *App) Run(ctx context.Context, task string, opts RunOptions) (*Outcome, error) {
	p, err := a.Profile()
	if err != nil {
		return nil, err
	}

	missions, err := a.missions()
	if err != nil {
		return nil, err
	}

	client := a.client()
	log.Info("starting run", "backend", client.Name(), "profile", a.cfg.ProfilePath)

	runner := func(ctx context.Context, observe pipeline.Observer) (pipeline.Result, error) {
		assistant := pipeline.New(client,
			pipeline.WithMissions(missions),
			pipeline.WithObserver(observe),
		)
		return assistant.Run(ctx, p, task)
	}

	var res pipeline.Result
	if opts.TUI {
		res, err = tui.Run(ctx, runner)
	} else {
		res, err = runner(ctx, nil)
	}
	if err != nil {
		return nil, err
	}

	out := &Outcome{
		Result:      res,
		Backend:     client.Name(),
		ProfilePath: a.cfg.ProfilePath,
	}

	if a.historyEnabled() {
		run := &history.Run{
			Task:        task,
			ProfileName: p.Name,
			Backend:     client.Name(),
			Result:      res,
		}
		if err := a.saveRun(run); err != nil {
			log.Warn("failed to record run in history", "error", err)
		} else {
			out.RunID = run.ID
			log.Debug("run recorded", "id", run.ID)
		}
	}

	return out, nil
}

func (a *App) historyEnabled() bool {
	return a.cfg.History.Enabled && !a.noHistory
}

func (a *App) openHistory() (*history.Store, error) {
	if !a.cfg.History.Enabled {
		return nil, ErrHistoryDisabled
	}
	store, err := history.New(a.cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

func (a *App) saveRun(run *history.Run) error {
	store, err := a.openHistory()
	if err != nil {
		return err
	}
	defer func() {
		log.CloseError("history", store.Close())
	}()
	return store.Save(run)
}

// ListRuns returns up to limit recorded runs, newest first.
func (a *App) ListRuns(limit int) ([]*history.Run, error) {
	store, err := a.openHistory()
	if err != nil {
		return nil, err
	}
	defer func() {
		log.CloseError("history", store.Close())
	}()
	return store.List(limit)
}

// GetRun returns the recorded run with the given ID or unique ID prefix.
func (a *App) GetRun(id string) (*history.Run, error) {
	store, err := a.openHistory()
	if err != nil {
		return nil, err
	}
	defer func() {
		log.CloseError("history", store.Close())
	}()
	return store.Get(id)
}
