package app

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gerunddev/quartet/internal/config"
	"github.com/gerunddev/quartet/internal/history"
	"github.com/gerunddev/quartet/internal/llm"
	"github.com/gerunddev/quartet/internal/pipeline"
	"github.com/gerunddev/quartet/internal/profile"
)

// recordingClient records system prompts and can fail on every call.
type recordingClient struct {
	systems []string
	err     error
}

func (c *recordingClient) Generate(_ context.Context, system, _ string) (string, error) {
	c.systems = append(c.systems, system)
	if c.err != nil {
		return "", c.err
	}
	return "ok", nil
}

func (c *recordingClient) Name() string { return "recording" }

// newTestApp builds an App whose profile and history live in a temp dir.
func newTestApp(t *testing.T, override Config) (*App, string) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.ProfilePath = filepath.Join(dir, "profile.json")
	cfg.History.Path = filepath.Join(dir, "history.db")

	a, err := NewWithConfig(cfg, override)
	if err != nil {
		t.Fatalf("NewWithConfig() error: %v", err)
	}
	return a, dir
}

func TestNewWithConfig_Overrides(t *testing.T) {
	cfg := config.DefaultConfig()
	a, err := NewWithConfig(cfg, Config{ProfilePath: "other.json", LogLevel: "debug"})
	if err != nil {
		t.Fatalf("NewWithConfig() error: %v", err)
	}
	if a.ProfilePath() != "other.json" {
		t.Errorf("ProfilePath() = %q, want other.json", a.ProfilePath())
	}
	if a.cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", a.cfg.LogLevel)
	}

	// Restore the default level for the remaining tests.
	if _, err := NewWithConfig(config.DefaultConfig(), Config{}); err != nil {
		t.Fatalf("NewWithConfig() error: %v", err)
	}
}

func TestNewWithConfig_InvalidLogLevel(t *testing.T) {
	if _, err := NewWithConfig(config.DefaultConfig(), Config{LogLevel: "loud"}); err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestInitProfile(t *testing.T) {
	a, _ := newTestApp(t, Config{})

	created, err := a.InitProfile()
	if err != nil {
		t.Fatalf("InitProfile() error: %v", err)
	}
	if !created {
		t.Error("expected profile to be created")
	}

	created, err = a.InitProfile()
	if err != nil {
		t.Fatalf("second InitProfile() error: %v", err)
	}
	if created {
		t.Error("expected existing profile to be left alone")
	}

	p, err := a.Profile()
	if err != nil {
		t.Fatalf("Profile() error: %v", err)
	}
	if p.Name != profile.Default().Name {
		t.Errorf("Name = %q, want default", p.Name)
	}
}

func TestRun_MissingProfile(t *testing.T) {
	a, _ := newTestApp(t, Config{})

	_, err := a.Run(context.Background(), "task", RunOptions{})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
	var nf *profile.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected *profile.NotFoundError, got %T", err)
	}
}

func TestRun_OfflineRecordsHistory(t *testing.T) {
	a, _ := newTestApp(t, Config{})
	if _, err := a.InitProfile(); err != nil {
		t.Fatalf("InitProfile() error: %v", err)
	}

	out, err := a.Run(context.Background(), "Create a CLI todo app", RunOptions{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if out.Backend != "fallback" {
		t.Errorf("Backend = %q, want fallback", out.Backend)
	}
	for name, text := range map[string]string{
		"plan":           out.Result.Plan,
		"implementation": out.Result.Implementation,
		"review":         out.Result.Review,
		"coaching":       out.Result.Coaching,
	} {
		if !strings.Contains(text, llm.FallbackMarker) {
			t.Errorf("%s missing fallback marker", name)
		}
	}
	if out.RunID == "" {
		t.Fatal("expected run to be recorded")
	}

	runs, err := a.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns() error: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != out.RunID {
		t.Fatalf("ListRuns() = %v, want the recorded run", runs)
	}

	run, err := a.GetRun(out.RunID[:8])
	if err != nil {
		t.Fatalf("GetRun() error: %v", err)
	}
	if run.Task != "Create a CLI todo app" || run.ProfileName != "Your Name" {
		t.Errorf("unexpected run %+v", run)
	}
	if run.Result != out.Result {
		t.Error("stored result differs from returned result")
	}
}

func TestRun_NoHistory(t *testing.T) {
	a, dir := newTestApp(t, Config{NoHistory: true})
	if _, err := a.InitProfile(); err != nil {
		t.Fatalf("InitProfile() error: %v", err)
	}

	out, err := a.Run(context.Background(), "task", RunOptions{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if out.RunID != "" {
		t.Errorf("expected no run ID, got %q", out.RunID)
	}
	if _, err := os.Stat(filepath.Join(dir, "history.db")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected no history database, stat err = %v", err)
	}
}

func TestRun_FailureNotRecorded(t *testing.T) {
	a, _ := newTestApp(t, Config{})
	if _, err := a.InitProfile(); err != nil {
		t.Fatalf("InitProfile() error: %v", err)
	}
	a.SetClient(&recordingClient{err: &llm.RequestError{Err: errors.New("connection refused")}})

	out, err := a.Run(context.Background(), "task", RunOptions{})
	if out != nil {
		t.Errorf("expected no outcome, got %+v", out)
	}

	var stageErr *pipeline.StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("expected *pipeline.StageError, got %v", err)
	}
	var reqErr *llm.RequestError
	if !errors.As(err, &reqErr) {
		t.Errorf("expected *llm.RequestError in chain, got %v", err)
	}

	runs, err := a.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns() error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no recorded runs, got %d", len(runs))
	}
}

func TestRun_MissionOverride(t *testing.T) {
	a, dir := newTestApp(t, Config{NoHistory: true})
	if _, err := a.InitProfile(); err != nil {
		t.Fatalf("InitProfile() error: %v", err)
	}

	missionPath := filepath.Join(dir, "coach.md")
	if err := os.WriteFile(missionPath, []byte("  Be brief and kind.\n"), 0644); err != nil {
		t.Fatal(err)
	}
	a.cfg.Agents.Coach = missionPath

	client := &recordingClient{}
	a.SetClient(client)

	if _, err := a.Run(context.Background(), "task", RunOptions{}); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(client.systems) != 4 {
		t.Fatalf("expected 4 calls, got %d", len(client.systems))
	}
	if !strings.HasPrefix(client.systems[3], "You are CoachAgent. Mission: Be brief and kind.. ") {
		t.Errorf("coach system prompt = %q", client.systems[3])
	}
}

func TestHistoryDisabled(t *testing.T) {
	a, _ := newTestApp(t, Config{})
	a.cfg.History.Enabled = false

	if _, err := a.ListRuns(5); !errors.Is(err, ErrHistoryDisabled) {
		t.Errorf("ListRuns() error = %v, want ErrHistoryDisabled", err)
	}
	if _, err := a.GetRun("abc"); !errors.Is(err, ErrHistoryDisabled) {
		t.Errorf("GetRun() error = %v, want ErrHistoryDisabled", err)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	a, _ := newTestApp(t, Config{})
	if _, err := a.GetRun("missing"); !errors.Is(err, history.ErrNotFound) {
		t.Errorf("GetRun() error = %v, want history.ErrNotFound", err)
	}
}
