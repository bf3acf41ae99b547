// Package tui provides the Bubble Tea progress view for a pipeline run.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/quartet/internal/agents"
	"github.com/gerunddev/quartet/internal/log"
	"github.com/gerunddev/quartet/internal/pipeline"
	"github.com/gerunddev/quartet/internal/report"
)

// Runner executes one pipeline run, reporting progress to observe.
type Runner func(ctx context.Context, observe pipeline.Observer) (pipeline.Result, error)

// EventMsg wraps a pipeline event for Bubble Tea.
type EventMsg struct {
	Event pipeline.Event
}

// DoneMsg carries the outcome of the run.
type DoneMsg struct {
	Result pipeline.Result
	Err    error
}

type stageStatus int

const (
	stagePending stageStatus = iota
	stageRunning
	stageDone
	stageFailed
)

type stageState struct {
	role      agents.Role
	agent     string
	status    stageStatus
	elapsed   time.Duration
	outputLen int
}

// Model is the Bubble Tea model for the run progress view.
type Model struct {
	header  Header
	spinner spinner.Model
	panel   *ResultPanel
	keys    KeyMap

	events <-chan pipeline.Event
	done   <-chan DoneMsg

	stages   []stageState
	result   pipeline.Result
	finished bool
	err      error
	quitting bool

	initialized bool
	startTime   time.Time
	elapsed     time.Duration

	width  int
	height int
}

// NewModel creates a model that reads progress from events and the final
// outcome from done. done must be written before events is closed.
func NewModel(events <-chan pipeline.Event, done <-chan DoneMsg) Model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(colorBusy)

	var stages []stageState
	for _, role := range agents.Roles() {
		st := stageState{role: role, agent: string(role)}
		if def, err := agents.DefinitionFor(role); err == nil {
			st.agent = def.Name
		}
		stages = append(stages, st)
	}

	keys := DefaultKeyMap()
	panel := NewResultPanel("Result")
	header := NewHeader(keys)
	header.SetStage(0, len(stages))

	return Model{
		header:    header,
		spinner:   s,
		panel:     &panel,
		keys:      keys,
		events:    events,
		done:      done,
		stages:    stages,
		startTime: time.Now(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvents())
}

// listenForEvents returns a command that waits for the next pipeline event,
// or for the outcome once the event channel is closed.
func (m Model) listenForEvents() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-m.events
		if !ok {
			if m.done == nil {
				return DoneMsg{}
			}
			return <-m.done
		}
		return EventMsg{Event: event}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.header.ToggleHelp()
			m.updateLayout()
			return m, nil
		}
		return m.handleScroll(msg), nil

	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case EventMsg:
		m.handleEvent(msg.Event)
		return m, m.listenForEvents()

	case DoneMsg:
		m.finish(msg)
		return m, nil
	}

	return m, nil
}

func (m Model) handleScroll(msg tea.KeyMsg) Model {
	if !m.finished {
		return m
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		m.panel.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		m.panel.ScrollDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.panel.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.panel.PageDown()
	}
	return m
}

// handleEvent applies a pipeline event to the stage list.
func (m *Model) handleEvent(ev pipeline.Event) {
	if ev.Type == pipeline.EventFinished {
		m.elapsed = ev.Elapsed
		return
	}
	if ev.Index < 0 || ev.Index >= len(m.stages) {
		return
	}

	st := &m.stages[ev.Index]
	if ev.Agent != "" {
		st.agent = ev.Agent
	}

	switch ev.Type {
	case pipeline.EventStageStarted:
		st.status = stageRunning
		m.header.SetStage(ev.Index+1, len(m.stages))
		m.header.SetStatus("Running")
	case pipeline.EventStageCompleted:
		st.status = stageDone
		st.elapsed = ev.Elapsed
		st.outputLen = ev.OutputLen
	case pipeline.EventStageFailed:
		st.status = stageFailed
		st.elapsed = ev.Elapsed
	}
}

// finish records the outcome and fills the result panel.
func (m *Model) finish(msg DoneMsg) {
	m.finished = true
	m.result = msg.Result
	m.err = msg.Err
	if m.elapsed == 0 {
		m.elapsed = time.Since(m.startTime)
	}

	if msg.Err != nil {
		m.header.SetStatus("Failed")
		m.panel.Title = "Error"
		m.panel.SetContent(msg.Err.Error())
		return
	}

	m.header.SetStatus("Completed")
	var b strings.Builder
	if err := report.WriteText(&b, msg.Result); err != nil {
		m.panel.SetContent(err.Error())
		return
	}
	m.panel.SetContent(strings.TrimPrefix(b.String(), "\n"))
}

// updateLayout updates component sizes based on window size.
func (m *Model) updateLayout() {
	m.header.SetWidth(m.width)

	// Header, one line per stage, and a blank line
	reserved := lipgloss.Height(m.header.View(m.stages)) + len(m.stages) + 1
	available := m.height - reserved
	if available < 5 {
		available = 5
	}
	m.panel.SetSize(m.width, available)
	m.panel.Focused = true
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.initialized {
		return "Initializing..."
	}

	var s strings.Builder
	s.WriteString(m.header.View(m.stages))
	s.WriteString("\n")
	for _, st := range m.stages {
		s.WriteString(m.renderStage(st))
		s.WriteString("\n")
	}

	if m.finished {
		s.WriteString("\n")
		if m.err != nil {
			s.WriteString(errorStyle.Render("✗ Run failed"))
			s.WriteString("\n")
		}
		s.WriteString(m.panel.View())
	}

	return lipgloss.NewStyle().MaxWidth(m.width).Render(s.String())
}

func (m Model) renderStage(st stageState) string {
	row := stageRowStyle.BorderForeground(accentFor(st.role))
	name := lipgloss.NewStyle().Width(stageNameWidth).Foreground(accentFor(st.role)).Render(st.agent)

	var mark, detail string
	switch st.status {
	case stageRunning:
		mark, detail = m.spinner.View(), mutedStyle.Render("working...")
	case stageDone:
		mark = lipgloss.NewStyle().Foreground(colorOK).Render("✓")
		detail = mutedStyle.Render(fmt.Sprintf("%s, %d chars", formatDuration(st.elapsed), st.outputLen))
	case stageFailed:
		mark, detail = errorStyle.Render("✕"), errorStyle.Render("failed")
	default:
		row = row.BorderForeground(colorSurface)
		mark = mutedStyle.Render("·")
		name = mutedStyle.Width(stageNameWidth).Render(st.agent)
	}

	line := mark + " " + name
	if detail != "" {
		line += " " + detail
	}
	return row.Render(line)
}

// Finished reports whether the run's outcome has arrived.
func (m Model) Finished() bool {
	return m.finished
}

// Outcome returns the result and error of the run.
func (m Model) Outcome() (pipeline.Result, error) {
	return m.result, m.err
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dm %ds", mins, secs)
}

func fmtPercent(f float64) string {
	return fmt.Sprintf("%3.0f%%", f*100)
}

// eventBuffer holds every event of one run, so the pipeline never blocks
// on a view that has stopped reading.
const eventBuffer = 16

// Start launches runner in a goroutine. Progress events arrive on the first
// channel; the outcome is sent on the second before the first is closed.
func Start(ctx context.Context, runner Runner) (<-chan pipeline.Event, <-chan DoneMsg) {
	events := make(chan pipeline.Event, eventBuffer)
	done := make(chan DoneMsg, 1)

	go func() {
		defer close(events)
		res, err := runner(ctx, func(ev pipeline.Event) {
			select {
			case events <- ev:
			default:
				log.Debug("dropping pipeline event", "type", ev.Type)
			}
		})
		done <- DoneMsg{Result: res, Err: err}
	}()

	return events, done
}

// Run shows the progress view while runner executes and returns its
// outcome once the user quits. Quitting before the run finishes cancels
// it and returns context.Canceled.
func Run(ctx context.Context, runner Runner) (pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Log lines would tear the alt-screen view.
	log.SetOutput(io.Discard)
	defer log.SetOutput(os.Stderr)

	events, done := Start(ctx, runner)
	p := tea.NewProgram(NewModel(events, done), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("progress view failed: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return pipeline.Result{}, fmt.Errorf("unexpected model type %T", final)
	}
	if !m.Finished() {
		return pipeline.Result{}, context.Canceled
	}
	return m.Outcome()
}
