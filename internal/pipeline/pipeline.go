// Package pipeline runs the planner, coder, reviewer and coach agents in
// sequence, feeding each one the outputs of the stages before it.
package pipeline

import (
	"context"
	"time"

	"github.com/gerunddev/quartet/internal/agents"
	"github.com/gerunddev/quartet/internal/llm"
	"github.com/gerunddev/quartet/internal/log"
	"github.com/gerunddev/quartet/internal/profile"
)

// Option configures an Assistant.
type Option func(*options)

type options struct {
	missions map[agents.Role]string
	observer Observer
}

// WithMissions replaces the built-in mission of each role present in m.
// Empty values keep the built-in mission.
func WithMissions(m map[agents.Role]string) Option {
	return func(o *options) {
		for role, mission := range m {
			o.missions[role] = mission
		}
	}
}

// WithObserver registers fn to receive stage events.
func WithObserver(fn Observer) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// Assistant owns the four agents of a run. All of them share one client.
type Assistant struct {
	client   llm.Client
	stages   []*agents.Agent
	roles    []agents.Role
	observer Observer
}

// New builds an Assistant whose agents all talk to client.
func New(client llm.Client, opts ...Option) *Assistant {
	o := options{missions: make(map[agents.Role]string)}
	for _, opt := range opts {
		opt(&o)
	}

	a := &Assistant{
		client:   client,
		roles:    agents.Roles(),
		observer: o.observer,
	}
	for _, role := range a.roles {
		agent, err := agents.NewForRole(role, o.missions[role], client)
		if err != nil {
			// agents.Roles only lists roles that have definitions.
			panic(err)
		}
		a.stages = append(a.stages, agent)
	}
	return a
}

// Backend returns the name of the model client the agents use.
func (a *Assistant) Backend() string {
	return a.client.Name()
}

// Agents returns the agents in pipeline order.
func (a *Assistant) Agents() []*agents.Agent {
	out := make([]*agents.Agent, len(a.stages))
	copy(out, a.stages)
	return out
}

// Run executes planner, coder, reviewer and coach once each, in that order.
// The first failure aborts the run with a *StageError and a zero Result.
// Cancellation of ctx between stages aborts with ctx.Err().
func (a *Assistant) Run(ctx context.Context, p profile.UserProfile, task string) (Result, error) {
	start := time.Now()
	total := len(a.stages)
	var res Result

	for i, agent := range a.stages {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		role := a.roles[i]
		a.emit(Event{Type: EventStageStarted, Stage: role, Agent: agent.Name, Index: i, Total: total})
		log.Debug("stage started", "stage", role, "agent", agent.Name)

		stageStart := time.Now()
		out, err := agent.Run(ctx, p, task, contextFor(role, res))
		elapsed := time.Since(stageStart)
		if err != nil {
			stageErr := &StageError{Stage: role, Agent: agent.Name, Err: err}
			a.emit(Event{Type: EventStageFailed, Stage: role, Agent: agent.Name, Index: i, Total: total, Elapsed: elapsed, Err: stageErr})
			log.Debug("stage failed", "stage", role, "error", err)
			return Result{}, stageErr
		}

		res.set(role, out)
		a.emit(Event{Type: EventStageCompleted, Stage: role, Agent: agent.Name, Index: i, Total: total, OutputLen: len(out), Elapsed: elapsed})
		log.Debug("stage finished", "stage", role, "elapsed", elapsed, "output_len", len(out))
	}

	a.emit(Event{Type: EventFinished, Index: total - 1, Total: total, Elapsed: time.Since(start)})
	return res, nil
}

func (a *Assistant) emit(ev Event) {
	if a.observer != nil {
		a.observer(ev)
	}
}
