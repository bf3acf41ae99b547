// Package agents provides the prompt-building agents that make up the
// quartet pipeline.
package agents

import (
	"context"

	"github.com/gerunddev/quartet/internal/llm"
	"github.com/gerunddev/quartet/internal/profile"
)

// Agent is a named, mission-bound prompt builder. All four pipeline roles
// are instances of this type that differ only in Name and Mission.
// The client is shared with the other agents of a run and not owned.
type Agent struct {
	Name    string
	Mission string
	client  llm.Client
}

// New creates an agent with an explicit name and mission.
func New(name, mission string, client llm.Client) *Agent {
	return &Agent{Name: name, Mission: mission, client: client}
}

// NewForRole creates an agent from the built-in definition of role.
// A non-empty mission replaces the built-in one.
func NewForRole(role Role, mission string, client llm.Client) (*Agent, error) {
	def, err := DefinitionFor(role)
	if err != nil {
		return nil, err
	}
	if mission != "" {
		def.Mission = mission
	}
	return New(def.Name, def.Mission, client), nil
}

// SystemPrompt renders the system instruction for this agent.
func (a *Agent) SystemPrompt() (string, error) {
	return executeTemplate(systemTemplate, systemPromptData{
		Name:    a.Name,
		Mission: a.Mission,
	})
}

// UserPrompt renders the user instruction: the profile block, the task, and
// the prior context (EmptyContextMarker when priorContext is empty).
func (a *Agent) UserPrompt(p profile.UserProfile, task, priorContext string) (string, error) {
	return executeTemplate(userTemplate, userPromptData{
		ProfileBlock: p.PromptBlock(),
		Task:         task,
		Context:      priorContext,
	})
}

// Run builds both prompts and delegates them to the model client, returning
// its response unchanged.
func (a *Agent) Run(ctx context.Context, p profile.UserProfile, task, priorContext string) (string, error) {
	system, err := a.SystemPrompt()
	if err != nil {
		return "", err
	}
	user, err := a.UserPrompt(p, task, priorContext)
	if err != nil {
		return "", err
	}
	return a.client.Generate(ctx, system, user)
}
