package pipeline

import "github.com/gerunddev/quartet/internal/agents"

// Result holds the four stage outputs of a completed run.
type Result struct {
	Plan           string `json:"plan" yaml:"plan"`
	Implementation string `json:"implementation" yaml:"implementation"`
	Review         string `json:"review" yaml:"review"`
	Coaching       string `json:"coaching" yaml:"coaching"`
}

// Output returns the text produced by the given stage.
func (r Result) Output(role agents.Role) string {
	switch role {
	case agents.RolePlanner:
		return r.Plan
	case agents.RoleCoder:
		return r.Implementation
	case agents.RoleReviewer:
		return r.Review
	case agents.RoleCoach:
		return r.Coaching
	}
	return ""
}

func (r *Result) set(role agents.Role, output string) {
	switch role {
	case agents.RolePlanner:
		r.Plan = output
	case agents.RoleCoder:
		r.Implementation = output
	case agents.RoleReviewer:
		r.Review = output
	case agents.RoleCoach:
		r.Coaching = output
	}
}

// contextFor builds the prior-context text handed to a stage from the
// outputs of the stages before it.
func contextFor(role agents.Role, r Result) string {
	switch role {
	case agents.RoleCoder:
		return r.Plan
	case agents.RoleReviewer:
		return "PLAN:\n" + r.Plan + "\n\nCODE:\n" + r.Implementation
	case agents.RoleCoach:
		return "PLAN:\n" + r.Plan +
			"\n\nIMPLEMENTATION:\n" + r.Implementation +
			"\n\nREVIEW:\n" + r.Review
	}
	return ""
}
