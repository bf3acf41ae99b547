package agents

import "fmt"

// Role identifies one of the four pipeline agents.
type Role string

const (
	RolePlanner  Role = "planner"
	RoleCoder    Role = "coder"
	RoleReviewer Role = "reviewer"
	RoleCoach    Role = "coach"
)

// Definition is the data that distinguishes one agent from another.
type Definition struct {
	Name    string
	Mission string
}

// definitions holds the built-in agent names and missions.
var definitions = map[Role]Definition{
	RolePlanner: {
		Name:    "PlannerAgent",
		Mission: "Create a clear implementation plan with milestones and tests.",
	},
	RoleCoder: {
		Name:    "CoderAgent",
		Mission: "Produce a high-quality implementation draft based on the plan.",
	},
	RoleReviewer: {
		Name:    "ReviewerAgent",
		Mission: "Review for correctness, security, and maintainability. Suggest improvements.",
	},
	RoleCoach: {
		Name:    "CoachAgent",
		Mission: "Explain next steps and learning points in the user's preferred tone.",
	},
}

// Roles returns the roles in pipeline order.
func Roles() []Role {
	return []Role{RolePlanner, RoleCoder, RoleReviewer, RoleCoach}
}

// DefinitionFor returns the built-in definition for role.
func DefinitionFor(role Role) (Definition, error) {
	def, ok := definitions[role]
	if !ok {
		return Definition{}, fmt.Errorf("unknown agent role: %s", role)
	}
	return def, nil
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}
