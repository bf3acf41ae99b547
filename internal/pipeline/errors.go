package pipeline

import (
	"fmt"

	"github.com/gerunddev/quartet/internal/agents"
)

// StageError reports which stage aborted a run. Err is the agent's error,
// usually an *llm.RequestError or *llm.ProtocolError.
type StageError struct {
	Stage agents.Role
	Agent string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage (%s) failed: %v", e.Stage, e.Agent, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
