package pipeline

import (
	"time"

	"github.com/gerunddev/quartet/internal/agents"
)

// EventType represents the type of a pipeline event.
type EventType string

const (
	// EventStageStarted is emitted before an agent is called.
	EventStageStarted EventType = "stage_started"
	// EventStageCompleted is emitted when an agent returns output.
	EventStageCompleted EventType = "stage_completed"
	// EventStageFailed is emitted when an agent returns an error. The run
	// stops after this event.
	EventStageFailed EventType = "stage_failed"
	// EventFinished is emitted once all four stages have completed.
	EventFinished EventType = "finished"
)

// Event represents an event emitted by the pipeline.
type Event struct {
	Type      EventType
	Stage     agents.Role
	Agent     string
	Index     int // Zero-based position of Stage in the pipeline
	Total     int
	OutputLen int           // For EventStageCompleted
	Elapsed   time.Duration // Stage time, or whole-run time for EventFinished
	Err       error         // For EventStageFailed
}

// Observer receives pipeline events synchronously, in order.
type Observer func(Event)
