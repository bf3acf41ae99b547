package history

import (
	"time"

	"github.com/gerunddev/quartet/internal/pipeline"
)

// Run is one completed pipeline run. Failed runs are never stored.
type Run struct {
	ID          string          `json:"id" yaml:"id"`
	Task        string          `json:"task" yaml:"task"`
	ProfileName string          `json:"profile_name" yaml:"profile_name"`
	Backend     string          `json:"backend" yaml:"backend"`
	Result      pipeline.Result `json:"result" yaml:"result"`
	CreatedAt   time.Time       `json:"created_at" yaml:"created_at"`
}

// ShortID returns the first eight characters of the run ID, enough to pass
// to Get in most histories.
func (r *Run) ShortID() string {
	if len(r.ID) <= 8 {
		return r.ID
	}
	return r.ID[:8]
}
