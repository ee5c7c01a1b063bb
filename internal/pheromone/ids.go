package pheromone

import (
	"fmt"
	"time"
)

// trailID stamps a trail as task_type/solution_pattern/unix_seconds, using
// "/" separators since Go trail IDs are only ever logged or surfaced in
// statistics, never parsed back apart.
func trailID(taskType, solutionPattern string, now time.Time) string {
	return fmt.Sprintf("%s/%s/%d", taskType, solutionPattern, now.Unix())
}
