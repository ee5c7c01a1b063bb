// Package pheromone implements the ant-colony-style reinforcement store: it
// accumulates evidence that a given solution pattern, agent combination, or
// tool works for a task type, reinforcing on success and decaying on
// failure or inactivity.
package pheromone

import "time"

// Trail is a pheromone trail for one (task type, solution pattern) pair.
type Trail struct {
	ID              string    `json:"id"`
	TaskType        string    `json:"task_type"`
	SolutionPattern string    `json:"solution_pattern"`
	Strength        float64   `json:"strength"`
	SuccessCount    int       `json:"success_count"`
	FailureCount    int       `json:"failure_count"`
	LastUsed        time.Time `json:"last_used"`
	CreatedAt       time.Time `json:"created_at"`
}

// SuccessRate returns success_count / (success_count + failure_count), or 0
// if the trail has never been used.
func (t *Trail) SuccessRate() float64 {
	total := t.SuccessCount + t.FailureCount
	if total == 0 {
		return 0
	}
	return float64(t.SuccessCount) / float64(total)
}

// Rank is the effective ranking value used to order trails: strength
// weighted by observed success rate.
func (t *Trail) Rank() float64 {
	return t.Strength * t.SuccessRate()
}

// IsExpired reports whether the trail has been idle longer than expiry.
func (t *Trail) IsExpired(expiry time.Duration, now time.Time) bool {
	return now.Sub(t.LastUsed) > expiry
}

// TaskPheromones aggregates all trails known for one task type.
type TaskPheromones struct {
	TaskType            string            `json:"task_type"`
	Trails              map[string]*Trail `json:"trails"` // solution_pattern -> trail
	TotalAttempts       int               `json:"total_attempts"`
	SuccessfulAttempts  int               `json:"successful_attempts"`
}

// OverallSuccessRate returns successful_attempts / total_attempts, or 0 if
// the task type has never been attempted.
func (tp *TaskPheromones) OverallSuccessRate() float64 {
	if tp.TotalAttempts == 0 {
		return 0
	}
	return float64(tp.SuccessfulAttempts) / float64(tp.TotalAttempts)
}

// StrongestTrails returns up to limit trails ordered by Rank() descending,
// breaking ties by most-recent LastUsed.
func (tp *TaskPheromones) StrongestTrails(limit int) []*Trail {
	return rankTrails(tp.Trails, limit)
}

// AgentPheromone is a pheromone trail for an agent-combination string (e.g.
// "CodeAgent+AnalysisAgent").
type AgentPheromone struct {
	AgentCombination string    `json:"agent_combination"`
	TaskTypes        []string  `json:"task_types"`
	Strength         float64   `json:"strength"`
	UsageCount       int       `json:"usage_count"`
	SuccessRate      float64   `json:"success_rate"`
	LastUsed         time.Time `json:"last_used"`
}

// Score is the ranking value used by GetBestAgentCombination.
func (a *AgentPheromone) Score() float64 {
	return a.Strength * a.SuccessRate
}

// HasTaskType reports whether taskType is among the combination's known
// task types.
func (a *AgentPheromone) HasTaskType(taskType string) bool {
	for _, tt := range a.TaskTypes {
		if tt == taskType {
			return true
		}
	}
	return false
}

// toolTrail is the internal representation of a tool pheromone: just enough
// bookkeeping to support evaporation/deletion and statistics, mirroring the
// Trail shape without a full solution-pattern identity.
type toolTrail struct {
	Strength     float64   `json:"strength"`
	SuccessCount int       `json:"success_count"`
	FailureCount int       `json:"failure_count"`
	LastUsed     time.Time `json:"last_used"`
}
