package pheromone

import "sort"

// TrailSummary is a read-only snapshot of one trail, as surfaced in
// Statistics.StrongestTrails.
type TrailSummary struct {
	TaskType        string  `json:"task_type"`
	SolutionPattern string  `json:"solution_pattern"`
	Strength        float64 `json:"strength"`
	SuccessRate     float64 `json:"success_rate"`
	UsageCount      int     `json:"usage_count"`
}

// AgentSummary is a read-only snapshot of one agent-combination pheromone,
// as surfaced in Statistics.BestAgents.
type AgentSummary struct {
	Combination string   `json:"combination"`
	Strength    float64  `json:"strength"`
	SuccessRate float64  `json:"success_rate"`
	UsageCount  int      `json:"usage_count"`
	TaskTypes   []string `json:"task_types"`
}

// Statistics is the diagnostics payload returned by GetStatistics.
type Statistics struct {
	TaskTypes        int            `json:"task_types"`
	AgentCombinations int           `json:"agent_combinations"`
	TotalTrails      int            `json:"total_trails"`
	StrongestTrails  []TrailSummary `json:"strongest_trails"`
	BestAgents       []AgentSummary `json:"best_agents"`
	SystemHealth     float64        `json:"system_health"`
}

// GetStatistics returns aggregated diagnostics over the whole store.
func (s *Store) GetStatistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var allTrails []*Trail
	for _, tp := range s.taskPheromones {
		for _, t := range tp.Trails {
			allTrails = append(allTrails, t)
		}
	}

	sort.Slice(allTrails, func(i, j int) bool {
		if allTrails[i].Rank() != allTrails[j].Rank() {
			return allTrails[i].Rank() > allTrails[j].Rank()
		}
		return allTrails[i].ID < allTrails[j].ID
	})

	strongest := make([]TrailSummary, 0, 5)
	for i, t := range allTrails {
		if i >= 5 {
			break
		}
		strongest = append(strongest, TrailSummary{
			TaskType:        t.TaskType,
			SolutionPattern: t.SolutionPattern,
			Strength:        t.Strength,
			SuccessRate:     t.SuccessRate(),
			UsageCount:      t.SuccessCount + t.FailureCount,
		})
	}

	agents := make([]*AgentPheromone, 0, len(s.agentPheromones))
	for _, ap := range s.agentPheromones {
		agents = append(agents, ap)
	}
	sort.Slice(agents, func(i, j int) bool {
		if agents[i].Score() != agents[j].Score() {
			return agents[i].Score() > agents[j].Score()
		}
		return agents[i].AgentCombination < agents[j].AgentCombination
	})

	bestAgents := make([]AgentSummary, 0, 5)
	for i, ap := range agents {
		if i >= 5 {
			break
		}
		bestAgents = append(bestAgents, AgentSummary{
			Combination: ap.AgentCombination,
			Strength:    ap.Strength,
			SuccessRate: ap.SuccessRate,
			UsageCount:  ap.UsageCount,
			TaskTypes:   append([]string(nil), ap.TaskTypes...),
		})
	}

	total := len(allTrails)
	health := 0.0
	if total > 0 {
		sum := 0.0
		for _, t := range allTrails {
			sum += t.Strength
		}
		avgStrength := sum / float64(total)
		health = avgStrength * (float64(total) / 10.0)
		if health > 1.0 {
			health = 1.0
		}
	}

	return Statistics{
		TaskTypes:         len(s.taskPheromones),
		AgentCombinations: len(s.agentPheromones),
		TotalTrails:       total,
		StrongestTrails:   strongest,
		BestAgents:        bestAgents,
		SystemHealth:      health,
	}
}
