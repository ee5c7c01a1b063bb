package pheromone

import (
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kittycore/core/internal/config"
	"github.com/kittycore/core/pkg/logger"
)

// Store is the pheromone memory system. It exclusively owns every trail it
// tracks; callers only ever receive copies.
type Store struct {
	logger *logrus.Entry
	cfg    config.PheromoneConfig
	mu     sync.RWMutex

	taskPheromones  map[string]*TaskPheromones      // task_type -> trails
	agentPheromones map[string]*AgentPheromone      // combination -> pheromone
	toolPheromones  map[string]map[string]*toolTrail // task_type -> tool -> trail

	now func() time.Time
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithClock overrides the Store's time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty pheromone Store.
func New(cfg config.PheromoneConfig, log *logrus.Logger, opts ...Option) *Store {
	s := &Store{
		logger:          logger.WithComponent(log, "pheromone"),
		cfg:             cfg,
		taskPheromones:  make(map[string]*TaskPheromones),
		agentPheromones: make(map[string]*AgentPheromone),
		toolPheromones:  make(map[string]map[string]*toolTrail),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordSolutionSuccess updates the task-pattern trail, the agent-combination
// trail, and every tool trail in toolsUsed, atomically from an observer's
// perspective. It creates trails on first use.
func (s *Store) RecordSolutionSuccess(taskType, solutionPattern, agentCombination string, toolsUsed []string, success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.updateTaskPheromone(taskType, solutionPattern, success, now)
	s.updateAgentPheromone(agentCombination, taskType, success, now)
	s.updateToolPheromones(taskType, toolsUsed, success, now)

	s.logger.WithFields(logrus.Fields{
		"task_type":        taskType,
		"solution_pattern": solutionPattern,
		"agent_combo":      agentCombination,
		"tools":            toolsUsed,
		"success":          success,
	}).Info("recorded pheromone trail")
}

func (s *Store) updateTaskPheromone(taskType, solutionPattern string, success bool, now time.Time) {
	tp, ok := s.taskPheromones[taskType]
	if !ok {
		tp = &TaskPheromones{TaskType: taskType, Trails: make(map[string]*Trail)}
		s.taskPheromones[taskType] = tp
	}

	tp.TotalAttempts++
	if success {
		tp.SuccessfulAttempts++
	}

	trail, ok := tp.Trails[solutionPattern]
	if !ok {
		trail = &Trail{
			ID:              trailID(taskType, solutionPattern, now),
			TaskType:        taskType,
			SolutionPattern: solutionPattern,
			Strength:        s.cfg.InitialStrength,
			LastUsed:        now,
			CreatedAt:       now,
		}
		tp.Trails[solutionPattern] = trail
	}

	trail.LastUsed = now
	if success {
		trail.SuccessCount++
		trail.Strength = clamp01Min(trail.Strength*s.cfg.ReinforcementFactor, s.cfg.MinStrength)
	} else {
		trail.FailureCount++
		trail.Strength = clamp01Min(trail.Strength*(1-s.cfg.EvaporationRate), s.cfg.MinStrength)
	}
}

func (s *Store) updateAgentPheromone(agentCombination, taskType string, success bool, now time.Time) {
	ap, ok := s.agentPheromones[agentCombination]
	if !ok {
		ap = &AgentPheromone{
			AgentCombination: agentCombination,
			TaskTypes:        []string{taskType},
			Strength:         s.cfg.InitialStrength,
			UsageCount:       0,
			LastUsed:         now,
		}
		s.agentPheromones[agentCombination] = ap
	}

	ap.UsageCount++
	ap.LastUsed = now
	if !ap.HasTaskType(taskType) {
		ap.TaskTypes = append(ap.TaskTypes, taskType)
	}

	if success {
		ap.SuccessRate = (ap.SuccessRate*float64(ap.UsageCount-1) + 1.0) / float64(ap.UsageCount)
		ap.Strength = clamp01Min(ap.Strength*s.cfg.ReinforcementFactor, s.cfg.MinStrength)
	} else {
		ap.SuccessRate = (ap.SuccessRate * float64(ap.UsageCount-1)) / float64(ap.UsageCount)
		ap.Strength = clamp01Min(ap.Strength*(1-s.cfg.EvaporationRate), s.cfg.MinStrength)
	}
}

func (s *Store) updateToolPheromones(taskType string, tools []string, success bool, now time.Time) {
	byTool, ok := s.toolPheromones[taskType]
	if !ok {
		byTool = make(map[string]*toolTrail)
		s.toolPheromones[taskType] = byTool
	}

	for _, tool := range tools {
		tt, ok := byTool[tool]
		if !ok {
			tt = &toolTrail{Strength: s.cfg.InitialStrength}
			byTool[tool] = tt
		}
		tt.LastUsed = now
		if success {
			tt.SuccessCount++
			tt.Strength = clamp01Min(tt.Strength*s.cfg.ReinforcementFactor, s.cfg.MinStrength)
		} else {
			tt.FailureCount++
			tt.Strength = clamp01Min(tt.Strength*(1-s.cfg.EvaporationRate), s.cfg.MinStrength)
		}
	}
}

// TaskConfidence returns the attempt count and overall success rate backing
// Core.Recommend's confidence formula, and whether taskType has been seen
// at all.
func (s *Store) TaskConfidence(taskType string) (attempts int, successRate float64, known bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tp, ok := s.taskPheromones[taskType]
	if !ok {
		return 0, 0, false
	}
	return tp.TotalAttempts, tp.OverallSuccessRate(), true
}

// GetBestSolutionPatterns returns up to limit solution patterns for taskType
// ordered by Rank() descending. Returns an empty slice for an unknown task
// type.
func (s *Store) GetBestSolutionPatterns(taskType string, limit int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tp, ok := s.taskPheromones[taskType]
	if !ok {
		return []string{}
	}

	trails := tp.StrongestTrails(limit)
	patterns := make([]string, 0, len(trails))
	for _, t := range trails {
		patterns = append(patterns, t.SolutionPattern)
	}
	return patterns
}

// GetBestAgentCombination returns the agent combination with the highest
// Score() among those that have handled taskType, or "" if none match.
func (s *Store) GetBestAgentCombination(taskType string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *AgentPheromone
	for _, ap := range s.agentPheromones {
		if !ap.HasTaskType(taskType) {
			continue
		}
		if best == nil || ap.Score() > best.Score() ||
			(ap.Score() == best.Score() && ap.LastUsed.After(best.LastUsed)) {
			best = ap
		}
	}
	if best == nil {
		return "", false
	}
	return best.AgentCombination, true
}

// GetBestTools returns up to limit tool names for taskType ordered by raw
// pheromone strength descending.
func (s *Store) GetBestTools(taskType string, limit int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byTool, ok := s.toolPheromones[taskType]
	if !ok {
		return []string{}
	}

	type scored struct {
		name     string
		strength float64
	}
	ordered := make([]scored, 0, len(byTool))
	for name, t := range byTool {
		ordered = append(ordered, scored{name, t.Strength})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].strength != ordered[j].strength {
			return ordered[i].strength > ordered[j].strength
		}
		return ordered[i].name < ordered[j].name
	})

	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}
	tools := make([]string, 0, len(ordered))
	for _, sc := range ordered {
		tools = append(tools, sc.name)
	}
	return tools
}

// EvaporatePheromones applies one uniform decay pass to every trail,
// deleting trails that fall below min strength or that have been idle
// longer than expiry. Idempotent: N calls with no intervening activity
// multiply every surviving trail's strength by (1-evaporation_rate)^N.
func (s *Store) EvaporatePheromones() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	expiry := s.cfg.ExpiryDuration()
	removed := 0

	for _, tp := range s.taskPheromones {
		for pattern, trail := range tp.Trails {
			trail.Strength *= (1 - s.cfg.EvaporationRate)
			if trail.Strength < s.cfg.MinStrength || trail.IsExpired(expiry, now) {
				delete(tp.Trails, pattern)
				removed++
			}
		}
	}

	for combo, ap := range s.agentPheromones {
		ap.Strength *= (1 - s.cfg.EvaporationRate)
		if ap.Strength < s.cfg.MinStrength || now.Sub(ap.LastUsed) > expiry {
			delete(s.agentPheromones, combo)
			removed++
		}
	}

	for taskType, byTool := range s.toolPheromones {
		for tool, tt := range byTool {
			tt.Strength *= (1 - s.cfg.EvaporationRate)
			if tt.Strength < s.cfg.MinStrength || now.Sub(tt.LastUsed) > expiry {
				delete(byTool, tool)
				removed++
			}
		}
		if len(byTool) == 0 {
			delete(s.toolPheromones, taskType)
		}
	}

	if removed > 0 {
		s.logger.WithField("evaporated", removed).Info("evaporated weak pheromone trails")
	}
}

func clamp01Min(v, min float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	if v < min {
		return min
	}
	return v
}
