// Package agentfactory implements the evolutionary agent factory: a
// population of agent "DNA" records that reproduce by crossover, mutate,
// and are selected by a fitness function derived from real task outcomes.
package agentfactory

import (
	"time"

	"github.com/google/uuid"
)

// AgentGenes is the heritable, behaviour-shaping configuration of an agent.
type AgentGenes struct {
	AgentType           string             `json:"agent_type"`
	Specialization      []string           `json:"specialization"`
	SuccessRate         float64            `json:"success_rate"`
	SpeedFactor         float64            `json:"speed_factor"`
	QualityFactor       float64            `json:"quality_factor"`
	PreferredTools      []string           `json:"preferred_tools"`
	ToolEfficiency      map[string]float64 `json:"tool_efficiency"`
	LearningRate        float64            `json:"learning_rate"`
	MutationResistance  float64            `json:"mutation_resistance"`
	CollaborationSkill  float64            `json:"collaboration_skill"`
	LeadershipTendency  float64            `json:"leadership_tendency"`
}

// Clone returns a deep copy of the genes, so mutation/crossover never
// aliases a parent's slices or maps.
func (g AgentGenes) Clone() AgentGenes {
	c := g
	c.Specialization = append([]string(nil), g.Specialization...)
	c.PreferredTools = append([]string(nil), g.PreferredTools...)
	c.ToolEfficiency = make(map[string]float64, len(g.ToolEfficiency))
	for k, v := range g.ToolEfficiency {
		c.ToolEfficiency[k] = v
	}
	return c
}

// AgentDNA is one member of the evolving agent population.
type AgentDNA struct {
	AgentID          uuid.UUID   `json:"agent_id"`
	Generation       int         `json:"generation"`
	ParentIDs        []uuid.UUID `json:"parent_ids"`
	BirthTime        time.Time   `json:"birth_time"`
	Genes            AgentGenes  `json:"genes"`
	MutationsCount   int         `json:"mutations_count"`
	CrossoverCount   int         `json:"crossover_count"`
	TasksCompleted   int         `json:"tasks_completed"`
	TotalSuccessRate float64     `json:"total_success_rate"`
	LifeSpan         time.Duration `json:"life_span"`
	Retired          bool        `json:"retired"`
	RetirementReason string      `json:"retirement_reason,omitempty"`
}

// AgeDays returns the agent's age in days as of now.
func (a *AgentDNA) AgeDays(now time.Time) float64 {
	return now.Sub(a.BirthTime).Hours() / 24
}

// EventTag enumerates the kinds of lineage events recorded in history.
type EventTag string

const (
	EventBirth       EventTag = "birth"
	EventMutation    EventTag = "mutation"
	EventCrossover   EventTag = "crossover"
	EventLearning    EventTag = "learning"
	EventRetirement  EventTag = "retirement"
	EventReplacement EventTag = "replacement"
)

// EvolutionEvent records one occurrence in the population's lineage.
type EvolutionEvent struct {
	Tag             EventTag    `json:"tag"`
	Timestamp       time.Time   `json:"timestamp"`
	AgentID         uuid.UUID   `json:"agent_id"`
	ParentIDs       []uuid.UUID `json:"parent_ids,omitempty"`
	MutationDetails []string    `json:"mutation_details,omitempty"`
	SelectionReason string      `json:"selection_reason,omitempty"`
	FitnessBefore   float64     `json:"fitness_before"`
	FitnessAfter    float64     `json:"fitness_after"`
}
