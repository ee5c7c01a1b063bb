// Package promptengine implements the prompt evolution engine: a
// population of prompt "DNA" records whose text and parameters mutate,
// cross over, and are selected by per-prompt performance statistics.
package promptengine

import (
	"time"

	"github.com/google/uuid"
)

// Tone is a closed enumeration of prompt tones.
type Tone string

// Verbosity is a closed enumeration of prompt verbosity levels.
type Verbosity string

// Creativity is a closed enumeration of prompt creativity levels.
type Creativity string

const (
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
	ToneTechnical    Tone = "technical"
	ToneCreative     Tone = "creative"
	ToneFormal       Tone = "formal"
)

const (
	VerbosityBrief         Verbosity = "brief"
	VerbosityMedium        Verbosity = "medium"
	VerbosityDetailed      Verbosity = "detailed"
	VerbosityComprehensive Verbosity = "comprehensive"
)

const (
	CreativityConservative Creativity = "conservative"
	CreativityBalanced     Creativity = "balanced"
	CreativityCreative     Creativity = "creative"
	CreativityInnovative   Creativity = "innovative"
)

var allTones = []Tone{ToneProfessional, ToneFriendly, ToneTechnical, ToneCreative, ToneFormal}
var allVerbosities = []Verbosity{VerbosityBrief, VerbosityMedium, VerbosityDetailed, VerbosityComprehensive}
var allCreativities = []Creativity{CreativityConservative, CreativityBalanced, CreativityCreative, CreativityInnovative}

// PromptGenes is the heritable content and style of a prompt.
type PromptGenes struct {
	RoleDefinition     string     `json:"role_definition"`
	TaskInstructions   string     `json:"task_instructions"`
	OutputFormat       string     `json:"output_format"`
	Constraints        []string   `json:"constraints"`
	Tone               Tone       `json:"tone"`
	Verbosity          Verbosity  `json:"verbosity"`
	Creativity         Creativity `json:"creativity"`
	Examples           []string   `json:"examples"`
	ErrorHandling      string     `json:"error_handling"`
	QualityCriteria    []string   `json:"quality_criteria"`
	ContextAwareness   float64    `json:"context_awareness"`
	UserAdaptation     float64    `json:"user_adaptation"`
	TaskSpecialization float64    `json:"task_specialization"`
}

// Clone returns a deep copy of the genes.
func (g PromptGenes) Clone() PromptGenes {
	c := g
	c.Constraints = append([]string(nil), g.Constraints...)
	c.Examples = append([]string(nil), g.Examples...)
	c.QualityCriteria = append([]string(nil), g.QualityCriteria...)
	return c
}

// PromptDNA is one member of the evolving prompt population.
type PromptDNA struct {
	PromptID        uuid.UUID   `json:"prompt_id"`
	AgentType       string      `json:"agent_type"`
	Generation      int         `json:"generation"`
	ParentIDs       []uuid.UUID `json:"parent_ids"`
	BirthTime       time.Time   `json:"birth_time"`
	Genes           PromptGenes `json:"genes"`
	UsageCount      int         `json:"usage_count"`
	SuccessRate     float64     `json:"success_rate"`
	AvgQualityScore float64     `json:"avg_quality_score"`
	AvgExecutionTime float64    `json:"avg_execution_time"`
	MutationsCount  int         `json:"mutations_count"`
	CrossoverCount  int         `json:"crossover_count"`
}

// AgeDays returns the prompt's age in days as of now.
func (p *PromptDNA) AgeDays(now time.Time) float64 {
	return now.Sub(p.BirthTime).Hours() / 24
}

// PromptPerformance records the outcome of one task executed with a prompt.
type PromptPerformance struct {
	PromptID        uuid.UUID `json:"prompt_id"`
	TaskType        string    `json:"task_type"`
	Success         bool      `json:"success"`
	QualityScore    float64   `json:"quality_score"`
	ExecutionTime   float64   `json:"execution_time"`
	Timestamp       time.Time `json:"timestamp"`
	UserFeedback    string    `json:"user_feedback,omitempty"`
	ErrorDetails    string    `json:"error_details,omitempty"`
	OutputLength    int       `json:"output_length,omitempty"`
	ContextRelevance float64  `json:"context_relevance,omitempty"`
}
