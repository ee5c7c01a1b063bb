// Package kittycore is the facade over the three evolutionary subsystems
// (pheromone memory, agent factory, prompt engine): it is the only surface
// the surrounding orchestrator talks to.
package kittycore

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kittycore/core/internal/agentfactory"
	"github.com/kittycore/core/internal/config"
	"github.com/kittycore/core/internal/pheromone"
	"github.com/kittycore/core/internal/promptengine"
	"github.com/kittycore/core/pkg/logger"
)

// Core wires the pheromone store, agent factory, and prompt engine behind
// the single external interface the orchestrator holds. It replaces
// module-level singletons with explicit construction and dependency
// injection — lifecycle is process-lifetime with explicit Save/Close.
type Core struct {
	logger *logrus.Entry
	cfg    *config.Config

	pheromones *pheromone.Store
	agents     *agentfactory.Factory
	prompts    *promptengine.Engine
}

// Recommendation is the payload returned by Recommend.
type Recommendation struct {
	Patterns   []string `json:"patterns"`
	AgentCombo string   `json:"agent_combo"`
	Tools      []string `json:"tools"`
	Confidence float64  `json:"confidence"`
}

// New builds a Core over fresh, empty component state. Callers wanting
// persisted state should follow New with Load.
func New(cfg *config.Config, log *logrus.Logger) *Core {
	return &Core{
		logger:     logger.WithComponent(log, "kittycore"),
		cfg:        cfg,
		pheromones: pheromone.New(cfg.Pheromone, log),
		agents:     agentfactory.New(cfg.Agents, log),
		prompts:    promptengine.New(cfg.Prompts, log),
	}
}

// Recommend answers "best approach for task-type T?" from the pheromone
// store.
func (c *Core) Recommend(taskType string) Recommendation {
	patterns := c.pheromones.GetBestSolutionPatterns(taskType, 5)
	combo, _ := c.pheromones.GetBestAgentCombination(taskType)
	tools := c.pheromones.GetBestTools(taskType, 6)

	attempts, successRate, known := c.pheromones.TaskConfidence(taskType)
	confidence := 0.0
	if known {
		attemptsComponent := float64(attempts) / 10
		if attemptsComponent > 1 {
			attemptsComponent = 1
		}
		confidence = (attemptsComponent + successRate) / 2
	}

	return Recommendation{
		Patterns:   patterns,
		AgentCombo: combo,
		Tools:      tools,
		Confidence: confidence,
	}
}

// SpawnAgent delegates to the evolutionary agent factory.
func (c *Core) SpawnAgent(agentType string, specialization []string) *agentfactory.AgentDNA {
	return c.agents.SpawnAgent(agentType, specialization)
}

// GetBestPrompt delegates to the prompt evolution engine.
func (c *Core) GetBestPrompt(agentType, taskType string) *promptengine.PromptDNA {
	return c.prompts.GetBestPrompt(agentType, taskType)
}

// RenderPrompt renders a PromptDNA to text.
func (c *Core) RenderPrompt(dna *promptengine.PromptDNA) string {
	return promptengine.RenderPrompt(dna)
}

// RecordInput carries the feedback an orchestrator reports after executing
// a task, to be fanned out across all three components.
type RecordInput struct {
	TaskType   string
	Pattern    string
	AgentCombo string
	Tools      []string
	AgentID    uuid.UUID
	PromptID   uuid.UUID
	Success    bool
	Quality    float64
	Duration   time.Duration
}

// Record fans out a task outcome to the pheromone store, the agent factory,
// and the prompt engine.
func (c *Core) Record(in RecordInput) {
	c.pheromones.RecordSolutionSuccess(in.TaskType, in.Pattern, in.AgentCombo, in.Tools, in.Success)

	if in.AgentID != uuid.Nil {
		c.agents.UpdateAgentPerformance(in.AgentID, in.Success, in.Duration)
	}

	if in.PromptID != uuid.Nil {
		c.prompts.RecordPromptPerformance(promptengine.PromptPerformance{
			PromptID:      in.PromptID,
			TaskType:      in.TaskType,
			Success:       in.Success,
			QualityScore:  in.Quality,
			ExecutionTime: in.Duration.Seconds(),
		})
	}
}

// Evolve runs one generation step across every component: pheromone
// evaporation, agent-population evolution, and prompt-population evolution.
func (c *Core) Evolve() {
	c.pheromones.EvaporatePheromones()
	c.agents.EvolvePopulation(false)
	c.prompts.EvolvePrompts("")

	c.logger.Info("ran one evolution cycle across all components")
}

// Stats is the aggregated diagnostics payload returned by Stats().
type Stats struct {
	Pheromones pheromone.Statistics          `json:"pheromones"`
	Agents     agentfactory.PopulationStats  `json:"agents"`
	Prompts    promptengine.Stats            `json:"prompts"`
}

// Stats aggregates diagnostics from all three components.
func (c *Core) Stats() Stats {
	return Stats{
		Pheromones: c.pheromones.GetStatistics(),
		Agents:     c.agents.GetPopulationStats(),
		Prompts:    c.prompts.GetStatistics(),
	}
}

func (c *Core) pheromonePath() string  { return filepath.Join(c.cfg.StateDir, "pheromones.json") }
func (c *Core) populationPath() string { return filepath.Join(c.cfg.StateDir, "population.json") }
func (c *Core) historyPath() string    { return filepath.Join(c.cfg.StateDir, "evolution_history.json") }
func (c *Core) promptPopulationPath() string {
	return filepath.Join(c.cfg.StateDir, "prompt_population.json")
}
func (c *Core) performanceHistoryPath() string {
	return filepath.Join(c.cfg.StateDir, "performance_history.json")
}

// Save persists every component's state under cfg.StateDir. Persistence
// failures are logged by the owning component and do not abort the save of
// the others.
func (c *Core) Save() error {
	var errs []error
	if err := c.pheromones.Save(c.pheromonePath()); err != nil {
		errs = append(errs, fmt.Errorf("saving pheromone store: %w", err))
	}
	if err := c.agents.SavePopulation(c.populationPath()); err != nil {
		errs = append(errs, fmt.Errorf("saving agent population: %w", err))
	}
	if err := c.agents.SaveHistory(c.historyPath()); err != nil {
		errs = append(errs, fmt.Errorf("saving agent evolution history: %w", err))
	}
	if err := c.prompts.SavePromptPopulation(c.promptPopulationPath()); err != nil {
		errs = append(errs, fmt.Errorf("saving prompt population: %w", err))
	}
	if err := c.prompts.SavePerformanceHistory(c.performanceHistoryPath()); err != nil {
		errs = append(errs, fmt.Errorf("saving prompt performance history: %w", err))
	}
	return errors.Join(errs...)
}

// Load restores every component's state from cfg.StateDir. Missing or
// malformed files leave the corresponding component empty.
func (c *Core) Load() {
	c.pheromones.Load(c.pheromonePath())
	c.agents.LoadPopulation(c.populationPath())
	c.agents.LoadHistory(c.historyPath())
	c.prompts.LoadPromptPopulation(c.promptPopulationPath())
	c.prompts.LoadPerformanceHistory(c.performanceHistoryPath())
}

// Close saves all state and releases the Core. It replaces an implicit
// destructor-based save with an explicit lifecycle call.
func (c *Core) Close() error {
	return c.Save()
}
