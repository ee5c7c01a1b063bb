package promptengine

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kittycore/core/internal/config"
	"github.com/kittycore/core/pkg/logger"
)

// Engine is the prompt evolution engine: it owns a population of PromptDNA,
// creates and evolves prompts, and renders them to text for the orchestrator.
type Engine struct {
	logger *logrus.Entry
	cfg    config.PromptsConfig
	mu     sync.RWMutex

	rng *rand.Rand
	now func() time.Time

	prompts     map[uuid.UUID]*PromptDNA
	performance []PromptPerformance
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithSeed sets the Engine's RNG seed, for reproducible tests.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewSource(seed)) }
}

// WithClock overrides the Engine's time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an empty Engine.
func New(cfg config.PromptsConfig, log *logrus.Logger, opts ...Option) *Engine {
	e := &Engine{
		logger:  logger.WithComponent(log, "promptengine"),
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
		prompts: make(map[uuid.UUID]*PromptDNA),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateInitialPrompt seeds a generation-0 prompt from agentType's template.
func (e *Engine) CreateInitialPrompt(agentType string) *PromptDNA {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.createInitialPromptLocked(agentType)
}

func (e *Engine) createInitialPromptLocked(agentType string) *PromptDNA {
	t := templateFor(agentType)
	dna := &PromptDNA{
		PromptID:   uuid.New(),
		AgentType:  agentType,
		Generation: 0,
		BirthTime:  e.now(),
		Genes: PromptGenes{
			RoleDefinition:     t.role,
			TaskInstructions:   t.instructions,
			OutputFormat:       t.outputFormat,
			Constraints:        append([]string(nil), t.constraints...),
			Tone:               ToneProfessional,
			Verbosity:          VerbosityMedium,
			Creativity:         CreativityBalanced,
			Examples:           append([]string(nil), t.examples...),
			ErrorHandling:      t.errorHandling,
			QualityCriteria:    append([]string(nil), t.qualityCriteria...),
			ContextAwareness:   uniform(e.rng, 0.4, 0.6),
			UserAdaptation:     uniform(e.rng, 0.4, 0.6),
			TaskSpecialization: uniform(e.rng, 0.4, 0.6),
		},
	}
	e.prompts[dna.PromptID] = dna

	e.managePopulationSizeLocked()

	e.logger.WithFields(logrus.Fields{
		"prompt_id":  dna.PromptID,
		"agent_type": agentType,
	}).Info("created initial prompt")

	return dna
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// GetBestPrompt returns the highest-fitness prompt of agentType, creating one
// if none exist. taskType is accepted for interface parity; prompt-fitness
// is not task-type-scoped.
func (e *Engine) GetBestPrompt(agentType, taskType string) *PromptDNA {
	e.mu.Lock()
	defer e.mu.Unlock()

	_ = taskType

	var best *PromptDNA
	now := e.now()
	for _, p := range e.prompts {
		if p.AgentType != agentType {
			continue
		}
		if best == nil || Fitness(p, now) > Fitness(best, now) {
			best = p
		}
	}
	if best == nil {
		return e.createInitialPromptLocked(agentType)
	}
	return best
}

// RecordPromptPerformance appends a PromptPerformance record and updates the
// DNA's running averages and usage_count. Unknown prompt ids are logged and
// ignored.
func (e *Engine) RecordPromptPerformance(perf PromptPerformance) {
	e.mu.Lock()
	defer e.mu.Unlock()

	dna, ok := e.prompts[perf.PromptID]
	if !ok {
		e.logger.WithField("prompt_id", perf.PromptID).Warn("record_prompt_performance: unknown prompt id")
		return
	}

	if perf.Timestamp.IsZero() {
		perf.Timestamp = e.now()
	}
	e.performance = append(e.performance, perf)
	if len(e.performance) > e.cfg.PerformanceHistoryLimit && e.cfg.PerformanceHistoryLimit > 0 {
		e.performance = e.performance[len(e.performance)-e.cfg.PerformanceHistoryLimit:]
	}

	n := dna.UsageCount + 1
	if perf.Success {
		dna.SuccessRate = (dna.SuccessRate*float64(dna.UsageCount) + 1.0) / float64(n)
	} else {
		dna.SuccessRate = (dna.SuccessRate * float64(dna.UsageCount)) / float64(n)
	}
	dna.AvgQualityScore = (dna.AvgQualityScore*float64(dna.UsageCount) + perf.QualityScore) / float64(n)
	dna.AvgExecutionTime = (dna.AvgExecutionTime*float64(dna.UsageCount) + perf.ExecutionTime) / float64(n)
	dna.UsageCount = n

	e.logger.WithFields(logrus.Fields{
		"prompt_id": perf.PromptID,
		"success":   perf.Success,
		"quality":   perf.QualityScore,
	}).Debug("recorded prompt performance")
}

// mutatePromptLocked produces a child of parent by applying
// mutatePromptGenes, gated per-field by mutationRate*strength. If nothing
// changed the original text/params this still returns a new DNA record
// (mutation is attempted per-field, not gated as a single coin flip, unlike
// agent mutation).
func (e *Engine) mutatePromptLocked(parent *PromptDNA, strength float64) *PromptDNA {
	newGenes := mutatePromptGenes(e.rng, parent.AgentType, parent.Genes, e.cfg.MutationRate, strength)

	child := &PromptDNA{
		PromptID:       uuid.New(),
		AgentType:      parent.AgentType,
		Generation:     parent.Generation + 1,
		ParentIDs:      []uuid.UUID{parent.PromptID},
		BirthTime:      e.now(),
		Genes:          newGenes,
		MutationsCount: parent.MutationsCount + 1,
	}
	return child
}

// crossoverPromptsLocked produces a child from two parents, the
// higher-success_rate one contributing role/instructions/error-handling.
func (e *Engine) crossoverPromptsLocked(p1, p2 *PromptDNA) *PromptDNA {
	better, worse := p1, p2
	if p2.SuccessRate > p1.SuccessRate {
		better, worse = p2, p1
	}

	genes := crossoverPromptGenes(e.rng, better.Genes, worse.Genes)

	generation := p1.Generation
	if p2.Generation > generation {
		generation = p2.Generation
	}
	generation++

	crossoverCount := p1.CrossoverCount
	if p2.CrossoverCount > crossoverCount {
		crossoverCount = p2.CrossoverCount
	}
	crossoverCount++

	return &PromptDNA{
		PromptID:       uuid.New(),
		AgentType:      better.AgentType,
		Generation:     generation,
		ParentIDs:      []uuid.UUID{p1.PromptID, p2.PromptID},
		BirthTime:      e.now(),
		Genes:          genes,
		CrossoverCount: crossoverCount,
	}
}

// CrossoverPrompts exposes crossoverPromptsLocked for external callers
// (e.g. an orchestrator seeding new lineages explicitly).
func (e *Engine) CrossoverPrompts(p1, p2 *PromptDNA) *PromptDNA {
	e.mu.Lock()
	defer e.mu.Unlock()
	child := e.crossoverPromptsLocked(p1, p2)
	e.prompts[child.PromptID] = child
	e.managePopulationSizeLocked()
	return child
}

// MutatePrompt exposes mutatePromptLocked for external callers.
func (e *Engine) MutatePrompt(parent *PromptDNA, strength float64) *PromptDNA {
	e.mu.Lock()
	defer e.mu.Unlock()
	child := e.mutatePromptLocked(parent, strength)
	e.prompts[child.PromptID] = child
	e.managePopulationSizeLocked()
	return child
}

func (e *Engine) rankedLocked(agentType string) []*PromptDNA {
	var ranked []*PromptDNA
	for _, p := range e.prompts {
		if agentType != "" && p.AgentType != agentType {
			continue
		}
		ranked = append(ranked, p)
	}
	now := e.now()
	sort.Slice(ranked, func(i, j int) bool {
		fi, fj := Fitness(ranked[i], now), Fitness(ranked[j], now)
		if fi != fj {
			return fi < fj
		}
		return ranked[i].PromptID.String() < ranked[j].PromptID.String()
	})
	return ranked
}

// EvolvePrompts runs one generation step across agentType (or the whole
// population if agentType is empty): mutates the bottom third and crosses
// over pairs from the top half, then enforces max_population.
func (e *Engine) EvolvePrompts(agentType string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ranked := e.rankedLocked(agentType) // ascending: weakest first
	n := len(ranked)
	if n == 0 {
		return
	}

	thirdSize := n / 3
	bottomThird := ranked[:thirdSize]
	topHalf := ranked[n-(n+1)/2:]

	for _, p := range bottomThird {
		if e.rng.Float64() < 0.4 {
			child := e.mutatePromptLocked(p, 1.2)
			e.prompts[child.PromptID] = child
		}
	}

	pairs := pairUp(topHalf)
	for _, pair := range pairs {
		if e.rng.Float64() < 0.3 {
			child := e.crossoverPromptsLocked(pair[0], pair[1])
			e.prompts[child.PromptID] = child
		}
	}

	e.enforceMaxPopulationLocked()

	e.logger.WithField("population", len(e.prompts)).Info("evolved prompt population")
}

func pairUp(prompts []*PromptDNA) [][2]*PromptDNA {
	var pairs [][2]*PromptDNA
	for i := 0; i+1 < len(prompts); i += 2 {
		pairs = append(pairs, [2]*PromptDNA{prompts[i], prompts[i+1]})
	}
	return pairs
}

func (e *Engine) managePopulationSizeLocked() {
	e.enforceMaxPopulationLocked()
}

func (e *Engine) enforceMaxPopulationLocked() {
	if e.cfg.MaxPopulation <= 0 || len(e.prompts) <= e.cfg.MaxPopulation {
		return
	}
	ranked := e.rankedLocked("") // ascending: weakest first
	surplus := len(e.prompts) - e.cfg.MaxPopulation
	for i := 0; i < surplus && i < len(ranked); i++ {
		delete(e.prompts, ranked[i].PromptID)
	}
}

// Stats is the diagnostics payload returned by GetStatistics.
type Stats struct {
	Total           int     `json:"total"`
	MaxGeneration   int     `json:"max_generation"`
	AvgFitness      float64 `json:"avg_fitness"`
	TotalMutations  int     `json:"total_mutations"`
	TotalCrossovers int     `json:"total_crossovers"`
}

// GetStatistics summarizes the whole prompt population.
func (e *Engine) GetStatistics() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var s Stats
	s.Total = len(e.prompts)
	now := e.now()
	var fitnessSum float64
	for _, p := range e.prompts {
		if p.Generation > s.MaxGeneration {
			s.MaxGeneration = p.Generation
		}
		fitnessSum += Fitness(p, now)
		s.TotalMutations += p.MutationsCount
		s.TotalCrossovers += p.CrossoverCount
	}
	if s.Total > 0 {
		s.AvgFitness = fitnessSum / float64(s.Total)
	}
	return s
}
