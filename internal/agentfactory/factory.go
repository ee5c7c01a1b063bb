package agentfactory

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

// Factory is the evolutionary agent factory: it owns a population of
// AgentDNA, spawns new agents by crossover/mutation/fresh generation, and
// applies selection pressure via EvolvePopulation.
type Factory struct {
	logger *logrus.Entry
	cfg    config.AgentsConfig
	mu     sync.RWMutex

	rng *rand.Rand
	now func() time.Time

	active  map[uuid.UUID]*AgentDNA
	retired map[uuid.UUID]*AgentDNA
	history []EvolutionEvent
}

// Option configures a Factory at construction time.
type Option func(*Factory)

// WithSeed sets the Factory's RNG seed, for reproducible tests.
func WithSeed(seed int64) Option {
	return func(f *Factory) { f.rng = rand.New(rand.NewSource(seed)) }
}

// WithClock overrides the Factory's time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(f *Factory) { f.now = now }
}

// New creates an empty Factory.
func New(cfg config.AgentsConfig, log *logrus.Logger, opts ...Option) *Factory {
	f := &Factory{
		logger:  logger.WithComponent(log, "agentfactory"),
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
		active:  make(map[uuid.UUID]*AgentDNA),
		retired: make(map[uuid.UUID]*AgentDNA),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Factory) recordEventLocked(e EvolutionEvent) {
	f.history = append(f.history, e)
	if len(f.history) > f.cfg.EventHistoryLimit && f.cfg.EventHistoryLimit > 0 {
		f.history = f.history[len(f.history)-f.cfg.EventHistoryLimit:]
	}
}

// SpawnAgent creates a new agent of agentType, breeding from the existing
// population when candidates are available rather than always starting
// fresh.
func (f *Factory) SpawnAgent(agentType string, specialization []string) *AgentDNA {
	f.mu.Lock()
	defer f.mu.Unlock()

	candidates := f.breedingCandidatesLocked(agentType, 3)

	var child *AgentDNA
	var unchangedParent bool
	switch len(candidates) {
	case 0:
		child = f.freshAgentLocked(agentType, specialization)
	case 1:
		child = f.mutateAgentLocked(candidates[0], 1.5)
		unchangedParent = child == candidates[0]
	default:
		child = f.crossoverLocked(candidates[0], candidates[1])
		if f.rng.Float64() < 0.3 {
			child = f.mutateAgentLocked(child, 1.0)
		}
	}

	if unchangedParent {
		// the mutation gate did not fire: the parent DNA must come back
		// byte-for-byte unchanged, so it is returned as-is rather than merged
		// with the requested specialization.
		return child
	}

	child.Genes.Specialization = mergeSpecialization(child.Genes.Specialization, specialization)
	f.active[child.AgentID] = child
	f.recordEventLocked(EvolutionEvent{
		Tag:           EventBirth,
		Timestamp:     f.now(),
		AgentID:       child.AgentID,
		ParentIDs:     child.ParentIDs,
		FitnessAfter:  Fitness(child, f.now()),
	})

	f.logger.WithFields(logrus.Fields{
		"agent_id":   child.AgentID,
		"agent_type": agentType,
		"generation": child.Generation,
	}).Info("spawned agent")

	f.managePopulationSizeLocked(agentType, specialization)
	return child
}

func mergeSpecialization(a, b []string) []string {
	return stringUnion(a, b)
}

func (f *Factory) freshAgentLocked(agentType string, specialization []string) *AgentDNA {
	genes := randomInitialGenes(f.rng, agentType, specialization)
	return &AgentDNA{
		AgentID:    uuid.New(),
		Generation: 0,
		BirthTime:  f.now(),
		Genes:      genes,
	}
}

// breedingCandidatesLocked returns up to limit active agents of agentType,
// ranked by fitness descending.
func (f *Factory) breedingCandidatesLocked(agentType string, limit int) []*AgentDNA {
	var matching []*AgentDNA
	for _, a := range f.active {
		if a.Genes.AgentType == agentType {
			matching = append(matching, a)
		}
	}

	now := f.now()
	sort.Slice(matching, func(i, j int) bool {
		fi, fj := Fitness(matching[i], now), Fitness(matching[j], now)
		if fi != fj {
			return fi > fj
		}
		return matching[i].AgentID.String() < matching[j].AgentID.String()
	})

	if len(matching) > limit {
		matching = matching[:limit]
	}
	return matching
}

// UpdateAgentPerformance records a task outcome for agentID and applies
// learning. Unknown agent IDs are logged and ignored.
func (f *Factory) UpdateAgentPerformance(agentID uuid.UUID, success bool, duration time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	agent, ok := f.active[agentID]
	if !ok {
		f.logger.WithField("agent_id", agentID).Warn("update_agent_performance: unknown agent id")
		return
	}

	before := agent.TotalSuccessRate
	agent.TasksCompleted++
	if success {
		agent.TotalSuccessRate = (agent.TotalSuccessRate*float64(agent.TasksCompleted-1) + 1.0) / float64(agent.TasksCompleted)
	} else {
		agent.TotalSuccessRate = (agent.TotalSuccessRate * float64(agent.TasksCompleted-1)) / float64(agent.TasksCompleted)
	}

	fitnessBefore := Fitness(agent, f.now())

	if success {
		agent.Genes.SuccessRate = clamp01(agent.Genes.SuccessRate + agent.Genes.LearningRate*0.1)
	} else {
		agent.Genes.SuccessRate = clamp01(agent.Genes.SuccessRate - agent.Genes.LearningRate*0.05)
	}

	if absf(agent.TotalSuccessRate-before) > 0.01 {
		f.recordEventLocked(EvolutionEvent{
			Tag:           EventLearning,
			Timestamp:     f.now(),
			AgentID:       agent.AgentID,
			FitnessBefore: fitnessBefore,
			FitnessAfter:  Fitness(agent, f.now()),
		})
	}

	_ = duration // accepted for interface parity; not yet used beyond logging.
	f.logger.WithFields(logrus.Fields{
		"agent_id": agentID,
		"success":  success,
		"duration": duration,
	}).Debug("recorded agent task outcome")
}

// GetBestAgent returns the highest-fitness active agent, optionally
// restricted to agentType.
func (f *Factory) GetBestAgent(agentType string) (*AgentDNA, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var best *AgentDNA
	now := f.now()
	for _, a := range f.active {
		if agentType != "" && a.Genes.AgentType != agentType {
			continue
		}
		if best == nil || Fitness(a, now) > Fitness(best, now) {
			best = a
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}
