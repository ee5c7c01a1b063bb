package agentfactory

import (
	"sort"

	"github.com/google/uuid"
)

// managePopulationSizeLocked enforces min/max population bounds after a
// mutating operation.
func (f *Factory) managePopulationSizeLocked(agentType string, specialization []string) {
	if len(f.active) > f.cfg.MaxPopulation {
		f.retireSurplusLocked()
	}
	for len(f.active) < f.cfg.MinPopulation {
		fresh := f.freshAgentLocked(agentType, specialization)
		f.active[fresh.AgentID] = fresh
		f.recordEventLocked(EvolutionEvent{
			Tag:             EventBirth,
			Timestamp:       f.now(),
			AgentID:         fresh.AgentID,
			SelectionReason: "population_minimum",
			FitnessAfter:    Fitness(fresh, f.now()),
		})
	}
}

func (f *Factory) retireSurplusLocked() {
	ranked := f.rankActiveLocked()
	surplus := len(f.active) - f.cfg.MaxPopulation
	for i := 0; i < surplus && i < len(ranked); i++ {
		f.retireLocked(ranked[i], "population_limit")
	}
}

func (f *Factory) retireLocked(a *AgentDNA, reason string) {
	now := f.now()
	fitnessBefore := Fitness(a, now)
	a.Retired = true
	a.RetirementReason = reason
	a.LifeSpan = now.Sub(a.BirthTime)

	delete(f.active, a.AgentID)
	f.retired[a.AgentID] = a

	f.recordEventLocked(EvolutionEvent{
		Tag:             EventRetirement,
		Timestamp:       now,
		AgentID:         a.AgentID,
		SelectionReason: reason,
		FitnessBefore:   fitnessBefore,
		FitnessAfter:    fitnessBefore,
	})
}

// rankActiveLocked returns active agents ordered by fitness ascending
// (weakest first).
func (f *Factory) rankActiveLocked() []*AgentDNA {
	ranked := make([]*AgentDNA, 0, len(f.active))
	for _, a := range f.active {
		ranked = append(ranked, a)
	}
	now := f.now()
	sort.Slice(ranked, func(i, j int) bool {
		fi, fj := Fitness(ranked[i], now), Fitness(ranked[j], now)
		if fi != fj {
			return fi < fj
		}
		return ranked[i].AgentID.String() < ranked[j].AgentID.String()
	})
	return ranked
}

// EvolvePopulation runs one generation step: the bottom third is mutated
// with probability 0.4, pairs of the top half are crossed over with
// probability 0.3 against the already-mutated low performers, and
// population bounds are re-enforced. With force set, every bottom-third
// agent goes through a mutation attempt and every top-half pair is crossed
// over.
func (f *Factory) EvolvePopulation(force bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ranked := f.rankActiveLocked() // ascending: weakest first
	n := len(ranked)
	if n == 0 {
		return
	}

	thirdSize := n / 3
	bottomThird := ranked[:thirdSize]
	topHalf := ranked[n-(n+1)/2:]

	mutatedLowPerformers := make([]*AgentDNA, 0, len(bottomThird))
	for _, agent := range bottomThird {
		if force || f.rng.Float64() < 0.4 {
			child := f.mutateAgentLocked(agent, 1.2)
			if child != agent {
				f.replaceLocked(agent, child)
			}
			mutatedLowPerformers = append(mutatedLowPerformers, child)
		}
	}

	pairs := pairUp(topHalf)
	for i, pair := range pairs {
		if !force && f.rng.Float64() >= 0.3 {
			continue
		}
		child := f.crossoverLocked(pair[0], pair[1])
		if i < len(mutatedLowPerformers) {
			f.replaceLocked(mutatedLowPerformers[i], child)
		} else {
			f.active[child.AgentID] = child
		}
	}

	f.enforcePopulationBoundsLocked()

	f.logger.WithFields(map[string]interface{}{
		"population": len(f.active),
	}).Info("evolved population")
}

func pairUp(agents []*AgentDNA) [][2]*AgentDNA {
	var pairs [][2]*AgentDNA
	for i := 0; i+1 < len(agents); i += 2 {
		pairs = append(pairs, [2]*AgentDNA{agents[i], agents[i+1]})
	}
	return pairs
}

// replaceLocked retires original and registers replacement in its place.
func (f *Factory) replaceLocked(original, replacement *AgentDNA) {
	now := f.now()
	fitnessBefore := Fitness(original, now)
	original.Retired = true
	original.RetirementReason = "replaced"
	original.LifeSpan = now.Sub(original.BirthTime)
	delete(f.active, original.AgentID)
	f.retired[original.AgentID] = original

	f.active[replacement.AgentID] = replacement

	f.recordEventLocked(EvolutionEvent{
		Tag:             EventReplacement,
		Timestamp:       now,
		AgentID:         replacement.AgentID,
		ParentIDs:       []uuid.UUID{original.AgentID},
		SelectionReason: "evolution_replacement",
		FitnessBefore:   fitnessBefore,
		FitnessAfter:    Fitness(replacement, now),
	})
}

func (f *Factory) enforcePopulationBoundsLocked() {
	if len(f.active) > f.cfg.MaxPopulation {
		f.retireSurplusLocked()
	}
	for len(f.active) < f.cfg.MinPopulation {
		agentType := "general"
		if len(f.active) > 0 {
			for _, a := range f.active {
				agentType = a.Genes.AgentType
				break
			}
		}
		fresh := f.freshAgentLocked(agentType, nil)
		f.active[fresh.AgentID] = fresh
		f.recordEventLocked(EvolutionEvent{
			Tag:             EventBirth,
			Timestamp:       f.now(),
			AgentID:         fresh.AgentID,
			SelectionReason: "population_minimum",
			FitnessAfter:    Fitness(fresh, f.now()),
		})
	}
}

// PopulationStats is the diagnostics payload returned by GetPopulationStats.
type PopulationStats struct {
	Total               int     `json:"total"`
	Active              int     `json:"active"`
	Retired             int     `json:"retired"`
	MaxGeneration        int     `json:"max_generation"`
	AvgGeneration        float64 `json:"avg_generation"`
	AvgSuccessRate       float64 `json:"avg_success_rate"`
	BestSuccessRate      float64 `json:"best_success_rate"`
	WorstSuccessRate     float64 `json:"worst_success_rate"`
	UniqueSpecializations int    `json:"unique_specializations"`
	GeneticDiversity     float64 `json:"genetic_diversity"`
	TotalMutations       int     `json:"total_mutations"`
	TotalCrossovers      int     `json:"total_crossovers"`
	PopulationHealth     float64 `json:"population_health"`
}

// GetPopulationStats summarizes the whole population.
func (f *Factory) GetPopulationStats() PopulationStats {
	f.mu.RLock()
	defer f.mu.RUnlock()

	stats := PopulationStats{
		Active:  len(f.active),
		Retired: len(f.retired),
		Total:   len(f.active) + len(f.retired),
	}

	specSet := make(map[string]struct{})
	var genSum int
	var srSumF float64
	best, worst := -1.0, 2.0
	for _, a := range f.active {
		if a.Generation > stats.MaxGeneration {
			stats.MaxGeneration = a.Generation
		}
		genSum += a.Generation
		srSumF += a.Genes.SuccessRate
		if a.Genes.SuccessRate > best {
			best = a.Genes.SuccessRate
		}
		if a.Genes.SuccessRate < worst {
			worst = a.Genes.SuccessRate
		}
		for _, sp := range a.Genes.Specialization {
			specSet[sp] = struct{}{}
		}
		stats.TotalMutations += a.MutationsCount
		stats.TotalCrossovers += a.CrossoverCount
	}
	for _, a := range f.retired {
		stats.TotalMutations += a.MutationsCount
		stats.TotalCrossovers += a.CrossoverCount
	}

	if len(f.active) > 0 {
		stats.AvgGeneration = float64(genSum) / float64(len(f.active))
		stats.AvgSuccessRate = srSumF / float64(len(f.active))
		stats.BestSuccessRate = best
		stats.WorstSuccessRate = worst
	}
	stats.UniqueSpecializations = len(specSet)
	stats.GeneticDiversity = f.avgPairwiseGeneticDistanceLocked()
	stats.PopulationHealth = f.populationHealthLocked(stats.GeneticDiversity)

	return stats
}

func (f *Factory) avgPairwiseGeneticDistanceLocked() float64 {
	agents := make([]*AgentDNA, 0, len(f.active))
	for _, a := range f.active {
		agents = append(agents, a)
	}
	if len(agents) < 2 {
		return 0
	}

	var sum float64
	var count int
	for i := 0; i < len(agents); i++ {
		for j := i + 1; j < len(agents); j++ {
			sum += GeneticDistance(agents[i].Genes, agents[j].Genes)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// populationHealthLocked computes a single [0,1] population health score
// from average fitness, genetic diversity, and average age of the active
// population.
func (f *Factory) populationHealthLocked(avgDistance float64) float64 {
	if len(f.active) == 0 {
		return 0
	}

	now := f.now()
	var fitnessSum, ageSum float64
	for _, a := range f.active {
		fitnessSum += Fitness(a, now)
		ageSum += a.AgeDays(now)
	}
	avgFitness := fitnessSum / float64(len(f.active))
	avgAge := ageSum / float64(len(f.active))

	youth := 1 - avgAge/60
	if youth < 0 {
		youth = 0
	}

	health := 0.5*avgFitness + 0.3*avgDistance + 0.2*youth
	return clamp01(health)
}
