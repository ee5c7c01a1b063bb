package agentfactory

import (
	"math/rand"

	"github.com/google/uuid"
)

// crossoverGenes combines two parents' genes with a bias toward the fitter
// parent.
func (f *Factory) crossoverGenes(better, worse *AgentDNA) AgentGenes {
	bg, wg := better.Genes, worse.Genes

	preferredUnion := stringUnion(bg.PreferredTools, wg.PreferredTools)
	preferredTools := sampleTools(f.rng, preferredUnion, 6)

	efficiency := make(map[string]float64, len(preferredUnion))
	for _, t := range preferredUnion {
		efficiency[t] = maxf(bg.ToolEfficiency[t], wg.ToolEfficiency[t])
	}

	return AgentGenes{
		AgentType:          bg.AgentType,
		Specialization:     stringUnion(bg.Specialization, wg.Specialization),
		SuccessRate:        0.7*bg.SuccessRate + 0.3*wg.SuccessRate,
		SpeedFactor:        0.6*bg.SpeedFactor + 0.4*wg.SpeedFactor,
		QualityFactor:      0.6*bg.QualityFactor + 0.4*wg.QualityFactor,
		PreferredTools:     preferredTools,
		ToolEfficiency:     efficiency,
		LearningRate:       (bg.LearningRate + wg.LearningRate) / 2,
		MutationResistance: (bg.MutationResistance + wg.MutationResistance) / 2,
		CollaborationSkill: maxf(bg.CollaborationSkill, wg.CollaborationSkill),
		LeadershipTendency: (bg.LeadershipTendency + wg.LeadershipTendency) / 2,
	}
}

func sampleTools(rng *rand.Rand, union []string, max int) []string {
	if len(union) <= max {
		return append([]string(nil), union...)
	}
	shuffled := append([]string(nil), union...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:max]
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// crossoverLocked produces a child DNA from two parents, the fitter one
// ("better") contributing more heavily. parent order in the arguments does
// not matter; the function determines which is fitter.
func (f *Factory) crossoverLocked(p1, p2 *AgentDNA) *AgentDNA {
	now := f.now()
	better, worse := p1, p2
	if Fitness(p2, now) > Fitness(p1, now) {
		better, worse = p2, p1
	}

	genes := f.crossoverGenes(better, worse)

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

	child := &AgentDNA{
		AgentID:        uuid.New(),
		Generation:     generation,
		ParentIDs:      []uuid.UUID{p1.AgentID, p2.AgentID},
		BirthTime:      now,
		Genes:          genes,
		CrossoverCount: crossoverCount,
	}

	f.recordEventLocked(EvolutionEvent{
		Tag:           EventCrossover,
		Timestamp:     now,
		AgentID:       child.AgentID,
		ParentIDs:     child.ParentIDs,
		FitnessBefore: (Fitness(p1, now) + Fitness(p2, now)) / 2,
		FitnessAfter:  Fitness(child, now),
	})

	return child
}
