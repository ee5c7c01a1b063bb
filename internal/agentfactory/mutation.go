package agentfactory

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// shouldMutate decides whether a mutation attempt fires at all.
// mutation_rate = 0 must never mutate regardless of strength or resistance;
// see DESIGN.md for why the comparison direction below is the one that
// holds that invariant.
func shouldMutate(rng *rand.Rand, mutationRate, strength, mutationResistance float64) bool {
	if mutationResistance <= 0 {
		mutationResistance = 0.01
	}
	threshold := mutationRate * strength / mutationResistance
	if threshold > 1 {
		threshold = 1
	}
	return rng.Float64() < threshold
}

// mutateGenes applies each gene's independent sub-mutation to a
// (deep-copied) gene set, returning the mutated genes and a human-readable
// list of what changed.
func mutateGenes(rng *rand.Rand, genes AgentGenes) (AgentGenes, []string) {
	g := genes.Clone()
	var details []string

	if rng.Float64() < 0.7 {
		delta := (rng.Float64()*2 - 1) * 0.1
		g.SuccessRate = clamp01(g.SuccessRate + delta)
		details = append(details, fmt.Sprintf("success_rate%+.3f", delta))
	}
	if rng.Float64() < 0.5 {
		delta := (rng.Float64()*2 - 1) * 0.2
		g.SpeedFactor = clampRange(g.SpeedFactor+delta, speedFactorBounds)
		details = append(details, fmt.Sprintf("speed_factor%+.3f", delta))
	}
	if rng.Float64() < 0.5 {
		delta := (rng.Float64()*2 - 1) * 0.15
		g.QualityFactor = clampRange(g.QualityFactor+delta, qualityFactorBounds)
		details = append(details, fmt.Sprintf("quality_factor%+.3f", delta))
	}
	if rng.Float64() < 0.3 {
		details = append(details, mutateTools(rng, &g))
	}
	if rng.Float64() < 0.4 {
		delta := (rng.Float64()*2 - 1) * 0.1
		g.CollaborationSkill = clamp01(g.CollaborationSkill + delta)
		details = append(details, fmt.Sprintf("collaboration_skill%+.3f", delta))
	}

	return g, details
}

func mutateTools(rng *rand.Rand, g *AgentGenes) string {
	if len(g.PreferredTools) < 5 {
		candidate := nextToolCandidate(g.PreferredTools)
		if candidate != "" {
			g.PreferredTools = append(g.PreferredTools, candidate)
			g.ToolEfficiency[candidate] = uniform(rng, toolEfficiencyRange)
			return "added tool " + candidate
		}
	}
	if len(g.PreferredTools) > 0 {
		idx := rng.Intn(len(g.PreferredTools))
		tool := g.PreferredTools[idx]
		delta := rng.Float64()*0.3 - 0.1 // U(-0.1, +0.2)
		g.ToolEfficiency[tool] = clampRange(g.ToolEfficiency[tool]+delta, geneRange{0.1, 2.0})
		return fmt.Sprintf("adjusted %s efficiency%+.3f", tool, delta)
	}
	return "no-op tool mutation"
}

// toolPool is the universe of tools a new preferred-tool mutation may draw
// from, spanning every agent-type seed list.
var toolPool = []string{
	"code_generator", "file_manager", "web_search", "web_scraping",
	"data_analysis", "visualization", "document_tool", "general_tools",
}

func nextToolCandidate(existing []string) string {
	for _, t := range toolPool {
		if !stringContains(existing, t) {
			return t
		}
	}
	return ""
}

// mutateAgentLocked produces a child of parent by applying mutateGenes, gated by
// shouldMutate. If the gate does not fire, parent is returned unchanged
// (same pointer).
func (f *Factory) mutateAgentLocked(parent *AgentDNA, strength float64) *AgentDNA {
	if !shouldMutate(f.rng, f.cfg.MutationRate, strength, parent.Genes.MutationResistance) {
		return parent
	}

	newGenes, details := mutateGenes(f.rng, parent.Genes)
	child := &AgentDNA{
		AgentID:        uuid.New(),
		Generation:     parent.Generation + 1,
		ParentIDs:      []uuid.UUID{parent.AgentID},
		BirthTime:      f.now(),
		Genes:          newGenes,
		MutationsCount: parent.MutationsCount + 1,
	}

	before := Fitness(parent, f.now())
	after := Fitness(child, f.now())
	f.recordEventLocked(EvolutionEvent{
		Tag:             EventMutation,
		Timestamp:       f.now(),
		AgentID:         child.AgentID,
		ParentIDs:       child.ParentIDs,
		MutationDetails: details,
		FitnessBefore:   before,
		FitnessAfter:    after,
	})

	return child
}
