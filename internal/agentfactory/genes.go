package agentfactory

import "math/rand"

// geneRange is an inclusive sampling range for an initial gene value.
type geneRange struct{ lo, hi float64 }

var (
	successRateRange        = geneRange{0.3, 0.7}
	speedFactorRange        = geneRange{0.8, 1.2}
	qualityFactorRange      = geneRange{0.8, 1.2}
	learningRateRange       = geneRange{0.05, 0.2}
	mutationResistanceRange = geneRange{0.7, 0.9}
	collaborationSkillRange = geneRange{0.5, 0.8}
	leadershipTendencyRange = geneRange{0.2, 0.5}

	speedFactorBounds   = geneRange{0.5, 2.0}
	qualityFactorBounds = geneRange{0.5, 2.0}
	learningRateBounds  = geneRange{0.01, 0.5}
	mutResistanceBounds = geneRange{0.5, 1.0}
	toolEfficiencyRange = geneRange{0.6, 1.0}
)

func uniform(rng *rand.Rand, r geneRange) float64 {
	return r.lo + rng.Float64()*(r.hi-r.lo)
}

func clampRange(v float64, r geneRange) float64 {
	if v < r.lo {
		return r.lo
	}
	if v > r.hi {
		return r.hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clampRange(v, geneRange{0, 1})
}

// toolsForAgentType returns the seed preferred tools for an agent type.
func toolsForAgentType(agentType string) []string {
	switch agentType {
	case "code":
		return []string{"code_generator", "file_manager"}
	case "web":
		return []string{"web_search", "web_scraping"}
	case "analysis":
		return []string{"data_analysis", "visualization"}
	case "document":
		return []string{"document_tool", "file_manager"}
	default:
		return []string{"general_tools"}
	}
}

// randomInitialGenes samples a fresh generation-0 gene set for agentType.
func randomInitialGenes(rng *rand.Rand, agentType string, specialization []string) AgentGenes {
	tools := toolsForAgentType(agentType)
	efficiency := make(map[string]float64, len(tools))
	for _, t := range tools {
		efficiency[t] = uniform(rng, toolEfficiencyRange)
	}

	return AgentGenes{
		AgentType:          agentType,
		Specialization:     append([]string(nil), specialization...),
		SuccessRate:        uniform(rng, successRateRange),
		SpeedFactor:        uniform(rng, speedFactorRange),
		QualityFactor:      uniform(rng, qualityFactorRange),
		PreferredTools:     tools,
		ToolEfficiency:     efficiency,
		LearningRate:       uniform(rng, learningRateRange),
		MutationResistance: uniform(rng, mutationResistanceRange),
		CollaborationSkill: uniform(rng, collaborationSkillRange),
		LeadershipTendency: uniform(rng, leadershipTendencyRange),
	}
}
