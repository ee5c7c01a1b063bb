package agentfactory

import "time"

// Fitness computes the agent's fitness score, clamped to [0,1].
func Fitness(a *AgentDNA, now time.Time) float64 {
	g := a.Genes

	geneticBase := 0.5*g.SuccessRate +
		0.1*(g.SpeedFactor-0.5) +
		0.2*(g.QualityFactor-0.5) +
		0.2*g.CollaborationSkill

	performance := g.SuccessRate
	if a.TasksCompleted > 0 {
		performance = a.TotalSuccessRate
	}

	experienceBonus := 0.01 * float64(a.TasksCompleted)
	if experienceBonus > 0.1 {
		experienceBonus = 0.1
	}

	agePenalty := 0.001 * a.AgeDays(now)
	if agePenalty > 0.05 {
		agePenalty = 0.05
	}

	fitness := 0.4*geneticBase + 0.6*performance + experienceBonus - agePenalty
	return clamp01(fitness)
}

// GeneticDistance is the diversity metric between two agents' genes.
func GeneticDistance(a, b AgentGenes) float64 {
	d := absf(a.SuccessRate-b.SuccessRate) +
		0.5*absf(a.SpeedFactor-b.SpeedFactor) +
		0.5*absf(a.QualityFactor-b.QualityFactor) +
		0.3*absf(a.LearningRate-b.LearningRate)

	union := stringUnion(a.Specialization, b.Specialization)
	if len(union) > 0 {
		symDiff := stringSymmetricDifference(a.Specialization, b.Specialization)
		d += 0.3 * (float64(len(symDiff)) / float64(len(union)))
	}
	return d
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func stringUnion(a, b []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range append(append([]string{}, a...), b...) {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

func stringSymmetricDifference(a, b []string) []string {
	inA := make(map[string]struct{}, len(a))
	for _, s := range a {
		inA[s] = struct{}{}
	}
	inB := make(map[string]struct{}, len(b))
	for _, s := range b {
		inB[s] = struct{}{}
	}

	var out []string
	for _, s := range a {
		if _, ok := inB[s]; !ok {
			out = append(out, s)
		}
	}
	for _, s := range b {
		if _, ok := inA[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

func stringContains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
