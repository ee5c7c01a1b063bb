package promptengine

import "math/rand"

// crossoverPromptGenes combines two parents' genes: the higher-success_rate
// parent contributes role,
// instructions, and error handling; output format and enums are each chosen
// from one parent with equal probability; lists are unioned; numeric genes
// are averaged then perturbed.
func crossoverPromptGenes(rng *rand.Rand, better, worse PromptGenes) PromptGenes {
	out := PromptGenes{
		RoleDefinition:   better.RoleDefinition,
		TaskInstructions: better.TaskInstructions,
		ErrorHandling:    better.ErrorHandling,
	}

	if rng.Float64() < 0.5 {
		out.OutputFormat = better.OutputFormat
	} else {
		out.OutputFormat = worse.OutputFormat
	}
	if rng.Float64() < 0.5 {
		out.Tone = better.Tone
	} else {
		out.Tone = worse.Tone
	}
	if rng.Float64() < 0.5 {
		out.Verbosity = better.Verbosity
	} else {
		out.Verbosity = worse.Verbosity
	}
	if rng.Float64() < 0.5 {
		out.Creativity = better.Creativity
	} else {
		out.Creativity = worse.Creativity
	}

	out.Constraints = stringUnion(better.Constraints, worse.Constraints)
	out.QualityCriteria = stringUnion(better.QualityCriteria, worse.QualityCriteria)

	examples := stringUnion(better.Examples, worse.Examples)
	if len(examples) > 5 {
		examples = examples[:5]
	}
	out.Examples = examples

	out.ContextAwareness = perturb(rng, (better.ContextAwareness+worse.ContextAwareness)/2)
	out.UserAdaptation = perturb(rng, (better.UserAdaptation+worse.UserAdaptation)/2)
	out.TaskSpecialization = perturb(rng, (better.TaskSpecialization+worse.TaskSpecialization)/2)

	return out
}

func perturb(rng *rand.Rand, v float64) float64 {
	return clamp01(v + (rng.Float64()*0.2 - 0.1))
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
