package promptengine

import "math/rand"

// textMutation describes one deterministic textual transform applied to a
// prompt field. The appended clause is chosen per field; the modifier words
// and synonym table are shared by all fields, and the agent type does not
// affect which text mutations are available.
type textMutation func(text string) string

var modifierWords = []string{"carefully", "precisely", "efficiently", "thoroughly"}

func insertModifier(rng *rand.Rand) textMutation {
	word := modifierWords[rng.Intn(len(modifierWords))]
	return func(text string) string {
		if text == "" {
			return text
		}
		return text + " Do this " + word + "."
	}
}

var synonymTable = map[string]string{
	"write":    "produce",
	"analyse":  "examine",
	"analyze":  "examine",
	"locate":   "find",
	"complete": "carry out",
}

func replaceSynonym(text string) string {
	for from, to := range synonymTable {
		if idx := indexCI(text, from); idx >= 0 {
			return text[:idx] + to + text[idx+len(from):]
		}
	}
	return text
}

func indexCI(s, substr string) int {
	ls, lsub := len(s), len(substr)
	if lsub == 0 || lsub > ls {
		return -1
	}
	for i := 0; i+lsub <= ls; i++ {
		if equalFoldASCII(s[i:i+lsub], substr) {
			return i
		}
	}
	return -1
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func appendClause(clause string) textMutation {
	return func(text string) string {
		if text == "" {
			return text
		}
		return text + " " + clause
	}
}

// mutateTextField applies one of the fixed textual mutations to text,
// uniformly at random. It never produces empty output from non-empty
// input — none of the transforms truncate.
func mutateTextField(rng *rand.Rand, text string, clause string) string {
	if text == "" {
		return text
	}
	mutations := []textMutation{
		insertModifier(rng),
		replaceSynonym,
		appendClause(clause),
	}
	return mutations[rng.Intn(len(mutations))](text)
}

// mutatePromptGenes applies each field's independent sub-mutation to a
// (deep-copied) gene set, each gated by mutationRate*strength.
func mutatePromptGenes(rng *rand.Rand, agentType string, genes PromptGenes, mutationRate, strength float64) PromptGenes {
	g := genes.Clone()
	gate := func() bool { return rng.Float64() < mutationRate*strength }

	if gate() {
		g.RoleDefinition = mutateTextField(rng, g.RoleDefinition, "Stay within your role.")
	}
	if gate() {
		g.TaskInstructions = mutateTextField(rng, g.TaskInstructions, "Confirm the task is complete before finishing.")
	}
	if gate() {
		g.OutputFormat = mutateTextField(rng, g.OutputFormat, "Keep formatting consistent throughout.")
	}
	if gate() {
		g.Tone = pickEnum(rng, allTones, g.Tone)
	}
	if gate() {
		g.Verbosity = pickEnum(rng, allVerbosities, g.Verbosity)
	}
	if gate() {
		g.Creativity = pickEnum(rng, allCreativities, g.Creativity)
	}
	if gate() {
		g.ContextAwareness = clamp01(g.ContextAwareness + (rng.Float64()*0.4-0.2)*strength)
	}
	if gate() {
		g.UserAdaptation = clamp01(g.UserAdaptation + (rng.Float64()*0.4-0.2)*strength)
	}
	if gate() {
		g.TaskSpecialization = clamp01(g.TaskSpecialization + (rng.Float64()*0.4-0.2)*strength)
	}

	if rng.Float64() < 0.5*mutationRate*strength {
		pool := constraintsFor(agentType)
		if candidate := nextConstraintCandidate(g.Constraints, pool); candidate != "" {
			g.Constraints = append(g.Constraints, candidate)
		}
	}
	if rng.Float64() < 0.3*mutationRate*strength && len(g.Constraints) > 1 {
		idx := rng.Intn(len(g.Constraints))
		g.Constraints = append(append([]string(nil), g.Constraints[:idx]...), g.Constraints[idx+1:]...)
	}

	return g
}

func nextConstraintCandidate(existing, pool []string) string {
	for _, c := range pool {
		if !stringContains(existing, c) {
			return c
		}
	}
	return ""
}

func stringContains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
