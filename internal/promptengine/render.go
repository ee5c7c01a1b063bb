package promptengine

import "strings"

var toneModifiers = map[Tone]string{
	ToneProfessional: "Maintain a professional tone throughout.",
	ToneFriendly:     "Keep the tone warm and approachable.",
	ToneTechnical:    "Use precise technical language.",
	ToneCreative:     "Feel free to use creative phrasing where it helps clarity.",
	ToneFormal:       "Use formal language throughout.",
}

var verbosityModifiers = map[Verbosity]string{
	VerbosityBrief:         "Be as brief as possible.",
	VerbosityMedium:        "Aim for a moderate level of detail.",
	VerbosityDetailed:      "Provide a detailed explanation.",
	VerbosityComprehensive: "Be comprehensive; do not omit relevant detail.",
}

// RenderPrompt assembles a PromptDNA into the text sent to an LLM. The
// result is a pure function of the DNA: identical genes always render
// identically.
func RenderPrompt(d *PromptDNA) string {
	var b strings.Builder

	writeSection := func(s string) {
		if s == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(s)
	}

	g := d.Genes

	if g.RoleDefinition != "" {
		writeSection(g.RoleDefinition)
	}

	if g.TaskInstructions != "" {
		task := g.TaskInstructions
		if mod, ok := toneModifiers[g.Tone]; ok {
			task += " " + mod
		}
		if mod, ok := verbosityModifiers[g.Verbosity]; ok {
			task += " " + mod
		}
		writeSection(task)
	}

	if g.OutputFormat != "" {
		writeSection("Output format: " + g.OutputFormat)
	}

	if len(g.Constraints) > 0 {
		writeSection("Constraints:\n" + bulletList(g.Constraints))
	}

	if len(g.QualityCriteria) > 0 {
		writeSection("Quality criteria:\n" + bulletList(g.QualityCriteria))
	}

	if len(g.Examples) > 0 {
		examples := g.Examples
		if len(examples) > 3 {
			examples = examples[:3]
		}
		writeSection("Examples:\n" + bulletList(examples))
	}

	if g.ErrorHandling != "" {
		writeSection("If something goes wrong: " + g.ErrorHandling)
	}

	var adaptive []string
	if g.ContextAwareness > 0.7 {
		adaptive = append(adaptive, "учитывай контекст")
	}
	if g.UserAdaptation > 0.7 {
		adaptive = append(adaptive, "адаптируй стиль под пользователя")
	}
	if g.TaskSpecialization > 0.7 {
		adaptive = append(adaptive, "специализируйся под задачу")
	}
	if len(adaptive) > 0 {
		writeSection("Additional: " + strings.Join(adaptive, ", "))
	}

	return b.String()
}

func bulletList(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}
