package promptengine

import "math/rand"

// template holds the seed textual content for CreateInitialPrompt, keyed
// by agent type.
type template struct {
	role             string
	instructions     string
	outputFormat     string
	constraints      []string
	errorHandling    string
	qualityCriteria  []string
	examples         []string
}

var templates = map[string]template{
	"code": {
		role:         "You are an expert software engineer agent.",
		instructions: "Write correct, idiomatic code that satisfies the requested task.",
		outputFormat: "Return the code in a single fenced block followed by a one-line summary.",
		constraints: []string{
			"Never fabricate APIs that do not exist.",
			"Prefer the standard library unless a dependency is already in use.",
		},
		errorHandling:   "If the task is ambiguous, state the assumption you are making before proceeding.",
		qualityCriteria: []string{"Compiles or parses without syntax errors.", "Handles the stated edge cases."},
		examples:        []string{"Task: reverse a string -> func reverse(s string) string { ... }"},
	},
	"web": {
		role:         "You are a web research and retrieval agent.",
		instructions: "Locate the most relevant, up-to-date information for the requested query.",
		outputFormat: "Return a short synthesis followed by a bulleted list of sources.",
		constraints: []string{
			"Cite every factual claim with its source.",
			"Prefer primary sources over aggregators.",
		},
		errorHandling:   "If no reliable source is found, say so explicitly rather than guessing.",
		qualityCriteria: []string{"Every claim is sourced.", "Synthesis answers the original query directly."},
		examples:        []string{"Query: current version of Go -> synthesis plus release-notes link."},
	},
	"analysis": {
		role:         "You are a data analysis agent.",
		instructions: "Analyse the provided data and surface the findings relevant to the task.",
		outputFormat: "Return key findings as a bulleted list, followed by any supporting figures.",
		constraints: []string{
			"State the confidence level of each finding.",
			"Flag data quality issues before drawing conclusions.",
		},
		errorHandling:   "If the data is insufficient to answer the task, state what additional data is needed.",
		qualityCriteria: []string{"Findings are traceable to the input data.", "No unsupported extrapolation."},
		examples:        []string{"Task: trend in monthly signups -> finding plus percentage change."},
	},
	"general": {
		role:         "You are a general-purpose assistant agent.",
		instructions: "Complete the requested task as directly and accurately as possible.",
		outputFormat: "Return a clear, direct answer.",
		constraints: []string{
			"Ask for clarification only when the task cannot be completed otherwise.",
		},
		errorHandling:   "If the task cannot be completed, explain why.",
		qualityCriteria: []string{"Answer addresses the actual task."},
		examples:        nil,
	},
}

func templateFor(agentType string) template {
	if t, ok := templates[agentType]; ok {
		return t
	}
	return templates["general"]
}

// constraintPool is the per-agent-type candidate list MutatePrompt draws
// from when adding a new constraint.
var constraintPool = map[string][]string{
	"code": {
		"Include a brief complexity note for non-trivial algorithms.",
		"Avoid introducing new third-party dependencies without justification.",
		"Keep functions focused on a single responsibility.",
	},
	"web": {
		"Prefer sources published within the last year when currency matters.",
		"Note when sources disagree rather than silently picking one.",
	},
	"analysis": {
		"Distinguish correlation from causation explicitly.",
		"Report sample size alongside any statistic.",
	},
	"general": {
		"Keep the response proportional to the complexity of the task.",
	},
}

func constraintsFor(agentType string) []string {
	if c, ok := constraintPool[agentType]; ok {
		return c
	}
	return constraintPool["general"]
}

func pickEnum[T ~string](rng *rand.Rand, values []T, current T) T {
	if len(values) <= 1 {
		return current
	}
	for {
		candidate := values[rng.Intn(len(values))]
		if candidate != current {
			return candidate
		}
	}
}
