package domain

// Step is one resolved Given/When/Then/And/But line of a scenario.
type Step struct {
	// Keyword is the Gherkin keyword, rendered verbatim.
	Keyword Keyword `json:"keyword"`
	// Template is the step sentence with {N} placeholders.
	Template string `json:"template"`
	// Args are the positional argument values substituted at render time.
	Args []any `json:"args,omitempty"`
}

// Scenario is one concrete example under a feature, with its steps in
// resolved order.
type Scenario struct {
	// Title is the declared scenario title.
	Title string `json:"title"`
	// Steps contains the ordered steps of this scenario.
	Steps []Step `json:"steps,omitempty"`
}

// Feature is a top-level behavioral grouping.
type Feature struct {
	// Name is the declared feature name.
	Name string `json:"name"`
	// Narrative is the free-text rationale block, newline-separated.
	Narrative string `json:"narrative,omitempty"`
	// Scenarios contains the ordered scenarios of this feature.
	Scenarios []Scenario `json:"scenarios,omitempty"`
}

// Document is the fully resolved Feature→Scenario→Step tree for one
// generation run. It is built once and never mutated afterwards; the builder
// hands it to callers by value.
type Document struct {
	// Features contains all features in first-seen order.
	Features []Feature `json:"features"`
}

// CountScenarios returns the total number of scenarios across all features.
func (d Document) CountScenarios() int {
	count := 0
	for _, f := range d.Features {
		count += len(f.Scenarios)
	}
	return count
}

// CountSteps returns the total number of steps across all features.
func (d Document) CountSteps() int {
	count := 0
	for _, f := range d.Features {
		for _, s := range f.Scenarios {
			count += len(s.Steps)
		}
	}
	return count
}
