// Package builder assembles raw step records into the resolved document tree.
//
// Both authoring mechanisms (static directive scanning and runtime step
// registration) produce the same flat record shape, so merging, parent
// resolution, and conflict detection live here as one explicit stage instead
// of being special-cased per producer.
package builder

import (
	"fmt"
	"sort"

	"github.com/specscribe/core/pkg/domain"
)

// Build merges the given record sets into an immutable document.
//
// Ordering rules:
//   - feature order and scenario order are first-seen order across the sets,
//     in argument order;
//   - steps sort by their explicit ordering key ascending, ties broken by
//     discovery sequence (duplicate static priorities are a hint, not a
//     guarantee — the tie-break is deliberate, not an error).
//
// Recoverable problems (orphaned scenarios or steps, scenario identities
// declared via both mechanisms) drop the offending node, append one warning,
// and leave the rest of the tree intact.
func Build(sets ...domain.RecordSet) (domain.Document, []domain.Warning) {
	var flat domain.RecordSet
	for _, set := range sets {
		flat = flat.Append(set)
	}

	var warnings []domain.Warning

	features, featureIndex := collectFeatures(flat.Features)
	scenarios, scenarioIndex, scenarioWarnings := collectScenarios(flat.Scenarios, featureIndex)
	warnings = append(warnings, scenarioWarnings...)

	conflicted, conflictWarnings := detectConflicts(scenarios)
	warnings = append(warnings, conflictWarnings...)

	steps, stepWarnings := groupSteps(flat.Steps, scenarioIndex, conflicted)
	warnings = append(warnings, stepWarnings...)

	doc := domain.Document{Features: make([]domain.Feature, 0, len(features))}
	for _, f := range features {
		feature := domain.Feature{Name: f.Name, Narrative: f.Narrative}
		for _, sc := range scenarios {
			if sc.feature != f.Name || conflicted[sc.key()] {
				continue
			}
			ordered := steps[sc.key()]
			sort.SliceStable(ordered, func(i, j int) bool {
				if ordered[i].Order != ordered[j].Order {
					return ordered[i].Order < ordered[j].Order
				}
				return ordered[i].Seq < ordered[j].Seq
			})
			scenario := domain.Scenario{Title: sc.title, Steps: make([]domain.Step, 0, len(ordered))}
			for _, rec := range ordered {
				scenario.Steps = append(scenario.Steps, domain.Step{
					Keyword:  rec.Keyword,
					Template: rec.Template,
					Args:     rec.Args,
				})
			}
			feature.Scenarios = append(feature.Scenarios, scenario)
		}
		doc.Features = append(doc.Features, feature)
	}

	return doc, warnings
}

type scenarioEntry struct {
	feature string
	title   string
	origins map[domain.Origin]bool
}

func (s scenarioEntry) key() string {
	return s.feature + "\x00" + s.title
}

func collectFeatures(records []domain.FeatureRecord) ([]domain.FeatureRecord, map[string]int) {
	var features []domain.FeatureRecord
	index := make(map[string]int)

	for _, rec := range records {
		i, seen := index[rec.Name]
		if !seen {
			index[rec.Name] = len(features)
			features = append(features, rec)
			continue
		}
		// First non-empty narrative wins.
		if features[i].Narrative == "" && rec.Narrative != "" {
			features[i].Narrative = rec.Narrative
		}
	}

	return features, index
}

func collectScenarios(records []domain.ScenarioRecord, featureIndex map[string]int) ([]*scenarioEntry, map[string]*scenarioEntry, []domain.Warning) {
	var (
		order    []*scenarioEntry
		index    = make(map[string]*scenarioEntry)
		warnings []domain.Warning
	)

	for _, rec := range records {
		if rec.Feature == "" {
			warnings = append(warnings, domain.Warning{
				Kind:    domain.WarnOrphan,
				Path:    rec.Location.File,
				Message: fmt.Sprintf("scenario %q has no parent feature; dropped", rec.Title),
			})
			continue
		}
		if _, ok := featureIndex[rec.Feature]; !ok {
			warnings = append(warnings, domain.Warning{
				Kind:    domain.WarnOrphan,
				Path:    rec.Location.File,
				Message: fmt.Sprintf("scenario %q references unknown feature %q; dropped", rec.Title, rec.Feature),
			})
			continue
		}

		entry := &scenarioEntry{feature: rec.Feature, title: rec.Title, origins: map[domain.Origin]bool{rec.Origin: true}}
		if existing, seen := index[entry.key()]; seen {
			existing.origins[rec.Origin] = true
			continue
		}
		order = append(order, entry)
		index[entry.key()] = entry
	}

	return order, index, warnings
}

func detectConflicts(scenarios []*scenarioEntry) (map[string]bool, []domain.Warning) {
	conflicted := make(map[string]bool)
	var warnings []domain.Warning

	for _, sc := range scenarios {
		if sc.origins[domain.OriginStatic] && sc.origins[domain.OriginRuntime] {
			conflicted[sc.key()] = true
			warnings = append(warnings, domain.Warning{
				Kind: domain.WarnConflict,
				Message: fmt.Sprintf("scenario %q of feature %q declared via both static directives and runtime registration; excluded",
					sc.title, sc.feature),
			})
		}
	}

	return conflicted, warnings
}

func groupSteps(records []domain.StepRecord, scenarioIndex map[string]*scenarioEntry, conflicted map[string]bool) (map[string][]domain.StepRecord, []domain.Warning) {
	steps := make(map[string][]domain.StepRecord)
	var warnings []domain.Warning

	for _, rec := range records {
		if rec.Scenario == "" {
			warnings = append(warnings, domain.Warning{
				Kind:    domain.WarnOrphan,
				Path:    rec.Location.File,
				Message: fmt.Sprintf("step %q has no parent scenario; dropped", rec.Template),
			})
			continue
		}
		key := rec.Feature + "\x00" + rec.Scenario
		if _, ok := scenarioIndex[key]; !ok {
			warnings = append(warnings, domain.Warning{
				Kind:    domain.WarnOrphan,
				Path:    rec.Location.File,
				Message: fmt.Sprintf("step %q references unknown scenario %q; dropped", rec.Template, rec.Scenario),
			})
			continue
		}
		// Steps of a conflicted scenario vanish with it; the conflict was
		// already reported once.
		if conflicted[key] {
			continue
		}
		steps[key] = append(steps[key], rec)
	}

	return steps, warnings
}
