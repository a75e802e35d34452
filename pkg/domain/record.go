package domain

// Origin identifies which authoring mechanism produced a record.
type Origin string

// Record origins. A scenario identity must come from exactly one origin;
// mixing both for the same identity is a merge conflict.
const (
	// OriginStatic indicates the record was discovered by scanning
	// directive comments in test source.
	OriginStatic Origin = "static"
	// OriginRuntime indicates the record was captured from registration
	// calls during test execution.
	OriginRuntime Origin = "runtime"
)

// Location points at the source position a static record was discovered at.
type Location struct {
	// File is the path of the test file, relative to the module root.
	File string `json:"file,omitempty"`
	// Line is the 1-based line of the directive comment.
	Line int `json:"line,omitempty"`
}

// FeatureRecord is the raw identity record for one feature declaration.
type FeatureRecord struct {
	// Name is the declared feature name, unique within a generation run.
	Name string `json:"name"`
	// Narrative is the free-text rationale block, newline-separated.
	// May be empty.
	Narrative string `json:"narrative,omitempty"`
	// Seq is the stable discovery or registration sequence number.
	Seq int `json:"seq"`
	// Origin is the mechanism that produced this record.
	Origin Origin `json:"origin"`
	// Location is the source position for static records.
	Location Location `json:"location,omitempty"`
}

// ScenarioRecord is the raw identity record for one scenario declaration.
type ScenarioRecord struct {
	// Feature is the name of the owning feature. Empty means the scenario
	// was declared without a resolvable parent and will be dropped as an
	// orphan.
	Feature string `json:"feature"`
	// Title is the declared scenario title, scoped under Feature.
	Title string `json:"title"`
	// Seq is the stable discovery or registration sequence number.
	Seq int `json:"seq"`
	// Origin is the mechanism that produced this record.
	Origin Origin `json:"origin"`
	// Location is the source position for static records.
	Location Location `json:"location,omitempty"`
}

// StepRecord is the canonical flat representation of one step, produced by
// both the static scanner and the runtime registry.
type StepRecord struct {
	// Feature is the name of the feature the parent scenario belongs to.
	Feature string `json:"feature"`
	// Scenario is the title of the parent scenario. Empty means orphan.
	Scenario string `json:"scenario"`
	// Keyword is the Gherkin keyword of this step.
	Keyword Keyword `json:"keyword"`
	// Template is the step sentence with zero or more {N} placeholders.
	Template string `json:"template"`
	// Args are the positional argument values, each a primitive scalar.
	Args []any `json:"args,omitempty"`
	// Order is the explicit ordering key: the declared priority for static
	// records, or the registration sequence number for runtime records.
	// Duplicated priorities are a hint, not a guarantee; ties fall back to
	// Seq.
	Order int `json:"order"`
	// Seq is the stable discovery or registration sequence number used as
	// the tie-break for equal Order values.
	Seq int `json:"seq"`
	// Origin is the mechanism that produced this record.
	Origin Origin `json:"origin"`
	// Location is the source position for static records.
	Location Location `json:"location,omitempty"`
}

// RecordSet is the flat union of raw records produced by one source. Both
// authoring mechanisms emit the same shape so the builder has a single
// merge path.
type RecordSet struct {
	// Features contains feature identity records in first-seen order.
	Features []FeatureRecord `json:"features,omitempty"`
	// Scenarios contains scenario identity records in first-seen order.
	Scenarios []ScenarioRecord `json:"scenarios,omitempty"`
	// Steps contains step records in discovery or registration order.
	Steps []StepRecord `json:"steps,omitempty"`
}

// Empty reports whether the set contains no records at all.
func (s RecordSet) Empty() bool {
	return len(s.Features) == 0 && len(s.Scenarios) == 0 && len(s.Steps) == 0
}

// Append returns a set holding the records of s followed by those of other.
// Relative order within each source is preserved.
func (s RecordSet) Append(other RecordSet) RecordSet {
	merged := RecordSet{
		Features:  make([]FeatureRecord, 0, len(s.Features)+len(other.Features)),
		Scenarios: make([]ScenarioRecord, 0, len(s.Scenarios)+len(other.Scenarios)),
		Steps:     make([]StepRecord, 0, len(s.Steps)+len(other.Steps)),
	}
	merged.Features = append(append(merged.Features, s.Features...), other.Features...)
	merged.Scenarios = append(append(merged.Scenarios, s.Scenarios...), other.Scenarios...)
	merged.Steps = append(append(merged.Steps, s.Steps...), other.Steps...)
	return merged
}
