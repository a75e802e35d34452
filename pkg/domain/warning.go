package domain

import "fmt"

// WarningKind classifies a recoverable problem encountered during a
// generation run.
type WarningKind string

// Warning kinds, one per recoverable failure class. Each leaves the rest of
// the run unaffected.
const (
	// WarnDiscovery indicates a malformed or incomplete directive that was
	// skipped during scanning.
	WarnDiscovery WarningKind = "discovery"
	// WarnOrphan indicates a scenario or step without a resolvable parent
	// that was dropped from the document.
	WarnOrphan WarningKind = "orphan"
	// WarnConflict indicates a scenario identity declared via both the
	// static and runtime mechanisms; the scenario was excluded.
	WarnConflict WarningKind = "conflict"
	// WarnSink indicates a failure writing one feature's text unit; other
	// features still attempted to write.
	WarnSink WarningKind = "sink"
)

// Warning is one recoverable problem report. Warnings are collected and
// returned alongside whatever partial output was produced; they are never
// raised past the pipeline boundary.
type Warning struct {
	// Kind classifies the problem.
	Kind WarningKind `json:"kind"`
	// Path is the file path the problem occurred at, when known.
	Path string `json:"path,omitempty"`
	// Message describes the problem.
	Message string `json:"message"`
}

// String formats the warning as "[kind] path: message".
func (w Warning) String() string {
	if w.Path == "" {
		return fmt.Sprintf("[%s] %s", w.Kind, w.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", w.Kind, w.Path, w.Message)
}
