// Package registry captures imperative step registrations made during test
// execution.
//
// Each scenario execution owns one Recorder. A registration call records the
// step, assigns it the next sequence number, then runs the step's action
// synchronously, so registration order and execution order are the same
// thing. Recorders are private to their scenario; completed recordings are
// merged into a shared Collector under a single critical section.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/specscribe/core/pkg/domain"
)

var (
	// ErrNestedStep is returned when a step action registers another step
	// on the same recorder. Nested registration would corrupt ordering and
	// is rejected outright.
	ErrNestedStep = errors.New("registry: step registered from inside a running step action")
	// ErrAlreadyCommitted is returned when a recorder is committed or
	// written to after Commit.
	ErrAlreadyCommitted = errors.New("registry: recorder already committed")
)

// Action is the executable body of a registered step. A nil Action records
// the step without running anything.
type Action func() error

// Recorder accumulates the steps of one scenario execution. It is not meant
// to be shared across scenarios: each test method run gets its own Recorder
// with its own isolated sequence counter.
type Recorder struct {
	mu        sync.Mutex
	feature   string
	narrative string
	scenario  string
	seq       int
	inAction  bool
	committed bool
	steps     []domain.StepRecord
}

// NewRecorder creates a recorder bound to the given feature and scenario
// identity. The narrative may be empty.
func NewRecorder(feature, narrative, scenario string) *Recorder {
	return &Recorder{
		feature:   feature,
		narrative: narrative,
		scenario:  scenario,
	}
}

// Given records a Given step and runs its action.
func (r *Recorder) Given(template string, action Action, args ...any) error {
	return r.register(domain.KeywordGiven, template, action, args)
}

// When records a When step and runs its action.
func (r *Recorder) When(template string, action Action, args ...any) error {
	return r.register(domain.KeywordWhen, template, action, args)
}

// Then records a Then step and runs its action.
func (r *Recorder) Then(template string, action Action, args ...any) error {
	return r.register(domain.KeywordThen, template, action, args)
}

// And records an And continuation step and runs its action.
func (r *Recorder) And(template string, action Action, args ...any) error {
	return r.register(domain.KeywordAnd, template, action, args)
}

// But records a But continuation step and runs its action.
func (r *Recorder) But(template string, action Action, args ...any) error {
	return r.register(domain.KeywordBut, template, action, args)
}

func (r *Recorder) register(keyword domain.Keyword, template string, action Action, args []any) error {
	r.mu.Lock()
	if r.committed {
		r.mu.Unlock()
		return ErrAlreadyCommitted
	}
	if r.inAction {
		r.mu.Unlock()
		return ErrNestedStep
	}

	seq := r.seq
	r.seq++
	r.steps = append(r.steps, domain.StepRecord{
		Feature:  r.feature,
		Scenario: r.scenario,
		Keyword:  keyword,
		Template: template,
		Args:     args,
		Order:    seq,
		Seq:      seq,
		Origin:   domain.OriginRuntime,
	})
	r.inAction = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.inAction = false
		r.mu.Unlock()
	}()

	if action == nil {
		return nil
	}
	if err := action(); err != nil {
		return fmt.Errorf("step %q: %w", template, err)
	}
	return nil
}

// Records returns a snapshot of the recording as a flat record set. The
// snapshot carries the feature and scenario identity records alongside the
// steps so the builder can resolve parents without extra context.
func (r *Recorder) Records() domain.RecordSet {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Recorder) snapshotLocked() domain.RecordSet {
	set := domain.RecordSet{
		Features: []domain.FeatureRecord{{
			Name:      r.feature,
			Narrative: r.narrative,
			Origin:    domain.OriginRuntime,
		}},
		Scenarios: []domain.ScenarioRecord{{
			Feature: r.feature,
			Title:   r.scenario,
			Origin:  domain.OriginRuntime,
		}},
		Steps: make([]domain.StepRecord, len(r.steps)),
	}
	copy(set.Steps, r.steps)
	return set
}

// Commit merges the recording into the collector and seals the recorder.
// A recorder can be committed once; later registrations and commits fail
// with ErrAlreadyCommitted.
func (r *Recorder) Commit(c *Collector) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.committed {
		return ErrAlreadyCommitted
	}
	if r.inAction {
		return ErrNestedStep
	}
	r.committed = true
	c.merge(r.snapshotLocked())
	return nil
}

// Collector is the shared merge point for completed scenario recordings.
// Merging is the only operation that touches shared state and runs under a
// single mutex, so concurrently executing scenarios never interleave their
// step buffers.
type Collector struct {
	mu   sync.Mutex
	sets []domain.RecordSet
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) merge(set domain.RecordSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets = append(c.sets, set)
}

// Records returns all committed recordings flattened into one record set,
// in commit order.
func (c *Collector) Records() domain.RecordSet {
	c.mu.Lock()
	defer c.mu.Unlock()

	var merged domain.RecordSet
	for _, set := range c.sets {
		merged = merged.Append(set)
	}
	return merged
}
