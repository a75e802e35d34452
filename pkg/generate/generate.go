// Package generate wires the full pipeline: scan a test module for static
// directives, merge in runtime recordings, build the document, and write one
// text unit per feature.
package generate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/specscribe/core/pkg/builder"
	"github.com/specscribe/core/pkg/domain"
	"github.com/specscribe/core/pkg/gherkin"
	"github.com/specscribe/core/pkg/scanner"
)

// ErrNoFeatures is returned when neither the static scan nor the runtime
// recordings yield a single feature. The run produces no output.
var ErrNoFeatures = errors.New("generate: no features discovered")

// Options configures one generation run.
type Options struct {
	// ModuleDir is the root of the test module to scan.
	ModuleDir string

	// OutDir is the target directory for the emitted .spec files. Ignored
	// when Sink is set.
	OutDir string

	// Patterns filters scanned test files (doublestar globs, relative to
	// ModuleDir). Empty means all test files.
	Patterns []string

	// Exclude lists directory names skipped during discovery, on top of
	// the scanner defaults.
	Exclude []string

	// Workers bounds the scanner's parse concurrency. Zero uses
	// GOMAXPROCS.
	Workers int

	// Timeout bounds the scan. Zero uses the scanner default.
	Timeout time.Duration

	// Runtime carries step registrations captured during test execution,
	// typically a registry.Collector snapshot. May be empty.
	Runtime domain.RecordSet

	// Sink overrides the default directory sink. Useful for tests and
	// alternative delivery targets.
	Sink gherkin.Sink
}

// Report summarizes one generation run: what was produced, and every
// recoverable problem encountered along the way.
type Report struct {
	// RunID identifies this generation run.
	RunID uuid.UUID

	// Document is the resolved tree the run produced.
	Document domain.Document

	// Warnings contains all recoverable problems, in pipeline order:
	// discovery, orphan, conflict, then sink.
	Warnings []domain.Warning

	// FilesScanned is the number of test file candidates the scanner saw.
	FilesScanned int

	// Duration is the total run duration.
	Duration time.Duration
}

// Generate runs the pipeline once.
//
// Recoverable problems never fail the run; they are collected on the report.
// A non-nil error means the run produced no usable document: the module
// could not be loaded, the output sink could not be set up, or zero features
// were discoverable across both mechanisms (ErrNoFeatures, returned together
// with the partial report so its warnings stay visible).
func Generate(ctx context.Context, opts Options) (*Report, error) {
	start := time.Now()
	report := &Report{RunID: uuid.New()}

	sc := scanner.NewScanner(
		scanner.WithPatterns(opts.Patterns),
		scanner.WithExcludePatterns(opts.Exclude),
		scanner.WithWorkers(opts.Workers),
		scanner.WithTimeout(opts.Timeout),
	)

	scanResult, err := sc.Scan(ctx, opts.ModuleDir)
	if err != nil {
		return nil, fmt.Errorf("scan module: %w", err)
	}
	report.FilesScanned = scanResult.Stats.FilesScanned
	report.Warnings = append(report.Warnings, scanResult.Warnings...)

	doc, buildWarnings := builder.Build(scanResult.Records, opts.Runtime)
	report.Warnings = append(report.Warnings, buildWarnings...)
	report.Document = doc

	if len(doc.Features) == 0 {
		report.Duration = time.Since(start)
		return report, ErrNoFeatures
	}

	sink := opts.Sink
	if sink == nil {
		dirSink, sinkErr := gherkin.NewDirSink(opts.OutDir)
		if sinkErr != nil {
			return nil, sinkErr
		}
		sink = dirSink
	}

	report.Warnings = append(report.Warnings, gherkin.WriteDocument(doc, sink)...)
	report.Duration = time.Since(start)
	return report, nil
}
