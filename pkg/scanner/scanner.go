// Package scanner discovers specification directives in a Go test module.
//
// The scanner walks a module root for _test.go files, parses each one with
// tree-sitter, and decodes //spec: directive comments into flat raw records.
// Hierarchy is not resolved here; that is the builder's job. Because Go
// guarantees no particular iteration order for structural members, the
// scanner imposes its own stable total order at discovery time: files sort
// by path, directives keep their source position, and every record carries
// the resulting run-wide sequence number.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/specscribe/core/pkg/domain"
)

const (
	// DefaultWorkers indicates that the scanner should use GOMAXPROCS as
	// the worker count.
	DefaultWorkers = 0
	// DefaultTimeout is the default scan timeout duration.
	DefaultTimeout = 2 * time.Minute
	// MaxWorkers is the maximum number of concurrent workers allowed.
	MaxWorkers = 1024
	// DefaultMaxFileSize is the default maximum file size for scanning (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024
)

// DefaultSkipPatterns contains directory names skipped by default during
// file discovery.
var DefaultSkipPatterns = []string{
	".git",
	"node_modules",
	"vendor",
}

var (
	// ErrScanCancelled is returned when scanning is cancelled via context.
	ErrScanCancelled = errors.New("scanner: scan cancelled")
	// ErrScanTimeout is returned when scanning exceeds the timeout duration.
	ErrScanTimeout = errors.New("scanner: scan timeout")
)

// Scanner discovers directive records in a test module's source tree.
type Scanner struct {
	options *ScanOptions
}

// ScanResult contains the outcome of a scan operation.
type ScanResult struct {
	// Records contains all discovered raw records in stable discovery
	// order.
	Records domain.RecordSet

	// Warnings contains non-fatal problems encountered during scanning.
	// A malformed directive never aborts the scan.
	Warnings []domain.Warning

	// Stats provides scan statistics.
	Stats ScanStats
}

// ScanStats provides statistics about the scan operation.
type ScanStats struct {
	// FilesScanned is the total number of test file candidates discovered.
	FilesScanned int

	// FilesParsed is the number of files that were successfully parsed.
	FilesParsed int

	// FilesFailed is the number of files that failed to parse.
	FilesFailed int

	// Records is the total number of raw records discovered.
	Records int

	// Duration is the total scan duration.
	Duration time.Duration
}

// NewScanner creates a new scanner with the given options.
func NewScanner(opts ...ScanOption) *Scanner {
	options := &ScanOptions{}
	for _, opt := range opts {
		opt(options)
	}
	applyDefaults(options)

	return &Scanner{options: options}
}

// Scan discovers and parses every test file under root and returns the flat
// record set in stable discovery order.
//
// A module containing zero directives yields an empty record set and a nil
// error. The only fatal failure is a root that cannot be loaded at all.
func (s *Scanner) Scan(ctx context.Context, root string) (*ScanResult, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.options.Timeout)
	defer cancel()

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("load test module %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("load test module %s: not a directory", root)
	}

	result := &ScanResult{}

	files, walkWarnings := s.discoverTestFiles(ctx, root)
	result.Warnings = append(result.Warnings, walkWarnings...)
	result.Stats.FilesScanned = len(files)

	if len(files) == 0 {
		result.Stats.Duration = time.Since(startTime)
		return result, nil
	}

	s.parseFilesParallel(ctx, root, files, result)
	result.Stats.Records = len(result.Records.Features) +
		len(result.Records.Scenarios) + len(result.Records.Steps)
	result.Stats.Duration = time.Since(startTime)

	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return result, ErrScanTimeout
		}
		if errors.Is(err, context.Canceled) {
			return result, ErrScanCancelled
		}
	}

	return result, nil
}

// discoverTestFiles walks the module root and returns relative paths of test
// file candidates.
func (s *Scanner) discoverTestFiles(ctx context.Context, root string) ([]string, []domain.Warning) {
	skipSet := buildSkipSet(append(append([]string{}, DefaultSkipPatterns...), s.options.ExcludePatterns...))

	var (
		files    []string
		warnings []domain.Warning
	)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if walkErr != nil {
			warnings = append(warnings, domain.Warning{
				Kind:    domain.WarnDiscovery,
				Path:    path,
				Message: fmt.Sprintf("access error: %v", walkErr),
			})
			return nil
		}

		if d.IsDir() {
			if path != root && skipSet[filepath.Base(path)] {
				return filepath.SkipDir
			}
			return nil
		}

		if !isTestFile(path) {
			return nil
		}

		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			warnings = append(warnings, domain.Warning{
				Kind:    domain.WarnDiscovery,
				Path:    path,
				Message: fmt.Sprintf("compute relative path: %v", relErr),
			})
			return nil
		}

		if len(s.options.Patterns) > 0 && !matchesAnyPattern(relPath, s.options.Patterns) {
			return nil
		}

		if s.options.MaxFileSize > 0 {
			if info, infoErr := d.Info(); infoErr == nil && info.Size() > s.options.MaxFileSize {
				return nil
			}
		}

		files = append(files, relPath)
		return nil
	})

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		warnings = append(warnings, domain.Warning{
			Kind:    domain.WarnDiscovery,
			Path:    root,
			Message: fmt.Sprintf("walk: %v", err),
		})
	}

	return files, warnings
}

type fileResult struct {
	path     string
	records  domain.RecordSet
	warnings []domain.Warning
	count    int
}

// parseFilesParallel parses files concurrently, then rebases per-file
// sequence numbers onto one run-wide discovery order. Goroutines finish in
// variable order, so results are re-sorted by path before sequence numbers
// are assigned; the discovery order is therefore reproducible run to run.
func (s *Scanner) parseFilesParallel(ctx context.Context, root string, files []string, result *ScanResult) {
	workers := s.options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}

	sem := semaphore.NewWeighted(int64(workers))
	g, gCtx := errgroup.WithContext(ctx)

	var (
		mu      sync.Mutex
		results = make([]fileResult, 0, len(files))
		failed  []domain.Warning
	)

	for _, file := range files {
		g.Go(func() error {
			if err := sem.Acquire(gCtx, 1); err != nil {
				return nil
			}
			defer sem.Release(1)

			res, err := parseModuleFile(gCtx, root, file)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				failed = append(failed, domain.Warning{
					Kind:    domain.WarnDiscovery,
					Path:    file,
					Message: fmt.Sprintf("parse: %v", err),
				})
				return nil
			}

			results = append(results, res)
			return nil
		})
	}

	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].path < results[j].path
	})

	offset := 0
	for _, res := range results {
		for i := range res.records.Features {
			res.records.Features[i].Seq += offset
		}
		for i := range res.records.Scenarios {
			res.records.Scenarios[i].Seq += offset
		}
		for i := range res.records.Steps {
			res.records.Steps[i].Seq += offset
		}
		offset += res.count

		result.Records = result.Records.Append(res.records)
		result.Warnings = append(result.Warnings, res.warnings...)
	}

	result.Stats.FilesParsed = len(results)
	result.Stats.FilesFailed = len(failed)
	result.Warnings = append(result.Warnings, failed...)
}

// parseModuleFile parses one test file and extracts its directive records.
func parseModuleFile(ctx context.Context, root, relPath string) (fileResult, error) {
	if err := ctx.Err(); err != nil {
		return fileResult{}, err
	}

	content, err := os.ReadFile(filepath.Join(root, relPath))
	if err != nil {
		return fileResult{}, fmt.Errorf("read: %w", err)
	}

	tree, err := parseGo(ctx, content)
	if err != nil {
		return fileResult{}, err
	}
	defer tree.Close()

	p := newFileParser(filepath.ToSlash(relPath))
	walkTree(tree.RootNode(), func(node *sitter.Node) bool {
		if node.Type() != "comment" {
			return true
		}
		text := nodeText(node, content)
		if strings.HasPrefix(text, DirectivePrefix) {
			p.consume(text, int(node.StartPoint().Row)+1)
		}
		return false
	})

	return fileResult{
		path:     relPath,
		records:  p.records,
		warnings: p.warnings,
		count:    p.seq,
	}, nil
}

func matchesAnyPattern(relPath string, patterns []string) bool {
	slashed := filepath.ToSlash(relPath)
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, slashed); err == nil && ok {
			return true
		}
	}
	return false
}

func buildSkipSet(patterns []string) map[string]bool {
	skipSet := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		skipSet[p] = true
	}
	return skipSet
}

func isTestFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, "_test.go")
}
