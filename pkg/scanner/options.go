package scanner

import "time"

// ScanOptions configures scanner behavior.
type ScanOptions struct {
	// ExcludePatterns specifies directory names to skip during file
	// discovery. These are combined with DefaultSkipPatterns.
	ExcludePatterns []string

	// MaxFileSize is the maximum file size in bytes to process. Files
	// larger than this are skipped.
	MaxFileSize int64

	// Patterns specifies glob patterns (doublestar syntax, relative to the
	// module root) to filter test files. Empty means every test file
	// candidate is processed.
	Patterns []string

	// Timeout is the maximum duration for the entire scan operation.
	// Zero or negative values use DefaultTimeout.
	Timeout time.Duration

	// Workers specifies the number of concurrent file parsers.
	// Zero or negative values use runtime.GOMAXPROCS(0).
	Workers int
}

// ScanOption is a functional option for configuring Scanner.
type ScanOption func(*ScanOptions)

// WithWorkers sets the number of concurrent file parsers.
// Negative values are ignored.
func WithWorkers(n int) ScanOption {
	return func(o *ScanOptions) {
		if n >= 0 {
			o.Workers = n
		}
	}
}

// WithTimeout sets the scan timeout duration. Negative values are ignored.
func WithTimeout(d time.Duration) ScanOption {
	return func(o *ScanOptions) {
		if d >= 0 {
			o.Timeout = d
		}
	}
}

// WithExcludePatterns adds directory patterns to skip during file discovery.
func WithExcludePatterns(patterns []string) ScanOption {
	return func(o *ScanOptions) {
		o.ExcludePatterns = patterns
	}
}

// WithPatterns sets glob patterns to filter test files.
func WithPatterns(patterns []string) ScanOption {
	return func(o *ScanOptions) {
		o.Patterns = patterns
	}
}

// WithMaxFileSize sets the maximum file size to process.
func WithMaxFileSize(size int64) ScanOption {
	return func(o *ScanOptions) {
		if size >= 0 {
			o.MaxFileSize = size
		}
	}
}

func applyDefaults(opts *ScanOptions) {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
}
