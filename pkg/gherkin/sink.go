package gherkin

import (
	"fmt"
	"os"
	"path/filepath"
)

// SpecFileExt is the file extension of emitted feature text units.
const SpecFileExt = ".spec"

// DirSink writes each feature's text unit to "<name>.spec" under a target
// directory. Each write is one-shot: no retries, no partial-file cleanup
// beyond what os.WriteFile provides.
type DirSink struct {
	// Root is the target directory. It must exist or be creatable.
	Root string
}

// NewDirSink creates a sink rooted at dir, creating the directory if needed.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return &DirSink{Root: dir}, nil
}

// WriteFeature writes one feature's content to <Root>/<name>.spec.
func (s *DirSink) WriteFeature(name string, content []byte) error {
	path := filepath.Join(s.Root, name+SpecFileExt)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
