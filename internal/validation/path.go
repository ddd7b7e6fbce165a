// Package validation provides the filesystem pre-flight checks run before
// any diagram is rendered: the soft source-directory check and the fatal
// output-directory check.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
)

// CheckSourceDir verifies that dir exists and is a directory. A failure here
// is a soft condition: the caller logs a warning and the run is a successful
// no-op, never an error.
func CheckSourceDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("source directory is not set")
	}

	info, err := os.Stat(filepath.Clean(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s is not a valid path", dir)
		}
		return fmt.Errorf("failed to access %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// EnsureOutputDir makes sure dir exists and is a directory, creating it (and
// any missing parents) when absent. A failure here is a fatal configuration
// error: the run aborts before processing any file.
func EnsureOutputDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("output directory is not set")
	}

	clean := filepath.Clean(dir)
	info, err := os.Stat(clean)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access output directory %s: %w", dir, err)
		}
		if err := os.MkdirAll(clean, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
		return nil
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a valid directory", dir)
	}
	return nil
}
