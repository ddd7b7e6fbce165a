// Package discovery resolves the set of diagram source files a generation
// run will process, matching include and exclude glob patterns against the
// tree under a base directory.
package discovery

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Resolve walks baseDir and returns every regular file matched by at least
// one include pattern and no exclude pattern. Patterns are doublestar globs
// evaluated against the slash-separated path relative to baseDir. An empty
// include list matches every file. Ordering follows the filesystem walk and
// is not guaranteed across platforms.
func Resolve(baseDir string, includes, excludes []string) ([]string, error) {
	for _, pattern := range append(append([]string{}, includes...), excludes...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}

	var files []string
	err := filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(baseDir, path)
		if err != nil {
			return err
		}
		if matches(filepath.ToSlash(rel), includes, excludes) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", baseDir, err)
	}
	return files, nil
}

// SplitPatterns turns a comma-joined pattern list into its elements,
// dropping empties.
func SplitPatterns(joined string) []string {
	var patterns []string
	for _, p := range strings.Split(joined, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

func matches(rel string, includes, excludes []string) bool {
	included := len(includes) == 0
	for _, pattern := range includes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, pattern := range excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	return true
}
