// Package pathmap computes, for each discovered diagram source file, the
// directory its rendered images belong in: either beside the source file, or
// under the output root at an offset mirroring the source tree. A truncate
// pattern can collapse a deep source prefix down to a recognizable folder
// before the offset is taken.
package pathmap

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Wildcard is the truncate pattern token matching any single path segment.
const Wildcard = "*"

// TruncateBase collapses dir down to the shortest prefix whose trailing
// segments complete the slash-delimited pattern as a contiguous run of
// matching tokens. The walk goes root to leaf; a segment that breaks a
// partial run restarts the match from the first token (the segment itself is
// consumed, not re-tested). When no run completes, dir is returned unchanged.
func TruncateBase(dir, pattern string) string {
	if pattern == "" {
		return dir
	}
	tokens := strings.Split(pattern, "/")

	clean := filepath.Clean(dir)
	vol := filepath.VolumeName(clean)
	rest := clean[len(vol):]
	sep := string(filepath.Separator)
	rooted := strings.HasPrefix(rest, sep)
	rest = strings.Trim(rest, sep)
	if rest == "" {
		return dir
	}
	segments := strings.Split(rest, sep)

	cursor := 0
	for i, segment := range segments {
		token := tokens[cursor]
		if token == Wildcard || segment == token {
			cursor++
			if cursor == len(tokens) {
				prefix := vol
				if rooted {
					prefix += sep
				}
				return filepath.Join(prefix, filepath.Join(segments[:i+1]...))
			}
		} else {
			cursor = 0
		}
	}
	return dir
}

// OutputDir resolves the directory the images of file should be rendered
// into.
//
// In-source mode always yields the file's own parent directory. Otherwise
// the offset of the parent directory from a base path is preserved under
// outputRoot; the base is the source directory, or, when a truncate pattern
// is set, the truncated parent path (which falls back to the parent itself
// when the pattern never matches, flattening that file into the root).
func OutputDir(file, sourceDir, outputRoot, truncatePattern string, inSource bool) (string, error) {
	parent := filepath.Dir(file)
	if inSource {
		return parent, nil
	}

	base := sourceDir
	if truncatePattern != "" {
		base = TruncateBase(parent, truncatePattern)
	}

	rel, err := filepath.Rel(base, parent)
	if err != nil {
		return "", fmt.Errorf("failed to relativize %s against %s: %w", parent, base, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside base path %s", parent, base)
	}
	return filepath.Join(outputRoot, rel), nil
}
