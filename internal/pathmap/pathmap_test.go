package pathmap

import (
	"path/filepath"
	"testing"
)

func TestTruncateBase(t *testing.T) {
	tests := []struct {
		name    string
		dir     string
		pattern string
		want    string
	}{
		{
			name:    "empty pattern leaves path untouched",
			dir:     "/home/u/proj/docs/x/y",
			pattern: "",
			want:    "/home/u/proj/docs/x/y",
		},
		{
			name:    "wildcard plus literal stops at the literal",
			dir:     "/home/u/proj/docs/x/y",
			pattern: "*/docs",
			want:    "/home/u/proj/docs",
		},
		{
			name:    "single literal token matches anywhere",
			dir:     "/a/b/docs/c",
			pattern: "docs",
			want:    "/a/b/docs",
		},
		{
			name:    "mismatch restarts the token run from the beginning",
			dir:     "/x/a/y/a/b/c",
			pattern: "a/b",
			want:    "/x/a/y/a/b",
		},
		{
			name:    "segment breaking a run is consumed, not re-tested",
			dir:     "/a/a/b/z",
			pattern: "a/b",
			want:    "/a/a/b/z",
		},
		{
			name:    "no match falls back to the original path",
			dir:     "/x/y/z",
			pattern: "a/b",
			want:    "/x/y/z",
		},
		{
			name:    "incomplete run at path end falls back",
			dir:     "/x/a",
			pattern: "a/b",
			want:    "/x/a",
		},
		{
			name:    "single wildcard truncates to the first segment",
			dir:     "/home/u",
			pattern: "*",
			want:    "/home",
		},
		{
			name:    "match on the first segment keeps the root",
			dir:     "/docs/x",
			pattern: "docs",
			want:    "/docs",
		},
		{
			name:    "all wildcards complete at pattern length",
			dir:     "/a/b/c/d",
			pattern: "*/*/*",
			want:    "/a/b/c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateBase(tt.dir, tt.pattern)
			if got != tt.want {
				t.Errorf("TruncateBase(%q, %q) = %q, want %q", tt.dir, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestOutputDir(t *testing.T) {
	tests := []struct {
		name       string
		file       string
		sourceDir  string
		outputRoot string
		pattern    string
		inSource   bool
		want       string
	}{
		{
			name:       "in-source mode uses the file's parent",
			file:       "/src/a/b/Diagram.puml",
			sourceDir:  "/src",
			outputRoot: "/out",
			pattern:    "*/ignored",
			inSource:   true,
			want:       "/src/a/b",
		},
		{
			name:       "offset from the source root is mirrored",
			file:       "/src/a/b/Diagram.puml",
			sourceDir:  "/src",
			outputRoot: "/out",
			want:       "/out/a/b",
		},
		{
			name:       "file directly under the source root",
			file:       "/src/Diagram.puml",
			sourceDir:  "/src",
			outputRoot: "/out",
			want:       "/out",
		},
		{
			name:       "truncation shortens the mirrored offset",
			file:       "/home/u/proj/docs/x/y/Diagram.puml",
			sourceDir:  "/home/u",
			outputRoot: "/out",
			pattern:    "*/docs",
			want:       "/out/x/y",
		},
		{
			name:       "unmatched pattern renders flat into the root",
			file:       "/src/a/b/Diagram.puml",
			sourceDir:  "/src",
			outputRoot: "/out",
			pattern:    "nomatch",
			want:       "/out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OutputDir(tt.file, tt.sourceDir, tt.outputRoot, tt.pattern, tt.inSource)
			if err != nil {
				t.Fatalf("OutputDir returned error: %v", err)
			}
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("OutputDir = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutputDirOutsideBase(t *testing.T) {
	// A parent that cannot be expressed under the base path is an error,
	// not a silently wrong ".." offset.
	_, err := OutputDir("/elsewhere/Diagram.puml", "/src", "/out", "", false)
	if err == nil {
		t.Fatal("expected error for a file outside the source directory")
	}
}
