package generate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/AlesRybak/terraform-provider-plantuml/internal/render"
)

// fakeRenderer records requests and fabricates one image per source file.
type fakeRenderer struct {
	requests []render.Request
	err      error
}

func (f *fakeRenderer) Render(ctx context.Context, req render.Request) ([]render.GeneratedImage, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return []render.GeneratedImage{{
		Path:        filepath.Join(req.OutputDir, strings.TrimSuffix(filepath.Base(req.SourceFile), ".puml")+".png"),
		Description: "fake image",
	}}, nil
}

func writeSource(t *testing.T, dir, rel string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("@startuml\nA -> B\n@enduml\n"), 0644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}
	return path
}

func TestRunMissingSourceDirIsSoftNoOp(t *testing.T) {
	fake := &fakeRenderer{}
	g := &Generator{Renderer: fake}
	outDir := filepath.Join(t.TempDir(), "out")

	result, err := g.Run(context.Background(), Config{
		SourceDir: filepath.Join(t.TempDir(), "does-not-exist"),
		OutputDir: outDir,
	})
	if err != nil {
		t.Fatalf("missing source dir must not be an error, got: %v", err)
	}
	if !result.Skipped {
		t.Error("expected a skipped result")
	}
	if result.FilesProcessed != 0 || len(result.Images) != 0 {
		t.Error("skipped run must process nothing")
	}
	if len(fake.requests) != 0 {
		t.Error("renderer must not be invoked on a skipped run")
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Error("skipped run must not create the output directory")
	}
}

func TestRunSourcePathIsAFile(t *testing.T) {
	dir := t.TempDir()
	file := writeSource(t, dir, "d.puml")

	g := &Generator{Renderer: &fakeRenderer{}}
	result, err := g.Run(context.Background(), Config{SourceDir: file, OutputDir: filepath.Join(dir, "out")})
	if err != nil {
		t.Fatalf("non-directory source must be a soft skip, got: %v", err)
	}
	if !result.Skipped {
		t.Error("expected a skipped result")
	}
}

func TestRunUnrecognizedFormatFailsFast(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "d.puml")
	fake := &fakeRenderer{}
	g := &Generator{Renderer: fake}

	_, err := g.Run(context.Background(), Config{
		SourceDir: dir,
		OutputDir: filepath.Join(dir, "out"),
		Format:    "bogus",
	})
	if err == nil {
		t.Fatal("expected error for unrecognized format")
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Errorf("error should name the bad format, got: %v", err)
	}
	if len(fake.requests) != 0 {
		t.Error("no file may be processed after a format error")
	}
}

func TestRunBadOutputDirFailsBeforeProcessing(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "d.puml")
	blocker := writeSource(t, dir, "blocker")

	fake := &fakeRenderer{}
	g := &Generator{Renderer: fake}
	_, err := g.Run(context.Background(), Config{SourceDir: dir, OutputDir: blocker})
	if err == nil {
		t.Fatal("expected error when the output path is an existing file")
	}
	if len(fake.requests) != 0 {
		t.Error("no file may be processed after an output directory error")
	}
}

func TestRunMirrorsSourceTree(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a/b/first.puml")
	writeSource(t, dir, "second.puml")
	writeSource(t, dir, "notes.txt")
	outDir := filepath.Join(dir, "out")

	fake := &fakeRenderer{}
	g := &Generator{Renderer: fake}
	result, err := g.Run(context.Background(), Config{
		SourceDir: dir,
		Includes:  []string{"**/*.puml"},
		OutputDir: outDir,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if result.FilesProcessed != 2 {
		t.Fatalf("FilesProcessed = %d, want 2", result.FilesProcessed)
	}
	if len(result.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(result.Images))
	}

	var targets []string
	for _, req := range fake.requests {
		targets = append(targets, req.OutputDir)
		// Base options must be identical for every file of a run.
		if req.Options.Format != render.FormatPNG {
			t.Errorf("request for %s carries format %v, want default png", req.SourceFile, req.Options.Format)
		}
		if _, err := os.Stat(req.OutputDir); err != nil {
			t.Errorf("target directory %s was not created: %v", req.OutputDir, err)
		}
	}
	sort.Strings(targets)
	want := []string{outDir, filepath.Join(outDir, "a", "b")}
	sort.Strings(want)
	for i := range want {
		if targets[i] != want[i] {
			t.Errorf("target dirs = %v, want %v", targets, want)
			break
		}
	}
}

func TestRunInSourceModeIgnoresOutputConfig(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, "a/b/d.puml")

	fake := &fakeRenderer{}
	g := &Generator{Renderer: fake}
	_, err := g.Run(context.Background(), Config{
		SourceDir:         dir,
		OutputInSourceDir: true,
		OutputDir:         filepath.Join(dir, "ignored-out"),
		TruncatePattern:   "*/ignored",
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(fake.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(fake.requests))
	}
	if fake.requests[0].OutputDir != filepath.Dir(source) {
		t.Errorf("in-source output dir = %s, want %s", fake.requests[0].OutputDir, filepath.Dir(source))
	}
	if _, err := os.Stat(filepath.Join(dir, "ignored-out")); !os.IsNotExist(err) {
		t.Error("in-source mode must not create the configured output directory")
	}
}

func TestRunTruncatePattern(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "src/main/docs/x/y/d.puml")
	outDir := filepath.Join(dir, "out")

	fake := &fakeRenderer{}
	g := &Generator{Renderer: fake}
	_, err := g.Run(context.Background(), Config{
		SourceDir:       dir,
		Includes:        []string{"**/*.puml"},
		OutputDir:       outDir,
		TruncatePattern: "docs",
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(fake.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(fake.requests))
	}
	want := filepath.Join(outDir, "x", "y")
	if fake.requests[0].OutputDir != want {
		t.Errorf("truncated output dir = %s, want %s", fake.requests[0].OutputDir, want)
	}
}

func TestRunAbortsOnFirstRenderError(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "one.puml")
	writeSource(t, dir, "two.puml")

	fake := &fakeRenderer{err: errors.New("engine exploded")}
	g := &Generator{Renderer: fake}
	_, err := g.Run(context.Background(), Config{
		SourceDir: dir,
		Includes:  []string{"*.puml"},
		OutputDir: filepath.Join(dir, "out"),
	})
	if err == nil {
		t.Fatal("expected the run to fail")
	}
	if !errors.Is(err, fake.err) {
		t.Errorf("error should wrap the renderer failure, got: %v", err)
	}
	if len(fake.requests) != 1 {
		t.Errorf("remaining files must not be processed after a failure, got %d requests", len(fake.requests))
	}
}

func TestRunDefaultOutputDir(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "d.puml")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd returned error: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("Chdir returned error: %v", err)
		}
	})

	g := &Generator{Renderer: &fakeRenderer{}}
	result, err := g.Run(context.Background(), Config{SourceDir: dir})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.FilesProcessed != 1 {
		t.Fatalf("FilesProcessed = %d, want 1", result.FilesProcessed)
	}
	if _, err := os.Stat(DefaultOutputDir); err != nil {
		t.Errorf("default output directory was not created: %v", err)
	}
}
