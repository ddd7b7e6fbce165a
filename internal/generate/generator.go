// Package generate orchestrates one diagram generation run: resolve the
// source file set, compute each file's output directory, and hand every file
// to the rendering engine in sequence. It is shared between the Terraform
// resource, the data source, and the standalone CLI to keep the three
// entrypoints behaving identically.
package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlesRybak/terraform-provider-plantuml/internal/discovery"
	"github.com/AlesRybak/terraform-provider-plantuml/internal/pathmap"
	"github.com/AlesRybak/terraform-provider-plantuml/internal/render"
	"github.com/AlesRybak/terraform-provider-plantuml/internal/validation"
	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// DefaultOutputDir is used when no output directory is configured and
// in-source mode is off.
const DefaultOutputDir = "plantuml.out"

// Config is the immutable description of one generation run. It is never
// mutated during processing; per-file state lives in the render.Request
// values derived from it.
type Config struct {
	SourceDir string
	Includes  []string
	Excludes  []string

	OutputDir         string
	OutputInSourceDir bool
	TruncatePattern   string

	Format       string
	Charset      string
	ConfigFile   string
	GraphvizDot  string
	Verbose      bool
	KeepTmpFiles bool
}

// Result summarizes a completed run.
type Result struct {
	FilesProcessed int
	Images         []render.GeneratedImage

	// Skipped is set when the source directory was missing or not a
	// directory: the run is a successful no-op, not an error.
	Skipped    bool
	SkipReason string
}

// Generator runs generation tasks against a rendering engine.
type Generator struct {
	Renderer render.Renderer
}

// Run executes one generation task.
//
// Configuration errors (unrecognized format, unusable output directory) are
// reported before any file is touched. A missing source directory is a soft
// condition yielding a skipped Result. Any error while discovering files or
// rendering aborts the remaining files; there is no per-file recovery.
func (g *Generator) Run(ctx context.Context, cfg Config) (*Result, error) {
	opts, err := g.renderOptions(cfg)
	if err != nil {
		return nil, err
	}

	if err := validation.CheckSourceDir(cfg.SourceDir); err != nil {
		tflog.Warn(ctx, "skipping diagram generation", map[string]interface{}{
			"reason": err.Error(),
		})
		return &Result{Skipped: true, SkipReason: err.Error()}, nil
	}

	outputDir := cfg.OutputDir
	if !cfg.OutputInSourceDir {
		if outputDir == "" {
			outputDir = DefaultOutputDir
		}
		if err := validation.EnsureOutputDir(outputDir); err != nil {
			return nil, err
		}
	}

	sourceDir, err := filepath.Abs(cfg.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source directory: %w", err)
	}

	files, err := discovery.Resolve(sourceDir, cfg.Includes, cfg.Excludes)
	if err != nil {
		return nil, fmt.Errorf("failed to discover diagram sources: %w", err)
	}

	result := &Result{}
	for _, file := range files {
		tflog.Info(ctx, "processing diagram source", map[string]interface{}{
			"file": file,
		})

		targetDir, err := pathmap.OutputDir(file, sourceDir, outputDir, cfg.TruncatePattern, cfg.OutputInSourceDir)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(targetDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory %s: %w", targetDir, err)
		}

		images, err := g.Renderer.Render(ctx, render.Request{
			SourceFile: file,
			OutputDir:  targetDir,
			Options:    opts,
		})
		if err != nil {
			return nil, fmt.Errorf("diagram generation failed: %w", err)
		}

		for _, image := range images {
			tflog.Debug(ctx, "generated image", map[string]interface{}{
				"path":        image.Path,
				"description": image.Description,
			})
		}

		result.FilesProcessed++
		result.Images = append(result.Images, images...)
	}
	return result, nil
}

// renderOptions validates the format up front and freezes the options shared
// by every file of the run.
func (g *Generator) renderOptions(cfg Config) (render.Options, error) {
	format := render.FormatPNG
	if cfg.Format != "" {
		parsed, err := render.ParseFormat(cfg.Format)
		if err != nil {
			return render.Options{}, err
		}
		format = parsed
	}

	return render.Options{
		Format:       format,
		Charset:      cfg.Charset,
		ConfigFile:   cfg.ConfigFile,
		GraphvizDot:  cfg.GraphvizDot,
		Verbose:      cfg.Verbose,
		KeepTmpFiles: cfg.KeepTmpFiles,
	}, nil
}
