// plantuml-render runs a single diagram generation task outside Terraform,
// driven by an HCL task file with optional flag overrides. It uses the same
// generator as the provider, so path mapping and error behavior match.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/AlesRybak/terraform-provider-plantuml/internal/discovery"
	"github.com/AlesRybak/terraform-provider-plantuml/internal/generate"
	"github.com/AlesRybak/terraform-provider-plantuml/internal/render"
	"github.com/AlesRybak/terraform-provider-plantuml/internal/taskfile"
)

func main() {
	var (
		taskPath  = flag.String("task", "plantuml.hcl", "path to the HCL task file")
		sourceDir = flag.String("source-dir", "", "override the task's source directory")
		outputDir = flag.String("output-dir", "", "override the task's output directory")
		format    = flag.String("format", "", "override the task's output format")
		includes  = flag.String("includes", "", "comma-separated include patterns, overrides the task file")
		excludes  = flag.String("excludes", "", "comma-separated exclude patterns, overrides the task file")
		verbose   = flag.Bool("verbose", false, "increase engine diagnostic output")
		logFormat = flag.String("log-format", "text", "log output format: text or json")
	)
	flag.Parse()

	logger := setupLogger(*logFormat, *verbose)

	task, err := taskfile.Load(*taskPath)
	if err != nil {
		logger.Error("Failed to load task file", "error", err)
		os.Exit(1)
	}

	applyOverrides(task, *sourceDir, *outputDir, *format, *includes, *excludes, *verbose)

	generator := &generate.Generator{Renderer: newRenderer(task)}
	result, err := generator.Run(context.Background(), generate.Config{
		SourceDir:         task.SourceDir,
		Includes:          task.Includes,
		Excludes:          task.Excludes,
		OutputDir:         task.OutputDir,
		OutputInSourceDir: task.OutputInSourceDir,
		TruncatePattern:   task.TruncatePattern,
		Format:            task.Format,
		Charset:           task.Charset,
		ConfigFile:        task.ConfigFile,
		GraphvizDot:       task.GraphvizDot,
		Verbose:           task.Verbose,
		KeepTmpFiles:      task.KeepTmpFiles,
	})
	if err != nil {
		logger.Error("Diagram generation failed", "error", err)
		os.Exit(1)
	}

	if result.Skipped {
		logger.Warn("Nothing to do", "reason", result.SkipReason)
		return
	}

	for _, image := range result.Images {
		logger.Debug("Generated image", "path", image.Path, "description", image.Description)
	}
	logger.Info("Diagram generation finished",
		"files_processed", result.FilesProcessed,
		"images", len(result.Images))
}

// newRenderer picks the engine the task asks for: a render server when
// render_url is set, the local executable or jar otherwise.
func newRenderer(task *taskfile.Task) render.Renderer {
	if task.RenderURL != "" {
		return render.NewServerRenderer(task.RenderURL)
	}
	return &render.ExecRenderer{
		Executable: task.PlantumlPath,
		JarPath:    task.PlantumlJar,
		JavaPath:   task.JavaPath,
	}
}

// applyOverrides lets command line flags win over task file values.
func applyOverrides(task *taskfile.Task, sourceDir, outputDir, format, includes, excludes string, verbose bool) {
	if sourceDir != "" {
		task.SourceDir = sourceDir
	}
	if outputDir != "" {
		task.OutputDir = outputDir
	}
	if format != "" {
		task.Format = format
	}
	if includes != "" {
		task.Includes = discovery.SplitPatterns(includes)
	}
	if excludes != "" {
		task.Excludes = discovery.SplitPatterns(excludes)
	}
	if verbose {
		task.Verbose = true
	}
}

// setupLogger initializes the process logger and sets it as default.
func setupLogger(format string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: plantuml-render [flags]\n\nRenders PlantUML diagram sources according to an HCL task file.\n\n")
		flag.PrintDefaults()
	}
}
