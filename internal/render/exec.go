package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ExecRenderer invokes a locally installed PlantUML engine, either a
// `plantuml` wrapper on PATH or a jar run through the JVM.
type ExecRenderer struct {
	// Executable is the PlantUML command to run. Defaults to "plantuml".
	// Ignored when JarPath is set.
	Executable string

	// JarPath points at a plantuml.jar; when set the engine is run as
	// `java -jar <JarPath> ...`.
	JarPath string

	// JavaPath overrides the JVM used with JarPath. Defaults to "java".
	JavaPath string
}

// Render runs the engine on one source file and reports the images it wrote
// into the output directory. The call blocks until the engine exits; a
// non-zero exit is returned as an error carrying the engine's output.
func (r *ExecRenderer) Render(ctx context.Context, req Request) ([]GeneratedImage, error) {
	before, err := dirEntries(req.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory %s: %w", req.OutputDir, err)
	}

	name, args := r.command(req)
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return nil, fmt.Errorf("plantuml failed on %s: %w", req.SourceFile, err)
		}
		return nil, fmt.Errorf("plantuml failed on %s: %w: %s", req.SourceFile, err, msg)
	}

	after, err := dirEntries(req.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory %s: %w", req.OutputDir, err)
	}

	var images []GeneratedImage
	for name := range after {
		if before[name] {
			continue
		}
		images = append(images, GeneratedImage{
			Path:        filepath.Join(req.OutputDir, name),
			Description: fmt.Sprintf("diagram from %s", filepath.Base(req.SourceFile)),
		})
	}
	return images, nil
}

// command assembles the engine command line for one request.
func (r *ExecRenderer) command(req Request) (string, []string) {
	var name string
	var args []string

	if r.JarPath != "" {
		name = r.JavaPath
		if name == "" {
			name = "java"
		}
		args = append(args, "-jar", r.JarPath)
	} else {
		name = r.Executable
		if name == "" {
			name = "plantuml"
		}
	}

	args = append(args, req.Options.Format.Flag(), "-o", req.OutputDir)
	if req.Options.Charset != "" {
		args = append(args, "-charset", req.Options.Charset)
	}
	if req.Options.ConfigFile != "" {
		args = append(args, "-config", req.Options.ConfigFile)
	}
	if req.Options.GraphvizDot != "" {
		args = append(args, "-graphvizdot", req.Options.GraphvizDot)
	}
	if req.Options.Verbose {
		args = append(args, "-verbose")
	}
	args = append(args, req.SourceFile)
	return name, args
}

// dirEntries returns the set of regular file names in dir. A missing dir is
// treated as empty; the engine may be the one creating it.
func dirEntries(dir string) (map[string]bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil
		}
		return nil, err
	}
	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names[e.Name()] = true
		}
	}
	return names, nil
}
