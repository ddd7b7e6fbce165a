package render

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
)

// ServerRenderer renders diagrams through a PlantUML render server instead
// of a local engine. Only raster/vector/text formats are available over
// HTTP; XMI and EPS-text requests are rejected up front. GraphvizDot has no
// effect in this mode since layout happens on the server.
type ServerRenderer struct {
	// Endpoint is the server base URL, e.g. "https://www.plantuml.com/plantuml".
	Endpoint string

	client *retryablehttp.Client
}

// NewServerRenderer creates a renderer talking to the given endpoint.
func NewServerRenderer(endpoint string) *ServerRenderer {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.Logger = nil

	return &ServerRenderer{
		Endpoint: strings.TrimRight(endpoint, "/"),
		client:   client,
	}
}

// Render encodes each diagram found in the source file and fetches the
// rendered image from the server. Images are written into req.OutputDir
// using the source file's base name, with a numeric suffix for the second
// and later diagrams of a multi-diagram file.
func (r *ServerRenderer) Render(ctx context.Context, req Request) ([]GeneratedImage, error) {
	segment := req.Options.Format.serverSegment()
	if segment == "" {
		return nil, fmt.Errorf("format %s is not supported by the render server", req.Options.Format)
	}

	raw, err := os.ReadFile(req.SourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", req.SourceFile, err)
	}
	source, err := DecodeText(raw, req.Options.Charset)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", req.SourceFile, err)
	}

	var configLines []string
	if req.Options.ConfigFile != "" {
		cfg, err := os.ReadFile(req.Options.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		configLines = splitLines(strings.TrimSpace(string(cfg)))
	}

	diagrams := splitDiagrams(source)
	base := strings.TrimSuffix(filepath.Base(req.SourceFile), filepath.Ext(req.SourceFile))
	ext := req.Options.Format.Extension()

	var images []GeneratedImage
	for i, diagram := range diagrams {
		encoded, err := EncodeSource(withConfig(diagram, configLines))
		if err != nil {
			return nil, err
		}

		data, err := r.fetch(ctx, segment, encoded)
		if err != nil {
			return nil, fmt.Errorf("render server failed on %s: %w", req.SourceFile, err)
		}

		name := base + ext
		if i > 0 {
			name = fmt.Sprintf("%s_%03d%s", base, i, ext)
		}
		path := filepath.Join(req.OutputDir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}

		images = append(images, GeneratedImage{
			Path:        path,
			Description: fmt.Sprintf("diagram from %s", filepath.Base(req.SourceFile)),
		})
	}
	return images, nil
}

// fetch retrieves one rendered image from the server.
func (r *ServerRenderer) fetch(ctx context.Context, segment, encoded string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s/%s", r.Endpoint, segment, encoded)
	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("render server returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// splitDiagrams cuts a source text into individual diagram blocks delimited
// by @start/@end markers. Text without markers is treated as one diagram.
func splitDiagrams(source string) []string {
	var diagrams []string
	var current []string
	inDiagram := false

	for _, line := range splitLines(source) {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "@start") {
			current = []string{line}
			inDiagram = true
			continue
		}
		if inDiagram {
			current = append(current, line)
			if strings.HasPrefix(trimmed, "@end") {
				diagrams = append(diagrams, strings.Join(current, "\n"))
				current = nil
				inDiagram = false
			}
		}
	}

	if len(diagrams) == 0 {
		return []string{source}
	}
	return diagrams
}

// withConfig injects external config directives right after the @start line,
// mirroring what the engine's -config flag does locally.
func withConfig(diagram string, configLines []string) string {
	if len(configLines) == 0 {
		return diagram
	}
	lines := splitLines(diagram)
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[0]), "@start") {
		merged := append([]string{lines[0]}, configLines...)
		merged = append(merged, lines[1:]...)
		return strings.Join(merged, "\n")
	}
	return strings.Join(append(append([]string{}, configLines...), lines...), "\n")
}

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
