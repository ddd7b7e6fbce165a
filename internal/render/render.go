// Package render is the client side of the external PlantUML engine. It does
// not understand diagram syntax or layout; it hands a source file and an
// output directory to the engine (local executable or render server) and
// reports back the images the engine produced.
package render

import "context"

// Options carries the rendering options shared by every file of one run.
// It is immutable for the duration of a run; per-file state lives in Request.
type Options struct {
	Format      Format
	Charset     string
	ConfigFile  string
	GraphvizDot string
	Verbose     bool

	// KeepTmpFiles is accepted for compatibility with existing build
	// configurations. The engine passthrough it once mapped to is disabled,
	// so the flag has no effect.
	KeepTmpFiles bool
}

// Request asks for one source file to be rendered into one directory.
type Request struct {
	SourceFile string
	OutputDir  string
	Options    Options
}

// GeneratedImage describes one image the engine produced. A single source
// file may yield several images. Descriptors are only ever logged.
type GeneratedImage struct {
	Path        string
	Description string
}

// Renderer renders a single source file. Implementations block until the
// engine finishes; a failure aborts the whole run, so there is no retry or
// partial-result contract here.
type Renderer interface {
	Render(ctx context.Context, req Request) ([]GeneratedImage, error)
}
