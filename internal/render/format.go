package render

import (
	"fmt"
	"strings"
)

// Format identifies one of the output formats understood by the PlantUML
// engine. The set is closed; anything else is a configuration error.
type Format int

const (
	FormatXMI Format = iota
	FormatXMIArgo
	FormatXMIStar
	FormatEPS
	FormatEPSText
	FormatSVG
	FormatPNG
	FormatPDF
	FormatTXT
	FormatUTXT
)

var formatNames = map[string]Format{
	"xmi":       FormatXMI,
	"xmi:argo":  FormatXMIArgo,
	"xmi:start": FormatXMIStar,
	"eps":       FormatEPS,
	"eps:txt":   FormatEPSText,
	"svg":       FormatSVG,
	"png":       FormatPNG,
	"pdf":       FormatPDF,
	"txt":       FormatTXT,
	"utxt":      FormatUTXT,
}

// ParseFormat maps a configured format string to its Format constant.
// Matching is case-insensitive. An unrecognized value is a configuration
// error and must be reported before any file is processed.
func ParseFormat(s string) (Format, error) {
	f, ok := formatNames[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("unrecognized format %q (supported: %s)", s, strings.Join(FormatValues(), ", "))
	}
	return f, nil
}

// FormatValues returns the accepted format strings, for schema validation
// and error messages.
func FormatValues() []string {
	return []string{"xmi", "xmi:argo", "xmi:start", "eps", "eps:txt", "svg", "png", "pdf", "txt", "utxt"}
}

func (f Format) String() string {
	for name, v := range formatNames {
		if v == f {
			return name
		}
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// Flag returns the command line flag selecting this format on the PlantUML
// executable.
func (f Format) Flag() string {
	switch f {
	case FormatXMI:
		return "-txmi"
	case FormatXMIArgo:
		return "-txmi:argo"
	case FormatXMIStar:
		return "-txmi:star"
	case FormatEPS:
		return "-teps"
	case FormatEPSText:
		return "-teps:text"
	case FormatSVG:
		return "-tsvg"
	case FormatPNG:
		return "-tpng"
	case FormatPDF:
		return "-tpdf"
	case FormatTXT:
		return "-ttxt"
	case FormatUTXT:
		return "-tutxt"
	}
	return "-tpng"
}

// Extension returns the file extension of images generated in this format.
func (f Format) Extension() string {
	switch f {
	case FormatXMI, FormatXMIArgo, FormatXMIStar:
		return ".xmi"
	case FormatEPS, FormatEPSText:
		return ".eps"
	case FormatSVG:
		return ".svg"
	case FormatPNG:
		return ".png"
	case FormatPDF:
		return ".pdf"
	case FormatTXT:
		return ".atxt"
	case FormatUTXT:
		return ".utxt"
	}
	return ".png"
}

// serverSegment returns the URL path segment a PlantUML render server uses
// for this format, or "" when the server cannot produce it.
func (f Format) serverSegment() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatSVG:
		return "svg"
	case FormatEPS:
		return "eps"
	case FormatPDF:
		return "pdf"
	case FormatTXT, FormatUTXT:
		return "txt"
	}
	return ""
}
