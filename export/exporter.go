// Package export converts sketches to text-based file formats.
package export

import (
	"fmt"

	"drafter/sketch"
)

// Format represents an export format
type Format string

const (
	// FormatSVG exports scalable vector graphics
	FormatSVG Format = "svg"
	// FormatJSON exports the sketch document model
	FormatJSON Format = "json"
	// FormatASCII exports Unicode art on a character grid
	FormatASCII Format = "ascii"
)

// Exporter interface for different export formats
type Exporter interface {
	// Export converts a sketch to the target format
	Export(sk *sketch.Sketch) (string, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatSVG:
		return NewSVGExporter(), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatASCII:
		return NewASCIIExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch s {
	case "svg":
		return FormatSVG, nil
	case "json":
		return FormatJSON, nil
	case "ascii", "text", "txt":
		return FormatASCII, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{
		FormatSVG,
		FormatJSON,
		FormatASCII,
	}
}

// GetFormatDescriptions returns human-readable descriptions of all formats
func GetFormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatSVG:   "Scalable vector graphics",
		FormatJSON:  "Sketch document model (drafter native format)",
		FormatASCII: "Unicode art on a character grid",
	}
}
