package export

import (
	"fmt"

	"drafter/canvas"
	"drafter/geometry"
	"drafter/sketch"
)

// Grid dimensions for text output, sized to paste into a terminal.
const (
	asciiWidth  = 96
	asciiHeight = 36
)

// ASCIIExporter renders sketches as Unicode art
type ASCIIExporter struct{}

// NewASCIIExporter creates a new ASCII exporter
func NewASCIIExporter() *ASCIIExporter {
	return &ASCIIExporter{}
}

// Export rasterizes a sketch onto a character grid
func (e *ASCIIExporter) Export(sk *sketch.Sketch) (string, error) {
	if sk == nil {
		return "", fmt.Errorf("cannot export nil sketch")
	}
	min, max, ok := canvas.Bounds(sk)
	if !ok {
		min, max = geometry.V(-1, -1), geometry.V(1, 1)
	}
	g := canvas.NewGrid(asciiWidth, asciiHeight, canvas.FitViewport(min, max, asciiWidth, asciiHeight))
	canvas.Render(g, sk, nil)
	return g.String(), nil
}

// GetFileExtension returns the file extension for text output
func (e *ASCIIExporter) GetFileExtension() string {
	return ".txt"
}

// GetFormatName returns the format name
func (e *ASCIIExporter) GetFormatName() string {
	return "ASCII"
}
