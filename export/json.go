package export

import (
	"encoding/json"
	"fmt"

	"drafter/sketch"
)

// JSONExporter exports sketches to JSON format
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export converts a sketch to JSON
func (e *JSONExporter) Export(sk *sketch.Sketch) (string, error) {
	if sk == nil {
		return "", fmt.Errorf("cannot export nil sketch")
	}
	data, err := json.MarshalIndent(sk, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetFileExtension returns the file extension for JSON
func (e *JSONExporter) GetFileExtension() string {
	return ".json"
}

// GetFormatName returns the format name
func (e *JSONExporter) GetFormatName() string {
	return "JSON"
}
