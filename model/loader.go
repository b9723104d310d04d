package model

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DecodeGrid reads a YAML (or JSON) scenario document and builds a GridSimulation from it.
func DecodeGrid(r io.Reader) (*GridSimulation, error) {
	var data GridData
	if err := yaml.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("DecodeGrid: %w", err)
	}
	return NewGridSimulation(data)
}

// LoadGrid reads a scenario file written as YAML or JSON.
func LoadGrid(path string) (*GridSimulation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadGrid: %w", err)
	}
	defer f.Close()

	g, err := DecodeGrid(f)
	if err != nil {
		return nil, fmt.Errorf("LoadGrid %s: %w", path, err)
	}
	return g, nil
}
