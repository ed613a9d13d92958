package utils

import (
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

// StepRecord is one row of steps.csv
type StepRecord struct {
	Generation    int     `csv:"generation"`
	Algorithm     string  `csv:"algorithm"`
	Population    int     `csv:"population"`
	Tiles         int     `csv:"tiles"`
	ActiveTiles   int     `csv:"active_tiles"`
	RetainedTiles int     `csv:"retained_tiles"`
	Created       int     `csv:"created"`
	Destroyed     int     `csv:"destroyed"`
	StepMillis    float64 `csv:"step_ms"`
}

// OutputManager writes per-step CSV records and the effective config.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir       string
	stepsFile *os.File

	stepsHeaderWritten bool
}

// NewOutputManager creates the output directory and steps.csv.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "[NewOutputManager] failed to create directory: %+v", dir)
	}

	f, err := os.Create(filepath.Join(dir, "steps.csv"))
	if err != nil {
		return nil, errors.Wrap(err, "[NewOutputManager] failed to create steps.csv")
	}
	return &OutputManager{dir: dir, stepsFile: f}, nil
}

// WriteConfig saves the configuration as config.yaml
func (om *OutputManager) WriteConfig(cfg Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteStep appends one record to steps.csv, writing the header first
func (om *OutputManager) WriteStep(rec StepRecord) error {
	if om == nil {
		return nil
	}

	records := []StepRecord{rec}
	if !om.stepsHeaderWritten {
		if err := gocsv.Marshal(records, om.stepsFile); err != nil {
			return errors.Wrap(err, "[WriteStep] failed to write record")
		}
		om.stepsHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.stepsFile); err != nil {
		return errors.Wrap(err, "[WriteStep] failed to write record")
	}
	return nil
}

// Dir returns the output directory path
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes steps.csv
func (om *OutputManager) Close() error {
	if om == nil || om.stepsFile == nil {
		return nil
	}
	return om.stepsFile.Close()
}
