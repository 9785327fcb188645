package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/cpu-sched-sim/sim/workload"
)

// fallbackQuantum is used when neither a flag, a workload file nor defaults.yaml sets one.
const fallbackQuantum = 2

// Config represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Version        string                            `yaml:"version"`
	DefaultQuantum int                               `yaml:"default_quantum"`
	Workloads      map[string]*workload.WorkloadSpec `yaml:"workloads"` // preset overrides and additions
}

// loadDefaultsConfig parses defaults.yaml into a Config struct.
// A missing file yields an empty Config; a malformed one is an error.
func loadDefaultsConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logrus.Debugf("defaults file %s not found, using built-in presets", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading defaults file %s: %w", path, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, fmt.Errorf("parsing defaults file %s: %w", path, err)
	}
	if cfg.DefaultQuantum < 0 {
		return cfg, fmt.Errorf("defaults file %s: default_quantum must be non-negative, got %d", path, cfg.DefaultQuantum)
	}
	return cfg, nil
}

// applyDefaults loads defaults.yaml and registers its workloads as presets.
func applyDefaults(path string) (Config, error) {
	cfg, err := loadDefaultsConfig(path)
	if err != nil {
		return cfg, err
	}
	if err := workload.ApplyOverrides(cfg.Workloads); err != nil {
		return cfg, fmt.Errorf("defaults file %s: %w", path, err)
	}
	return cfg, nil
}

// quantumOr returns the first positive value, falling back to fallbackQuantum.
func quantumOr(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return fallbackQuantum
}
