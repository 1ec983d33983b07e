// Package config provides configuration loading and management for the
// localncc metric core. It handles loading configuration from YAML files
// and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the metric configuration loaded from YAML
type Config struct {
	// Metric parameters
	Metric struct {
		// Radius is the half-side of the correlation window; the window
		// spans 2*radius+1 voxels per axis
		Radius int `yaml:"radius"`
	} `yaml:"metric"`

	// Pyramid parameters for the outer multi-resolution scheduler
	Pyramid struct {
		// LevelRadii lists the window radius to use at each resolution
		// level, coarsest first. An empty list means Metric.Radius is
		// used at every level.
		LevelRadii []int `yaml:"levelRadii"`
	} `yaml:"pyramid"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// A radius of 4 (9-voxel window side) is the customary default for
	// cross-correlation driven registration.
	cfg.Metric.Radius = 4
	cfg.Pyramid.LevelRadii = nil
	cfg.Output.Verbose = true

	return cfg
}

// RadiusForLevel returns the window radius for the given pyramid level,
// falling back to the base radius when no per-level schedule is set or the
// level is beyond the schedule.
func (cfg *Config) RadiusForLevel(level int) int {
	if level >= 0 && level < len(cfg.Pyramid.LevelRadii) {
		return cfg.Pyramid.LevelRadii[level]
	}
	return cfg.Metric.Radius
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
