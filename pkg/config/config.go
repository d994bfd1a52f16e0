// Package config provides configuration loading and management for the CPR
// engine. It handles loading configuration from YAML files and provides
// default values for the engine's rendering parameters.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Rendering parameters. Of this group only EdgePreservedSmoothing is
	// read (by cmd/cprtool); axis.New and the cmd/cprtool flags carry their
	// own defaults.
	Rendering struct {
		// WidthMM is the default vertical extent of the panoramic raster,
		// in millimeters.
		WidthMM float64 `yaml:"widthMM"`

		// SlabMM is the default MIP slab thickness perpendicular to the
		// curve, in millimeters. 10-20mm is typical; dental panoramics
		// tend toward the low end, vascular toward the high end.
		SlabMM float64 `yaml:"slabMM"`

		// StepMM, when positive, overrides the PixelSpacing column
		// spacing reported in the output metadata; zero means "use
		// volume.MinPixelSpacing()".
		StepMM float64 `yaml:"stepMM"`

		// ParallelTransport selects frame.ComputeParallelTransport over
		// the default planar perpendicular (frame.Compute).
		ParallelTransport bool `yaml:"parallelTransport"`

		// ReverseOrientation applies the curve.Reverse orientation flip.
		ReverseOrientation bool `yaml:"reverseOrientation"`

		// EdgePreservedSmoothing runs the shearlet-domain edge-preserving
		// smoothing pass over the finished raster before publication.
		EdgePreservedSmoothing bool `yaml:"edgePreservedSmoothing"`
	} `yaml:"rendering"`

	// Shearlet transform parameters. The smoothing pass enabled by
	// Rendering.EdgePreservedSmoothing builds its transform with
	// shearlet.NewTransform's fixed values and does not read these.
	Shearlet struct {
		// Scales is the number of scales for the shearlet transform
		Scales int `yaml:"scales"`

		// Shears is the number of shears for the shearlet transform
		Shears int `yaml:"shears"`

		// ConeParam is the cone parameter for the shearlet transform
		ConeParam float64 `yaml:"coneParam"`
	} `yaml:"shearlet"`

	// Workers holds a worker-count setting. pkg/cpr.Render does not read
	// it: it starts one goroutine per panoramic column.
	Workers struct {
		// NumCores specifies how many CPU cores to use for parallel
		// column rendering.
		NumCores int `yaml:"numCores"`
	} `yaml:"workers"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default rendering parameters, per spec.md §6's parameter defaults
	cfg.Rendering.WidthMM = 40.0
	cfg.Rendering.SlabMM = 15.0
	cfg.Rendering.StepMM = 0.0
	cfg.Rendering.ParallelTransport = false
	cfg.Rendering.ReverseOrientation = true
	cfg.Rendering.EdgePreservedSmoothing = false

	// Set default shearlet parameters
	cfg.Shearlet.Scales = 3
	cfg.Shearlet.Shears = 8
	cfg.Shearlet.ConeParam = 1.0

	// Use all available cores by default
	cfg.Workers.NumCores = runtime.NumCPU()

	// Set default output parameters
	cfg.Output.Verbose = true

	return cfg
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
