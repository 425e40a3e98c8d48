// Package config loads the description of a building to convert: its floor
// diagrams, the level spacing, transition costs and output locations.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pimlu/floorgraph/src/floorplan"
	"github.com/pimlu/floorgraph/src/wayfinder"
	"gopkg.in/yaml.v3"
)

const (
	DefaultHeightIncrement = 50.0
	DefaultElevatorCost    = 1.0
	DefaultOutputPath      = "graph_data.json"
)

// ErrNoFloors is returned when a configuration lists no floor diagrams.
var ErrNoFloors = errors.New("no floors configured")

// Config is the root configuration. Pointer fields are optional; the Get
// methods supply defaults for fields left out of the file.
type Config struct {
	Floors []wayfinder.Source `json:"floors" yaml:"floors"`

	HeightIncrement *float64 `json:"height_increment,omitempty" yaml:"height_increment,omitempty"`
	ElevatorCost    *float64 `json:"elevator_cost,omitempty" yaml:"elevator_cost,omitempty"`
	// StairCost defaults to the height increment.
	StairCost *float64 `json:"stair_cost,omitempty" yaml:"stair_cost,omitempty"`

	ParallelEdges string                 `json:"parallel_edges,omitempty" yaml:"parallel_edges,omitempty"`
	Labels        floorplan.Labels       `json:"labels" yaml:"labels"`
	Shapes        floorplan.ShapeOptions `json:"shapes" yaml:"shapes"`

	OutputPath  string `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	DotPath     string `json:"dot_path,omitempty" yaml:"dot_path,omitempty"`
	PreviewDir  string `json:"preview_dir,omitempty" yaml:"preview_dir,omitempty"`
	ScratchDir  string `json:"scratch_dir,omitempty" yaml:"scratch_dir,omitempty"`
	KeepScratch bool   `json:"keep_scratch,omitempty" yaml:"keep_scratch,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Read parses a .json, .yaml or .yml configuration without validating it.
// Relative floor paths are resolved against the file's directory.
func Read(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	switch ext := strings.ToLower(filepath.Ext(cleanPath)); ext {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	base := filepath.Dir(cleanPath)
	for i := range cfg.Floors {
		if p := cfg.Floors[i].Path; p != "" && !filepath.IsAbs(p) {
			cfg.Floors[i].Path = filepath.Join(base, p)
		}
	}
	return cfg, nil
}

// GetHeightIncrement returns the vertical spacing between floors.
func (c *Config) GetHeightIncrement() float64 {
	if c.HeightIncrement != nil {
		return *c.HeightIncrement
	}
	return DefaultHeightIncrement
}

func (c *Config) GetElevatorCost() float64 {
	if c.ElevatorCost != nil {
		return *c.ElevatorCost
	}
	return DefaultElevatorCost
}

func (c *Config) GetStairCost() float64 {
	if c.StairCost != nil {
		return *c.StairCost
	}
	return c.GetHeightIncrement()
}

func (c *Config) GetOutputPath() string {
	if c.OutputPath != "" {
		return c.OutputPath
	}
	return DefaultOutputPath
}

// GetLabels returns the configured labels with blanks filled from
// floorplan.DefaultLabels.
func (c *Config) GetLabels() floorplan.Labels {
	l, d := c.Labels, floorplan.DefaultLabels()
	for _, f := range []struct {
		v    *string
		dflt string
	}{
		{&l.Midline, d.Midline},
		{&l.Stairs, d.Stairs},
		{&l.Elevators, d.Elevators},
		{&l.Entrances, d.Entrances},
		{&l.Adjacency, d.Adjacency},
		{&l.Name, d.Name},
		{&l.CX, d.CX},
		{&l.CY, d.CY},
	} {
		if *f.v == "" {
			*f.v = f.dflt
		}
	}
	return l
}

// Validate checks the configuration for values the pipeline cannot use.
func (c *Config) Validate() error {
	if len(c.Floors) == 0 {
		return ErrNoFloors
	}
	seen := make(map[int]bool, len(c.Floors))
	for i, f := range c.Floors {
		if strings.TrimSpace(f.Path) == "" {
			return fmt.Errorf("floors[%d]: path is required", i)
		}
		if seen[f.Index] {
			return fmt.Errorf("floors[%d]: floor index %d listed twice", i, f.Index)
		}
		seen[f.Index] = true
	}
	if h := c.GetHeightIncrement(); h <= 0 || math.IsInf(h, 0) || math.IsNaN(h) {
		return fmt.Errorf("height_increment must be a positive number, got %v", h)
	}
	for name, v := range map[string]float64{
		"elevator_cost": c.GetElevatorCost(),
		"stair_cost":    c.GetStairCost(),
	} {
		if v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return fmt.Errorf("%s must be a non-negative number, got %v", name, v)
		}
	}
	if _, err := wayfinder.ParseCoalesce(c.ParallelEdges); err != nil {
		return err
	}
	return nil
}

// Options converts the configuration into pipeline options.
func (c *Config) Options() (wayfinder.Options, error) {
	policy, err := wayfinder.ParseCoalesce(c.ParallelEdges)
	if err != nil {
		return wayfinder.Options{}, err
	}
	return wayfinder.Options{
		HeightIncrement: c.GetHeightIncrement(),
		ElevatorCost:    c.GetElevatorCost(),
		StairCost:       c.GetStairCost(),
		Policy:          policy,
		Labels:          c.GetLabels(),
		Shapes:          c.Shapes,
		ScratchDir:      c.ScratchDir,
		KeepScratch:     c.KeepScratch,
	}, nil
}
