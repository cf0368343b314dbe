// Package config loads the simulator tuning file. The schema uses pointer
// fields so a partial JSON file only overrides what it names; everything
// else keeps its default.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the conventional location of the tuning file.
const DefaultConfigPath = "config/botarena.defaults.json"

// maxFileSize caps how large a tuning file may be (1MB).
const maxFileSize = 1 * 1024 * 1024

// SimConfig is the tuning surface of the simulator.
type SimConfig struct {
	// Arena
	ArenaWidth  *float64 `json:"arena_width,omitempty" jsonschema:"title=Arena width,description=Arena width in meters"`
	ArenaHeight *float64 `json:"arena_height,omitempty" jsonschema:"title=Arena height,description=Arena height in meters"`

	// LIDAR
	LidarFrequencyHz *float64 `json:"lidar_frequency_hz,omitempty" jsonschema:"title=Scan frequency,description=Continuous scan frequency in Hz"`
	LidarMaxRange    *float64 `json:"lidar_max_range,omitempty" jsonschema:"title=LIDAR range,description=Sensor max range in meters"`
	IntensityJitter  *int     `json:"intensity_jitter,omitempty" jsonschema:"title=Intensity jitter,description=Bound on random intensity perturbation; 0 disables"`

	// Sonar
	SonarMaxRange *float64 `json:"sonar_max_range,omitempty" jsonschema:"title=Sonar max range,description=Sonar max range in meters"`
	SonarMinRange *float64 `json:"sonar_min_range,omitempty" jsonschema:"title=Sonar min range,description=Sonar dead zone in meters"`

	// Wall classification
	BoundaryTolerance *float64 `json:"boundary_tolerance,omitempty" jsonschema:"title=Boundary tolerance,description=How close a terminal point must be to an edge to count as a wall detection (meters)"`

	// Movement
	StepMeters      *float64 `json:"step_meters,omitempty" jsonschema:"title=Step size,description=Linear meters per motor step command"`
	TurnStepDegrees *float64 `json:"turn_step_degrees,omitempty" jsonschema:"title=Turn step,description=Degrees per turn step command"`
}

// Settings is a SimConfig with every value resolved.
type Settings struct {
	ArenaWidth        float64
	ArenaHeight       float64
	LidarFrequencyHz  float64
	LidarMaxRange     float64
	IntensityJitter   int
	SonarMaxRange     float64
	SonarMinRange     float64
	BoundaryTolerance float64
	StepMeters        float64
	TurnStepDegrees   float64
}

// Defaults for every tunable.
var defaults = Settings{
	ArenaWidth:        25,
	ArenaHeight:       25,
	LidarFrequencyHz:  1,
	LidarMaxRange:     5,
	IntensityJitter:   20,
	SonarMaxRange:     4,
	SonarMinRange:     0.02,
	BoundaryTolerance: 0.2,
	StepMeters:        0.1,
	TurnStepDegrees:   15,
}

// Helper functions to create pointers.
func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }

// DefaultSimConfig returns a config with every field set to its default.
func DefaultSimConfig() *SimConfig {
	return &SimConfig{
		ArenaWidth:        ptrFloat64(defaults.ArenaWidth),
		ArenaHeight:       ptrFloat64(defaults.ArenaHeight),
		LidarFrequencyHz:  ptrFloat64(defaults.LidarFrequencyHz),
		LidarMaxRange:     ptrFloat64(defaults.LidarMaxRange),
		IntensityJitter:   ptrInt(defaults.IntensityJitter),
		SonarMaxRange:     ptrFloat64(defaults.SonarMaxRange),
		SonarMinRange:     ptrFloat64(defaults.SonarMinRange),
		BoundaryTolerance: ptrFloat64(defaults.BoundaryTolerance),
		StepMeters:        ptrFloat64(defaults.StepMeters),
		TurnStepDegrees:   ptrFloat64(defaults.TurnStepDegrees),
	}
}

// Load reads a tuning file. The path must have a .json extension and stay
// under the size cap; fields omitted from the file keep their defaults, so
// partial configs are safe.
func Load(path string) (*SimConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg SimConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cleanPath, err)
	}
	return &cfg, nil
}

// Validate checks every set field for sanity.
func (c *SimConfig) Validate() error {
	if c.ArenaWidth != nil && *c.ArenaWidth <= 0 {
		return fmt.Errorf("arena_width must be positive, got %g", *c.ArenaWidth)
	}
	if c.ArenaHeight != nil && *c.ArenaHeight <= 0 {
		return fmt.Errorf("arena_height must be positive, got %g", *c.ArenaHeight)
	}
	if c.LidarFrequencyHz != nil && *c.LidarFrequencyHz <= 0 {
		return fmt.Errorf("lidar_frequency_hz must be positive, got %g", *c.LidarFrequencyHz)
	}
	if c.LidarMaxRange != nil && *c.LidarMaxRange <= 0 {
		return fmt.Errorf("lidar_max_range must be positive, got %g", *c.LidarMaxRange)
	}
	if c.IntensityJitter != nil && *c.IntensityJitter < 0 {
		return fmt.Errorf("intensity_jitter must be non-negative, got %d", *c.IntensityJitter)
	}
	if c.SonarMaxRange != nil && *c.SonarMaxRange <= 0 {
		return fmt.Errorf("sonar_max_range must be positive, got %g", *c.SonarMaxRange)
	}
	if c.SonarMinRange != nil && *c.SonarMinRange < 0 {
		return fmt.Errorf("sonar_min_range must be non-negative, got %g", *c.SonarMinRange)
	}
	if c.SonarMinRange != nil && c.SonarMaxRange != nil && *c.SonarMinRange >= *c.SonarMaxRange {
		return fmt.Errorf("sonar_min_range %g must be below sonar_max_range %g", *c.SonarMinRange, *c.SonarMaxRange)
	}
	if c.BoundaryTolerance != nil && *c.BoundaryTolerance <= 0 {
		return fmt.Errorf("boundary_tolerance must be positive, got %g", *c.BoundaryTolerance)
	}
	if c.StepMeters != nil && *c.StepMeters <= 0 {
		return fmt.Errorf("step_meters must be positive, got %g", *c.StepMeters)
	}
	if c.TurnStepDegrees != nil && *c.TurnStepDegrees <= 0 {
		return fmt.Errorf("turn_step_degrees must be positive, got %g", *c.TurnStepDegrees)
	}
	return nil
}

// Merge overlays every set field of other onto c.
func (c *SimConfig) Merge(other *SimConfig) {
	if other == nil {
		return
	}
	if other.ArenaWidth != nil {
		c.ArenaWidth = other.ArenaWidth
	}
	if other.ArenaHeight != nil {
		c.ArenaHeight = other.ArenaHeight
	}
	if other.LidarFrequencyHz != nil {
		c.LidarFrequencyHz = other.LidarFrequencyHz
	}
	if other.LidarMaxRange != nil {
		c.LidarMaxRange = other.LidarMaxRange
	}
	if other.IntensityJitter != nil {
		c.IntensityJitter = other.IntensityJitter
	}
	if other.SonarMaxRange != nil {
		c.SonarMaxRange = other.SonarMaxRange
	}
	if other.SonarMinRange != nil {
		c.SonarMinRange = other.SonarMinRange
	}
	if other.BoundaryTolerance != nil {
		c.BoundaryTolerance = other.BoundaryTolerance
	}
	if other.StepMeters != nil {
		c.StepMeters = other.StepMeters
	}
	if other.TurnStepDegrees != nil {
		c.TurnStepDegrees = other.TurnStepDegrees
	}
}

// Resolve fills unset fields with defaults and returns the flat settings.
func (c *SimConfig) Resolve() Settings {
	s := defaults
	if c == nil {
		return s
	}
	if c.ArenaWidth != nil {
		s.ArenaWidth = *c.ArenaWidth
	}
	if c.ArenaHeight != nil {
		s.ArenaHeight = *c.ArenaHeight
	}
	if c.LidarFrequencyHz != nil {
		s.LidarFrequencyHz = *c.LidarFrequencyHz
	}
	if c.LidarMaxRange != nil {
		s.LidarMaxRange = *c.LidarMaxRange
	}
	if c.IntensityJitter != nil {
		s.IntensityJitter = *c.IntensityJitter
	}
	if c.SonarMaxRange != nil {
		s.SonarMaxRange = *c.SonarMaxRange
	}
	if c.SonarMinRange != nil {
		s.SonarMinRange = *c.SonarMinRange
	}
	if c.BoundaryTolerance != nil {
		s.BoundaryTolerance = *c.BoundaryTolerance
	}
	if c.StepMeters != nil {
		s.StepMeters = *c.StepMeters
	}
	if c.TurnStepDegrees != nil {
		s.TurnStepDegrees = *c.TurnStepDegrees
	}
	return s
}
