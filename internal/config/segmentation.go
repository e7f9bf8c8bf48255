package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelagic-data/dive.report/internal/units"
)

// DefaultConfigPath is the path to the canonical segmentation defaults file.
const DefaultConfigPath = "config/segmentation.defaults.json"

// SegmentationConfig holds the tuning parameters for dive segmentation and
// the worker that applies it. Fields are pointers so a partial JSON file
// only overrides what it names; omitted fields keep their defaults.
type SegmentationConfig struct {
	// DiveDepthThreshold is the minimum depth (in DepthUnits) for a sample
	// to count as part of a dive rather than surface drift.
	DiveDepthThreshold *float64 `json:"dive_depth_threshold,omitempty"`

	// InterpLim bounds consecutive interpolated/back-filled steps when
	// merging sensor streams sampled at different rates.
	InterpLim *int `json:"interp_lim,omitempty"`

	// DepthUnits is the unit depths are reported in over the API.
	DepthUnits *string `json:"depth_units,omitempty"`

	// ModelVersion tags dive rows produced by the segmentation worker so
	// reruns with changed tuning can coexist and be compared.
	ModelVersion *string `json:"model_version,omitempty"`

	// Worker cadence, as duration strings like "15m".
	WorkerInterval *string `json:"worker_interval,omitempty"`
	WorkerWindow   *string `json:"worker_window,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }

// EmptySegmentationConfig returns a config with all fields unset. Use
// LoadSegmentationConfig to read values from a defaults file.
func EmptySegmentationConfig() *SegmentationConfig {
	return &SegmentationConfig{}
}

// DefaultSegmentationConfig returns the built-in defaults.
func DefaultSegmentationConfig() *SegmentationConfig {
	c := EmptySegmentationConfig()
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills every unset field with its built-in default.
func (c *SegmentationConfig) ApplyDefaults() {
	if c.DiveDepthThreshold == nil {
		c.DiveDepthThreshold = ptrFloat64(15)
	}
	if c.InterpLim == nil {
		c.InterpLim = ptrInt(3)
	}
	if c.DepthUnits == nil {
		c.DepthUnits = ptrString(units.Meters)
	}
	if c.ModelVersion == nil {
		c.ModelVersion = ptrString("phase-v1")
	}
	if c.WorkerInterval == nil {
		c.WorkerInterval = ptrString("15m")
	}
	if c.WorkerWindow == nil {
		c.WorkerWindow = ptrString("20m")
	}
}

// LoadSegmentationConfig loads a SegmentationConfig from a JSON file. The
// file must have a .json extension and stay under the max file size. Fields
// omitted from the file retain their defaults, so partial configs are safe.
func LoadSegmentationConfig(path string) (*SegmentationConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

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

	c := EmptySegmentationConfig()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	c.ApplyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %s: %w", cleanPath, err)
	}
	return c, nil
}

// Validate checks every set field for a usable value. Call after
// ApplyDefaults.
func (c *SegmentationConfig) Validate() error {
	if c.DiveDepthThreshold != nil && *c.DiveDepthThreshold <= 0 {
		return fmt.Errorf("dive_depth_threshold must be positive, got %g", *c.DiveDepthThreshold)
	}
	if c.InterpLim != nil && *c.InterpLim < 1 {
		return fmt.Errorf("interp_lim must be at least 1, got %d", *c.InterpLim)
	}
	if c.DepthUnits != nil && !units.IsValidDepth(*c.DepthUnits) {
		return fmt.Errorf("depth_units must be one of %s, got %q", units.GetValidDepthUnitsString(), *c.DepthUnits)
	}
	if c.ModelVersion != nil && *c.ModelVersion == "" {
		return fmt.Errorf("model_version must not be empty")
	}
	if c.WorkerInterval != nil {
		if _, err := time.ParseDuration(*c.WorkerInterval); err != nil {
			return fmt.Errorf("worker_interval: %w", err)
		}
	}
	if c.WorkerWindow != nil {
		if _, err := time.ParseDuration(*c.WorkerWindow); err != nil {
			return fmt.Errorf("worker_window: %w", err)
		}
	}
	return nil
}

// Interval returns the parsed worker interval. Validate must have passed.
func (c *SegmentationConfig) Interval() time.Duration {
	d, _ := time.ParseDuration(*c.WorkerInterval)
	return d
}

// Window returns the parsed worker lookback window. Validate must have
// passed.
func (c *SegmentationConfig) Window() time.Duration {
	d, _ := time.ParseDuration(*c.WorkerWindow)
	return d
}
