package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestApplyDefaults(t *testing.T) {
	c := EmptySegmentationConfig()
	c.ApplyDefaults()

	if c.DiveDepthThreshold == nil || *c.DiveDepthThreshold != 15 {
		t.Errorf("DiveDepthThreshold default = %v, want 15", c.DiveDepthThreshold)
	}
	if c.InterpLim == nil || *c.InterpLim != 3 {
		t.Errorf("InterpLim default = %v, want 3", c.InterpLim)
	}
	if c.DepthUnits == nil || *c.DepthUnits != "m" {
		t.Errorf("DepthUnits default = %v, want m", c.DepthUnits)
	}
	if c.ModelVersion == nil || *c.ModelVersion != "phase-v1" {
		t.Errorf("ModelVersion default = %v, want phase-v1", c.ModelVersion)
	}
	if c.WorkerInterval == nil || *c.WorkerInterval != "15m" {
		t.Errorf("WorkerInterval default = %v, want 15m", c.WorkerInterval)
	}
	if c.WorkerWindow == nil || *c.WorkerWindow != "20m" {
		t.Errorf("WorkerWindow default = %v, want 20m", c.WorkerWindow)
	}
}

func TestApplyDefaultsPreservesSetFields(t *testing.T) {
	c := EmptySegmentationConfig()
	c.DiveDepthThreshold = ptrFloat64(25)
	c.DepthUnits = ptrString("dbar")
	c.ApplyDefaults()

	if *c.DiveDepthThreshold != 25 {
		t.Errorf("DiveDepthThreshold = %v, want 25", *c.DiveDepthThreshold)
	}
	if *c.DepthUnits != "dbar" {
		t.Errorf("DepthUnits = %v, want dbar", *c.DepthUnits)
	}
	if c.InterpLim == nil || *c.InterpLim != 3 {
		t.Errorf("InterpLim = %v, want default 3", c.InterpLim)
	}
}

func TestLoadSegmentationConfig(t *testing.T) {
	path := writeConfigFile(t, "segmentation.json", `{
		"dive_depth_threshold": 10,
		"interp_lim": 5,
		"worker_interval": "5m"
	}`)

	c, err := LoadSegmentationConfig(path)
	if err != nil {
		t.Fatalf("LoadSegmentationConfig: %v", err)
	}
	if *c.DiveDepthThreshold != 10 {
		t.Errorf("DiveDepthThreshold = %v, want 10", *c.DiveDepthThreshold)
	}
	if *c.InterpLim != 5 {
		t.Errorf("InterpLim = %v, want 5", *c.InterpLim)
	}
	if *c.WorkerInterval != "5m" {
		t.Errorf("WorkerInterval = %v, want 5m", *c.WorkerInterval)
	}
	// Unset fields fall back to defaults.
	if *c.DepthUnits != "m" {
		t.Errorf("DepthUnits = %v, want m", *c.DepthUnits)
	}
	if *c.ModelVersion != "phase-v1" {
		t.Errorf("ModelVersion = %v, want phase-v1", *c.ModelVersion)
	}
}

func TestLoadSegmentationConfigErrors(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		contents string
		wantErr  string
	}{
		{"wrong extension", "segmentation.yaml", "{}", ".json extension"},
		{"malformed json", "bad.json", "{not json", "parse"},
		{"invalid threshold", "thr.json", `{"dive_depth_threshold": -5}`, "dive_depth_threshold"},
		{"invalid interp lim", "lim.json", `{"interp_lim": 0}`, "interp_lim"},
		{"invalid units", "units.json", `{"depth_units": "fathoms"}`, "depth_units"},
		{"invalid interval", "ival.json", `{"worker_interval": "soon"}`, "worker_interval"},
		{"empty model version", "mv.json", `{"model_version": ""}`, "model_version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.fileName, tt.contents)
			_, err := LoadSegmentationConfig(path)
			if err == nil {
				t.Fatal("expected an error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadSegmentationConfigMissingFile(t *testing.T) {
	_, err := LoadSegmentationConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestIntervalAndWindow(t *testing.T) {
	c := DefaultSegmentationConfig()
	if got := c.Interval().Minutes(); got != 15 {
		t.Errorf("Interval() = %v minutes, want 15", got)
	}
	if got := c.Window().Minutes(); got != 20 {
		t.Errorf("Window() = %v minutes, want 20", got)
	}
}
