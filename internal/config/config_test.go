package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/jansim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Geometry.Links) != dynamo.NumLinks {
		t.Fatalf("expected %d links, got %d", dynamo.NumLinks, len(cfg.Geometry.Links))
	}
	if cfg.Gait.TargetSpeed != 0.3 {
		t.Errorf("expected target speed 0.3, got %f", cfg.Gait.TargetSpeed)
	}
	if cfg.Numerics.Steps != 100000 {
		t.Errorf("expected 100000 steps, got %d", cfg.Numerics.Steps)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestContactThreshold(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.ContactThreshold(); got != -0.35+0.0035 {
		t.Errorf("expected threshold %f, got %f", -0.35+0.0035, got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero speed", func(c *Config) { c.Gait.TargetSpeed = 0 }},
		{"negative speed", func(c *Config) { c.Gait.TargetSpeed = -0.1 }},
		{"zero steps", func(c *Config) { c.Numerics.Steps = 0 }},
		{"negative sweep steps", func(c *Config) { c.Numerics.SweepSteps = -5 }},
		{"zero link", func(c *Config) { c.Geometry.Links[4] = 0 }},
		{"missing link", func(c *Config) { c.Geometry.Links = c.Geometry.Links[:10] }},
		{"duty factor one", func(c *Config) { c.Gait.DutyFactor = 1 }},
		{"inverted tube", func(c *Config) { c.Material.TubeInnerDiameter = 0.05 }},
		{"zero gravity", func(c *Config) { c.Material.Gravity = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, dynamo.ErrConfig) {
				t.Errorf("expected ErrConfig, got %v", err)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := DefaultConfig()
	cp := cfg.Clone()
	cp.Geometry.Links[0] = 1
	cp.Gait.TargetSpeed = 9

	if cfg.Geometry.Links[0] == 1 {
		t.Error("clone shares link slice with original")
	}
	if cfg.Gait.TargetSpeed == 9 {
		t.Error("clone shares gait config with original")
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leg.yaml")
	data := []byte("gait:\n  target_speed: 0.5\nnumerics:\n  steps: 2000\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Gait.TargetSpeed != 0.5 {
		t.Errorf("expected speed 0.5, got %f", cfg.Gait.TargetSpeed)
	}
	if cfg.Numerics.Steps != 2000 {
		t.Errorf("expected 2000 steps, got %d", cfg.Numerics.Steps)
	}
	if cfg.Gait.DutyFactor != DefaultDutyFactor {
		t.Errorf("expected default duty factor, got %f", cfg.Gait.DutyFactor)
	}
	if len(cfg.Geometry.Links) != dynamo.NumLinks {
		t.Errorf("expected default links, got %d", len(cfg.Geometry.Links))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leg.yaml")
	cfg := DefaultConfig()
	cfg.Material.TorsoMass = 45

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Material.TorsoMass != 45 {
		t.Errorf("expected torso mass 45, got %f", loaded.Material.TorsoMass)
	}
	if loaded.Geometry.Links[3] != DefaultLinks[3] {
		t.Errorf("expected link 3 %v, got %v", DefaultLinks[3], loaded.Geometry.Links[3])
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("quick")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Numerics.Steps != 1000 {
		t.Errorf("expected 1000 steps, got %d", cfg.Numerics.Steps)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset should validate: %v", err)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
}
