package config

import "sort"

// Presets are named adjustments on top of DefaultConfig.
var Presets = map[string]func(*Config){
	"reference": func(c *Config) {},
	"quick": func(c *Config) {
		c.Numerics.Steps = 1000
		c.Numerics.SweepSteps = 1000
	},
	"stroll": func(c *Config) {
		c.Gait.TargetSpeed = 0.15
	},
	"brisk": func(c *Config) {
		c.Gait.TargetSpeed = 0.5
	},
	"loaded": func(c *Config) {
		c.Material.TorsoMass = 60
	},
}

func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
