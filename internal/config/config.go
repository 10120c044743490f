package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/jansim/internal/dynamo"
)

const (
	DefaultTubeDensity       = 2700.0 // kg/m^3, 6061 aluminium
	DefaultTubeOuterDiameter = 0.044
	DefaultTubeInnerDiameter = 0.0408
	DefaultTorsoMass         = 30.0
	DefaultTorsoShare        = 1.0 / 3.0 // one leg carries a third of the torso
	DefaultGravity           = 9.806

	DefaultTargetSpeed   = 0.3 // m/s
	DefaultDutyFactor    = 0.75
	DefaultGroundLevel   = -0.35
	DefaultContactMargin = 0.0035 // ~1% of foot excursion

	DefaultSteps             = 100000
	DefaultSweepSteps        = 100000
	DefaultSingularTolerance = 1e-9

	DefaultOutputPath = "jansen_simulation.csv"
)

// DefaultLinks are the link lengths l0..l10 in metres. l0 is the crank.
var DefaultLinks = []float64{
	0.057168439518905365,
	0.19056146506301788,
	0.21266659501032797,
	0.1501624344696581,
	0.25039776509280554,
	0.18675023576175753,
	0.23591509374801614,
	0.13987211535625513,
	0.14978131153953206,
	0.15816601600230484,
	0.15283029498054035,
}

const (
	DefaultPinX = 0.14482671344789358
	DefaultPinY = -0.02972758854983079
)

type Config struct {
	Geometry GeometryConfig `yaml:"geometry"`
	Material MaterialConfig `yaml:"material"`
	Gait     GaitConfig     `yaml:"gait"`
	Numerics NumericsConfig `yaml:"numerics"`
	Output   OutputConfig   `yaml:"output"`
}

type GeometryConfig struct {
	Links []float64 `yaml:"links"`
	PinX  float64   `yaml:"pin_x"`
	PinY  float64   `yaml:"pin_y"`
}

type MaterialConfig struct {
	TubeDensity       float64 `yaml:"tube_density"`
	TubeOuterDiameter float64 `yaml:"tube_outer_diameter"`
	TubeInnerDiameter float64 `yaml:"tube_inner_diameter"`
	TorsoMass         float64 `yaml:"torso_mass"`
	TorsoShare        float64 `yaml:"torso_share"`
	Gravity           float64 `yaml:"gravity"`
}

type GaitConfig struct {
	TargetSpeed   float64 `yaml:"target_speed"`
	DutyFactor    float64 `yaml:"duty_factor"`
	GroundLevel   float64 `yaml:"ground_level"`
	ContactMargin float64 `yaml:"contact_margin"`
}

type NumericsConfig struct {
	Steps             int     `yaml:"steps"`
	SweepSteps        int     `yaml:"sweep_steps"`
	SingularTolerance float64 `yaml:"singular_tolerance"`
	Workers           int     `yaml:"workers"`
}

type OutputConfig struct {
	Path string `yaml:"path"`
}

func DefaultConfig() *Config {
	links := make([]float64, len(DefaultLinks))
	copy(links, DefaultLinks)
	return &Config{
		Geometry: GeometryConfig{
			Links: links,
			PinX:  DefaultPinX,
			PinY:  DefaultPinY,
		},
		Material: MaterialConfig{
			TubeDensity:       DefaultTubeDensity,
			TubeOuterDiameter: DefaultTubeOuterDiameter,
			TubeInnerDiameter: DefaultTubeInnerDiameter,
			TorsoMass:         DefaultTorsoMass,
			TorsoShare:        DefaultTorsoShare,
			Gravity:           DefaultGravity,
		},
		Gait: GaitConfig{
			TargetSpeed:   DefaultTargetSpeed,
			DutyFactor:    DefaultDutyFactor,
			GroundLevel:   DefaultGroundLevel,
			ContactMargin: DefaultContactMargin,
		},
		Numerics: NumericsConfig{
			Steps:             DefaultSteps,
			SweepSteps:        DefaultSweepSteps,
			SingularTolerance: DefaultSingularTolerance,
		},
		Output: OutputConfig{
			Path: DefaultOutputPath,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy so callers can derive variants without sharing
// the link slice.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Geometry.Links = make([]float64, len(c.Geometry.Links))
	copy(cp.Geometry.Links, c.Geometry.Links)
	return &cp
}

// ContactThreshold is the foot height at or below which the foot is grounded.
func (c *Config) ContactThreshold() float64 {
	return c.Gait.GroundLevel + c.Gait.ContactMargin
}

// Validate reports every setup problem that must stop a run before the sweep.
func (c *Config) Validate() error {
	if len(c.Geometry.Links) != dynamo.NumLinks {
		return fmt.Errorf("%w: expected %d link lengths, got %d", dynamo.ErrConfig, dynamo.NumLinks, len(c.Geometry.Links))
	}
	for i, l := range c.Geometry.Links {
		if l <= 0 {
			return fmt.Errorf("%w: link %d length must be positive, got %g", dynamo.ErrConfig, i, l)
		}
	}
	m := c.Material
	if m.TubeDensity <= 0 {
		return fmt.Errorf("%w: tube density must be positive, got %g", dynamo.ErrConfig, m.TubeDensity)
	}
	if m.TubeInnerDiameter < 0 || m.TubeOuterDiameter <= m.TubeInnerDiameter {
		return fmt.Errorf("%w: tube diameters must satisfy 0 <= inner < outer, got %g/%g",
			dynamo.ErrConfig, m.TubeInnerDiameter, m.TubeOuterDiameter)
	}
	if m.TorsoMass < 0 || m.TorsoShare < 0 {
		return fmt.Errorf("%w: torso mass and share must be non-negative", dynamo.ErrConfig)
	}
	if m.Gravity <= 0 {
		return fmt.Errorf("%w: gravity must be positive, got %g", dynamo.ErrConfig, m.Gravity)
	}
	if c.Gait.TargetSpeed <= 0 {
		return fmt.Errorf("%w: target speed must be positive, got %g", dynamo.ErrConfig, c.Gait.TargetSpeed)
	}
	if c.Gait.DutyFactor <= 0 || c.Gait.DutyFactor >= 1 {
		return fmt.Errorf("%w: duty factor must be in (0, 1), got %g", dynamo.ErrConfig, c.Gait.DutyFactor)
	}
	if c.Numerics.Steps < 2 {
		return fmt.Errorf("%w: steps must be at least 2, got %d", dynamo.ErrConfig, c.Numerics.Steps)
	}
	if c.Numerics.SweepSteps < 2 {
		return fmt.Errorf("%w: sweep steps must be at least 2, got %d", dynamo.ErrConfig, c.Numerics.SweepSteps)
	}
	if c.Numerics.SingularTolerance < 0 {
		return fmt.Errorf("%w: singular tolerance must be non-negative", dynamo.ErrConfig)
	}
	return nil
}
