package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/seed"
	"github.com/san-kum/planetsim/internal/sim"
)

const (
	DefaultSteps       = 2000
	DefaultSampleEvery = 10
	DefaultFPS         = 30
	DefaultContainment = 200.0
)

type Config struct {
	Seed          int64            `yaml:"seed"`
	Steps         int              `yaml:"steps"`
	SampleEvery   int              `yaml:"sample_every"`
	G             float64          `yaml:"g"`
	ValidateState bool             `yaml:"validate_state"`
	Population    PopulationConfig `yaml:"population"`
	Live          LiveConfig       `yaml:"live"`
}

type PopulationConfig struct {
	Count    int     `yaml:"count"`
	MassMin  float64 `yaml:"mass_min"`
	MassMax  float64 `yaml:"mass_max"`
	Speed    float64 `yaml:"speed"`
	Extent   float64 `yaml:"extent"`
	ColorMin float64 `yaml:"color_min"`
	ColorMax float64 `yaml:"color_max"`
	Star     bool    `yaml:"star"`
	StarMass float64 `yaml:"star_mass"`
}

type LiveConfig struct {
	FPS    int    `yaml:"fps"`
	Trails bool   `yaml:"trails"`
	Theme  string `yaml:"theme,omitempty"`
}

func DefaultConfig() *Config {
	p := seed.DefaultConfig()
	return &Config{
		Steps:         DefaultSteps,
		SampleEvery:   DefaultSampleEvery,
		G:             physics.DefaultG,
		ValidateState: true,
		Population: PopulationConfig{
			Count:    p.Count,
			MassMin:  p.MassMin,
			MassMax:  p.MassMax,
			Speed:    p.Speed,
			Extent:   p.Extent,
			ColorMin: p.ColorMin,
			ColorMax: p.ColorMax,
			Star:     p.Star,
			StarMass: p.StarMass,
		},
		Live: LiveConfig{
			FPS:    DefaultFPS,
			Trails: true,
		},
	}
}

// Load reads a YAML file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file over a copy of base. base is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
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

func (c *Config) SeedConfig() seed.Config {
	p := c.Population
	return seed.Config{
		Count:    p.Count,
		MassMin:  p.MassMin,
		MassMax:  p.MassMax,
		Speed:    p.Speed,
		Extent:   p.Extent,
		ColorMin: p.ColorMin,
		ColorMax: p.ColorMax,
		Star:     p.Star,
		StarMass: p.StarMass,
	}
}

func (c *Config) RunConfig() sim.Config {
	return sim.Config{
		Steps:         c.Steps,
		SampleEvery:   c.SampleEvery,
		ValidateState: c.ValidateState,
	}
}

// Clone copies c. Presets are shared and must not be mutated.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
