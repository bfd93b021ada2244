package config

import "sort"

var Presets = map[string]*Config{
	"classic": DefaultConfig(),
	"crowded": withPopulation(func(p *PopulationConfig) {
		p.Count = 400
		p.Extent = 60
	}),
	"sparse": withPopulation(func(p *PopulationConfig) {
		p.Count = 40
		p.Speed = 0.01
		p.Extent = 120
	}),
	"star": withPopulation(func(p *PopulationConfig) {
		p.Star = true
		p.StarMass = 40
		p.Speed = 0.05
	}),
	"dust": withPopulation(func(p *PopulationConfig) {
		p.Count = 300
		p.MassMax = 0.2
		p.Speed = 0.005
		p.Extent = 40
	}),
}

func withPopulation(fn func(*PopulationConfig)) *Config {
	cfg := DefaultConfig()
	fn(&cfg.Population)
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
