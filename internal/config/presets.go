package config

import "sort"

func argon(particles int, temperature, density, duration float64) *Config {
	cfg := DefaultConfig()
	cfg.Particles = particles
	cfg.Temperature = temperature
	cfg.Density = density
	cfg.SimulationTime = duration
	return cfg
}

// Presets are named thermodynamic states of the Lennard-Jones fluid.
var Presets = map[string]map[string]*Config{
	"argon": {
		"gas":    argon(108, 3.0, 0.3, 1.0),
		"liquid": argon(108, 1.0, 0.8, 1.0),
		"solid":  argon(108, 0.5, 1.2, 1.0),
		"triple": argon(256, 0.7, 0.85, 1.0),
	},
	"bench": {
		"small":  argon(32, 1.0, 0.8, 0.5),
		"medium": argon(256, 1.0, 0.8, 0.5),
		"large":  argon(864, 1.0, 0.8, 0.2),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(system, preset string) *Config {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	cfg, ok := systemPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

// ListPresets returns the preset names of a system in sorted order.
func ListPresets(system string) []string {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(systemPresets))
	for name := range systemPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Systems returns every preset group in sorted order.
func Systems() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
