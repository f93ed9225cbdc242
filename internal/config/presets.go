package config

import "sort"

var Presets = map[string]*Config{
	"quick": {
		Days: 30, Tstep: 600,
	},
	"year": {
		Days: 365, Tstep: DefaultTstep,
	},
	"decade": {
		Days: 3650, Tstep: 60,
	},
	"probe-swarm": {
		Days: 365, Tstep: DefaultTstep,
		Probes: ProbeConfig{Count: 25, Radius: DefaultProbeRadius, Speed: DefaultProbeSpeed},
	},
	"close-pass": {
		Days: 60, Tstep: DefaultTstep,
		Probes: ProbeConfig{Count: 4, Radius: 7e6, Speed: 7546},
	},
}

// GetPreset returns a copy of the named preset filled in with defaults, or
// nil if there is no such preset.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Days = p.Days
	cfg.Tstep = p.Tstep
	if p.Probes.Count > 0 {
		cfg.Probes.Count = p.Probes.Count
		cfg.Probes.Radius = p.Probes.Radius
		cfg.Probes.Speed = p.Probes.Speed
	}
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
