package config

import "sort"

// Presets are named run profiles usable as a base before a config file and
// flags are applied.
var Presets = map[string]*Config{
	"compare": {
		OpsMode: "a", RunMode: "c", InputTime: "e", Gravity: "72",
	},
	"verify": {
		OpsMode: "i", RunMode: "v", InputTime: "e", Gravity: "72",
	},
	"verify-afspc": {
		OpsMode: "a", RunMode: "v", InputTime: "e", Gravity: "721",
	},
	"verify-wgs84": {
		OpsMode: "i", RunMode: "v", InputTime: "e", Gravity: "84",
	},
	"manual-day": {
		OpsMode: "i", RunMode: "m", InputTime: "m", Gravity: "72",
		Manual: ManualConfig{Start: "0", Stop: "1440", Step: "20"},
	},
}

// GetPreset returns a copy of the named preset layered on the defaults, or
// nil when no such preset exists.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.OpsMode = p.OpsMode
	cfg.RunMode = p.RunMode
	cfg.InputTime = p.InputTime
	cfg.Gravity = p.Gravity
	if p.Manual != (ManualConfig{}) {
		cfg.Manual = p.Manual
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
