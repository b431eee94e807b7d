package config

import "sort"

var Presets = map[string]*Config{
	"nanowire": DefaultConfig(),
	"nanocone": {
		Name: "nanocone", FermiVelocity: DefaultFermiVelocity, ModeCutoff: DefaultCutoff,
		Regions: []RegionConfig{
			{Type: "wire", X0: 0, XF: 100, ShapeConfig: ShapeConfig{Radius: 20}},
			{Type: "cone", X0: 100, XF: 200, Points: 50, Start: &ShapeConfig{Radius: 20}, End: &ShapeConfig{Radius: 40}},
			{Type: "wire", X0: 200, XF: 300, ShapeConfig: ShapeConfig{Radius: 40}},
		},
		Sweep: SweepConfig{EMin: 0, EMax: 80, Points: 161},
		Bands: BandsConfig{Region: 2, KMin: -0.15, KMax: 0.15, Points: 61},
	},
	"rect-wire-bperp": {
		Name: "rect-wire-bperp", FermiVelocity: DefaultFermiVelocity, BPerp: 2, ModeCutoff: 3,
		Regions: []RegionConfig{
			{Type: "wire", X0: 0, XF: 200, Points: 20, ShapeConfig: ShapeConfig{Width: 30, Height: 10}},
		},
		Sweep: SweepConfig{EMin: 0, EMax: 120, Points: 121},
		Bands: BandsConfig{KMin: -0.3, KMax: 0.3, Points: 81},
	},
	"flux-wire": {
		Name: "flux-wire", FermiVelocity: DefaultFermiVelocity, BPar: 4, ModeCutoff: DefaultCutoff,
		Regions: []RegionConfig{
			{Type: "wire", X0: 0, XF: 100, ShapeConfig: ShapeConfig{Radius: 20}},
		},
		Sweep: SweepConfig{EMin: -60, EMax: 60, Points: 121},
		Bands: BandsConfig{KMin: -0.2, KMax: 0.2, Points: 81},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	c.Regions = append([]RegionConfig(nil), cfg.Regions...)
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
