package config

import (
	"sort"

	"github.com/san-kum/willow/internal/density"
)

var Presets = map[string]*Config{
	"coarse": {
		DensityPairs: density.Pairs{
			{Z: -1.5, Q: 0.2}, {Z: -0.5, Q: 0.3}, {Z: 0.5, Q: 0.3}, {Z: 1.5, Q: 0.2},
		},
		Steps: 10, Tol: 1e-9, TolCeiling: 1e-3, StepBudget: 10, Workers: 1,
	},
	"uniform": {
		DensityPairs: density.Pairs{
			{Z: -2, Q: 0.2}, {Z: -1, Q: 0.2}, {Z: 0, Q: 0.2}, {Z: 1, Q: 0.2}, {Z: 2, Q: 0.2},
		},
		Steps: 30, Tol: 1e-9, TolCeiling: 1e-3, StepBudget: 60, Workers: 1,
	},
	"normal": {
		DensityPairs: density.Pairs{
			{Z: -3, Q: 0.02}, {Z: -2, Q: 0.08}, {Z: -1, Q: 0.20}, {Z: 0, Q: 0.40},
			{Z: 1, Q: 0.20}, {Z: 2, Q: 0.08}, {Z: 3, Q: 0.02},
		},
		Steps: 30, Tol: 1e-9, TolCeiling: 1e-3, StepBudget: 60, Workers: 1,
	},
	"precise": {
		DensityPairs: density.Pairs{
			{Z: -3, Q: 0.02}, {Z: -2, Q: 0.08}, {Z: -1, Q: 0.20}, {Z: 0, Q: 0.40},
			{Z: 1, Q: 0.20}, {Z: 2, Q: 0.08}, {Z: 3, Q: 0.02},
		},
		Steps: 50, Tol: 1e-12, TolCeiling: 1e-6, StepBudget: 120, Cap: true, Workers: 4,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
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
