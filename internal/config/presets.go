package config

import (
	"fmt"
	"slices"
)

var Presets = map[string]map[string]*Config{
	TopologyLine: {
		"fodo": {
			Name: "fodo_line", Topology: TopologyLine, Algorithm: "transfer_map", Species: "proton",
			KineticEnergy: DefaultEnergy,
			Elements:      fodoCells(4, 1),
		},
		"linac": {
			Name: "linac", Topology: TopologyLine, Algorithm: "particle", Species: "proton",
			KineticEnergy: DefaultEnergy, Beam: BeamConfig{Frequency: DefaultFrequency},
			Initial:  InitialConfig{Coordinates: []float64{1e-3, 0, -5e-4, 0, 0, 0}},
			Elements: linacCells(6),
		},
		"linac_sc": {
			Name: "linac_sc", Topology: TopologyLine, Algorithm: "envelope", Species: "proton",
			KineticEnergy: DefaultEnergy, Beam: BeamConfig{Current: 0.03, Frequency: DefaultFrequency},
			SpaceChargeStep: 0.02,
			Initial:         InitialConfig{RMS: []float64{1e-3, 1e-3, 1e-3, 1e-3, 2e-3, 1e-3}},
			Elements:        linacCells(6),
		},
	},
	TopologyRing: {
		"fodo": {
			Name: "fodo_ring", Topology: TopologyRing, Algorithm: "transfer_map", Species: "proton",
			KineticEnergy: DefaultEnergy,
			Elements:      fodoCells(8, 1),
		},
		"fodo_particle": {
			Name: "fodo_ring_particle", Topology: TopologyRing, Algorithm: "particle", Species: "proton",
			KineticEnergy: DefaultEnergy,
			Range:         RangeConfig{Start: "QD3"},
			Initial:       InitialConfig{Coordinates: []float64{2e-3, 0, 1e-3, 0, 0, 0}},
			Elements:      fodoCells(8, 1),
		},
	},
	TopologyLattice: {
		"transport": {
			Name: "transport", Topology: TopologyLattice, Algorithm: "envelope", Species: "proton",
			KineticEnergy: DefaultEnergy,
			Initial:       InitialConfig{RMS: []float64{2e-3, 5e-4, 2e-3, 5e-4, 1e-3, 1e-3}},
			Elements: []ElementConfig{
				{ID: "START", Type: "marker"},
				{ID: "MATCH", Type: TypeSector, Children: fodoCells(2, 1.5)},
				{ID: "DL", Type: "drift", Length: 2},
				{ID: "END", Type: "marker"},
			},
		},
	},
}

// fodoCells returns n cells of QF, drift, QD, drift with gradient g (T/m).
func fodoCells(n int, g float64) []ElementConfig {
	var out []ElementConfig
	for i := 1; i <= n; i++ {
		out = append(out,
			ElementConfig{ID: fmt.Sprintf("QF%d", i), Type: "quadrupole", Length: 0.2, Params: map[string]any{"gradient": g}},
			ElementConfig{ID: fmt.Sprintf("DA%d", i), Type: "drift", Length: 1},
			ElementConfig{ID: fmt.Sprintf("QD%d", i), Type: "quadrupole", Length: 0.2, Params: map[string]any{"gradient": -g}},
			ElementConfig{ID: fmt.Sprintf("DB%d", i), Type: "drift", Length: 1},
		)
	}
	return out
}

// linacCells returns n focusing periods with two accelerating gaps each.
func linacCells(n int) []ElementConfig {
	gap := func(id string) ElementConfig {
		return ElementConfig{ID: id, Type: "rfgap", Params: map[string]any{
			"etl": 1e5, "phase": -30.0, "frequency": DefaultFrequency,
		}}
	}
	var out []ElementConfig
	for i := 1; i <= n; i++ {
		out = append(out,
			ElementConfig{ID: fmt.Sprintf("Q%dF", i), Type: "quadrupole", Length: 0.05, Params: map[string]any{"gradient": 20.0}},
			ElementConfig{ID: fmt.Sprintf("D%da", i), Type: "drift", Length: 0.1},
			gap(fmt.Sprintf("G%da", i)),
			ElementConfig{ID: fmt.Sprintf("D%db", i), Type: "drift", Length: 0.1},
			ElementConfig{ID: fmt.Sprintf("Q%dD", i), Type: "quadrupole", Length: 0.05, Params: map[string]any{"gradient": -20.0}},
			ElementConfig{ID: fmt.Sprintf("D%dc", i), Type: "drift", Length: 0.1},
			gap(fmt.Sprintf("G%db", i)),
			ElementConfig{ID: fmt.Sprintf("D%dd", i), Type: "drift", Length: 0.1},
		)
	}
	return out
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(topology, preset string) *Config {
	topoPresets, ok := Presets[topology]
	if !ok {
		return nil
	}
	cfg, ok := topoPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(topology string) []string {
	topoPresets, ok := Presets[topology]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(topoPresets))
	for name := range topoPresets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Topologies lists the topologies that have presets.
func Topologies() []string {
	out := make([]string, 0, len(Presets))
	for t := range Presets {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}
