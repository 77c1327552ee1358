package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/san-kum/beamsim/internal/elements"
	"github.com/san-kum/beamsim/internal/lattice"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Topology != TopologyLine {
		t.Errorf("expected topology line, got %s", cfg.Topology)
	}
	if cfg.KineticEnergy <= 0 {
		t.Error("kinetic energy should be positive")
	}
	if len(cfg.Initial.Coordinates) != 6 || len(cfg.Initial.RMS) != 6 {
		t.Error("default initial state should have six coordinates and six rms sizes")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset(TopologyRing, "fodo")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Count() != 32 {
		t.Errorf("expected 32 elements, got %d", cfg.Count())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset should validate: %v", err)
	}
}

func TestGetPresetReturnsCopy(t *testing.T) {
	a := GetPreset(TopologyLine, "linac")
	a.Elements[0].ID = "CHANGED"
	a.Initial.Coordinates[0] = 42

	b := GetPreset(TopologyLine, "linac")
	if b.Elements[0].ID == "CHANGED" || b.Initial.Coordinates[0] == 42 {
		t.Error("presets should not share state with returned configs")
	}
}

func TestCloneIsDeep(t *testing.T) {
	a := GetPreset(TopologyLattice, "transport")
	b := a.Clone()

	b.Walk(func(e *ElementConfig) {
		if e.Type == "quadrupole" {
			e.Params["gradient"] = 99.0
		}
	})

	a.Walk(func(e *ElementConfig) {
		if e.Type == "quadrupole" && e.Params["gradient"] == 99.0 {
			t.Errorf("%s: clone shares parameter maps", e.ID)
		}
	})
}

func TestWalkVisitsNestedElements(t *testing.T) {
	cfg := GetPreset(TopologyLattice, "transport")

	var ids []string
	cfg.Walk(func(e *ElementConfig) { ids = append(ids, e.ID) })

	want := []string{"START", "MATCH", "QF1", "DA1", "QD1", "DB1", "QF2", "DA2", "QD2", "DB2", "DL", "END"}
	if !slices.Equal(ids, want) {
		t.Errorf("expected %v, got %v", want, ids)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	cfg := GetPreset(TopologyLine, "nonexistent")
	if cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}

	cfg = GetPreset("nonexistent", "fodo")
	if cfg != nil {
		t.Error("expected nil for nonexistent topology")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets(TopologyLine)
	if !slices.IsSorted(presets) || !slices.Contains(presets, "linac") {
		t.Errorf("unexpected line presets %v", presets)
	}

	presets = ListPresets("nonexistent")
	if presets != nil {
		t.Error("expected nil for nonexistent topology")
	}

	if !slices.Equal(Topologies(), []string{TopologyLattice, TopologyLine, TopologyRing}) {
		t.Errorf("unexpected topologies %v", Topologies())
	}
}

func TestAllPresetsValidate(t *testing.T) {
	for _, topo := range Topologies() {
		for _, name := range ListPresets(topo) {
			if err := GetPreset(topo, name).Validate(); err != nil {
				t.Errorf("%s/%s: %v", topo, name, err)
			}
		}
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := DefaultConfig()
		cfg.Elements = []ElementConfig{
			{ID: "D1", Type: "drift", Length: 1},
			{ID: "S1", Type: TypeSector, Children: []ElementConfig{{ID: "Q1", Type: "quadrupole", Length: 0.1}}},
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"unknown topology", func(c *Config) { c.Topology = "spiral" }, false},
		{"zero energy", func(c *Config) { c.KineticEnergy = 0 }, false},
		{"negative current", func(c *Config) { c.Beam.Current = -1 }, false},
		{"short coordinates", func(c *Config) { c.Initial.Coordinates = []float64{1, 2} }, false},
		{"no elements", func(c *Config) { c.Elements = nil }, false},
		{"duplicate nested id", func(c *Config) { c.Elements[1].Children[0].ID = "D1" }, false},
		{"negative length", func(c *Config) { c.Elements[0].Length = -1 }, false},
		{"unknown start", func(c *Config) { c.Range.Start = "NOPE" }, false},
		{"nested stop", func(c *Config) { c.Range.Stop = "Q1" }, true},
		{"unknown marker", func(c *Config) { c.Initial.Marker = "NOPE" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	cfg := GetPreset(TopologyLine, "linac_sc")

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Name != cfg.Name || loaded.Algorithm != "envelope" {
		t.Errorf("unexpected loaded config %+v", loaded)
	}
	if loaded.Beam.Current != 0.03 || loaded.SpaceChargeStep != 0.02 {
		t.Error("beam settings lost in round trip")
	}
	if loaded.Count() != cfg.Count() {
		t.Errorf("expected %d elements, got %d", cfg.Count(), loaded.Count())
	}
	if g := fmt.Sprint(loaded.Elements[0].Params["gradient"]); g != "20" {
		t.Errorf("expected gradient 20, got %v", g)
	}
}

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
name: short
elements:
  - id: D1
    type: drift
    length: 0.5
`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cfg.Topology != TopologyLine || cfg.KineticEnergy != DefaultEnergy {
		t.Errorf("defaults not applied: %+v", cfg)
	}

	if _, err := Parse([]byte("topology: [")); err == nil {
		t.Error("expected yaml error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not exist, got %v", err)
	}
}

func TestYAMLWriter(t *testing.T) {
	line := lattice.NewLineModel("LINE")
	cell := lattice.NewSector("CELL")
	q := lattice.NewLeaf("Q1", elements.TypeQuadrupole, 0.1, elements.NewQuadrupole(4))
	q.SetHardwareID("PS-Q1")
	for _, err := range []error{
		cell.AddChild(q),
		cell.AddChild(lattice.NewLeaf("D1", elements.TypeDrift, 1, elements.NewDrift())),
		line.AddChild(lattice.NewLeaf("M0", elements.TypeMarker, 0, elements.NewMarker())),
		line.AddChild(cell),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}

	w := NewYAMLWriter()
	if err := lattice.Materialize(line, w); err != nil {
		t.Fatalf("materialize failed: %v", err)
	}

	if w.Topology() != TopologyLine {
		t.Errorf("expected line topology, got %s", w.Topology())
	}
	elems := w.Elements()
	if len(elems) != 2 || elems[1].ID != "CELL" || len(elems[1].Children) != 2 {
		t.Fatalf("unexpected elements %+v", elems)
	}
	got := elems[1].Children[0]
	if got.HardwareID != "PS-Q1" || got.Params["gradient"] != 4.0 {
		t.Errorf("unexpected quadrupole %+v", got)
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "hardware_id: PS-Q1") {
		t.Errorf("missing hardware id in\n%s", buf.String())
	}

	cfg, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("written document should parse: %v", err)
	}
	if cfg.Count() != 3 {
		t.Errorf("expected 3 leaves, got %d", cfg.Count())
	}
}
