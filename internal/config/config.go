package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

const (
	DefaultEnergy          = 2.5e6
	DefaultFrequency       = 402.5e6
	DefaultSpaceChargeStep = 0.05
)

// Topologies of the root composite.
const (
	TopologyLine    = "line"
	TopologyRing    = "ring"
	TopologyLattice = "lattice"
)

// TypeSector marks a grouping element whose children are nested.
const TypeSector = "sector"

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid scenario")

// Config is a beamline scenario: the element tree, the probe that is sent
// through it and the algorithm that drives the probe.
type Config struct {
	Name            string          `yaml:"name"`
	Topology        string          `yaml:"topology"`
	Algorithm       string          `yaml:"algorithm"`
	Species         string          `yaml:"species"`
	KineticEnergy   float64         `yaml:"kinetic_energy"`
	Beam            BeamConfig      `yaml:"beam"`
	Range           RangeConfig     `yaml:"range,omitempty"`
	SpaceChargeStep float64         `yaml:"space_charge_step,omitempty"`
	Initial         InitialConfig   `yaml:"initial"`
	Elements        []ElementConfig `yaml:"elements"`
}

type BeamConfig struct {
	Current   float64 `yaml:"current"`
	Frequency float64 `yaml:"frequency"`
}

type RangeConfig struct {
	Start       string `yaml:"start,omitempty"`
	Stop        string `yaml:"stop,omitempty"`
	IncludeStop bool   `yaml:"include_stop,omitempty"`
}

// InitialConfig is the probe state at the entrance. Coordinates are the six
// phase coordinates of a particle probe and RMS the six rms sizes of an
// envelope probe. Marker names a line element to restart from.
type InitialConfig struct {
	Position    float64   `yaml:"position,omitempty"`
	Marker      string    `yaml:"marker,omitempty"`
	Coordinates []float64 `yaml:"coordinates,omitempty"`
	RMS         []float64 `yaml:"rms,omitempty"`
}

// ElementConfig is one node of the tree. Composite nodes (type "sector")
// carry children; leaves carry a length and type specific params.
type ElementConfig struct {
	ID         string          `yaml:"id"`
	Type       string          `yaml:"type"`
	HardwareID string          `yaml:"hardware_id,omitempty"`
	Length     float64         `yaml:"length,omitempty"`
	Params     map[string]any  `yaml:"params,omitempty"`
	Children   []ElementConfig `yaml:"children,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:          "default",
		Topology:      TopologyLine,
		Algorithm:     "particle",
		Species:       "proton",
		KineticEnergy: DefaultEnergy,
		Beam: BeamConfig{
			Frequency: DefaultFrequency,
		},
		Initial: InitialConfig{
			Coordinates: []float64{1e-3, 0, 1e-3, 0, 0, 0},
			RMS:         []float64{1e-3, 1e-3, 1e-3, 1e-3, 1e-3, 1e-3},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a scenario over the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
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

// Validate checks the scenario for problems that would only surface during
// propagation. Element types and params are checked when the tree is built.
func (c *Config) Validate() error {
	switch c.Topology {
	case TopologyLine, TopologyRing, TopologyLattice:
	default:
		return fmt.Errorf("%w: unknown topology %q", ErrInvalid, c.Topology)
	}
	if c.KineticEnergy <= 0 {
		return fmt.Errorf("%w: kinetic energy must be positive, got %g", ErrInvalid, c.KineticEnergy)
	}
	if c.Beam.Current < 0 || c.Beam.Frequency < 0 {
		return fmt.Errorf("%w: negative beam current or frequency", ErrInvalid)
	}
	if c.SpaceChargeStep < 0 {
		return fmt.Errorf("%w: negative space charge step", ErrInvalid)
	}
	if n := len(c.Initial.Coordinates); n != 0 && n != 6 {
		return fmt.Errorf("%w: expected 6 initial coordinates, got %d", ErrInvalid, n)
	}
	if n := len(c.Initial.RMS); n != 0 && n != 6 {
		return fmt.Errorf("%w: expected 6 rms sizes, got %d", ErrInvalid, n)
	}
	if len(c.Elements) == 0 {
		return fmt.Errorf("%w: no elements", ErrInvalid)
	}

	seen := make(map[string]bool)
	if err := validateElements(c.Elements, seen); err != nil {
		return err
	}
	for _, id := range []string{c.Range.Start, c.Range.Stop, c.Initial.Marker} {
		if id != "" && !seen[id] {
			return fmt.Errorf("%w: unknown element %q", ErrInvalid, id)
		}
	}
	return nil
}

func validateElements(elems []ElementConfig, seen map[string]bool) error {
	for _, e := range elems {
		if e.ID == "" {
			return fmt.Errorf("%w: element of type %q has no id", ErrInvalid, e.Type)
		}
		if seen[e.ID] {
			return fmt.Errorf("%w: duplicate element id %q", ErrInvalid, e.ID)
		}
		seen[e.ID] = true
		if e.Length < 0 {
			return fmt.Errorf("%w: element %q has negative length", ErrInvalid, e.ID)
		}
		if err := validateElements(e.Children, seen); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of leaf elements.
func (c *Config) Count() int {
	return countLeaves(c.Elements)
}

func countLeaves(elems []ElementConfig) int {
	n := 0
	for _, e := range elems {
		if len(e.Children) > 0 || e.Type == TypeSector {
			n += countLeaves(e.Children)
			continue
		}
		n++
	}
	return n
}

// Clone returns a deep copy that shares no slices or parameter maps with c.
func (c *Config) Clone() *Config {
	out := *c
	out.Initial.Coordinates = slices.Clone(c.Initial.Coordinates)
	out.Initial.RMS = slices.Clone(c.Initial.RMS)
	out.Elements = cloneElements(c.Elements)
	return &out
}

func cloneElements(elems []ElementConfig) []ElementConfig {
	if elems == nil {
		return nil
	}
	out := make([]ElementConfig, len(elems))
	for i, e := range elems {
		e.Params = maps.Clone(e.Params)
		e.Children = cloneElements(e.Children)
		out[i] = e
	}
	return out
}

// Walk calls fn for every element in order, descending into sectors.
// fn receives a pointer into c, so it may change the element in place.
func (c *Config) Walk(fn func(e *ElementConfig)) {
	walkElements(c.Elements, fn)
}

func walkElements(elems []ElementConfig, fn func(e *ElementConfig)) {
	for i := range elems {
		fn(&elems[i])
		walkElements(elems[i].Children, fn)
	}
}
