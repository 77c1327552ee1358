package experiment

import (
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/beamsim/internal/algorithms"
	"github.com/san-kum/beamsim/internal/config"
	"github.com/san-kum/beamsim/internal/lattice"
	"github.com/san-kum/beamsim/internal/phase"
	"github.com/san-kum/beamsim/internal/telemetry"
	"github.com/san-kum/beamsim/internal/tracking"
)

// ErrNotRing is returned when a one-turn map is asked of a non-ring scenario.
var ErrNotRing = errors.New("experiment: scenario is not a ring")

type adder interface {
	lattice.Node
	AddChild(lattice.Node) error
}

// Scenario is a beamline ready to run: its tree and a probe bound to the
// scenario's algorithm.
type Scenario struct {
	Config *config.Config
	Root   lattice.Node
	Probe  *tracking.Probe

	recorder *telemetry.Recorder
}

// Result summarizes a completed run.
type Result struct {
	Elapsed time.Duration
	Final   tracking.State
	Steps   int
}

// Build validates cfg and assembles its tree and probe.
func (r *Registry) Build(cfg *config.Config, opts ...algorithms.Option) (*Scenario, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	root, err := r.BuildTree(cfg)
	if err != nil {
		return nil, err
	}
	p, err := r.NewProbe(cfg, root, opts...)
	if err != nil {
		return nil, err
	}
	return &Scenario{Config: cfg, Root: root, Probe: p}, nil
}

// BuildTree assembles the element tree of cfg.
func (r *Registry) BuildTree(cfg *config.Config) (lattice.Node, error) {
	var root adder
	switch cfg.Topology {
	case config.TopologyLine:
		root = lattice.NewLineModel(cfg.Name)
	case config.TopologyRing:
		root = lattice.NewRingModel(cfg.Name)
	case config.TopologyLattice:
		root = lattice.NewLattice(cfg.Name)
	default:
		return nil, fmt.Errorf("unknown topology: %s", cfg.Topology)
	}
	if err := r.addElements(root, cfg.Elements); err != nil {
		return nil, err
	}
	return root, nil
}

func (r *Registry) addElements(parent adder, elems []config.ElementConfig) error {
	for _, e := range elems {
		var n lattice.Node
		if e.Type == config.TypeSector {
			sec := lattice.NewSector(e.ID)
			sec.SetHardwareID(e.HardwareID)
			if err := r.addElements(sec, e.Children); err != nil {
				return err
			}
			n = sec
		} else {
			dyn, err := r.GetElement(e.Type, e.Params)
			if err != nil {
				return fmt.Errorf("element %s: %w", e.ID, err)
			}
			leaf := lattice.NewLeaf(e.ID, e.Type, e.Length, dyn)
			leaf.SetHardwareID(e.HardwareID)
			n = leaf
		}
		if err := parent.AddChild(n); err != nil {
			return err
		}
	}
	return nil
}

// NewProbe returns the initial probe of cfg, bound to a fresh algorithm.
// Probes made this way share nothing and may run concurrently over root.
func (r *Registry) NewProbe(cfg *config.Config, root lattice.Node, opts ...algorithms.Option) (*tracking.Probe, error) {
	kind, err := tracking.ParseKind(cfg.Algorithm)
	if err != nil {
		return nil, err
	}
	species, err := r.GetSpecies(cfg.Species)
	if err != nil {
		return nil, err
	}
	alg, err := r.GetAlgorithm(cfg, opts...)
	if err != nil {
		return nil, err
	}

	p := tracking.NewProbe(kind, species, cfg.KineticEnergy)
	p.SetCurrent(cfg.Beam.Current)
	p.SetBunchFrequency(cfg.Beam.Frequency)
	p.SetPosition(cfg.Initial.Position)

	if c := cfg.Initial.Coordinates; len(c) == 6 {
		p.SetCoordinates(phase.NewVector(c[0], c[1], c[2], c[3], c[4], c[5]))
	}
	if rms := cfg.Initial.RMS; len(rms) == 6 {
		p.SetCovariance(phase.DiagonalCovariance([phase.HOM]float64(rms)))
	}
	if id := cfg.Initial.Marker; id != "" {
		n, ok := find(root, id)
		if !ok {
			return nil, fmt.Errorf("unknown marker element: %s", id)
		}
		p.SetCurrentElement(tracking.ElementRef{ID: n.ID(), Type: n.Type(), HardwareID: n.HardwareID()})
	}

	p.SetAlgorithm(alg)
	p.Initialize()
	return p, nil
}

func find(root lattice.Node, id string) (lattice.Node, bool) {
	if f, ok := root.(interface {
		Find(string) (lattice.Node, bool)
	}); ok {
		return f.Find(id)
	}
	return nil, false
}

// WithRecorder makes Run observe its wall time.
func (s *Scenario) WithRecorder(r *telemetry.Recorder) *Scenario {
	s.recorder = r
	return s
}

// Run propagates the probe once through the tree.
func (s *Scenario) Run() (*Result, error) {
	start := time.Now()
	if err := s.Root.Propagate(s.Probe); err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	s.recorder.Run(s.Config.Name, elapsed.Seconds())

	return &Result{
		Elapsed: elapsed,
		Final:   s.Probe.State(),
		Steps:   s.Probe.Trajectory().Len() - 1,
	}, nil
}

// OneTurnMap returns the one-turn map of a ring scenario.
func (s *Scenario) OneTurnMap() (phase.Matrix, error) {
	ring, ok := s.Root.(*lattice.RingModel)
	if !ok {
		return phase.Matrix{}, fmt.Errorf("%w: %s", ErrNotRing, s.Config.Topology)
	}
	return ring.OneTurnMap(s.Probe)
}
