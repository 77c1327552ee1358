package experiment

import (
	"fmt"
	"math"
	"slices"

	"github.com/mitchellh/mapstructure"

	"github.com/san-kum/beamsim/internal/algorithms"
	"github.com/san-kum/beamsim/internal/config"
	"github.com/san-kum/beamsim/internal/elements"
	"github.com/san-kum/beamsim/internal/tracking"
)

// ElementFactory builds the dynamics of a leaf from its scenario params.
type ElementFactory func(params map[string]any) (tracking.Dynamics, error)

// AlgorithmFactory builds an algorithm for a scenario.
type AlgorithmFactory func(cfg *config.Config, opts ...algorithms.Option) tracking.Algorithm

type QuadrupoleParams struct {
	Gradient float64 `mapstructure:"gradient"`
}

// RFGapParams holds the gap phase in degrees.
type RFGapParams struct {
	ETL       float64 `mapstructure:"etl"`
	Phase     float64 `mapstructure:"phase"`
	Frequency float64 `mapstructure:"frequency"`
}

type Registry struct {
	elements   map[string]ElementFactory
	algorithms map[string]AlgorithmFactory
	species    map[string]tracking.Species
}

func NewRegistry() *Registry {
	r := &Registry{
		elements:   make(map[string]ElementFactory),
		algorithms: make(map[string]AlgorithmFactory),
		species:    make(map[string]tracking.Species),
	}

	r.elements[elements.TypeMarker] = func(map[string]any) (tracking.Dynamics, error) {
		return elements.NewMarker(), nil
	}
	r.elements[elements.TypeDrift] = func(map[string]any) (tracking.Dynamics, error) {
		return elements.NewDrift(), nil
	}
	r.elements[elements.TypeQuadrupole] = func(params map[string]any) (tracking.Dynamics, error) {
		var p QuadrupoleParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		return elements.NewQuadrupole(p.Gradient), nil
	}
	r.elements[elements.TypeRFGap] = func(params map[string]any) (tracking.Dynamics, error) {
		p := RFGapParams{Frequency: config.DefaultFrequency}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		return elements.NewRFGap(p.ETL, p.Phase*math.Pi/180, p.Frequency), nil
	}

	r.algorithms[algorithms.NameParticle] = func(cfg *config.Config, opts ...algorithms.Option) tracking.Algorithm {
		return algorithms.NewParticleTracker(withRange(cfg, opts)...)
	}
	r.algorithms[algorithms.NameTransferMap] = func(cfg *config.Config, opts ...algorithms.Option) tracking.Algorithm {
		return algorithms.NewTransferMapTracker(withRange(cfg, opts)...)
	}
	r.algorithms[algorithms.NameEnvelope] = func(cfg *config.Config, opts ...algorithms.Option) tracking.Algorithm {
		return algorithms.NewEnvelopeTracker(cfg.SpaceChargeStep, withRange(cfg, opts)...)
	}

	for _, s := range []tracking.Species{tracking.Proton, tracking.HMinus, tracking.Electron} {
		r.species[s.Name] = s
	}
	return r
}

func withRange(cfg *config.Config, opts []algorithms.Option) []algorithms.Option {
	out := []algorithms.Option{algorithms.WithRange(cfg.Range.Start, cfg.Range.Stop, cfg.Range.IncludeStop)}
	return append(out, opts...)
}

func decodeParams(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(params)
}

// RegisterElement adds or replaces the factory of an element type. This is
// how hardware-bound elements join a scenario.
func (r *Registry) RegisterElement(typ string, f ElementFactory) {
	r.elements[typ] = f
}

func (r *Registry) RegisterAlgorithm(name string, f AlgorithmFactory) {
	r.algorithms[name] = f
}

func (r *Registry) GetElement(typ string, params map[string]any) (tracking.Dynamics, error) {
	fn, ok := r.elements[typ]
	if !ok {
		return nil, fmt.Errorf("unknown element type: %s", typ)
	}
	dyn, err := fn(params)
	if err != nil {
		return nil, fmt.Errorf("%s params: %w", typ, err)
	}
	return dyn, nil
}

func (r *Registry) GetAlgorithm(cfg *config.Config, opts ...algorithms.Option) (tracking.Algorithm, error) {
	fn, ok := r.algorithms[cfg.Algorithm]
	if !ok {
		return nil, fmt.Errorf("unknown algorithm: %s", cfg.Algorithm)
	}
	return fn(cfg, opts...), nil
}

func (r *Registry) GetSpecies(name string) (tracking.Species, error) {
	s, ok := r.species[name]
	if !ok {
		return tracking.Species{}, fmt.Errorf("unknown species: %s", name)
	}
	return s, nil
}

func (r *Registry) ListElements() []string   { return sortedKeys(r.elements) }
func (r *Registry) ListAlgorithms() []string { return sortedKeys(r.algorithms) }

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
