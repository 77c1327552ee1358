package experiment

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"github.com/san-kum/beamsim/internal/algorithms"
	"github.com/san-kum/beamsim/internal/config"
	"github.com/san-kum/beamsim/internal/phase"
	"github.com/san-kum/beamsim/internal/tracking"
)

// ErrRingEnsemble is returned for ring scenarios. Ring propagation rotates
// the children, which is a structural change to the shared tree.
var ErrRingEnsemble = errors.New("experiment: ensembles cannot run over a ring")

// Ensemble runs many particle probes over one shared tree. Each probe starts
// from the scenario coordinates plus a gaussian offset drawn from the
// scenario rms sizes with its own seed.
type Ensemble struct {
	registry  *Registry
	cfg       *config.Config
	numRuns   int
	seedStart int64
}

func NewEnsemble(r *Registry, cfg *config.Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{registry: r, cfg: cfg, numRuns: numRuns, seedStart: seedStart}
}

// Run propagates every probe and returns them in seed order.
func (e *Ensemble) Run(ctx context.Context, opts ...algorithms.Option) ([]*tracking.Probe, error) {
	if e.cfg.Topology == config.TopologyRing {
		return nil, ErrRingEnsemble
	}
	cfg := *e.cfg
	cfg.Algorithm = algorithms.NameParticle

	root, err := e.registry.BuildTree(&cfg)
	if err != nil {
		return nil, err
	}

	probes := make([]*tracking.Probe, e.numRuns)
	for i := range probes {
		p, err := e.registry.NewProbe(&cfg, root, opts...)
		if err != nil {
			return nil, err
		}
		jitter(p, cfg.Initial.RMS, e.seedStart+int64(i))
		probes[i] = p
	}

	errs := make([]error, e.numRuns)
	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[idx] = err
				return
			}
			errs[idx] = root.Propagate(probes[idx])
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return probes, nil
}

func jitter(p *tracking.Probe, rms []float64, seed int64) {
	if len(rms) != phase.HOM {
		return
	}
	rng := rand.New(rand.NewSource(seed))
	z := p.Coordinates()
	for i := 0; i < phase.HOM; i++ {
		z[i] += rng.NormFloat64() * rms[i]
	}
	p.SetCoordinates(z)
	p.Initialize()
}

// Moments returns the homogeneous covariance of a set of coordinates, in
// the same form an envelope probe carries.
func Moments(zs []phase.Vector) phase.Matrix {
	var m phase.Matrix
	if len(zs) == 0 {
		return m
	}
	for _, z := range zs {
		for i := 0; i < phase.Dim; i++ {
			for j := 0; j < phase.Dim; j++ {
				m[i][j] += z[i] * z[j]
			}
		}
	}
	return m.Scale(1 / float64(len(zs)))
}

// FinalCoordinates collects the coordinates of each probe.
func FinalCoordinates(probes []*tracking.Probe) []phase.Vector {
	out := make([]phase.Vector, len(probes))
	for i, p := range probes {
		out[i] = p.Coordinates()
	}
	return out
}
