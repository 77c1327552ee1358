package lattice

import (
	"github.com/san-kum/beamsim/internal/phase"
	"github.com/san-kum/beamsim/internal/tracking"
)

// Leaf is a physical element. Its physics are supplied by a
// tracking.Dynamics; the leaf provides identity, length and placement.
type Leaf struct {
	nodeBase
	dyn tracking.Dynamics
}

// NewLeaf returns a leaf of the given length (m) driven by dyn.
func NewLeaf(id, typ string, length float64, dyn tracking.Dynamics) *Leaf {
	return &Leaf{
		nodeBase: nodeBase{id: id, typ: typ, length: length},
		dyn:      dyn,
	}
}

func (l *Leaf) Length() float64 { return l.length }

func (l *Leaf) Dynamics() tracking.Dynamics { return l.dyn }

func (l *Leaf) ElapsedTime(p *tracking.Probe, ds float64) float64 {
	return l.dyn.ElapsedTime(p, ds)
}

func (l *Leaf) EnergyGain(p *tracking.Probe, ds float64) float64 {
	return l.dyn.EnergyGain(p, ds)
}

func (l *Leaf) TransferMap(p *tracking.Probe, ds float64) (phase.Matrix, error) {
	return l.dyn.TransferMap(p, ds)
}

func (l *Leaf) algorithm(p *tracking.Probe) (tracking.Algorithm, error) {
	alg := p.Algorithm()
	if alg == nil {
		return nil, tracking.Fail("", l.id, p.Position(), tracking.ErrNoAlgorithm)
	}
	return alg, nil
}

func (l *Leaf) Propagate(p *tracking.Probe) error {
	alg, err := l.algorithm(p)
	if err != nil {
		return err
	}
	return alg.Propagate(p, l)
}

func (l *Leaf) BackPropagate(p *tracking.Probe) error {
	alg, err := l.algorithm(p)
	if err != nil {
		return err
	}
	return alg.BackPropagate(p, l)
}

func (l *Leaf) PropagatePart(p *tracking.Probe, offset float64) error {
	alg, err := l.algorithm(p)
	if err != nil {
		return err
	}
	return alg.PropagatePart(p, l, offset)
}

func (l *Leaf) BackPropagatePart(p *tracking.Probe, offset float64) error {
	alg, err := l.algorithm(p)
	if err != nil {
		return err
	}
	return alg.BackPropagatePart(p, l, offset)
}
