package algorithms

import (
	"math"

	"github.com/san-kum/beamsim/internal/phase"
	"github.com/san-kum/beamsim/internal/scheff"
	"github.com/san-kum/beamsim/internal/tracking"
)

// Algorithm names.
const (
	NameParticle    = "particle"
	NameTransferMap = "transfer_map"
	NameEnvelope    = "envelope"
)

// ParticleTracker advances the coordinates of a single particle.
type ParticleTracker struct {
	Tracker
}

func NewParticleTracker(opts ...Option) *ParticleTracker {
	return &ParticleTracker{
		Tracker: newTracker(NameParticle, []tracking.Kind{tracking.KindParticle}, applyParticle, opts...),
	}
}

func applyParticle(p *tracking.Probe, m phase.Matrix) {
	p.SetCoordinates(m.TimesVector(p.Coordinates()))
}

// TransferMapTracker accumulates the transfer map of everything it crosses.
type TransferMapTracker struct {
	Tracker
}

func NewTransferMapTracker(opts ...Option) *TransferMapTracker {
	return &TransferMapTracker{
		Tracker: newTracker(NameTransferMap, []tracking.Kind{tracking.KindTransferMap}, applyTransferMap, opts...),
	}
}

func applyTransferMap(p *tracking.Probe, m phase.Matrix) {
	p.SetTransferMap(m.Times(p.TransferMap()))
}

// EnvelopeTracker advances the beam covariance. With a positive step size
// and a probe carrying current, elements are split into steps of at most
// that length and each step is followed by a linear space-charge kick.
type EnvelopeTracker struct {
	Tracker
}

func NewEnvelopeTracker(stepSize float64, opts ...Option) *EnvelopeTracker {
	e := &EnvelopeTracker{
		Tracker: newTracker(NameEnvelope, []tracking.Kind{tracking.KindEnvelope}, applyEnvelope, opts...),
	}
	e.SetStepSize(stepSize)
	return e
}

func applyEnvelope(p *tracking.Probe, m phase.Matrix) {
	p.SetCovariance(p.Covariance().ConjugateTrans(m))
}

// SetStepSize sets the space-charge step in m. Zero disables space charge.
func (e *EnvelopeTracker) SetStepSize(ds float64) {
	e.stepSize = math.Max(ds, 0)
	if e.stepSize == 0 {
		e.kick = nil
		return
	}
	e.kick = e.spaceCharge
}

func (e *EnvelopeTracker) StepSize() float64 { return e.stepSize }

func (e *EnvelopeTracker) spaceCharge(p *tracking.Probe, ds float64) (phase.Matrix, error) {
	k := p.Perveance()
	if k == 0 {
		return phase.Identity(), nil
	}
	ell, err := scheff.NewBeamEllipsoid(p.Gamma(), p.Covariance())
	if err != nil {
		return phase.Matrix{}, err
	}

	c := ell.Constants()
	e.recorder.Kick(e.name, ds*k*math.Max(c[0], math.Max(c[1], c[2])))
	return ell.TransferMatrix(ds, k), nil
}
