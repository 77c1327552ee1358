package tracking

import (
	"fmt"
	"math"

	"github.com/san-kum/beamsim/internal/phase"
)

// Kind tags the payload a probe carries.
type Kind int

const (
	KindParticle Kind = iota + 1
	KindTransferMap
	KindEnvelope
)

func (k Kind) String() string {
	switch k {
	case KindParticle:
		return "particle"
	case KindTransferMap:
		return "transfer_map"
	case KindEnvelope:
		return "envelope"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{KindParticle, KindTransferMap, KindEnvelope} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown probe kind: %s", s)
}

// State is an immutable snapshot of a probe. Only the payload matching the
// probe kind is meaningful.
type State struct {
	Element       ElementRef
	Position      float64
	Time          float64
	KineticEnergy float64
	Phase         float64

	Coordinates phase.Vector
	TransferMap phase.Matrix
	Covariance  phase.Matrix
}

func (s State) IsValid() bool {
	for _, v := range []float64{s.Position, s.Time, s.KineticEnergy, s.Phase} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return s.Coordinates.IsValid() && s.TransferMap.IsValid() && s.Covariance.IsValid()
}

// Probe is the mutable simulation state advanced through a beamline.
type Probe struct {
	kind      Kind
	species   Species
	current   float64
	frequency float64

	state      State
	trajectory *Trajectory
	algorithm  Algorithm
}

// NewProbe returns a probe of the given kind at s=0 with kinetic energy w (eV).
// The transfer map starts at the identity and the covariance at zero size.
func NewProbe(kind Kind, species Species, w float64) *Probe {
	p := &Probe{
		kind:    kind,
		species: species,
		state: State{
			KineticEnergy: w,
			Coordinates:   phase.NewVector(0, 0, 0, 0, 0, 0),
			TransferMap:   phase.Identity(),
			Covariance:    phase.DiagonalCovariance([phase.HOM]float64{}),
		},
		trajectory: NewTrajectory(),
	}
	p.trajectory.Append(p.state)
	return p
}

func (p *Probe) Kind() Kind           { return p.kind }
func (p *Probe) Species() Species     { return p.species }
func (p *Probe) Algorithm() Algorithm { return p.algorithm }

// SetAlgorithm binds alg to the probe and re-arms its range.
func (p *Probe) SetAlgorithm(alg Algorithm) {
	p.algorithm = alg
	if alg != nil {
		alg.Reset()
	}
}

// Initialize starts a new run from the current state: the trajectory is
// replaced by one holding only the current snapshot and the algorithm range
// is re-armed.
func (p *Probe) Initialize() {
	p.trajectory = NewTrajectory()
	p.trajectory.Append(p.state)
	if p.algorithm != nil {
		p.algorithm.Reset()
	}
}

func (p *Probe) Trajectory() *Trajectory { return p.trajectory }

// Save appends a snapshot of the current state to the trajectory.
func (p *Probe) Save() { p.trajectory.Append(p.state) }

// State returns a snapshot of the current state.
func (p *Probe) State() State { return p.state }

func (p *Probe) Position() float64     { return p.state.Position }
func (p *Probe) SetPosition(s float64) { p.state.Position = s }

func (p *Probe) Time() float64     { return p.state.Time }
func (p *Probe) SetTime(t float64) { p.state.Time = t }

func (p *Probe) KineticEnergy() float64     { return p.state.KineticEnergy }
func (p *Probe) SetKineticEnergy(w float64) { p.state.KineticEnergy = w }

func (p *Probe) Phase() float64       { return p.state.Phase }
func (p *Probe) SetPhase(phi float64) { p.state.Phase = phi }

func (p *Probe) CurrentElement() ElementRef     { return p.state.Element }
func (p *Probe) SetCurrentElement(r ElementRef) { p.state.Element = r }

func (p *Probe) Coordinates() phase.Vector     { return p.state.Coordinates }
func (p *Probe) SetCoordinates(z phase.Vector) { p.state.Coordinates = z }

func (p *Probe) TransferMap() phase.Matrix     { return p.state.TransferMap }
func (p *Probe) SetTransferMap(m phase.Matrix) { p.state.TransferMap = m }

func (p *Probe) Covariance() phase.Matrix     { return p.state.Covariance }
func (p *Probe) SetCovariance(m phase.Matrix) { p.state.Covariance = m }

// Current is the beam current in A.
func (p *Probe) Current() float64     { return p.current }
func (p *Probe) SetCurrent(i float64) { p.current = i }

// BunchFrequency is the bunch repetition frequency in Hz.
func (p *Probe) BunchFrequency() float64     { return p.frequency }
func (p *Probe) SetBunchFrequency(f float64) { p.frequency = f }

func (p *Probe) Gamma() float64 { return p.species.Gamma(p.state.KineticEnergy) }
func (p *Probe) Beta() float64  { return p.species.Beta(p.state.KineticEnergy) }

// Perveance is the generalized perveance of one bunch,
// K = Q / (4 pi eps0 (W0/|q|) beta^2 gamma^3) with bunch charge Q = I/f.
// A probe without current or bunch frequency has zero perveance.
func (p *Probe) Perveance() float64 {
	if p.current == 0 || p.frequency == 0 {
		return 0
	}
	q := p.current / p.frequency
	beta, gamma := p.Beta(), p.Gamma()
	if beta == 0 {
		return 0
	}
	volts := p.species.RestEnergy / math.Abs(p.species.Charge)
	return q / (4 * math.Pi * Epsilon0 * volts * beta * beta * gamma * gamma * gamma)
}
