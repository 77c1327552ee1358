package tracking

import "github.com/san-kum/beamsim/internal/phase"

// ElementRef identifies the element a probe is at.
type ElementRef struct {
	ID         string
	Type       string
	HardwareID string
}

// IsZero reports whether no element is referenced.
func (r ElementRef) IsZero() bool {
	return r.ID == ""
}

// Dynamics are the per-sub-length physics of a leaf element. Each function is
// a pure function of the probe state and the sub-length ds being crossed.
type Dynamics interface {
	ElapsedTime(p *Probe, ds float64) float64
	EnergyGain(p *Probe, ds float64) float64
	TransferMap(p *Probe, ds float64) (phase.Matrix, error)
}

// Element is a leaf of the beamline that an Algorithm can propagate through.
type Element interface {
	ID() string
	Type() string
	HardwareID() string
	Length() float64
	Dynamics
}

// Ref returns the marker for e.
func Ref(e Element) ElementRef {
	return ElementRef{ID: e.ID(), Type: e.Type(), HardwareID: e.HardwareID()}
}
