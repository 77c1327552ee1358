package elements

import (
	"math"

	"github.com/san-kum/beamsim/internal/phase"
	"github.com/san-kum/beamsim/internal/tracking"
)

// Element type tags.
const (
	TypeMarker     = "marker"
	TypeDrift      = "drift"
	TypeQuadrupole = "quadrupole"
	TypeRFGap      = "rfgap"
)

// flightTime is the time to cross ds at the probe velocity.
func flightTime(p *tracking.Probe, ds float64) float64 {
	v := p.Beta() * tracking.SpeedOfLight
	if v == 0 {
		return 0
	}
	return ds / v
}

// driftMap is the transfer map of a field-free length ds. The longitudinal
// coordinate slips by ds/gamma^2.
func driftMap(p *tracking.Probe, ds float64) phase.Matrix {
	g := p.Gamma()
	m := phase.Identity()
	m[phase.X][phase.XP] = ds
	m[phase.Y][phase.YP] = ds
	m[phase.Z][phase.ZP] = ds / (g * g)
	return m
}

// Marker is a zero-length reference point.
type Marker struct{}

func NewMarker() *Marker { return &Marker{} }

func (Marker) ElapsedTime(p *tracking.Probe, ds float64) float64 { return 0 }
func (Marker) EnergyGain(p *tracking.Probe, ds float64) float64  { return 0 }
func (Marker) TransferMap(p *tracking.Probe, ds float64) (phase.Matrix, error) {
	return phase.Identity(), nil
}

type Drift struct{}

func NewDrift() *Drift { return &Drift{} }

func (Drift) ElapsedTime(p *tracking.Probe, ds float64) float64 { return flightTime(p, ds) }
func (Drift) EnergyGain(p *tracking.Probe, ds float64) float64  { return 0 }
func (Drift) TransferMap(p *tracking.Probe, ds float64) (phase.Matrix, error) {
	return driftMap(p, ds), nil
}

// Quadrupole is a magnetic quadrupole with field gradient in T/m. A positive
// gradient focuses a positively charged beam in x.
type Quadrupole struct {
	Gradient float64
}

func NewQuadrupole(gradient float64) *Quadrupole {
	return &Quadrupole{Gradient: gradient}
}

func (q *Quadrupole) ElapsedTime(p *tracking.Probe, ds float64) float64 { return flightTime(p, ds) }
func (q *Quadrupole) EnergyGain(p *tracking.Probe, ds float64) float64  { return 0 }

func (q *Quadrupole) Params() map[string]any {
	return map[string]any{"gradient": q.Gradient}
}

// Strength returns k^2 = q*G/(B*rho) in 1/m^2 for the probe.
func (q *Quadrupole) Strength(p *tracking.Probe) float64 {
	brho := p.Species().Rigidity(p.KineticEnergy())
	if brho == 0 {
		return 0
	}
	return math.Copysign(1, p.Species().Charge) * q.Gradient / brho
}

func (q *Quadrupole) TransferMap(p *tracking.Probe, ds float64) (phase.Matrix, error) {
	m := driftMap(p, ds)
	k2 := q.Strength(p)
	if k2 == 0 || ds == 0 {
		return m, nil
	}

	k := math.Sqrt(math.Abs(k2))
	focus := thickLens(k, ds, true)
	defocus := thickLens(k, ds, false)
	xb, yb := focus, defocus
	if k2 < 0 {
		xb, yb = defocus, focus
	}
	setBlock(&m, phase.X, xb)
	setBlock(&m, phase.Y, yb)
	return m, nil
}

func thickLens(k, l float64, focusing bool) [2][2]float64 {
	phi := k * l
	if focusing {
		c, s := math.Cos(phi), math.Sin(phi)
		return [2][2]float64{{c, s / k}, {-k * s, c}}
	}
	c, s := math.Cosh(phi), math.Sinh(phi)
	return [2][2]float64{{c, s / k}, {k * s, c}}
}

func setBlock(m *phase.Matrix, i int, b [2][2]float64) {
	m[i][i], m[i][i+1] = b[0][0], b[0][1]
	m[i+1][i], m[i+1][i+1] = b[1][0], b[1][1]
}

// RFGap is a thin accelerating gap. ETL is the effective voltage E0*T*L in
// V, Phase the synchronous phase in rad (zero on crest), Frequency the RF
// frequency in Hz.
type RFGap struct {
	ETL       float64
	Phase     float64
	Frequency float64
}

func NewRFGap(etl, phi, frequency float64) *RFGap {
	return &RFGap{ETL: etl, Phase: phi, Frequency: frequency}
}

// Params reports the gap phase in degrees, as scenarios write it.
func (g *RFGap) Params() map[string]any {
	return map[string]any{
		"etl":       g.ETL,
		"phase":     g.Phase * 180 / math.Pi,
		"frequency": g.Frequency,
	}
}

func (g *RFGap) ElapsedTime(p *tracking.Probe, ds float64) float64 { return 0 }

// EnergyGain is q*ETL*cos(phi) in eV. The gap is thin, so ds is ignored.
func (g *RFGap) EnergyGain(p *tracking.Probe, ds float64) float64 {
	return p.Species().Charge * g.ETL * math.Cos(g.Phase)
}

// TransferMap applies the longitudinal and transverse RF kicks and the
// adiabatic damping of the divergences.
func (g *RFGap) TransferMap(p *tracking.Probe, ds float64) (phase.Matrix, error) {
	m := phase.Identity()
	sp := p.Species()
	w0 := p.KineticEnergy()
	w1 := w0 + g.EnergyGain(p, ds)

	bg0 := betaGamma(sp, w0)
	bg1 := betaGamma(sp, w1)
	if bg0 == 0 || bg1 == 0 {
		return m, nil
	}
	damp := bg0 / bg1

	beta, gamma := sp.Beta(w0), sp.Gamma(w0)
	kz := 2 * math.Pi * sp.Charge * g.ETL * math.Sin(g.Phase) * g.Frequency /
		(sp.RestEnergy * math.Pow(beta*gamma, 3) * tracking.SpeedOfLight)
	kt := -kz / 2

	m[phase.XP][phase.X] = kt * damp
	m[phase.YP][phase.Y] = kt * damp
	m[phase.ZP][phase.Z] = kz * damp
	m[phase.XP][phase.XP] = damp
	m[phase.YP][phase.YP] = damp
	m[phase.ZP][phase.ZP] = damp
	return m, nil
}

func betaGamma(sp tracking.Species, w float64) float64 {
	g := sp.Gamma(w)
	return math.Sqrt(g*g - 1)
}
