package tracking

import "math"

// Physical constants in SI units.
const (
	SpeedOfLight = 2.99792458e8
	Epsilon0     = 8.8541878128e-12
)

// Species describes the particle kind carried by a probe. Charge is in units
// of the elementary charge, RestEnergy in eV.
type Species struct {
	Name       string
	Charge     float64
	RestEnergy float64
}

var (
	Proton   = Species{Name: "proton", Charge: 1, RestEnergy: 938.27208816e6}
	HMinus   = Species{Name: "h-", Charge: -1, RestEnergy: 939.2941e6}
	Electron = Species{Name: "electron", Charge: -1, RestEnergy: 0.51099895e6}
)

// Gamma returns the Lorentz factor for kinetic energy w (eV).
func (s Species) Gamma(w float64) float64 {
	return 1 + w/s.RestEnergy
}

// Beta returns v/c for kinetic energy w (eV).
func (s Species) Beta(w float64) float64 {
	g := s.Gamma(w)
	return math.Sqrt(1 - 1/(g*g))
}

// Rigidity returns the magnetic rigidity B*rho in T*m for kinetic energy w (eV).
func (s Species) Rigidity(w float64) float64 {
	pc := math.Sqrt(w * (w + 2*s.RestEnergy))
	return pc / (SpeedOfLight * math.Abs(s.Charge))
}
