package scheff

import (
	"fmt"
	"math"

	"github.com/san-kum/beamsim/internal/phase"
)

// shapeFactor relates rms sizes to the semi-axes of a uniform ellipsoid,
// a^2 = 5 <x^2>, entering RD as 5^(3/2).
var shapeFactor = math.Pow(5, 1.5)

const (
	symmetryTol = 1e-12
	eigenTol    = 1e-13
	eigenIter   = 100
)

var positions = [3]int{phase.X, phase.Y, phase.Z}
var momenta = [3]int{phase.XP, phase.YP, phase.ZP}

// BeamEllipsoid is the second-moment ellipsoid of a bunch together with the
// coordinate transforms between the lab frame and its principal frame.
type BeamEllipsoid struct {
	gamma float64

	covLab  phase.Matrix
	covBeam phase.Matrix

	lorentz     phase.Matrix
	translation phase.Matrix
	rotation    phase.Matrix
	axes        phase.Mat3

	toLocal   phase.Matrix // M = R*T*L
	fromLocal phase.Matrix // M^-1

	semiAxes2 [3]float64
	constants [3]float64
}

// NewBeamEllipsoid builds the ellipsoid of a lab frame covariance for a beam
// with Lorentz factor gamma.
func NewBeamEllipsoid(gamma float64, cov phase.Matrix) (*BeamEllipsoid, error) {
	if !cov.IsSymmetric(symmetryTol * math.Max(cov.MaxAbs(), 1)) {
		return nil, &EllipsoidError{Op: "new ellipsoid", Matrix: cov, Err: ErrAsymmetric}
	}
	if !cov.IsValid() || gamma < 1 || math.IsNaN(gamma) || math.IsInf(gamma, 0) {
		return nil, &EllipsoidError{Op: "new ellipsoid", Matrix: cov, Err: fmt.Errorf("%w: gamma %g", ErrDomain, gamma)}
	}

	e := &BeamEllipsoid{gamma: gamma, covLab: cov}

	e.lorentz = lorentz(gamma)
	e.covBeam = cov.ConjugateTrans(e.lorentz)

	mean := phase.Mean(e.covBeam)
	e.translation = translation(mean.Scale(-1))

	vals, q, err := phase.Eigen3(phase.Spatial(e.covBeam), eigenTol, eigenIter)
	if err != nil {
		return nil, &EllipsoidError{Op: "principal axes", Matrix: e.covBeam, Err: err}
	}
	for _, v := range vals {
		if v <= 0 {
			return nil, &EllipsoidError{Op: "principal axes", Matrix: e.covBeam, Err: ErrNotPositiveDefinite}
		}
	}
	e.axes = q
	e.semiAxes2 = vals
	e.rotation = rotation(q.Transpose())

	e.constants, err = DefocusConstants(gamma, vals[0], vals[1], vals[2])
	if err != nil {
		return nil, &EllipsoidError{Op: "defocus constants", Matrix: e.covBeam, Err: err}
	}

	e.toLocal = e.rotation.Times(e.translation).Times(e.lorentz)
	e.fromLocal = lorentz(1 / gamma).Times(translation(mean)).Times(rotation(q))
	return e, nil
}

// DefocusConstants returns the normalized defocusing constant of each axis
// of a uniform ellipsoid with squared semi-axes a2, b2 and c2:
//
//	k_a^2 = gamma * RD(b2, c2, a2) / 5^1.5
//
// and cyclically for b and c.
func DefocusConstants(gamma, a2, b2, c2 float64) ([3]float64, error) {
	var k [3]float64
	if a2 <= 0 || b2 <= 0 || c2 <= 0 {
		return k, fmt.Errorf("%w: (%g, %g, %g)", ErrDegenerateAxes, a2, b2, c2)
	}

	s := [3]float64{a2, b2, c2}
	for i := 0; i < 3; i++ {
		rd, err := RD(s[(i+1)%3], s[(i+2)%3], s[i])
		if err != nil {
			return k, err
		}
		k[i] = gamma * rd / shapeFactor
	}
	return k, nil
}

// Generator returns the local generator G0. Its only non-zero entries are
// the momentum kicks k^2 of each principal axis.
func (e *BeamEllipsoid) Generator() phase.Matrix {
	var g phase.Matrix
	for i := 0; i < 3; i++ {
		g[momenta[i]][positions[i]] = e.constants[i]
	}
	return g
}

// TransferMatrix returns the lab frame space-charge transfer matrix for a
// step ds at generalized perveance k. A zero perveance gives the identity.
func (e *BeamEllipsoid) TransferMatrix(ds, k float64) phase.Matrix {
	if k == 0 {
		return phase.Identity()
	}
	local := phase.Identity().Plus(e.Generator().Scale(ds * k))
	return e.fromLocal.Times(local).Times(e.toLocal)
}

func (e *BeamEllipsoid) Gamma() float64 { return e.gamma }

// Covariance is the lab frame covariance the ellipsoid was built from.
func (e *BeamEllipsoid) Covariance() phase.Matrix          { return e.covLab }
func (e *BeamEllipsoid) BeamFrameCovariance() phase.Matrix { return e.covBeam }

// SemiAxes2 returns the squared rms semi-axes in the beam frame.
func (e *BeamEllipsoid) SemiAxes2() [3]float64 { return e.semiAxes2 }

func (e *BeamEllipsoid) Constants() [3]float64 { return e.constants }

// Axes returns the rotation whose columns are the principal axes.
func (e *BeamEllipsoid) Axes() phase.Mat3 { return e.axes }

// Transform returns M = R*T*L, the map from lab to principal coordinates.
func (e *BeamEllipsoid) Transform() phase.Matrix { return e.toLocal }

// IsNilpotent reports whether m*m vanishes within tol.
func IsNilpotent(m phase.Matrix, tol float64) bool {
	var zero phase.Matrix
	return m.Times(m).ApproxEqual(zero, tol)
}

func lorentz(gamma float64) phase.Matrix {
	return phase.Diagonal([phase.HOM]float64{1, 1, 1, 1, gamma, gamma})
}

func translation(offset phase.Vector) phase.Matrix {
	t := phase.Identity()
	for i := 0; i < phase.HOM; i++ {
		t[i][phase.HOM] = offset[i]
	}
	return t
}

// rotation applies r to both the position and the momentum triples.
func rotation(r phase.Mat3) phase.Matrix {
	var m phase.Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[positions[i]][positions[j]] = r[i][j]
			m[momenta[i]][momenta[j]] = r[i][j]
		}
	}
	m[phase.HOM][phase.HOM] = 1
	return m
}
