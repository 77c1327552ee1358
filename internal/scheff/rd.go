package scheff

import (
	"fmt"
	"math"
)

const (
	rdErrTol  = 0.0015
	rdTiny    = 1.0e-25
	rdBig     = 4.5e21
	rdMaxIter = 100

	rdC1 = 3.0 / 14.0
	rdC2 = 1.0 / 6.0
	rdC3 = 9.0 / 22.0
	rdC4 = 3.0 / 26.0
	rdC5 = 0.25 * rdC3
	rdC6 = 1.5 * rdC4
)

// RD is Carlson's symmetric elliptic integral of the second kind,
//
//	RD(x, y, z) = 3/2 * Integral_0^inf dt / ((t+x)^(1/2) (t+y)^(1/2) (t+z)^(3/2))
//
// x and y must be non-negative with at most one of them zero, and z must be
// positive. It is evaluated by duplication.
func RD(x, y, z float64) (float64, error) {
	if math.Min(x, y) < 0 || math.Min(x+y, z) < rdTiny || math.Max(x, math.Max(y, z)) > rdBig {
		return 0, fmt.Errorf("%w: RD(%g, %g, %g)", ErrDomain, x, y, z)
	}

	xt, yt, zt := x, y, z
	sum, fac := 0.0, 1.0
	var ave, delx, dely, delz float64
	for i := 0; ; i++ {
		if i == rdMaxIter {
			return 0, fmt.Errorf("%w: RD(%g, %g, %g) did not converge", ErrDomain, x, y, z)
		}
		sx, sy, sz := math.Sqrt(xt), math.Sqrt(yt), math.Sqrt(zt)
		lambda := sx*(sy+sz) + sy*sz
		sum += fac / (sz * (zt + lambda))
		fac *= 0.25
		xt = 0.25 * (xt + lambda)
		yt = 0.25 * (yt + lambda)
		zt = 0.25 * (zt + lambda)

		ave = 0.2 * (xt + yt + 3*zt)
		delx = (ave - xt) / ave
		dely = (ave - yt) / ave
		delz = (ave - zt) / ave
		if math.Max(math.Abs(delx), math.Max(math.Abs(dely), math.Abs(delz))) <= rdErrTol {
			break
		}
	}

	ea := delx * dely
	eb := delz * delz
	ec := ea - eb
	ed := ea - 6*eb
	ee := ed + ec + ec
	series := 1 + ed*(-rdC1+rdC5*ed-rdC6*delz*ee) + delz*(rdC2*ee+delz*(-rdC3*ec+delz*rdC4*ea))
	return 3*sum + fac*series/(ave*math.Sqrt(ave)), nil
}
