package phase

import "math"

// Mat3 is a 3x3 block, used for the spatial part of a beam covariance.
type Mat3 [3][3]float64

func Identity3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

func (m Mat3) Transpose() Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[j][i] = m[i][j]
		}
	}
	return out
}

func (m Mat3) Times(b Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += m[i][k] * b[k][j]
			}
		}
	}
	return out
}

func (m Mat3) IsSymmetric(tol float64) bool {
	return math.Abs(m[0][1]-m[1][0]) <= tol &&
		math.Abs(m[0][2]-m[2][0]) <= tol &&
		math.Abs(m[1][2]-m[2][1]) <= tol
}

// Eigen3 diagonalizes a symmetric matrix with cyclic Jacobi rotations.
// It returns the eigenvalues and a rotation Q whose columns are the
// matching eigenvectors, so that m = Q * diag(vals) * Q^T.
//
// At each iteration the largest off-diagonal entry is annihilated. The loop
// stops when every off-diagonal entry is below tol times the matrix scale,
// or fails with ErrNoConvergence after maxIter rotations.
func Eigen3(m Mat3, tol float64, maxIter int) ([3]float64, Mat3, error) {
	var vals [3]float64

	scale := 0.0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			scale = math.Max(scale, math.Abs(m[i][j]))
		}
	}
	if !m.IsSymmetric(tol * math.Max(scale, 1)) {
		return vals, Mat3{}, ErrAsymmetric
	}

	a := m
	q := Identity3()
	limit := tol * scale

	converged := false
	for iter := 0; iter < maxIter; iter++ {
		p, r := 0, 1
		maxOff := 0.0
		for i := 0; i < 3; i++ {
			for j := i + 1; j < 3; j++ {
				if off := math.Abs(a[i][j]); off > maxOff {
					maxOff, p, r = off, i, j
				}
			}
		}
		if maxOff <= limit {
			converged = true
			break
		}

		app, arr, apr := a[p][p], a[r][r], a[p][r]
		theta := (arr - app) / (2 * apr)
		t := math.Copysign(1/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
		c := 1 / math.Sqrt(t*t+1)
		s := t * c

		for i := 0; i < 3; i++ {
			if i == p || i == r {
				continue
			}
			aip, air := a[i][p], a[i][r]
			nip := c*aip - s*air
			nir := s*aip + c*air
			a[i][p], a[p][i] = nip, nip
			a[i][r], a[r][i] = nir, nir
		}
		a[p][p] = c*c*app - 2*c*s*apr + s*s*arr
		a[r][r] = s*s*app + 2*c*s*apr + c*c*arr
		a[p][r], a[r][p] = 0, 0

		for i := 0; i < 3; i++ {
			qip, qir := q[i][p], q[i][r]
			q[i][p] = c*qip - s*qir
			q[i][r] = s*qip + c*qir
		}
	}
	if !converged {
		maxOff := math.Max(math.Abs(a[0][1]), math.Max(math.Abs(a[0][2]), math.Abs(a[1][2])))
		if maxOff > limit {
			return vals, Mat3{}, ErrNoConvergence
		}
	}

	for i := 0; i < 3; i++ {
		vals[i] = a[i][i]
	}
	return vals, q, nil
}
