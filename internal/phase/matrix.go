package phase

import (
	"fmt"
	"math"
	"strings"
)

// Matrix is a homogeneous 7x7 matrix. It is a value type; every operation
// returns a new matrix and leaves its operands untouched.
type Matrix [Dim][Dim]float64

func Identity() Matrix {
	var m Matrix
	for i := 0; i < Dim; i++ {
		m[i][i] = 1
	}
	return m
}

// Diagonal returns a matrix with d on the diagonal of the phase block and 1
// in the homogeneous corner.
func Diagonal(d [HOM]float64) Matrix {
	var m Matrix
	for i := 0; i < HOM; i++ {
		m[i][i] = d[i]
	}
	m[HOM][HOM] = 1
	return m
}

func (m Matrix) Times(b Matrix) Matrix {
	var out Matrix
	for i := 0; i < Dim; i++ {
		for k := 0; k < Dim; k++ {
			a := m[i][k]
			if a == 0 {
				continue
			}
			for j := 0; j < Dim; j++ {
				out[i][j] += a * b[k][j]
			}
		}
	}
	return out
}

func (m Matrix) TimesVector(v Vector) Vector {
	var out Vector
	for i := 0; i < Dim; i++ {
		sum := 0.0
		for j := 0; j < Dim; j++ {
			sum += m[i][j] * v[j]
		}
		out[i] = sum
	}
	return out
}

func (m Matrix) Plus(b Matrix) Matrix {
	for i := 0; i < Dim; i++ {
		for j := 0; j < Dim; j++ {
			m[i][j] += b[i][j]
		}
	}
	return m
}

func (m Matrix) Minus(b Matrix) Matrix {
	for i := 0; i < Dim; i++ {
		for j := 0; j < Dim; j++ {
			m[i][j] -= b[i][j]
		}
	}
	return m
}

func (m Matrix) Scale(alpha float64) Matrix {
	for i := 0; i < Dim; i++ {
		for j := 0; j < Dim; j++ {
			m[i][j] *= alpha
		}
	}
	return m
}

func (m Matrix) Transpose() Matrix {
	var out Matrix
	for i := 0; i < Dim; i++ {
		for j := 0; j < Dim; j++ {
			out[j][i] = m[i][j]
		}
	}
	return out
}

// Inverse computes m^-1 by Gauss-Jordan elimination with partial pivoting.
func (m Matrix) Inverse() (Matrix, error) {
	a := m
	inv := Identity()

	for col := 0; col < Dim; col++ {
		pivot := col
		best := math.Abs(a[col][col])
		for r := col + 1; r < Dim; r++ {
			if v := math.Abs(a[r][col]); v > best {
				best, pivot = v, r
			}
		}
		if best < 1e-300 {
			return Matrix{}, ErrSingular
		}
		if pivot != col {
			a[pivot], a[col] = a[col], a[pivot]
			inv[pivot], inv[col] = inv[col], inv[pivot]
		}

		scale := 1 / a[col][col]
		for j := 0; j < Dim; j++ {
			a[col][j] *= scale
			inv[col][j] *= scale
		}

		for r := 0; r < Dim; r++ {
			if r == col || a[r][col] == 0 {
				continue
			}
			f := a[r][col]
			for j := 0; j < Dim; j++ {
				a[r][j] -= f * a[col][j]
				inv[r][j] -= f * inv[col][j]
			}
		}
	}

	return inv, nil
}

// ConjugateTrans returns phi * m * phi^T, the propagation rule for a
// covariance matrix m.
func (m Matrix) ConjugateTrans(phi Matrix) Matrix {
	return phi.Times(m).Times(phi.Transpose())
}

// IsSymmetric reports whether |m[i][j] - m[j][i]| <= tol for all entries.
func (m Matrix) IsSymmetric(tol float64) bool {
	for i := 0; i < Dim; i++ {
		for j := i + 1; j < Dim; j++ {
			if math.Abs(m[i][j]-m[j][i]) > tol {
				return false
			}
		}
	}
	return true
}

func (m Matrix) IsValid() bool {
	for i := 0; i < Dim; i++ {
		for j := 0; j < Dim; j++ {
			if math.IsNaN(m[i][j]) || math.IsInf(m[i][j], 0) {
				return false
			}
		}
	}
	return true
}

// MaxAbs returns the largest absolute entry.
func (m Matrix) MaxAbs() float64 {
	maxv := 0.0
	for i := 0; i < Dim; i++ {
		for j := 0; j < Dim; j++ {
			if v := math.Abs(m[i][j]); v > maxv {
				maxv = v
			}
		}
	}
	return maxv
}

// ApproxEqual compares entrywise within tol.
func (m Matrix) ApproxEqual(b Matrix, tol float64) bool {
	return m.Minus(b).MaxAbs() <= tol
}

// Block returns the 2x2 diagonal block of plane 0 (x), 1 (y) or 2 (z).
func (m Matrix) Block(plane int) [2][2]float64 {
	i := 2 * plane
	return [2][2]float64{
		{m[i][i], m[i][i+1]},
		{m[i+1][i], m[i+1][i+1]},
	}
}

func (m Matrix) String() string {
	var b strings.Builder
	for i := 0; i < Dim; i++ {
		for j := 0; j < Dim; j++ {
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%12.5e", m[i][j])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
