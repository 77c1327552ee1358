package phase

import "math"

// NewCovariance builds a homogeneous covariance matrix from central second
// moments sigma and first moments mean.
func NewCovariance(sigma [HOM][HOM]float64, mean Vector) Matrix {
	var m Matrix
	for i := 0; i < HOM; i++ {
		for j := 0; j < HOM; j++ {
			m[i][j] = sigma[i][j] + mean[i]*mean[j]
		}
		m[i][HOM] = mean[i]
		m[HOM][i] = mean[i]
	}
	m[HOM][HOM] = 1
	return m
}

// DiagonalCovariance returns an uncorrelated, centred covariance with the
// given rms values on each phase coordinate.
func DiagonalCovariance(rms [HOM]float64) Matrix {
	var sigma [HOM][HOM]float64
	for i := 0; i < HOM; i++ {
		sigma[i][i] = rms[i] * rms[i]
	}
	return NewCovariance(sigma, Vector{HOM: 1})
}

// Mean extracts the first moments from a covariance matrix.
func Mean(cov Matrix) Vector {
	var v Vector
	for i := 0; i < HOM; i++ {
		v[i] = cov[i][HOM]
	}
	v[HOM] = 1
	return v
}

// Central returns the covariance about the centroid: <z_i z_j> - <z_i><z_j>,
// with the homogeneous row and column cleared.
func Central(cov Matrix) Matrix {
	mean := Mean(cov)
	var out Matrix
	for i := 0; i < HOM; i++ {
		for j := 0; j < HOM; j++ {
			out[i][j] = cov[i][j] - mean[i]*mean[j]
		}
	}
	out[HOM][HOM] = 1
	return out
}

// Spatial returns the (x, y, z) block of a central covariance.
func Spatial(cov Matrix) Mat3 {
	c := Central(cov)
	idx := [3]int{X, Y, Z}
	var out Mat3
	for i, a := range idx {
		for j, b := range idx {
			out[i][j] = c[a][b]
		}
	}
	return out
}

// RMS returns the rms beam size of each phase coordinate.
func RMS(cov Matrix) [HOM]float64 {
	c := Central(cov)
	var out [HOM]float64
	for i := 0; i < HOM; i++ {
		if c[i][i] > 0 {
			out[i] = math.Sqrt(c[i][i])
		}
	}
	return out
}
