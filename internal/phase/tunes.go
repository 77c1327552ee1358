package phase

import "math"

// Tunes returns the fractional tunes of the x, y and z planes of a one-turn
// map, in [0, 1). A plane whose 2x2 block has |trace| > 2 is unstable and
// reports NaN.
func (m Matrix) Tunes() [3]float64 {
	var out [3]float64
	for plane := 0; plane < 3; plane++ {
		b := m.Block(plane)
		cosMu := (b[0][0] + b[1][1]) / 2
		if math.Abs(cosMu) > 1 {
			out[plane] = math.NaN()
			continue
		}
		mu := math.Acos(cosMu)
		if b[0][1] < 0 {
			mu = 2*math.Pi - mu
		}
		out[plane] = mu / (2 * math.Pi)
	}
	return out
}

// Det2 returns the determinant of the 2x2 block of a plane.
func (m Matrix) Det2(plane int) float64 {
	b := m.Block(plane)
	return b[0][0]*b[1][1] - b[0][1]*b[1][0]
}
