package phase

import (
	"fmt"
	"math"
)

// Dim is the size of the homogeneous phase space.
const Dim = 7

// Coordinate indices.
const (
	X = iota
	XP
	Y
	YP
	Z
	ZP
	HOM
)

// Planes, as taken by Matrix.Block.
const (
	PlaneX = iota
	PlaneY
	PlaneZ
)

type Vector [Dim]float64

// NewVector returns the homogeneous vector for the given phase coordinates.
func NewVector(x, xp, y, yp, z, zp float64) Vector {
	return Vector{x, xp, y, yp, z, zp, 1}
}

func (v Vector) IsValid() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Norm is the Euclidean norm of the six phase coordinates.
func (v Vector) Norm() float64 {
	sum := 0.0
	for i := 0; i < HOM; i++ {
		sum += v[i] * v[i]
	}
	return math.Sqrt(sum)
}

func (v Vector) Plus(other Vector) Vector {
	for i := 0; i < HOM; i++ {
		v[i] += other[i]
	}
	return v
}

func (v Vector) Minus(other Vector) Vector {
	for i := 0; i < HOM; i++ {
		v[i] -= other[i]
	}
	return v
}

func (v Vector) Scale(factor float64) Vector {
	for i := 0; i < HOM; i++ {
		v[i] *= factor
	}
	return v
}

func (v Vector) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g, %g, %g)", v[X], v[XP], v[Y], v[YP], v[Z], v[ZP])
}
