package phase

import "errors"

var (
	// ErrSingular indicates a matrix with no inverse.
	ErrSingular = errors.New("phase: singular matrix")

	// ErrNoConvergence indicates the Jacobi sweep did not converge.
	ErrNoConvergence = errors.New("phase: eigen decomposition did not converge")

	// ErrAsymmetric indicates a matrix expected to be symmetric is not.
	ErrAsymmetric = errors.New("phase: matrix is not symmetric")
)
