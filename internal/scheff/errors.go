package scheff

import (
	"errors"
	"fmt"

	"github.com/san-kum/beamsim/internal/phase"
)

var (
	// ErrAsymmetric indicates a covariance matrix that is not symmetric.
	ErrAsymmetric = errors.New("scheff: covariance is not symmetric")

	// ErrNotPositiveDefinite indicates a spatial covariance with a
	// non-positive eigenvalue.
	ErrNotPositiveDefinite = errors.New("scheff: covariance is not positive definite")

	// ErrDegenerateAxes indicates a non-positive squared semi-axis.
	ErrDegenerateAxes = errors.New("scheff: squared semi-axes must be positive")

	// ErrDomain indicates arguments outside the domain of RD.
	ErrDomain = errors.New("scheff: argument outside the domain of RD")
)

// EllipsoidError reports a failed ellipsoid computation along with the
// matrix that caused it.
type EllipsoidError struct {
	Op     string
	Matrix phase.Matrix
	Err    error
}

func (e *EllipsoidError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *EllipsoidError) Unwrap() error {
	return e.Err
}
