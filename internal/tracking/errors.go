package tracking

import (
	"errors"
	"fmt"
)

var (
	// ErrIncompatibleProbe indicates an algorithm was handed a probe kind it
	// does not support.
	ErrIncompatibleProbe = errors.New("tracking: probe kind not supported by algorithm")

	// ErrNoAlgorithm indicates a probe was propagated without a bound algorithm.
	ErrNoAlgorithm = errors.New("tracking: probe has no algorithm")

	// ErrNegativeLength indicates a negative sub-length was requested.
	ErrNegativeLength = errors.New("tracking: negative propagation length")

	// ErrInvalidState indicates the probe state became NaN or Inf.
	ErrInvalidState = errors.New("tracking: invalid probe state (NaN or Inf detected)")
)

// PropagationError is the single failure kind surfaced by a propagation.
// It records which element and algorithm were involved.
type PropagationError struct {
	ElementID string
	Algorithm string
	Position  float64
	Err       error
}

func (e *PropagationError) Error() string {
	if e.Algorithm == "" {
		return fmt.Sprintf("propagate %s (s=%.6f): %v", e.ElementID, e.Position, e.Err)
	}
	return fmt.Sprintf("%s: propagate %s (s=%.6f): %v", e.Algorithm, e.ElementID, e.Position, e.Err)
}

func (e *PropagationError) Unwrap() error {
	return e.Err
}

// Fail wraps err in a PropagationError for element id, unless it already is one.
func Fail(alg string, id string, s float64, err error) error {
	var pe *PropagationError
	if errors.As(err, &pe) {
		return err
	}
	return &PropagationError{ElementID: id, Algorithm: alg, Position: s, Err: err}
}
