package lattice

import "errors"

var (
	// ErrIndexOutOfRange indicates a child index outside [0, count).
	ErrIndexOutOfRange = errors.New("lattice: child index out of range")

	// ErrDuplicateChild indicates a node already owned by this composite.
	ErrDuplicateChild = errors.New("lattice: node is already a child")

	// ErrForeignChild indicates a node already owned by another composite.
	ErrForeignChild = errors.New("lattice: node belongs to another composite")

	// ErrNilNode indicates a nil node was passed.
	ErrNilNode = errors.New("lattice: nil node")

	// ErrCycle indicates adding a node would make it its own ancestor.
	ErrCycle = errors.New("lattice: node cannot contain itself")
)
