// Package elements provides the built-in leaf dynamics.
//
//   - [Marker]: zero-length reference point
//   - [Drift]: field-free region
//   - [Quadrupole]: thick-lens magnetic quadrupole
//   - [RFGap]: thin accelerating gap
//
// Each type implements [tracking.Dynamics] and is wrapped by a
// [lattice.Leaf] to take part in a beamline:
//
//	q := lattice.NewLeaf("QF1", elements.TypeQuadrupole, 0.5, elements.NewQuadrupole(8.2))
package elements
