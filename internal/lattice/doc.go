// Package lattice models a beamline as a composite tree of nodes.
//
// The tree is a tagged variant of leaves and composites:
//
//   - [Leaf]: a physical element whose dynamics are injected as
//     [tracking.Dynamics]; hardware-bound elements plug in here
//   - [Composite]: an ordered container of child nodes
//   - [Lattice]: the root of a modeled machine
//   - [Sector]: a purely structural grouping
//   - [LineModel]: a linear line that resumes from a marked element or an
//     absolute arc-length position
//   - [RingModel]: a closed ring that rotates its children to a designated
//     start element and computes one-turn maps
//
// Propagating a node hands the probe to its bound [tracking.Algorithm] for
// every leaf in traversal order.
//
// # Example
//
//	line := lattice.NewLineModel("LINE")
//	line.AddChild(lattice.NewLeaf("D1", "drift", 1.0, elements.NewDrift()))
//	line.AddChild(lattice.NewLeaf("Q1", "quad", 0.5, elements.NewQuadrupole(5)))
//	err := line.Propagate(probe)
//
// # Thread Safety
//
// The tree is not safe for structural mutation (AddChild, Remove, ring
// rotation) while any traversal is running. Without mutation, any number of
// independent probes may be propagated through the same tree concurrently.
package lattice
