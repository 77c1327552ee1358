// Package tracking defines the Element-Algorithm-Probe contract.
//
// Physics, state and the driving strategy are kept apart so new tracking
// methods can be added without touching element or probe definitions:
//
//   - [Element]: a leaf exposing per-sub-length dynamics
//   - [Probe]: mutable simulation state carried through a beamline
//   - [Algorithm]: the strategy that advances a probe through an element
//   - [Trajectory]: the append-only history of probe [State] snapshots
//
// # Example
//
//	p := tracking.NewProbe(tracking.KindParticle, tracking.Proton, 2.5e6)
//	p.SetAlgorithm(algorithms.NewParticleTracker())
//	err := line.Propagate(p)
//	final := p.Trajectory().Final()
//
// # Thread Safety
//
// A Probe and its Algorithm are owned by one goroutine for the duration of a
// run. Independent probes share nothing and may run concurrently.
package tracking
