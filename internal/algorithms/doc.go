// Package algorithms provides the trackers that advance probes through
// beamline elements.
//
// Every tracker embeds [Tracker], which validates the probe kind, applies
// the start/stop range and performs the element step:
//
//  1. evaluate elapsed time, energy gain and the incremental transfer map
//     against the probe as it is before the step
//  2. add time, energy and position, apply the map to the kind payload and
//     advance the longitudinal phase
//  3. mark the current element and optionally save a snapshot
//
// Backward steps subtract time and energy and apply the inverse map.
//
// # Trackers
//
//   - [ParticleTracker]: single particle coordinates, z <- M z
//   - [TransferMapTracker]: accumulated map, T <- M T
//   - [EnvelopeTracker]: covariance, sigma <- M sigma M^T, with optional
//     linear space charge
//
// # Example
//
//	alg := algorithms.NewTransferMapTracker(algorithms.WithLogger(logger))
//	p := tracking.NewProbe(tracking.KindTransferMap, tracking.Proton, 2.5e6)
//	p.SetAlgorithm(alg)
//	if err := ring.Propagate(p); err != nil {
//		return err
//	}
//
// # Thread Safety
//
// A tracker holds the range state of one run and must not be shared between
// probes propagated concurrently.
package algorithms
