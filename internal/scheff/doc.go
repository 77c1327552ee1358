// Package scheff computes linear space-charge transfer matrices from the
// second moments of a bunched beam.
//
// A [BeamEllipsoid] is built from a relativistic gamma and a homogeneous lab
// frame covariance. Construction moves the covariance to the beam rest frame,
// centres it on the centroid and rotates it onto its principal axes. The
// squared semi-axes then give the normalized defocusing constants of a
// uniformly charged ellipsoid through Carlson's elliptic integral [RD].
//
// The local generator G0 is nilpotent of index 2, so the transfer matrix of a
// step ds at perveance K is exactly I + ds*K*G0 in the principal frame. It is
// returned in lab coordinates by [BeamEllipsoid.TransferMatrix].
//
// # Thread Safety
//
// A BeamEllipsoid is immutable after construction and may be shared.
package scheff
