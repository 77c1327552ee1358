// Package phase provides the linear algebra used by beam propagation.
//
// Phase space is 6-dimensional (x, x', y, y', z, z') and is embedded in
// 7-dimensional homogeneous coordinates so that translations are linear:
//
//   - [Vector]: a homogeneous phase coordinate, last component fixed at 1
//   - [Matrix]: a 7x7 homogeneous transfer or covariance matrix
//   - [Mat3]: a 3x3 block used for the spatial part of a covariance
//   - [Eigen3]: Jacobi eigen-decomposition of a symmetric [Mat3]
//
// # Example
//
//	phi := phase.Identity()
//	phi[phase.X][phase.XP] = length
//	z = phi.TimesVector(z)
//
// # Covariance Layout
//
// A covariance matrix stores raw second moments <z_i z_j> in the upper 6x6
// block and the first moments <z_i> in the homogeneous row and column, so a
// transfer matrix Phi maps it with Phi * Sigma * Phi^T.
package phase
