// Package cmat provides dense complex128 matrices for the transport engine.
//
// Storage is row-major and every operation allocates a fresh result; operands
// are never mutated. Products go through cblas128. Inversion, exponentiation
// and Hermitian eigenvalues are computed on the real 2n×2n representation
//
//	X + iY  ->  [[X, -Y], [Y, X]]
//
// which is an algebra homomorphism, so gonum's real kernels give exact complex
// results.
//
// # Errors
//
// Shape violations in arithmetic are programmer errors and panic, as in gonum.
// Data-dependent failures ([ErrSingular], [ErrNoConvergence]) are returned.
package cmat
