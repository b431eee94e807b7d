package cmat

import "errors"

var (
	// ErrSingular indicates an exactly singular matrix was inverted.
	ErrSingular = errors.New("cmat: matrix is singular")

	// ErrNoConvergence indicates the eigenvalue solver did not converge.
	ErrNoConvergence = errors.New("cmat: eigen decomposition did not converge")

	// ErrNotSquare indicates a square matrix was required.
	ErrNotSquare = errors.New("cmat: matrix is not square")

	// ErrShape indicates incompatible or invalid dimensions.
	ErrShape = errors.New("cmat: dimension mismatch")
)
