package transport

import (
	"errors"
	"fmt"
)

// Configuration errors.
var (
	// ErrInvalidCutoff indicates a negative mode cutoff.
	ErrInvalidCutoff = errors.New("transport: mode cutoff must be non-negative")

	// ErrInvalidParameter indicates a non-physical device parameter.
	ErrInvalidParameter = errors.New("transport: invalid device parameter")

	// ErrRegionMismatch indicates a region does not start where the previous one ends.
	ErrRegionMismatch = errors.New("transport: region does not start at the end of the previous region")

	// ErrMissingShape indicates neither a radius nor a width and height was given.
	ErrMissingShape = errors.New("transport: need a radius or a width and height")

	// ErrPotentialShape indicates a potential matrix that is not N×N in the mode basis.
	ErrPotentialShape = errors.New("transport: potential must be an N×N matrix in the mode basis")

	// ErrDiscretization indicates an invalid number of discretization points.
	ErrDiscretization = errors.New("transport: invalid discretization")

	// ErrZeroLength indicates a cone whose end points coincide.
	ErrZeroLength = errors.New("transport: region has zero length")

	// ErrShapeMismatch indicates scattering matrices of different sizes.
	ErrShapeMismatch = errors.New("transport: scattering matrices have different sizes")

	// ErrEmptyGeometry indicates a calculation on a device without slices.
	ErrEmptyGeometry = errors.New("transport: device has no regions to propagate through")
)

// Numerical faults.
var (
	// ErrSingular indicates a transmission block or star-product kernel could not be inverted.
	ErrSingular = errors.New("transport: singular matrix")

	// ErrNeedsDiscretization indicates the exponential of an undiscretized segment
	// overflowed; rerun with a finite number of points.
	ErrNeedsDiscretization = errors.New("transport: segment too long to propagate in one step, needs discretization")
)

// Access errors.
var (
	// ErrRegionIndex indicates a region index outside the device.
	ErrRegionIndex = errors.New("transport: region index out of range")

	// ErrNotWire indicates a wire-only operation on another region kind.
	ErrNotWire = errors.New("transport: band structure needs a translation-invariant wire")
)

// Diagnostic failures.
var (
	ErrCurrentNotConserved = errors.New("transport: transfer matrix does not conserve current")
	ErrNotUnitary          = errors.New("transport: scattering matrix is not unitary")
	ErrIncomplete          = errors.New("transport: reflection and transmission do not add up")
)

// RegionError wraps an error with the region it occurred in.
type RegionError struct {
	Index   int
	Kind    string
	Wrapped error
}

func (e *RegionError) Error() string {
	return fmt.Sprintf("region %d (%s): %v", e.Index, e.Kind, e.Wrapped)
}

func (e *RegionError) Unwrap() error {
	return e.Wrapped
}
