package transport

import (
	"fmt"
	"math/cmplx"

	"github.com/san-kum/tiwire/internal/cmat"
)

// CheckCurrentConservation verifies T (σz⊗1) T† = σz⊗1 within tol.
func CheckCurrentConservation(transfer *cmat.Matrix, tol float64) error {
	if err := halves(transfer); err != nil {
		return err
	}
	r, _ := transfer.Dims()
	sz := cmat.Kron(sigmaZ(), cmat.Identity(r/2))
	got := transfer.Mul(sz).Mul(transfer.H())
	if !got.EqualApprox(sz, tol) {
		return fmt.Errorf("%w: deviation %.3g", ErrCurrentNotConserved, got.Sub(sz).Norm())
	}
	return nil
}

// CheckUnitarity verifies S S† = 1 within tol.
func CheckUnitarity(scattering *cmat.Matrix, tol float64) error {
	if err := halves(scattering); err != nil {
		return err
	}
	r, _ := scattering.Dims()
	id := cmat.Identity(r)
	got := scattering.Mul(scattering.H())
	if !got.EqualApprox(id, tol) {
		return fmt.Errorf("%w: deviation %.3g", ErrNotUnitary, got.Sub(id).Norm())
	}
	return nil
}

// CheckCompleteness verifies N - Tr(r†r) = Tr(t†t) within tol.
func CheckCompleteness(scattering *cmat.Matrix, tol float64) error {
	if err := halves(scattering); err != nil {
		return err
	}
	r, _ := scattering.Dims()
	n := r / 2
	refl := scattering.Slice(0, n, 0, n)
	trans := scattering.Slice(n, r, 0, n)

	lhs := complex(float64(n), 0) - refl.H().Mul(refl).Trace()
	rhs := trans.H().Mul(trans).Trace()
	if d := cmplx.Abs(lhs - rhs); d > tol {
		return fmt.Errorf("%w: N-Tr(r†r)=%.6g, Tr(t†t)=%.6g", ErrIncomplete, real(lhs), real(rhs))
	}
	return nil
}

// Report is the outcome of Diagnose. Check failures are reported, not returned.
type Report struct {
	Energy      float64
	Conductance float64
	Reflection  float64
	Slices      int
	// NonConserving counts slice transfer matrices failing current conservation.
	NonConserving int
	Unitarity     error
	Completeness  error
}

// OK reports whether every check passed.
func (r *Report) OK() bool {
	return r.NonConserving == 0 && r.Unitarity == nil && r.Completeness == nil
}

// Diagnose computes the scattering matrix at energy e while checking current
// conservation of every slice, then checks unitarity and completeness of the
// result.
func (d *Device) Diagnose(e, tol float64) (*Report, error) {
	rep := &Report{Energy: e}
	s, err := d.Fold(e, nil, func(acc *cmat.Matrix, st Step) (*cmat.Matrix, error) {
		rep.Slices += st.Repeat
		if CheckCurrentConservation(st.Transfer, tol) != nil {
			rep.NonConserving += st.Repeat
		}
		return ComposeStep(acc, st)
	})
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrEmptyGeometry
	}

	r, _ := s.Dims()
	n := r / 2
	refl := s.Slice(0, n, 0, n)
	rep.Conductance = transmission(s)
	rep.Reflection = real(refl.H().Mul(refl).Trace())
	rep.Unitarity = CheckUnitarity(s, tol)
	rep.Completeness = CheckCompleteness(s, tol)
	return rep, nil
}
