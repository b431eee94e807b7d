package transport

import (
	"fmt"

	"github.com/san-kum/tiwire/internal/cmat"
)

func invert(m *cmat.Matrix, what string) (*cmat.Matrix, error) {
	inv, err := m.Inverse()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSingular, what, err)
	}
	return inv, nil
}

func halves(m *cmat.Matrix) error {
	r, c := m.Dims()
	if r != c || r%2 != 0 {
		return fmt.Errorf("%w: got %dx%d, need an even square matrix", ErrShapeMismatch, r, c)
	}
	return nil
}

// TransferToScattering converts a 2N×2N transfer matrix into the scattering
// matrix [[r, t'], [t, r']].
//
// The transfer blocks are read as
//
//	T11 = (t†)⁻¹   T12 = r' t'⁻¹
//	T21 = -t'⁻¹ r  T22 = t'⁻¹
func TransferToScattering(transfer *cmat.Matrix) (*cmat.Matrix, error) {
	if err := halves(transfer); err != nil {
		return nil, err
	}
	invT, invRp, invR, invTp := transfer.Quadrants()

	tInv, err := invert(invT, "forward transmission")
	if err != nil {
		return nil, err
	}
	tp, err := invert(invTp, "backward transmission")
	if err != nil {
		return nil, err
	}

	t := tInv.H()
	r := tp.Mul(invR).Scale(-1)
	rp := invRp.Mul(tp)
	return cmat.Block(r, tp, t, rp), nil
}

// ScatteringToTransfer is the inverse of TransferToScattering.
func ScatteringToTransfer(scattering *cmat.Matrix) (*cmat.Matrix, error) {
	if err := halves(scattering); err != nil {
		return nil, err
	}
	r, tp, t, rp := scattering.Quadrants()

	tInv, err := invert(t, "forward transmission")
	if err != nil {
		return nil, err
	}
	tpInv, err := invert(tp, "backward transmission")
	if err != nil {
		return nil, err
	}

	t11 := tInv.H()
	t21 := tpInv.Mul(r).Scale(-1)
	t12 := rp.Mul(tpInv)
	return cmat.Block(t11, t12, t21, tpInv), nil
}

// Compose merges upstream scattering matrix s1 with downstream s2 using the
// Redheffer star product. The product is associative but not commutative.
func Compose(s1, s2 *cmat.Matrix) (*cmat.Matrix, error) {
	if !s1.SameShape(s2) {
		r1, c1 := s1.Dims()
		r2, c2 := s2.Dims()
		return nil, fmt.Errorf("%w: %dx%d and %dx%d", ErrShapeMismatch, r1, c1, r2, c2)
	}
	if err := halves(s1); err != nil {
		return nil, err
	}
	r, _ := s1.Dims()
	id := cmat.Identity(r / 2)

	r1, t1p, t1, r1p := s1.Quadrants()
	r2, t2p, t2, r2p := s2.Quadrants()

	k1, err := invert(id.Sub(r1p.Mul(r2)), "I - r1'r2")
	if err != nil {
		return nil, err
	}
	k2, err := invert(id.Sub(r2.Mul(r1p)), "I - r2r1'")
	if err != nil {
		return nil, err
	}
	a := k1.Mul(t1)
	b := k2.Mul(t2p)

	rr := r1.Add(t1p.Mul(r2).Mul(a))
	rrp := r2p.Add(t2.Mul(r1p).Mul(b))
	tt := t2.Mul(a)
	ttp := t1p.Mul(b)
	return cmat.Block(rr, ttp, tt, rrp), nil
}
