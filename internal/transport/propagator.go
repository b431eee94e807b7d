package transport

import "github.com/san-kum/tiwire/internal/cmat"

// Propagate exponentiates scale·gen into a transfer matrix. A non-finite
// result means the segment is too long for a single step.
func Propagate(gen *cmat.Matrix, scale float64) (*cmat.Matrix, error) {
	if scale != 1 {
		gen = gen.Scale(complex(scale, 0))
	}
	t := gen.Exp()
	if !t.IsFinite() {
		return nil, ErrNeedsDiscretization
	}
	return t, nil
}
