package cmat

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// realify returns the 2r×2c real representation [[X, -Y], [Y, X]].
func (m *Matrix) realify() []float64 {
	r, c := m.rows, m.cols
	w := 2 * c
	data := make([]float64, 4*r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.data[i*c+j]
			x, y := real(v), imag(v)
			data[i*w+j] = x
			data[i*w+c+j] = -y
			data[(r+i)*w+j] = y
			data[(r+i)*w+c+j] = x
		}
	}
	return data
}

// complexify reads an r×c complex matrix back out of its real representation.
func complexify(d *mat.Dense, r, c int) *Matrix {
	out := New(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.data[i*c+j] = complex(d.At(i, j), d.At(r+i, j))
		}
	}
	return out
}

// Inverse returns m⁻¹. An exactly singular matrix yields ErrSingular;
// ill-conditioned matrices are inverted without complaint.
func (m *Matrix) Inverse() (*Matrix, error) {
	if m.rows != m.cols {
		return nil, ErrNotSquare
	}
	n := m.rows
	var inv mat.Dense
	if err := inv.Inverse(mat.NewDense(2*n, 2*n, m.realify())); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, ErrSingular
		}
	}
	return complexify(&inv, n, n), nil
}

// Exp returns the matrix exponential of m. The result may contain Inf or NaN
// when the exponential overflows; callers check IsFinite.
func (m *Matrix) Exp() *Matrix {
	if m.rows != m.cols {
		panic(ErrNotSquare)
	}
	n := m.rows
	var e mat.Dense
	e.Exp(mat.NewDense(2*n, 2*n, m.realify()))
	return complexify(&e, n, n)
}

// EigvalsHermitian returns the eigenvalues of a Hermitian matrix in ascending
// order. m must be Hermitian; this is not checked.
func (m *Matrix) EigvalsHermitian() ([]float64, error) {
	if m.rows != m.cols {
		return nil, ErrNotSquare
	}
	n := m.rows
	var es mat.EigenSym
	if ok := es.Factorize(mat.NewSymDense(2*n, m.realify()), false); !ok {
		return nil, ErrNoConvergence
	}
	doubled := es.Values(nil)
	sort.Float64s(doubled)

	// every eigenvalue appears twice in the real representation
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = doubled[2*i]
	}
	return vals, nil
}
