package cmat

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
)

// Matrix is a dense row-major complex matrix.
type Matrix struct {
	rows, cols int
	data       []complex128
}

// New returns a zero r×c matrix.
func New(r, c int) *Matrix {
	if r <= 0 || c <= 0 {
		panic(ErrShape)
	}
	return &Matrix{rows: r, cols: c, data: make([]complex128, r*c)}
}

// NewFromData wraps data (row-major, len r*c) without copying.
func NewFromData(r, c int, data []complex128) *Matrix {
	if r <= 0 || c <= 0 || len(data) != r*c {
		panic(ErrShape)
	}
	return &Matrix{rows: r, cols: c, data: data}
}

// FromRows builds a matrix from a rectangular slice of rows.
func FromRows(rows [][]complex128) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrShape
	}
	c := len(rows[0])
	m := New(len(rows), c)
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(row), c, ErrShape)
		}
		copy(m.data[i*c:(i+1)*c], row)
	}
	return m, nil
}

// Identity returns the n×n identity.
func Identity(n int) *Matrix {
	m := New(n, n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

// Diag returns a square matrix with vals on the diagonal.
func Diag(vals []complex128) *Matrix {
	n := len(vals)
	m := New(n, n)
	for i, v := range vals {
		m.data[i*n+i] = v
	}
	return m
}

func (m *Matrix) Dims() (r, c int) { return m.rows, m.cols }

func (m *Matrix) At(i, j int) complex128 { return m.data[i*m.cols+j] }

func (m *Matrix) Set(i, j int, v complex128) { m.data[i*m.cols+j] = v }

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	c := New(m.rows, m.cols)
	copy(c.data, m.data)
	return c
}

// SameShape reports whether m and b have identical dimensions.
func (m *Matrix) SameShape(b *Matrix) bool {
	return m.rows == b.rows && m.cols == b.cols
}

func (m *Matrix) Add(b *Matrix) *Matrix {
	if !m.SameShape(b) {
		panic(ErrShape)
	}
	out := New(m.rows, m.cols)
	for i := range m.data {
		out.data[i] = m.data[i] + b.data[i]
	}
	return out
}

func (m *Matrix) Sub(b *Matrix) *Matrix {
	if !m.SameShape(b) {
		panic(ErrShape)
	}
	out := New(m.rows, m.cols)
	for i := range m.data {
		out.data[i] = m.data[i] - b.data[i]
	}
	return out
}

func (m *Matrix) Scale(f complex128) *Matrix {
	out := New(m.rows, m.cols)
	for i, v := range m.data {
		out.data[i] = f * v
	}
	return out
}

// Mul returns the product m·b.
func (m *Matrix) Mul(b *Matrix) *Matrix {
	if m.cols != b.rows {
		panic(ErrShape)
	}
	out := New(m.rows, b.cols)
	cblas128.Gemm(blas.NoTrans, blas.NoTrans, 1, m.general(), b.general(), 0, out.general())
	return out
}

// H returns the conjugate transpose.
func (m *Matrix) H() *Matrix {
	out := New(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.data[j*m.rows+i] = cmplx.Conj(m.data[i*m.cols+j])
		}
	}
	return out
}

// Trace returns the sum of the diagonal of a square matrix.
func (m *Matrix) Trace() complex128 {
	if m.rows != m.cols {
		panic(ErrNotSquare)
	}
	var tr complex128
	for i := 0; i < m.rows; i++ {
		tr += m.data[i*m.cols+i]
	}
	return tr
}

// IsFinite reports whether every entry is free of NaN and Inf.
func (m *Matrix) IsFinite() bool {
	for _, v := range m.data {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return false
		}
	}
	return true
}

// Norm returns the Frobenius norm.
func (m *Matrix) Norm() float64 {
	sum := 0.0
	for _, v := range m.data {
		a := cmplx.Abs(v)
		sum += a * a
	}
	return math.Sqrt(sum)
}

// EqualApprox reports whether m and b have the same shape and every entry
// differs by at most tol.
func (m *Matrix) EqualApprox(b *Matrix, tol float64) bool {
	if !m.SameShape(b) {
		return false
	}
	for i := range m.data {
		if cmplx.Abs(m.data[i]-b.data[i]) > tol {
			return false
		}
	}
	return true
}

// Slice copies the submatrix of rows [r0,r1) and columns [c0,c1).
func (m *Matrix) Slice(r0, r1, c0, c1 int) *Matrix {
	if r0 < 0 || c0 < 0 || r1 > m.rows || c1 > m.cols || r0 >= r1 || c0 >= c1 {
		panic(ErrShape)
	}
	out := New(r1-r0, c1-c0)
	for i := r0; i < r1; i++ {
		copy(out.data[(i-r0)*out.cols:(i-r0+1)*out.cols], m.data[i*m.cols+c0:i*m.cols+c1])
	}
	return out
}

// Kron returns the Kronecker product a⊗b.
func Kron(a, b *Matrix) *Matrix {
	out := New(a.rows*b.rows, a.cols*b.cols)
	for i := 0; i < a.rows; i++ {
		for j := 0; j < a.cols; j++ {
			av := a.data[i*a.cols+j]
			if av == 0 {
				continue
			}
			for k := 0; k < b.rows; k++ {
				row := (i*b.rows + k) * out.cols
				for l := 0; l < b.cols; l++ {
					out.data[row+j*b.cols+l] = av * b.data[k*b.cols+l]
				}
			}
		}
	}
	return out
}

// Block assembles [[a, b], [c, d]]. Blocks in the same row share a row count,
// blocks in the same column share a column count.
func Block(a, b, c, d *Matrix) *Matrix {
	if a.rows != b.rows || c.rows != d.rows || a.cols != c.cols || b.cols != d.cols {
		panic(ErrShape)
	}
	out := New(a.rows+c.rows, a.cols+b.cols)
	place := func(src *Matrix, r0, c0 int) {
		for i := 0; i < src.rows; i++ {
			copy(out.data[(r0+i)*out.cols+c0:(r0+i)*out.cols+c0+src.cols], src.data[i*src.cols:(i+1)*src.cols])
		}
	}
	place(a, 0, 0)
	place(b, 0, a.cols)
	place(c, a.rows, 0)
	place(d, a.rows, a.cols)
	return out
}

// Quadrants splits an even-sized square matrix into its four equal blocks.
func (m *Matrix) Quadrants() (tl, tr, bl, br *Matrix) {
	if m.rows != m.cols || m.rows%2 != 0 {
		panic(ErrShape)
	}
	n := m.rows / 2
	return m.Slice(0, n, 0, n), m.Slice(0, n, n, 2*n), m.Slice(n, 2*n, 0, n), m.Slice(n, 2*n, n, 2*n)
}

func (m *Matrix) String() string {
	var b strings.Builder
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				b.WriteByte(' ')
			}
			v := m.data[i*m.cols+j]
			fmt.Fprintf(&b, "(%.4g%+.4gi)", real(v), imag(v))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (m *Matrix) general() cblas128.General {
	return cblas128.General{Rows: m.rows, Cols: m.cols, Stride: m.cols, Data: m.data}
}
