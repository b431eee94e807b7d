package transport

import (
	"math"

	"github.com/san-kum/tiwire/internal/cmat"
)

// modeMixing returns the real N×N matrix of A_x matrix elements between modes
// of a rectangle with the given aspect ratio, without the field prefactor.
// Only modes of opposite parity couple.
func modeMixing(modes Modes, aspect float64) *cmat.Matrix {
	n := modes.Len()
	m := cmat.New(n, n)
	for i, n1 := range modes {
		for j, n2 := range modes {
			d := n1 - n2
			if d%2 == 0 {
				continue
			}
			sign := 1.0
			if ((d+1)/2)%2 != 0 {
				sign = -1
			}
			md := float64(d)
			m.Set(i, j, complex(sign*math.Sin(md*math.Pi*aspect/2)/(md*md), 0))
		}
	}
	return m
}

// VectorPotential is the σ0⊗A_x generator of the perpendicular field. It is
// zero when bPerp is zero or the section is not a rectangle.
func VectorPotential(modes Modes, dx float64, section CrossSection, bPerp float64) *cmat.Matrix {
	n := modes.Len()
	rect, ok := section.(Rectangle)
	if !ok || bPerp == 0 {
		return cmat.New(2*n, 2*n)
	}
	c := complex(0, -perpCoupling*bPerp*rect.Perimeter()/(math.Pi*math.Pi))
	ax := modeMixing(modes, rect.Aspect()).Scale(c)
	return cmat.Kron(sigma0(), ax).Scale(complex(dx, 0))
}

// Angular is the σx⊗diag((√(1+dR²)/R)(n − ½ + A_θ)) generator, where A_θ is
// the flux of the parallel field through the section.
func Angular(modes Modes, dx, dR float64, section CrossSection, bPar float64) *cmat.Matrix {
	aTheta := fluxCoupling * bPar * section.fluxArea()
	scale := math.Sqrt(1+dR*dR) / section.Radius()

	diag := make([]complex128, modes.Len())
	for i, n := range modes {
		diag[i] = complex(scale*(float64(n)-0.5+aTheta), 0)
	}
	return cmat.Kron(sigmaX(), cmat.Diag(diag)).Scale(complex(dx, 0))
}

// Energy is the σz⊗(i/vf)√(1+dR²)(E − V) generator. A nil potential is zero.
func Energy(modes Modes, dx, dR, e, vf float64, potential *cmat.Matrix) (*cmat.Matrix, error) {
	n := modes.Len()
	m := cmat.Identity(n).Scale(complex(e, 0))
	if potential != nil {
		if r, c := potential.Dims(); r != n || c != n {
			return nil, ErrPotentialShape
		}
		m = m.Sub(potential)
	}
	m = m.Scale(complex(0, math.Sqrt(1+dR*dR)/vf))
	return cmat.Kron(sigmaZ(), m).Scale(complex(dx, 0)), nil
}

// slice is the local geometry of one propagation step.
type slice struct {
	dx, dr    float64
	section   CrossSection
	potential *cmat.Matrix
}

// generator sums the three slice generators at energy e.
func (d *Device) generator(e float64, s slice) (*cmat.Matrix, error) {
	m, err := Energy(d.modes, s.dx, s.dr, e, d.vf, s.potential)
	if err != nil {
		return nil, err
	}
	m = m.Add(Angular(d.modes, s.dx, s.dr, s.section, d.bPar))
	return m.Add(VectorPotential(d.modes, s.dx, s.section, d.bPerp)), nil
}
