package transport

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/tiwire/internal/cmat"
)

func TestVectorPotentialVanishes(t *testing.T) {
	g := NewWithT(t)
	modes, _ := NewModes(testCutoff)
	zero := cmat.New(10, 10)

	g.Expect(VectorPotential(modes, 1, Circle{R: 10}, 5).EqualApprox(zero, 0)).To(BeTrue())
	g.Expect(VectorPotential(modes, 1, Rectangle{W: 10, H: 20}, 0).EqualApprox(zero, 0)).To(BeTrue())
	g.Expect(VectorPotential(modes, 1, Rectangle{W: 10, H: 20}, 2).EqualApprox(zero, 1e-12)).To(BeFalse())
}

func TestVectorPotentialCouplesOppositeParity(t *testing.T) {
	g := NewWithT(t)
	modes, _ := NewModes(testCutoff)
	m := VectorPotential(modes, 1, Rectangle{W: 10, H: 20}, 2)

	n := modes.Len()
	for i := range modes {
		for j := range modes {
			v := m.At(i, j)
			if (i-j)%2 == 0 {
				g.Expect(v).To(Equal(complex128(0)), "modes %d,%d", i, j)
			} else {
				g.Expect(real(v)).To(Equal(0.0))
				g.Expect(imag(v)).NotTo(BeZero())
			}
			// both spin blocks carry the same matrix
			g.Expect(m.At(i+n, j+n)).To(Equal(v))
			g.Expect(m.At(i, j+n)).To(Equal(complex128(0)))
		}
	}
	// anti-Hermitian
	g.Expect(m.Add(m.H()).Norm()).To(BeNumerically("<", 1e-12))
}

func TestAngularDiagonal(t *testing.T) {
	g := NewWithT(t)
	modes, _ := NewModes(1)
	m := Angular(modes, 2, 0, Circle{R: 4}, 0)

	// σx ⊗ diag: only the off-diagonal spin blocks are populated.
	want := []float64{-1.5, -0.5, 0.5}
	for i, w := range want {
		g.Expect(real(m.At(i, i+3))).To(BeNumerically("~", 2*w/4, 1e-15))
		g.Expect(real(m.At(i+3, i))).To(BeNumerically("~", 2*w/4, 1e-15))
		g.Expect(m.At(i, i)).To(Equal(complex128(0)))
	}
}

func TestAngularSlopeAndFlux(t *testing.T) {
	g := NewWithT(t)
	modes, _ := NewModes(0)

	flat := Angular(modes, 1, 0, Circle{R: 1}, 0)
	sloped := Angular(modes, 1, 1, Circle{R: 1}, 0)
	g.Expect(real(sloped.At(0, 1))).To(BeNumerically("~", math.Sqrt2*real(flat.At(0, 1)), 1e-15))

	// Half a flux quantum through the section cancels the -1/2 shift of mode 0.
	r := 10.0
	b := 0.5 / (fluxCoupling * r * r)
	threaded := Angular(modes, 1, 0, Circle{R: r}, b)
	g.Expect(real(threaded.At(0, 1))).To(BeNumerically("~", 0, 1e-12))
}

func TestEnergyGenerator(t *testing.T) {
	g := NewWithT(t)
	modes, _ := NewModes(1)

	m, err := Energy(modes, 1, 0, 33, 330, nil)
	g.Expect(err).NotTo(HaveOccurred())
	for i := 0; i < 3; i++ {
		g.Expect(real(m.At(i, i))).To(BeZero())
		g.Expect(imag(m.At(i, i))).To(BeNumerically("~", 0.1, 1e-15))
		g.Expect(imag(m.At(i+3, i+3))).To(BeNumerically("~", -0.1, 1e-15))
	}

	v := cmat.Identity(3).Scale(33)
	m, err = Energy(modes, 1, 0, 33, 330, v)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(m.Norm()).To(BeNumerically("~", 0, 1e-15))

	_, err = Energy(modes, 1, 0, 33, 330, cmat.Identity(2))
	g.Expect(err).To(MatchError(ErrPotentialShape))
}

func TestModeMixingSymmetric(t *testing.T) {
	g := NewWithT(t)
	modes, _ := NewModes(3)
	m := modeMixing(modes, 0.3)
	g.Expect(m.Sub(m.H()).Norm()).To(BeNumerically("<", 1e-15))

	// n1 - n2 = 1 carries -sin(πr/2).
	g.Expect(real(m.At(1, 0))).To(BeNumerically("~", -math.Sin(math.Pi*0.3/2), 1e-15))
	// n1 - n2 = 3 carries +sin(3πr/2)/9.
	g.Expect(real(m.At(3, 0))).To(BeNumerically("~", math.Sin(3*math.Pi*0.3/2)/9, 1e-15))
}

func TestPropagateOverflow(t *testing.T) {
	g := NewWithT(t)
	gen := cmat.Diag([]complex128{1, -1})

	_, err := Propagate(gen, 1000)
	g.Expect(err).To(MatchError(ErrNeedsDiscretization))

	tm, err := Propagate(gen, 1)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(real(tm.At(0, 0))).To(BeNumerically("~", math.E, 1e-12))
}

func TestSliceTransferConservesCurrent(t *testing.T) {
	g := NewWithT(t)
	d := newDevice(t, Params{FermiVelocity: testVF, BPerp: 3, BPar: 1, Cutoff: testCutoff})

	for _, section := range []CrossSection{Circle{R: 15}, Rectangle{W: 20, H: 40}} {
		gen, err := d.generator(testEnergy, slice{dx: 5, dr: 0.2, section: section})
		g.Expect(err).NotTo(HaveOccurred())
		tm, err := Propagate(gen, 1)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(CheckCurrentConservation(tm, 1e-9)).To(Succeed(), "%T", section)
	}
}
