package transport

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/tiwire/internal/cmat"
)

// sliceScattering returns the scattering matrix of one wire slice.
func sliceScattering(t *testing.T, d *Device, section CrossSection, dx, e float64) *cmat.Matrix {
	t.Helper()
	g := NewWithT(t)
	gen, err := d.generator(e, slice{dx: dx, section: section})
	g.Expect(err).NotTo(HaveOccurred())
	tm, err := Propagate(gen, 1)
	g.Expect(err).NotTo(HaveOccurred())
	s, err := TransferToScattering(tm)
	g.Expect(err).NotTo(HaveOccurred())
	return s
}

func TestTransferScatteringRoundTrip(t *testing.T) {
	g := NewWithT(t)
	d := newDevice(t, Params{FermiVelocity: testVF, BPerp: 2, Cutoff: testCutoff})

	gen, err := d.generator(testEnergy, slice{dx: 10, section: Rectangle{W: 20, H: 30}})
	g.Expect(err).NotTo(HaveOccurred())
	tm, err := Propagate(gen, 1)
	g.Expect(err).NotTo(HaveOccurred())

	s, err := TransferToScattering(tm)
	g.Expect(err).NotTo(HaveOccurred())
	back, err := ScatteringToTransfer(s)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(back.EqualApprox(tm, 1e-9)).To(BeTrue())
	g.Expect(CheckUnitarity(s, 1e-9)).To(Succeed())
}

func TestTransferToScatteringSingular(t *testing.T) {
	g := NewWithT(t)
	_, err := TransferToScattering(cmat.New(4, 4))
	g.Expect(err).To(MatchError(ErrSingular))

	_, err = TransferToScattering(cmat.New(3, 3))
	g.Expect(err).To(MatchError(ErrShapeMismatch))
}

func TestComposeIdentity(t *testing.T) {
	g := NewWithT(t)
	d := newDevice(t, zeroField())
	s := sliceScattering(t, d, Circle{R: testRadius}, 7, testEnergy)

	// Perfect transmission with no reflection is the neutral element.
	n := d.Modes().Len()
	id := cmat.Block(cmat.New(n, n), cmat.Identity(n), cmat.Identity(n), cmat.New(n, n))

	left, err := Compose(id, s)
	g.Expect(err).NotTo(HaveOccurred())
	right, err := Compose(s, id)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(left.EqualApprox(s, 1e-12)).To(BeTrue())
	g.Expect(right.EqualApprox(s, 1e-12)).To(BeTrue())
}

func TestComposeAssociative(t *testing.T) {
	g := NewWithT(t)
	d := newDevice(t, Params{FermiVelocity: testVF, BPerp: 1, BPar: 0.5, Cutoff: testCutoff})
	a := sliceScattering(t, d, Circle{R: 10}, 20, testEnergy)
	b := sliceScattering(t, d, Rectangle{W: 15, H: 25}, 30, testEnergy)
	c := sliceScattering(t, d, Circle{R: 25}, 5, testEnergy)

	ab, err := Compose(a, b)
	g.Expect(err).NotTo(HaveOccurred())
	abc1, err := Compose(ab, c)
	g.Expect(err).NotTo(HaveOccurred())

	bc, err := Compose(b, c)
	g.Expect(err).NotTo(HaveOccurred())
	abc2, err := Compose(a, bc)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(abc1.EqualApprox(abc2, 1e-9)).To(BeTrue())
	g.Expect(CheckUnitarity(abc1, 1e-9)).To(Succeed())
}

func TestComposeNotCommutative(t *testing.T) {
	g := NewWithT(t)
	d := newDevice(t, zeroField())
	a := sliceScattering(t, d, Circle{R: 5}, 20, testEnergy)
	b := sliceScattering(t, d, Circle{R: 40}, 20, testEnergy)

	ab, err := Compose(a, b)
	g.Expect(err).NotTo(HaveOccurred())
	ba, err := Compose(b, a)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ab.EqualApprox(ba, 1e-6)).To(BeFalse())
}

func TestComposeMatchesTransferProduct(t *testing.T) {
	g := NewWithT(t)
	d := newDevice(t, zeroField())

	var transfers []*cmat.Matrix
	for _, r := range []float64{8, 30} {
		gen, err := d.generator(testEnergy, slice{dx: 15, section: Circle{R: r}})
		g.Expect(err).NotTo(HaveOccurred())
		tm, err := Propagate(gen, 1)
		g.Expect(err).NotTo(HaveOccurred())
		transfers = append(transfers, tm)
	}
	s1, _ := TransferToScattering(transfers[0])
	s2, _ := TransferToScattering(transfers[1])
	star, err := Compose(s1, s2)
	g.Expect(err).NotTo(HaveOccurred())

	// Downstream transfer matrices multiply on the left.
	direct, err := TransferToScattering(transfers[1].Mul(transfers[0]))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(star.EqualApprox(direct, 1e-9)).To(BeTrue())
}

func TestComposeShapeMismatch(t *testing.T) {
	g := NewWithT(t)
	_, err := Compose(cmat.Identity(4), cmat.Identity(6))
	g.Expect(err).To(MatchError(ErrShapeMismatch))
}
