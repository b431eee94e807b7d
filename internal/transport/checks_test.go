package transport

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/tiwire/internal/cmat"
)

func TestDiagnose(t *testing.T) {
	g := NewWithT(t)
	d := newDevice(t, Params{FermiVelocity: testVF, BPerp: 2, BPar: 1, Cutoff: testCutoff})
	g.Expect(d.AddWire(WireSpec{X0: 0, XF: 30, Section: Rectangle{W: 25, H: 15}, Points: 3})).To(Succeed())
	g.Expect(d.AddCone(ConeSpec{X0: 30, XF: 60, Points: 5, Sigma: 0.5, Start: Rectangle{W: 25, H: 15}, End: Rectangle{W: 10, H: 10}})).To(Succeed())

	rep, err := d.Diagnose(testEnergy, 1e-8)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(rep.OK()).To(BeTrue(), "%+v", rep)
	g.Expect(rep.Slices).To(Equal(d.SliceCount()))

	want, err := d.Conductance(testEnergy)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(rep.Conductance).To(BeNumerically("~", want, 1e-12))
	g.Expect(rep.Conductance + rep.Reflection).To(BeNumerically("~", float64(d.Modes().Len()), 1e-8))
}

func TestDiagnoseEmpty(t *testing.T) {
	g := NewWithT(t)
	_, err := newDevice(t, zeroField()).Diagnose(testEnergy, 1e-8)
	g.Expect(err).To(MatchError(ErrEmptyGeometry))
}

func TestChecksRejectBadMatrices(t *testing.T) {
	g := NewWithT(t)
	m := cmat.Identity(4).Scale(2)

	g.Expect(CheckCurrentConservation(m, 1e-9)).To(MatchError(ErrCurrentNotConserved))
	g.Expect(CheckUnitarity(m, 1e-9)).To(MatchError(ErrNotUnitary))
	g.Expect(CheckCompleteness(m, 1e-9)).To(MatchError(ErrIncomplete))
	g.Expect(CheckUnitarity(cmat.Identity(3), 1e-9)).To(MatchError(ErrShapeMismatch))

	g.Expect(CheckCurrentConservation(cmat.Identity(4), 1e-12)).To(Succeed())
	g.Expect(CheckUnitarity(cmat.Identity(4), 1e-12)).To(Succeed())
}
