package transport

import (
	"math"
	"sort"
	"testing"

	. "github.com/onsi/gomega"
)

func TestBandsZeroField(t *testing.T) {
	g := NewWithT(t)
	d := singleWire(t, testLength, 0)
	ks := []float64{-0.2, 0, 0.05, 0.3}

	bs, err := d.Bands(0, ks)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(bs.K).To(Equal(ks))
	g.Expect(bs.Energies).To(HaveLen(2 * d.Modes().Len()))

	for j, k := range ks {
		var want []float64
		for _, n := range d.Modes() {
			a := (float64(n) - 0.5) / testRadius
			e := testVF * math.Hypot(k, a)
			want = append(want, e, -e)
		}
		sort.Float64s(want)
		for i := range want {
			g.Expect(bs.Energies[i][j]).To(BeNumerically("~", want[i], 1e-9), "band %d k=%v", i, k)
		}
	}
}

func TestBandsBottomIsZeroMomentum(t *testing.T) {
	g := NewWithT(t)
	d := newDevice(t, Params{FermiVelocity: testVF, BPerp: 3, BPar: 1.5, Cutoff: testCutoff})
	g.Expect(d.AddWire(WireSpec{X0: 0, XF: 10, Section: Rectangle{W: 20, H: 35}})).To(Succeed())

	bs, err := d.Bands(0, []float64{0})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(bs.Bottom).To(HaveLen(len(bs.Energies)))
	for i := range bs.Bottom {
		g.Expect(bs.Energies[i][0]).To(BeNumerically("~", bs.Bottom[i], 1e-9))
	}
}

func TestBandsChiralSymmetry(t *testing.T) {
	g := NewWithT(t)
	d := newDevice(t, Params{FermiVelocity: testVF, BPerp: 5, Cutoff: testCutoff})
	g.Expect(d.AddWire(WireSpec{X0: 0, XF: 10, Section: Rectangle{W: 20, H: 35}})).To(Succeed())

	bs, err := d.Bands(0, []float64{0, 0.1})
	g.Expect(err).NotTo(HaveOccurred())
	n := len(bs.Energies)
	for j := range bs.K {
		for i := 0; i < n/2; i++ {
			g.Expect(bs.Energies[i][j]).To(BeNumerically("~", -bs.Energies[n-1-i][j], 1e-9))
		}
	}
}

func TestBandsPerpendicularFieldShiftsRectangleOnly(t *testing.T) {
	g := NewWithT(t)
	p := Params{FermiVelocity: testVF, BPerp: 5, Cutoff: testCutoff}
	rect := Rectangle{W: 20, H: 35}

	withField := newDevice(t, p)
	g.Expect(withField.AddWire(WireSpec{X0: 0, XF: 10, Section: rect})).To(Succeed())
	without := newDevice(t, Params{FermiVelocity: testVF, Cutoff: testCutoff})
	g.Expect(without.AddWire(WireSpec{X0: 0, XF: 10, Section: rect})).To(Succeed())

	a, err := withField.Bands(0, nil)
	g.Expect(err).NotTo(HaveOccurred())
	b, err := without.Bands(0, nil)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(a.Bottom).NotTo(Equal(b.Bottom))

	circle := newDevice(t, p)
	g.Expect(circle.AddWire(WireSpec{X0: 0, XF: 10, Section: Circle{R: rect.Radius()}})).To(Succeed())
	c, err := circle.Bands(0, nil)
	g.Expect(err).NotTo(HaveOccurred())
	for i := range c.Bottom {
		g.Expect(c.Bottom[i]).To(BeNumerically("~", b.Bottom[i], 1e-9))
	}
}

func TestBandsErrors(t *testing.T) {
	g := NewWithT(t)
	d := newDevice(t, zeroField())
	g.Expect(d.AddCone(ConeSpec{X0: 0, XF: 10, Points: 3, Start: Circle{R: 5}, End: Circle{R: 8}})).To(Succeed())

	_, err := d.Bands(0, []float64{0})
	g.Expect(err).To(MatchError(ErrNotWire))
	_, err = d.Bands(1, []float64{0})
	g.Expect(err).To(MatchError(ErrRegionIndex))
	_, err = d.PropagatingModes(-1, 10)
	g.Expect(err).To(MatchError(ErrRegionIndex))
}

func TestPropagatingModes(t *testing.T) {
	g := NewWithT(t)
	d := singleWire(t, testLength, 0)

	// Band bottoms sit at vf|n-1/2|/R: 8.25, 24.75 and 41.25 meV.
	tests := []struct {
		e    float64
		want int
	}{
		{0, 0},
		{5, 0},
		{10, 2},
		{-10, 2},
		{testEnergy, 4},
		{50, 5},
	}
	for _, tt := range tests {
		got, err := d.PropagatingModes(0, tt.e)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(got).To(Equal(tt.want), "E=%v", tt.e)
	}
}
