package transport

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"
)

const (
	testVF     = 330.0
	testRadius = 20.0
	testCutoff = 2
	testLength = 100.0
	testEnergy = 30.0
)

func newDevice(t *testing.T, p Params) *Device {
	t.Helper()
	d, err := New(p)
	NewWithT(t).Expect(err).NotTo(HaveOccurred())
	return d
}

func zeroField() Params {
	return Params{FermiVelocity: testVF, Cutoff: testCutoff}
}

// singleWire builds a zero-field device with one circular wire of length L.
func singleWire(t *testing.T, length float64, points int) *Device {
	t.Helper()
	d := newDevice(t, zeroField())
	err := d.AddWire(WireSpec{X0: 0, XF: length, Section: Circle{R: testRadius}, Points: points})
	NewWithT(t).Expect(err).NotTo(HaveOccurred())
	return d
}

// zeroFieldConductance sums the single-mode transmission probabilities of a
// uniform wire without fields.
func zeroFieldConductance(modes Modes, radius, length, e, vf float64) float64 {
	k := e / vf
	g := 0.0
	for _, n := range modes {
		a := (float64(n) - 0.5) / radius
		d := k*k - a*a
		var s2 float64
		switch {
		case d > 0:
			q := math.Sqrt(d)
			s := math.Sin(q*length) / q
			s2 = s * s
		case d < 0:
			kappa := math.Sqrt(-d)
			s := math.Sinh(kappa*length) / kappa
			s2 = s * s
		default:
			s2 = length * length
		}
		g += 1 / (1 + a*a*s2)
	}
	return g
}
