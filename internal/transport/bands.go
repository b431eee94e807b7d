package transport

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/tiwire/internal/cmat"
)

// BandStructure is the spectrum of a translation-invariant wire.
type BandStructure struct {
	K []float64
	// Energies[i][j] is the i-th band (ascending) at K[j].
	Energies [][]float64
	// Bottom is the sorted spectrum of the k-independent part of the
	// Hamiltonian, the centrifugal potential felt by each band.
	Bottom []float64
}

func (d *Device) wire(index int) (*Wire, error) {
	reg, err := d.region(index)
	if err != nil {
		return nil, err
	}
	w, ok := reg.(*Wire)
	if !ok {
		return nil, fmt.Errorf("%w: region %d is a %s", ErrNotWire, index, reg.Kind())
	}
	return w, nil
}

// angularHamiltonian is H_θ in the (mode ⊗ spin) basis: the angular term with
// parallel flux along σy plus the perpendicular-field mode mixing along σx.
func (d *Device) angularHamiltonian(section CrossSection) *cmat.Matrix {
	perimeter := 2 * math.Pi * section.Radius()
	aTheta := 0.0
	if d.bPar != 0 {
		aTheta = fluxCoupling * d.bPar * section.fluxArea()
	}

	diag := make([]complex128, d.modes.Len())
	for i, n := range d.modes {
		diag[i] = complex((2*math.Pi/perimeter)*(float64(n)-0.5+aTheta), 0)
	}
	h := cmat.Kron(cmat.Diag(diag), sigmaY()).Scale(complex(d.vf, 0))

	if rect, ok := section.(Rectangle); ok && d.bPerp != 0 {
		c := perpCoupling * d.bPerp * perimeter / (math.Pi * math.Pi)
		ax := modeMixing(d.modes, rect.Aspect()).Scale(complex(c, 0))
		h = h.Add(cmat.Kron(ax, sigmaX()).Scale(complex(d.vf, 0)))
	}
	return h
}

// Bands diagonalizes H(k) = H_θ + vf·k (1⊗σx) of the wire at index for every
// k in ks.
func (d *Device) Bands(index int, ks []float64) (*BandStructure, error) {
	w, err := d.wire(index)
	if err != nil {
		return nil, err
	}
	n := 2 * d.modes.Len()
	hTheta := d.angularHamiltonian(w.Section)
	kinetic := cmat.Kron(cmat.Identity(d.modes.Len()), sigmaX()).Scale(complex(d.vf, 0))

	bs := &BandStructure{
		K:        append([]float64(nil), ks...),
		Energies: make([][]float64, n),
	}
	for i := range bs.Energies {
		bs.Energies[i] = make([]float64, len(ks))
	}

	for j, k := range ks {
		vals, err := hTheta.Add(kinetic.Scale(complex(k, 0))).EigvalsHermitian()
		if err != nil {
			return nil, fmt.Errorf("k=%v: %w", k, err)
		}
		sort.Float64s(vals)
		for i, v := range vals {
			bs.Energies[i][j] = v
		}
	}

	bs.Bottom, err = hTheta.EigvalsHermitian()
	if err != nil {
		return nil, err
	}
	sort.Float64s(bs.Bottom)
	return bs, nil
}

// PropagatingModes counts the channels of the wire at index that propagate at
// energy e, from the band bottoms. The bottoms come in ± pairs; a channel
// propagates when |e| lies above its bottom.
func (d *Device) PropagatingModes(index int, e float64) (int, error) {
	bs, err := d.Bands(index, nil)
	if err != nil {
		return 0, err
	}
	upper := bs.Bottom[len(bs.Bottom)/2:]
	count := 0
	for _, b := range upper {
		if b < math.Abs(e) {
			count++
		}
	}
	return count, nil
}
