package transport

import (
	"fmt"
	"math"

	"github.com/san-kum/tiwire/internal/cmat"
)

// Params are the fixed physical parameters of a device.
type Params struct {
	FermiVelocity float64 // meV·nm
	BPerp         float64 // T, perpendicular to the axis
	BPar          float64 // T, along the axis
	Cutoff        int     // modes run from -Cutoff to Cutoff
}

// Device is a transport configuration: parameters plus an ordered,
// append-only list of regions.
type Device struct {
	vf, bPerp, bPar float64
	modes           Modes
	regions         []Region
}

// New returns a device with no regions.
func New(p Params) (*Device, error) {
	if p.FermiVelocity <= 0 || math.IsNaN(p.FermiVelocity) || math.IsInf(p.FermiVelocity, 0) {
		return nil, fmt.Errorf("%w: fermi velocity %v", ErrInvalidParameter, p.FermiVelocity)
	}
	modes, err := NewModes(p.Cutoff)
	if err != nil {
		return nil, err
	}
	return &Device{vf: p.FermiVelocity, bPerp: p.BPerp, bPar: p.BPar, modes: modes}, nil
}

func (d *Device) Params() Params {
	return Params{FermiVelocity: d.vf, BPerp: d.bPerp, BPar: d.bPar, Cutoff: (d.modes.Len() - 1) / 2}
}

// Modes returns a copy of the mode index set.
func (d *Device) Modes() Modes { return append(Modes(nil), d.modes...) }

// NumRegions returns the number of regions appended so far.
func (d *Device) NumRegions() int { return len(d.regions) }

// Regions returns deep copies of the regions in order.
func (d *Device) Regions() []Region {
	out := make([]Region, len(d.regions))
	for i, r := range d.regions {
		out[i] = r.clone()
	}
	return out
}

// SliceCount is the number of slice scattering matrices composed per
// conductance evaluation.
func (d *Device) SliceCount() int {
	n := 0
	for _, r := range d.regions {
		n += r.Slices()
	}
	return n
}

// AddWire appends a wire of constant cross section.
func (d *Device) AddWire(spec WireSpec) error {
	if err := d.checkStart(spec.X0); err != nil {
		return err
	}
	if spec.Section == nil || !spec.Section.valid() {
		return ErrMissingShape
	}
	if spec.Points < 0 {
		return fmt.Errorf("%w: wire points %d", ErrDiscretization, spec.Points)
	}
	if err := d.checkPotential(spec.Potential); err != nil {
		return err
	}
	d.regions = append(d.regions, &Wire{
		X0:        spec.X0,
		XF:        spec.XF,
		Section:   spec.Section,
		Potential: clonePotential(spec.Potential),
		Points:    spec.Points,
	})
	return nil
}

// AddCone appends a cone tapering from spec.Start to spec.End, sampled at
// spec.Points positions.
func (d *Device) AddCone(spec ConeSpec) error {
	if err := d.checkStart(spec.X0); err != nil {
		return err
	}
	if spec.Start == nil || !spec.Start.valid() || spec.End == nil || !spec.End.valid() {
		return ErrMissingShape
	}
	if spec.Points < 2 {
		return fmt.Errorf("%w: cone needs at least 2 points, got %d", ErrDiscretization, spec.Points)
	}
	if spec.XF == spec.X0 {
		return ErrZeroLength
	}
	if err := d.checkPotential(spec.Potential); err != nil {
		return err
	}
	d.regions = append(d.regions, &Cone{
		X0:        spec.X0,
		XF:        spec.XF,
		Points:    spec.Points,
		Sigma:     spec.Sigma,
		Start:     spec.Start,
		End:       spec.End,
		Potential: clonePotential(spec.Potential),
		Samples:   sampleProfile(spec),
	})
	return nil
}

func (d *Device) checkStart(x0 float64) error {
	if len(d.regions) == 0 {
		return nil
	}
	_, xf := d.regions[len(d.regions)-1].Bounds()
	if x0 != xf {
		return fmt.Errorf("%w: x0=%v, previous xf=%v", ErrRegionMismatch, x0, xf)
	}
	return nil
}

func (d *Device) checkPotential(v *cmat.Matrix) error {
	if v == nil {
		return nil
	}
	n := d.modes.Len()
	if r, c := v.Dims(); r != n || c != n {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrPotentialShape, r, c, n, n)
	}
	return nil
}

func clonePotential(v *cmat.Matrix) *cmat.Matrix {
	if v == nil {
		return nil
	}
	return v.Clone()
}

func (d *Device) region(index int) (Region, error) {
	if index < 0 || index >= len(d.regions) {
		return nil, fmt.Errorf("%w: %d of %d", ErrRegionIndex, index, len(d.regions))
	}
	return d.regions[index], nil
}
