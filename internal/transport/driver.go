package transport

import (
	"github.com/san-kum/tiwire/internal/cmat"
)

// Step is one propagation step of a traversal: a slice transfer matrix that
// is composed Repeat times into the running scattering matrix.
type Step struct {
	Region   int
	Slice    int
	Transfer *cmat.Matrix
	Repeat   int
	// Upstream merges the slice as the upstream factor of the accumulator.
	// Cone slices are merged this way, wire slices downstream.
	Upstream bool
	// Closed marks an undiscretized wire exponentiated over its full length.
	Closed bool
}

// StepFunc folds one step into the accumulator and returns the new value.
type StepFunc func(acc *cmat.Matrix, s Step) (*cmat.Matrix, error)

// Fold walks every region slice at energy e in order, threading acc through
// fn. Errors are wrapped in a *RegionError.
func (d *Device) Fold(e float64, acc *cmat.Matrix, fn StepFunc) (*cmat.Matrix, error) {
	for i, reg := range d.regions {
		var err error
		switch r := reg.(type) {
		case *Wire:
			acc, err = d.foldWire(e, i, r, acc, fn)
		case *Cone:
			acc, err = d.foldCone(e, i, r, acc, fn)
		}
		if err != nil {
			return nil, &RegionError{Index: i, Kind: reg.Kind(), Wrapped: err}
		}
	}
	return acc, nil
}

func (d *Device) foldWire(e float64, index int, w *Wire, acc *cmat.Matrix, fn StepFunc) (*cmat.Matrix, error) {
	gen, err := d.generator(e, slice{dx: w.dx(), section: w.Section, potential: w.Potential})
	if err != nil {
		return nil, err
	}
	if w.Points == 0 {
		t, err := Propagate(gen, w.XF-w.X0)
		if err != nil {
			return nil, err
		}
		return fn(acc, Step{Region: index, Transfer: t, Repeat: 1, Closed: true})
	}
	t, err := Propagate(gen, 1)
	if err != nil {
		return nil, err
	}
	return fn(acc, Step{Region: index, Transfer: t, Repeat: w.Points})
}

func (d *Device) foldCone(e float64, index int, c *Cone, acc *cmat.Matrix, fn StepFunc) (*cmat.Matrix, error) {
	dx := c.dx()
	for j := 0; j < c.Points-1; j++ {
		section := c.Samples[j]
		dr := c.Samples[j+1].Radius() - section.Radius()

		gen, err := d.generator(e, slice{dx: dx, dr: dr, section: section, potential: c.Potential})
		if err != nil {
			return nil, err
		}
		t, err := Propagate(gen, 1)
		if err != nil {
			return nil, err
		}
		acc, err = fn(acc, Step{Region: index, Slice: j, Transfer: t, Repeat: 1, Upstream: true})
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// ComposeStep is the StepFunc of the scattering traversal. A nil accumulator
// is the empty product.
func ComposeStep(acc *cmat.Matrix, s Step) (*cmat.Matrix, error) {
	ds, err := TransferToScattering(s.Transfer)
	if err != nil {
		return nil, err
	}
	for k := 0; k < s.Repeat; k++ {
		switch {
		case acc == nil:
			acc = ds
		case s.Upstream:
			acc, err = Compose(ds, acc)
		default:
			acc, err = Compose(acc, ds)
		}
		if err != nil {
			return nil, err
		}
	}
	if s.Closed && !acc.IsFinite() {
		return nil, ErrNeedsDiscretization
	}
	return acc, nil
}

// Scattering returns the scattering matrix of the whole device at energy e.
func (d *Device) Scattering(e float64) (*cmat.Matrix, error) {
	s, err := d.Fold(e, nil, ComposeStep)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrEmptyGeometry
	}
	return s, nil
}

// Conductance returns the Landauer conductance Tr(t†t) at energy e.
func (d *Device) Conductance(e float64) (float64, error) {
	s, err := d.Scattering(e)
	if err != nil {
		return 0, err
	}
	return transmission(s), nil
}

// transmission is Tr(t†t) for the lower-left block of s.
func transmission(s *cmat.Matrix) float64 {
	r, _ := s.Dims()
	n := r / 2
	t := s.Slice(n, r, 0, n)
	return real(t.H().Mul(t).Trace())
}
