package transport

import (
	"math"

	"github.com/san-kum/tiwire/internal/cmat"
)

// CrossSection is the transverse shape of a region at one longitudinal point.
// It is either a Circle or a Rectangle.
type CrossSection interface {
	// Radius is the circular radius, or the radius of the circle with the same
	// perimeter for a rectangle.
	Radius() float64

	// fluxArea is the area divided by π that sets the threaded parallel flux.
	fluxArea() float64
	valid() bool
}

// Circle is a cylindrical cross section.
type Circle struct {
	R float64
}

func (c Circle) Radius() float64   { return c.R }
func (c Circle) fluxArea() float64 { return c.R * c.R }
func (c Circle) valid() bool       { return c.R > 0 }

// Rectangle is a W×H cross section.
type Rectangle struct {
	W, H float64
}

func (r Rectangle) Radius() float64   { return (r.W + r.H) / math.Pi }
func (r Rectangle) fluxArea() float64 { return r.W * r.H / math.Pi }
func (r Rectangle) valid() bool       { return r.W > 0 && r.H > 0 }

// Perimeter is 2(W+H).
func (r Rectangle) Perimeter() float64 { return 2 * (r.W + r.H) }

// Aspect is W/(W+H).
func (r Rectangle) Aspect() float64 { return r.W / (r.W + r.H) }

// Region is one longitudinal segment of a device: *Wire or *Cone.
type Region interface {
	Bounds() (x0, xf float64)
	Kind() string
	// Slices is the number of slice scattering matrices composed per evaluation.
	Slices() int
	clone() Region
}

// WireSpec describes a wire to append to a device.
type WireSpec struct {
	X0, XF  float64
	Section CrossSection
	// Potential is an optional N×N Hermitian matrix in the mode basis.
	Potential *cmat.Matrix
	// Points is the number of uniform slices; 0 propagates the whole wire in
	// one exponential.
	Points int
}

// ConeSpec describes a cone to append to a device.
type ConeSpec struct {
	X0, XF float64
	// Points is the number of profile samples; Points-1 slices are composed.
	Points int
	// Sigma smooths the step functions of the profile; 0 gives sharp steps.
	Sigma      float64
	Start, End CrossSection
	Potential  *cmat.Matrix
}

// Wire is a region of constant cross section.
type Wire struct {
	X0, XF    float64
	Section   CrossSection
	Potential *cmat.Matrix
	Points    int
}

func (w *Wire) Bounds() (float64, float64) { return w.X0, w.XF }
func (w *Wire) Kind() string               { return "wire" }

func (w *Wire) Slices() int {
	if w.Points == 0 {
		return 1
	}
	return w.Points
}

// dx is the slice length, or one unit for an undiscretized wire whose
// generator is scaled by the full length afterwards.
func (w *Wire) dx() float64 {
	if w.Points == 0 {
		return 1
	}
	return math.Abs(w.XF-w.X0) / float64(w.Points)
}

func (w *Wire) clone() Region {
	c := *w
	if w.Potential != nil {
		c.Potential = w.Potential.Clone()
	}
	return &c
}

// Cone is a region whose cross section tapers from Start to End.
type Cone struct {
	X0, XF     float64
	Points     int
	Sigma      float64
	Start, End CrossSection
	Potential  *cmat.Matrix
	// Samples holds the cross section at each of the Points sample positions.
	Samples []CrossSection
}

func (c *Cone) Bounds() (float64, float64) { return c.X0, c.XF }
func (c *Cone) Kind() string               { return "cone" }
func (c *Cone) Slices() int                { return c.Points - 1 }

func (c *Cone) dx() float64 {
	return math.Abs(c.XF-c.X0) / float64(c.Points)
}

func (c *Cone) clone() Region {
	cc := *c
	cc.Samples = append([]CrossSection(nil), c.Samples...)
	if c.Potential != nil {
		cc.Potential = c.Potential.Clone()
	}
	return &cc
}

// Positions returns the longitudinal coordinates of the profile samples.
func (c *Cone) Positions() []float64 {
	return linspace(c.X0, c.XF, c.Points)
}

// heaviside is θ(x) with θ(0) = 1, or its arctan smoothing when sigma != 0.
func heaviside(x, sigma float64) float64 {
	if sigma == 0 {
		if x >= 0 {
			return 1
		}
		return 0
	}
	return 0.5 + math.Atan(sigma*x)/math.Pi
}

// taper blends v1 at x1 into v2 at x2: constant outside, linear inside.
func taper(x, x1, x2, v1, v2, sigma float64) float64 {
	inside := heaviside(x-x1, sigma) - heaviside(x-x2, sigma)
	return v1 + (v2-v1)*heaviside(x-x2, sigma) + ((v2-v1)/(x2-x1))*(x-x1)*inside
}

func linspace(a, b float64, n int) []float64 {
	if n == 1 {
		return []float64{a}
	}
	xs := make([]float64, n)
	step := (b - a) / float64(n-1)
	for i := range xs {
		xs[i] = a + float64(i)*step
	}
	xs[n-1] = b
	return xs
}

// sampleProfile evaluates the cone cross section at every sample point. The
// profile keeps its width and height only when both ends are rectangles.
func sampleProfile(spec ConeSpec) []CrossSection {
	xs := linspace(spec.X0, spec.XF, spec.Points)
	out := make([]CrossSection, len(xs))

	rs, startRect := spec.Start.(Rectangle)
	re, endRect := spec.End.(Rectangle)
	r1, r2 := spec.Start.Radius(), spec.End.Radius()

	for i, x := range xs {
		if startRect && endRect {
			out[i] = Rectangle{
				W: taper(x, spec.X0, spec.XF, rs.W, re.W, spec.Sigma),
				H: taper(x, spec.X0, spec.XF, rs.H, re.H, spec.Sigma),
			}
			continue
		}
		out[i] = Circle{R: taper(x, spec.X0, spec.XF, r1, r2, spec.Sigma)}
	}
	return out
}

// FluxPeriod is the parallel field that threads one flux quantum through the
// section, the period of Aharonov-Bohm oscillations in the conductance.
func FluxPeriod(section CrossSection) float64 {
	return 1 / (fluxCoupling * section.fluxArea())
}
