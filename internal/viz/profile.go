package viz

import (
	"math"

	"github.com/san-kum/tiwire/internal/transport"
)

// Profile draws the outline ±R(x) of the device on a w×h cell canvas.
func Profile(dev *transport.Device, w, h int) string {
	regions := dev.Regions()
	if len(regions) == 0 || w < 1 || h < 1 {
		return ""
	}
	x0, _ := regions[0].Bounds()
	_, xf := regions[len(regions)-1].Bounds()

	cols := 2 * w
	radii := make([]float64, cols)
	rmax := 0.0
	for i := range radii {
		x := x0 + (xf-x0)*float64(i)/float64(cols-1)
		radii[i] = radiusAt(regions, x)
		rmax = math.Max(rmax, radii[i])
	}
	if rmax == 0 {
		return ""
	}

	c := NewCanvas(w, h)
	mid := 2*h - 1
	scale := float64(mid) / rmax
	prevTop, prevBottom := -1, -1
	for i, r := range radii {
		top := mid - int(math.Round(r*scale))
		bottom := mid + int(math.Round(r*scale))
		if prevTop >= 0 {
			c.DrawLine(i-1, prevTop, i, top)
			c.DrawLine(i-1, prevBottom, i, bottom)
		} else {
			c.Set(i, top)
			c.Set(i, bottom)
		}
		prevTop, prevBottom = top, bottom
	}
	return c.String()
}

// radiusAt returns the effective radius at x, interpolating cone samples.
func radiusAt(regions []transport.Region, x float64) float64 {
	for _, reg := range regions {
		a, b := reg.Bounds()
		if x < math.Min(a, b) || x > math.Max(a, b) {
			continue
		}
		switch r := reg.(type) {
		case *transport.Wire:
			return r.Section.Radius()
		case *transport.Cone:
			xs := r.Positions()
			for j := 1; j < len(xs); j++ {
				if (x-xs[j-1])*(x-xs[j]) <= 0 {
					t := 0.0
					if xs[j] != xs[j-1] {
						t = (x - xs[j-1]) / (xs[j] - xs[j-1])
					}
					r0, r1 := r.Samples[j-1].Radius(), r.Samples[j].Radius()
					return r0 + t*(r1-r0)
				}
			}
		}
	}
	return 0
}
