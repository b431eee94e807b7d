package analysis

import (
	"fmt"

	"github.com/san-kum/tiwire/internal/transport"
)

// ScanPoint is the conductance at one field value.
type ScanPoint struct {
	Field       float64
	Conductance float64
}

// FieldScan evaluates the conductance at energy e for every field value.
// build returns a fresh device for a given field, so the field can enter
// both the parameters and the geometry.
func FieldScan(build func(field float64) (*transport.Device, error), fields []float64, e float64) ([]ScanPoint, error) {
	out := make([]ScanPoint, 0, len(fields))
	for _, b := range fields {
		dev, err := build(b)
		if err != nil {
			return nil, fmt.Errorf("field %g: %w", b, err)
		}
		g, err := dev.Conductance(e)
		if err != nil {
			return nil, fmt.Errorf("field %g: %w", b, err)
		}
		out = append(out, ScanPoint{Field: b, Conductance: g})
	}
	return out, nil
}
