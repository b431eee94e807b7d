package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// PowerSpectrum returns the magnitude of the non-negative frequency Fourier
// coefficients of data after removing its mean.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}
	coeffs := fourier.NewFFT(len(data)).Coefficients(nil, centered)
	ps := make([]float64, len(coeffs))
	for i, c := range coeffs {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// OscillationPeriod returns the period of the strongest oscillation in y
// sampled on the uniform grid xs, or 0 when y is flat.
func OscillationPeriod(xs, y []float64) float64 {
	if len(xs) != len(y) || len(y) < 4 {
		return 0
	}
	ps := PowerSpectrum(y)
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	if ps[best] < 1e-12 {
		return 0
	}
	step := (xs[len(xs)-1] - xs[0]) / float64(len(xs)-1)
	return float64(len(y)) * step / float64(best)
}
