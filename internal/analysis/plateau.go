package analysis

import "math"

// Plateau is a run of consecutive points whose conductance stays within tol
// of the integer Level.
type Plateau struct {
	EMin, EMax float64
	Level      int
	Mean       float64
	Points     int
}

// FindPlateaus scans G(E) for runs of at least minPoints samples within tol
// of an integer. Energies must be sorted.
func FindPlateaus(energies, g []float64, tol float64, minPoints int) []Plateau {
	if len(energies) != len(g) || len(g) == 0 {
		return nil
	}
	if minPoints < 1 {
		minPoints = 1
	}

	var out []Plateau
	start, level := -1, 0
	flush := func(end int) {
		if start < 0 || end-start < minPoints {
			return
		}
		sum := 0.0
		for _, v := range g[start:end] {
			sum += v
		}
		out = append(out, Plateau{
			EMin:   energies[start],
			EMax:   energies[end-1],
			Level:  level,
			Mean:   sum / float64(end-start),
			Points: end - start,
		})
	}

	for i, v := range g {
		n := int(math.Round(v))
		onLevel := math.Abs(v-float64(n)) <= tol
		switch {
		case onLevel && start >= 0 && n == level:
			continue
		case onLevel:
			flush(i)
			start, level = i, n
		default:
			flush(i)
			start = -1
		}
	}
	flush(len(g))
	return out
}

// Derivative returns dG/dE by central differences, one-sided at the ends.
func Derivative(energies, g []float64) []float64 {
	n := len(g)
	if n < 2 || len(energies) != n {
		return nil
	}
	d := make([]float64, n)
	d[0] = (g[1] - g[0]) / (energies[1] - energies[0])
	d[n-1] = (g[n-1] - g[n-2]) / (energies[n-1] - energies[n-2])
	for i := 1; i < n-1; i++ {
		d[i] = (g[i+1] - g[i-1]) / (energies[i+1] - energies[i-1])
	}
	return d
}
