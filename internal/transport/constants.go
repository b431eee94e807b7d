package transport

import "github.com/san-kum/tiwire/internal/cmat"

const (
	hbar           = 1e-34   // J·s
	electronCharge = 1.6e-19 // C
	nanometer      = 1e-9    // m
)

const (
	// fluxCoupling turns B∥·area (T·nm²) into the angular flux shift A_θ.
	fluxCoupling = 0.5 * nanometer * nanometer * electronCharge / hbar

	// perpCoupling turns B⊥·perimeter (T·nm) into the A_x mode-mixing scale.
	perpCoupling = nanometer * nanometer * electronCharge / hbar
)

func sigma0() *cmat.Matrix { return cmat.Identity(2) }

func sigmaX() *cmat.Matrix {
	return cmat.NewFromData(2, 2, []complex128{0, 1, 1, 0})
}

func sigmaY() *cmat.Matrix {
	return cmat.NewFromData(2, 2, []complex128{0, -1i, 1i, 0})
}

func sigmaZ() *cmat.Matrix {
	return cmat.NewFromData(2, 2, []complex128{1, 0, 0, -1})
}
