// Package viz renders devices and transport results in the terminal.
//
//   - [Conductance] and [Bands]: asciigraph line plots
//   - [Profile]: Braille outline of a device's radius along its axis
//   - [Explorer]: Bubble Tea program that steps through energies
//
// # Explorer keys
//
//	←/→ h/l - Lower/raise the energy by one step
//	↑/↓ k/j - Double/halve the step
//	t       - Cycle color themes
//	q       - Quit
package viz
