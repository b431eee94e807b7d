// Package analysis extracts physics from conductance curves.
//
//   - [FindPlateaus]: flat, integer-valued stretches of G(E)
//   - [Derivative]: dG/dE, peaked where new channels open
//   - [FieldScan]: G(B) at fixed energy
//   - [OscillationPeriod]: dominant period of a sampled curve
//
// # Aharonov-Bohm oscillations
//
// Threading one flux quantum through a wire maps the mode set onto itself,
// so G(B∥) repeats with period [transport.FluxPeriod]:
//
//	pts, _ := analysis.FieldScan(build, sweep.Linspace(0, 4*period, 128), e)
//	p := analysis.OscillationPeriod(fields, conductances)
package analysis
