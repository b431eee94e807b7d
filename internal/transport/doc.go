// Package transport computes Landauer conductance and band structure of
// topological-insulator nanowires and nanocones from their effective surface
// Dirac theory.
//
// A [Device] holds the Fermi velocity, the perpendicular and parallel magnetic
// fields, the angular-momentum mode cutoff and an ordered, append-only list of
// regions ([Wire] or [Cone]). For a Fermi energy E every region is cut into
// longitudinal slices. Each slice contributes a generator
//
//	M = VectorPotential + Angular + Energy
//
// whose exponential is the slice transfer matrix. Transfer matrices are turned
// into scattering matrices and merged with the Redheffer star product
// ([Compose]); the conductance is Tr(t†t) of the final transmission block.
//
// # Example
//
//	dev, _ := transport.New(transport.Params{FermiVelocity: 330, Cutoff: 3})
//	_ = dev.AddWire(transport.WireSpec{X0: 0, XF: 500, Section: transport.Circle{R: 20}})
//	g, _ := dev.Conductance(25)
//
// # Units
//
// Energies in meV, lengths in nm, velocities in meV·nm, fields in tesla.
// Conductance is in units of the conductance quantum.
//
// # Thread Safety
//
// Conductance, Scattering and Bands only read the device and may run
// concurrently. AddWire and AddCone must not race with them.
package transport
