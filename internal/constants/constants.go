// Package constants collects the physical and numerical constants used
// throughout the thermodynamics engine. Grouping them here, rather than
// inlining magic numbers, follows the same convention the teacher used
// for its cosmological parameters (cosmo/param.go).
package constants

// Fundamental constants, SI unless noted.
const (
	SpeedOfLightMks   = 2.99792458e8    // m/s
	GravityMks        = 6.67430e-11     // m^3/(kg s^2)
	BoltzmannMks      = 1.380649e-23    // J/K
	StefanBoltzmannMks = 5.670374e-8    // W/(m^2 K^4)
	ThomsonCrossMks   = 6.6524587321e-29 // m^2
	PlanckMks         = 6.62607015e-34  // J s

	MpcMks  = 3.0856775814913673e22 // m
	MSunMks = 1.98892e30            // kg

	ElectronMassMks = 9.1093837015e-31 // kg
	HMassMks        = 1.67353284e-27   // kg, hydrogen atom mass
	HeMassMks       = 6.646479e-27     // kg, helium-4 atom mass
	MassRatioHHe    = HMassMks / HeMassMks

	EVinJ = 1.602176634e-19 // J per eV

	// Hydrogen and helium (first and second) ionization energies, in units of the
	// Boltzmann constant times Kelvin (so that exp(-E/kT) reads off
	// directly against a temperature in Kelvin).
	HIonizationK  = 157800.0 // K
	He1IonizationK = 285330.0 // K
	He2IonizationK = 631460.0 // K
)

// Default cosmological reference values (spec.md §8 scenario constants).
const (
	DefaultTCmbK = 2.7255 // K, today's CMB temperature
)
