// Package cosmo defines the background-cosmology collaborator contract
// consumed by the thermodynamics engine (spec.md §6) and ships one
// concrete flat-ΛCDM implementation of it, adapted from the teacher's
// Hubble-rate and critical-density helpers (cosmo/param.go in the
// reference pack).
package cosmo

// DetailLevel controls which fields of State a Background implementation
// is required to populate on a given query, mirroring the short/normal/
// long tiers named in spec.md §6.
type DetailLevel int

const (
	// Short populates only H and a.
	Short DetailLevel = iota
	// Normal additionally populates H', the densities, and Omega_r.
	Normal
	// Long additionally populates the sound horizon, angular diameter
	// distance, conformal age, and cosmic time.
	Long
)

// State is a snapshot of the background cosmology at some conformal
// time, with the fields spec.md §6 lists for at_τ.
type State struct {
	H       float64 // Hubble rate, (da/dt)/a, in 1/Mpc
	HPrime  float64 // dH/dτ, in 1/Mpc^2
	A       float64 // scale factor, a(today) = 1
	RhoGamma float64 // photon density, arbitrary consistent units
	RhoB     float64 // baryon density
	RhoCDM   float64 // cold dark matter density
	RhoCrit  float64 // critical density
	OmegaR   float64 // radiation density parameter at this epoch

	// Long-detail-only fields.
	SoundHorizon  float64 // r_s, Mpc
	AngularDiameterDistance float64 // d_A, Mpc
	ConformalAge  float64 // Mpc
	Time          float64 // cosmic time, Mpc/c units
}

// Background is the external collaborator the thermodynamics engine
// queries for the expansion history. Implementations need not be safe
// for concurrent use by multiple goroutines sharing mutable caches,
// but the reference implementation in this package is, since it is
// purely analytic.
type Background interface {
	// TauOfZ returns the conformal time at redshift z, in Mpc.
	TauOfZ(z float64) (float64, error)
	// AtTau returns the background state at conformal time tau, in Mpc,
	// populating only the fields DetailLevel calls for.
	AtTau(tau float64, detail DetailLevel) (State, error)
}
