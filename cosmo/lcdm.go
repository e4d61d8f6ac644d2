package cosmo

import (
	"fmt"
	"math"

	"github.com/cosmogo/thermohistory/internal/constants"
	"github.com/cosmogo/thermohistory/interpolate"
)

// Params describes a flat ΛCDM cosmology, generalizing the teacher's
// HubbleFrac(omegaM, omegaL, z) to include radiation, which the thermo
// table needs for Omega_r and rho_gamma.
type Params struct {
	H0         float64 // km/s/Mpc
	OmegaB     float64
	OmegaCDM   float64
	OmegaGamma float64
	OmegaLambda float64
	TCmb       float64 // K, today
}

// OmegaM is the total non-relativistic matter density parameter.
func (p Params) OmegaM() float64 { return p.OmegaB + p.OmegaCDM }

// hPhys returns the physical Hubble rate H(a) in 1/Mpc, i.e. the
// teacher's HubbleFrac(omegaM, omegaL, z) generalized with a radiation
// term and rescaled from H0/h100 to physical units.
func (p Params) hPhys(a float64) float64 {
	// H0 is km/s/Mpc; convert to 1/Mpc via H0[km/s/Mpc] / (c in km/s).
	cKmS := constants.SpeedOfLightMks / 1000
	h0 := p.H0 / cKmS // 1/Mpc
	e := math.Sqrt(p.OmegaGamma/(a*a*a*a) + p.OmegaM()/(a*a*a) + p.OmegaLambda)
	return h0 * e
}

func (p Params) dHPhysDa(a float64) float64 {
	cKmS := constants.SpeedOfLightMks / 1000
	h0 := p.H0 / cKmS
	e2 := p.OmegaGamma/(a*a*a*a) + p.OmegaM()/(a*a*a) + p.OmegaLambda
	e := math.Sqrt(e2)
	de2da := -4*p.OmegaGamma/(a*a*a*a*a) - 3*p.OmegaM()/(a*a*a*a)
	return h0 * de2da / (2 * e)
}

// aPrime is da/dtau = a^2 H(a), in 1/Mpc.
func (p Params) aPrime(a float64) float64 {
	return a * a * p.hPhys(a)
}

// LCDM is a reference Background implementation for a flat ΛCDM
// cosmology. It precomputes a dense a <-> tau table at construction
// time and answers queries by spline interpolation, the same
// table-then-interpolate strategy the teacher uses throughout
// math/interpolate.
type LCDM struct {
	p Params

	aGrid   []float64
	tauGrid []float64
	tGrid   []float64
	rsGrid  []float64

	tauOfA *interpolate.Spline
	aOfTau *interpolate.Spline
	tOfTau *interpolate.Spline
	rsOfTau *interpolate.Spline

	tau0 float64 // conformal age today
}

const aMin = 1e-9

// NewLCDM builds a reference background cosmology. n controls the
// density of the internal a<->tau table; 4000 is a reasonable default.
func NewLCDM(p Params, n int) (*LCDM, error) {
	if p.H0 <= 0 {
		return nil, fmt.Errorf("cosmo: H0 must be positive, got %g", p.H0)
	}
	if n < 100 {
		n = 100
	}

	c := &LCDM{p: p}
	c.aGrid = make([]float64, n)
	logAMin, logAMax := math.Log(aMin), math.Log(1.0)
	for i := 0; i < n; i++ {
		frac := float64(i) / float64(n-1)
		c.aGrid[i] = math.Exp(logAMin + frac*(logAMax-logAMin))
	}

	c.tauGrid = make([]float64, n)
	c.tGrid = make([]float64, n)
	c.rsGrid = make([]float64, n)

	// Cumulative trapezoidal integration of dtau/da = 1/a' and dt/da =
	// a/a' along the log-spaced a grid.
	for i := 1; i < n; i++ {
		a0, a1 := c.aGrid[i-1], c.aGrid[i]
		f0 := 1 / p.aPrime(a0)
		f1 := 1 / p.aPrime(a1)
		c.tauGrid[i] = c.tauGrid[i-1] + 0.5*(f0+f1)*(a1-a0)

		g0 := a0 / p.aPrime(a0)
		g1 := a1 / p.aPrime(a1)
		c.tGrid[i] = c.tGrid[i-1] + 0.5*(g0+g1)*(a1-a0)
	}

	// Sound horizon: cs = 1/sqrt(3(1+R)), R = (3/4) rho_b/rho_gamma.
	for i := 1; i < n; i++ {
		a0, a1 := c.aGrid[i-1], c.aGrid[i]
		cs0 := p.soundSpeed(a0)
		cs1 := p.soundSpeed(a1)
		dtau := c.tauGrid[i] - c.tauGrid[i-1]
		c.rsGrid[i] = c.rsGrid[i-1] + 0.5*(cs0+cs1)*dtau
	}

	c.tauOfA = interpolate.NewSpline(c.aGrid, c.tauGrid)
	c.aOfTau = interpolate.NewSpline(c.tauGrid, c.aGrid)
	c.tOfTau = interpolate.NewSpline(c.tauGrid, c.tGrid)
	c.rsOfTau = interpolate.NewSpline(c.tauGrid, c.rsGrid)
	c.tau0 = c.tauGrid[n-1]

	return c, nil
}

func (p Params) soundSpeed(a float64) float64 {
	rhoGamma := p.OmegaGamma / (a * a * a * a)
	rhoB := p.OmegaB / (a * a * a)
	R := 0.75 * rhoB / rhoGamma
	return 1 / math.Sqrt(3*(1+R))
}

// TauOfZ implements Background.
func (c *LCDM) TauOfZ(z float64) (float64, error) {
	if z < -1 {
		return 0, fmt.Errorf("cosmo: redshift %g is below -1", z)
	}
	a := 1 / (1 + z)
	if a < aMin {
		return 0, fmt.Errorf("cosmo: redshift %g exceeds table range (a=%g < %g)", z, a, aMin)
	}
	return c.tauOfA.Eval(a), nil
}

// AtTau implements Background.
func (c *LCDM) AtTau(tau float64, detail DetailLevel) (State, error) {
	if tau < 0 || tau > c.tau0 {
		return State{}, fmt.Errorf("cosmo: tau=%g outside table range [0, %g]", tau, c.tau0)
	}
	a := c.aOfTau.Eval(tau)
	hphys := c.p.hPhys(a)
	st := State{H: hphys, A: a}

	if detail == Short {
		return st, nil
	}

	aprime := c.p.aPrime(a)
	dh := c.p.dHPhysDa(a)
	st.HPrime = aprime * dh

	rhoCritFactor := 3 * hphys * hphys / (8 * math.Pi * constants.GravityMks)
	st.RhoCrit = rhoCritFactor
	st.RhoGamma = rhoCritFactor * c.p.OmegaGamma / (a * a * a * a) / (c.p.OmegaGamma/(a*a*a*a) + c.p.OmegaM()/(a*a*a) + c.p.OmegaLambda)
	st.RhoB = rhoCritFactor * c.p.OmegaB / (a * a * a) / (c.p.OmegaGamma/(a*a*a*a) + c.p.OmegaM()/(a*a*a) + c.p.OmegaLambda)
	st.RhoCDM = rhoCritFactor * c.p.OmegaCDM / (a * a * a) / (c.p.OmegaGamma/(a*a*a*a) + c.p.OmegaM()/(a*a*a) + c.p.OmegaLambda)
	st.OmegaR = c.p.OmegaGamma / (a * a * a * a) / (c.p.OmegaGamma/(a*a*a*a) + c.p.OmegaM()/(a*a*a) + c.p.OmegaLambda)

	if detail == Normal {
		return st, nil
	}

	st.ConformalAge = c.tau0 - tau
	st.Time = c.tOfTau.Eval(tau)
	st.SoundHorizon = c.rsOfTau.Eval(tau)
	st.AngularDiameterDistance = st.ConformalAge * a

	return st, nil
}

// RhoCritical0 returns today's critical density, the analog of the
// teacher's RhoCritical(H0, omegaM, omegaL, 0).
func (p Params) RhoCritical0() float64 {
	h0 := p.hPhys(1)
	return 3 * h0 * h0 / (8 * math.Pi * constants.GravityMks)
}
