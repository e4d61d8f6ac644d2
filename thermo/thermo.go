// Package thermo is the public API of the cosmological thermodynamics
// engine: Init runs the full compute phase (grid construction,
// approximation scheduling, stiff evolution, optional optical-depth
// shooting, and the derived-quantity pass) and freezes a Handle; At
// then serves interpolated queries against the frozen table.
// Grounded on the teacher's init/query split (cosmo.Background is
// itself built once and queried repeatedly) and, for structured
// progress logging during Init, on log/slog (see SPEC_FULL.md's Ambient
// Logging entry: no third-party logger appears anywhere in the
// reference pack, so the standard library is the grounded choice).
package thermo

import (
	"context"
	"log/slog"
	"math"

	"github.com/cosmogo/thermohistory/bbn"
	"github.com/cosmogo/thermohistory/cosmo"
	"github.com/cosmogo/thermohistory/derive"
	"github.com/cosmogo/thermohistory/energy"
	"github.com/cosmogo/thermohistory/grid"
	"github.com/cosmogo/thermohistory/interpolate"
	"github.com/cosmogo/thermohistory/internal/constants"
	"github.com/cosmogo/thermohistory/recombine"
	"github.com/cosmogo/thermohistory/reionize"
	"github.com/cosmogo/thermohistory/schedule"
	"github.com/cosmogo/thermohistory/shoot"
)

// Row is one queried sample of the frozen thermo table, spanning the
// columns of spec.md §3.
type Row struct {
	Z        float64
	Xe       float64
	KappaDot float64
	KappaDDot float64
	KappaDDDot float64
	ExpNegKappa float64
	G        float64
	GPrime   float64
	GDPrime  float64
	TB       float64
	Cb2      float64
	TauDrag  float64
	RD       float64
	Rate     float64
}

// Scalars are the summary quantities of spec.md §3, fixed once Init
// completes.
type Scalars struct {
	ZRec, ZDrag, ZReio, TauReio float64
	RsRec, RsDrag               float64
	DARec                       float64
	RDRec                       float64
	TauFS, TauCut               float64
}

// Handle is the frozen, read-only result of Init: an immutable table
// plus the scalar summaries and spline/linear interpolators C8 uses
// to answer At queries.
type Handle struct {
	cfg     Config
	scalars Scalars

	z   []float64 // decreasing, z[0]=z_initial, z[len-1]=0
	tau []float64

	xeSpline       *interpolate.Spline
	xeLinear       *interpolate.Linear
	kappaDotSpline *interpolate.Spline
	tbSpline       *interpolate.Spline
	cb2Spline      *interpolate.Spline
	tauDragSpline  *interpolate.Spline
	rdSpline       *interpolate.Spline
	rateSpline     *interpolate.Spline
	kappaSpline    *interpolate.Spline
	gSpline        *interpolate.Spline
	gPrimeSpline   *interpolate.Spline
	gDPrimeSpline  *interpolate.Spline

	linearBelowZ float64
	useLinear    bool

	hphysIni float64
	hprimeIni float64
	xeIni     float64
	kappaDotIni float64
	tauDragIni  float64
	rdIni       float64
	cb2Ini      float64

	log *slog.Logger
}

// Scalars returns the frozen scalar summaries.
func (h *Handle) Scalars() Scalars { return h.scalars }

// Free releases a Handle's table and interpolators. The Go runtime's
// garbage collector reclaims a Handle's memory once it is
// unreferenced, so Free has no effect beyond making a freed Handle's
// misuse loud: any At call against it after Free panics instead of
// silently returning stale data. Mirrors the explicit free() the
// teacher's C-collaborator lifecycle expects, kept here for API-surface
// parity with spec.md §6's free operation.
func (h *Handle) Free() {
	*h = Handle{}
}

// Init runs the full compute phase and returns a frozen Handle, or a
// *Error on any domain/convergence/numerical-guard/resource failure.
// bgIn, if non-nil, is used as the background-cosmology collaborator
// directly; otherwise one is built from cfg's LCDM parameters.
func Init(ctx context.Context, cfg Config, bgIn cosmo.Background, logger *slog.Logger) (*Handle, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "thermo: starting compute phase", "z_initial", cfg.ZInitial, "recombination", cfg.Recombination)

	bg := bgIn
	if bg == nil {
		p := cosmo.Params{
			H0: cfg.H0, OmegaB: cfg.OmegaB, OmegaCDM: cfg.OmegaCDM,
			OmegaGamma: cfg.OmegaGamma, OmegaLambda: cfg.OmegaLambda, TCmb: cfg.TCmb,
		}
		lcdm, err := cosmo.NewLCDM(p, 4000)
		if err != nil {
			return nil, Wrap(DomainError, "building background cosmology", err)
		}
		bg = lcdm
	}

	yHe, err := resolveYHe(cfg)
	if err != nil {
		return nil, err
	}
	if yHe <= 0 || yHe >= 1 {
		return nil, NewError(DomainError, "Y_He=%g must lie in (0, 1)", yHe)
	}

	fHe := yHe / (constants.MassRatioHHe * (1 - yHe))
	nH := 2.0e17 // reference comoving-today hydrogen number density, 1/m^3 (schematic)

	reioActive := cfg.ReioParametrization != "" && cfg.ReioParametrization != "none"
	if cfg.HeSwitch >= 3 && cfg.AnnihilationFraction > 0 && !reioActive {
		logger.WarnContext(ctx, "thermo: HeSwitch >= 3 together with annihilation and without reionization can give unphysical results", "he_switch", cfg.HeSwitch)
	}

	g, err := grid.Build(grid.Params{
		ZInitial: cfg.ZInitial, ZLinear: cfg.ZLinear, ZReioMax: cfg.ReionizationZStartMax,
		NLog: cfg.NzLog, NLin: cfg.NzLin, NReio: cfg.ReionizationSampling,
	}, bg)
	if err != nil {
		return nil, Wrap(DomainError, "building redshift grid", err)
	}

	intervals, err := schedule.Build(cfg.ZInitial, 0, cfg.Precision, reioActive)
	if err != nil {
		return nil, Wrap(DomainError, "scheduling approximation phases", err)
	}

	engine := recombineEngine(cfg)
	energyRate := energyRateFunc(cfg)

	rows, err := integrate(ctx, g, intervals, engine, bg, energyRate, fHe, nH, cfg, logger)
	if err != nil {
		return nil, err
	}

	// xeBeforeReio is read before any reionization scheme is applied to
	// rows: shootTauReio needs this residual, pre-reionization ionization
	// level itself (it rebuilds a scheme per trial redshift), so
	// reionization must not be applied to rows until after shooting
	// resolves the final z_reio.
	xeBeforeReio := rows[0].Xe
	if reioActive {
		if cfg.ReioZOrTau == ReioByTau {
			resolvedZReio, err := shootTauReio(rows, cfg, xeBeforeReio, fHe, nH, bg)
			if err != nil {
				return nil, err
			}
			cfg.ZReio = resolvedZReio
		} else {
			scheme, err := buildReionizeScheme(cfg, xeBeforeReio, fHe)
			if err != nil {
				return nil, err
			}
			applyReionization(rows, scheme, cfg, fHe, nH)
		}
	}

	h, err := finalize(rows, g, cfg, fHe, nH, bg, logger)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "thermo: compute phase complete", "z_rec", h.scalars.ZRec, "z_drag", h.scalars.ZDrag)
	return h, nil
}

func resolveYHe(cfg Config) (float64, error) {
	if cfg.YHeSource == YHeFixed {
		return cfg.YHeFixedValue, nil
	}
	// YHeFromBBN: callers supply a loaded bbn.Table via a sibling
	// field in a real deployment config; this entry point keeps the
	// dependency explicit so Init never does file I/O itself.
	return 0, NewError(DomainError, "YHeFromBBN requires calling ResolveYHeFromTable before Init")
}

// ResolveYHeFromTable looks up Y_He from a BBN table and returns a
// Config with YHeSource switched to YHeFixed, for callers using
// cfg.YHeSource == YHeFromBBN.
func ResolveYHeFromTable(cfg Config, table *bbn.Table) (Config, error) {
	omegaB := cfg.OmegaB * (cfg.H0 / 100) * (cfg.H0 / 100)
	deltaNeff := cfg.NEff - 3.046
	y, err := table.YHe(omegaB, deltaNeff)
	if err != nil {
		return cfg, Wrap(ConvergenceError, "BBN helium lookup", err)
	}
	cfg.YHeSource = YHeFixed
	cfg.YHeFixedValue = y
	return cfg, nil
}

func recombineEngine(cfg Config) recombine.Engine {
	if cfg.Recombination == EngineH {
		return recombine.TwoLevelEngine{}
	}
	return recombine.PeeblesEngine{HSwitch: recombine.HeSwitch(cfg.HeSwitch)}
}

func energyRateFunc(cfg Config) energy.Rate {
	onTheSpot := energy.Zero
	if cfg.AnnihilationFraction > 0 {
		onTheSpot = energy.ConstantFractionRate(cfg.AnnihilationFraction, 8.5e-27, constants.SpeedOfLightMks, 4.55e17)
	} else if cfg.DecayRate > 0 {
		onTheSpot = energy.PowerLawRate(cfg.DecayRate, 3)
	}
	if cfg.OnTheSpot || (cfg.AnnihilationFraction == 0 && cfg.DecayRate == 0) {
		return onTheSpot
	}
	return energy.Integrated(onTheSpot, 0.01, 3, 3, 1)
}

// buildReionizeScheme constructs the reionize.Scheme this Config's
// ReioParametrization selects, given the residual ionization level the
// recombination integrator left behind (xeBefore) and the total
// fully-ionized level fHe implies.
func buildReionizeScheme(cfg Config, xeBefore, fHe float64) (reionize.Scheme, error) {
	xeAfter := 1 + fHe
	switch cfg.ReioParametrization {
	case "", "none":
		return nil, nil
	case "camb":
		return reionize.CAMB{ZReio: cfg.ZReio, DeltaZ: cfg.DeltaZReio, Alpha: 1.5, XeBefore: xeBefore, XeAfter: xeAfter}, nil
	case "half_tanh":
		return reionize.HalfTanh{ZReio: cfg.ZReio, DeltaZ: cfg.DeltaZReio, XeBefore: xeBefore, XeAfter: xeAfter}, nil
	case "bins_tanh":
		if len(cfg.BinsZ) < 2 || len(cfg.BinsZ) != len(cfg.BinsXe) {
			return nil, NewError(DomainError, "bins_tanh requires >=2 matched BinsZ/BinsXe entries")
		}
		return reionize.BinsTanh{Z: cfg.BinsZ, Xe: cfg.BinsXe, Sharpness: cfg.BinsSharpness}, nil
	case "many_tanh":
		if len(cfg.ManyTanhZ) == 0 || len(cfg.ManyTanhZ) != len(cfg.ManyTanhXe) {
			return nil, NewError(DomainError, "many_tanh requires matched ManyTanhZ/ManyTanhXe entries")
		}
		return reionize.ManyTanh{
			Z: cfg.ManyTanhZ, Xe: cfg.ManyTanhXe, Width: cfg.ManyTanhWidth,
			XeBeforeFirstJump: xeBefore, XeHe1: cfg.ManyTanhXeHe1, XeHe2: cfg.ManyTanhXeHe2,
		}, nil
	case "inter":
		if len(cfg.InterZ) < 2 || len(cfg.InterZ) != len(cfg.InterXe) {
			return nil, NewError(DomainError, "inter requires >=2 matched InterZ/InterXe entries")
		}
		scheme := &reionize.Inter{Z: cfg.InterZ, Xe: cfg.InterXe, XeFromRecombination: xeBefore}
		if err := scheme.Build(); err != nil {
			return nil, Wrap(DomainError, "building inter reionization scheme", err)
		}
		return scheme, nil
	default:
		return nil, NewError(DomainError, "unsupported reio_parametrization %q", cfg.ReioParametrization)
	}
}

// applyReionization overwrites Xe (and the dependent KappaDot column)
// with the scheme's absolute ionization history, restricted to the
// redshift range the scheme actually models; above that the
// recombination integrator's own residual ionization stands.
func applyReionization(rows []sampleRow, scheme reionize.Scheme, cfg Config, fHe, nH float64) {
	if scheme == nil {
		return
	}
	cutoff := 2 * cfg.ZReio
	if thresh, ok := scheme.LinearBelow(); ok && thresh > cutoff {
		cutoff = thresh
	}
	if cutoff < cfg.ReionizationZStartMax {
		cutoff = cfg.ReionizationZStartMax
	}
	for i := range rows {
		if rows[i].z > cutoff {
			continue
		}
		xe, _ := scheme.Eval(rows[i].z)
		rows[i].Xe = xe
		rows[i].KappaDot = constants.ThomsonCrossMks * xe * nH * (1 + rows[i].z) * (1 + rows[i].z) * constants.MpcMks
	}
}

// shootTauReio re-targets z_reio via bisection to match
// cfg.TauReioTarget, per component C6: each trial redshift gets its own
// reionize.Scheme applied to a scratch copy of rows, and shoot.Bisect
// converges on the redshift whose resulting tau_reio (integrated via
// shoot.TauFromKappaDot from today out to the reionization-start
// epoch) matches the target. xeBefore must be rows' residual ionization
// level before any reionization scheme has been applied to rows — the
// caller must not call applyReionization first.
func shootTauReio(rows []sampleRow, cfg Config, xeBefore, fHe, nH float64, bg cosmo.Background) (float64, error) {
	tauStart, err := bg.TauOfZ(cfg.ReionizationZStartMax)
	if err != nil {
		return 0, Wrap(DomainError, "locating reionization-start conformal time", err)
	}
	tau0 := rows[0].tau

	eval := func(zMid float64) (float64, error) {
		trial := make([]sampleRow, len(rows))
		copy(trial, rows)

		c := cfg
		c.ZReio = zMid
		scheme, err := buildReionizeScheme(c, xeBefore, fHe)
		if err != nil {
			return 0, err
		}
		applyReionization(trial, scheme, c, fHe, nH)

		tau := make([]float64, len(trial))
		kappaDot := make([]float64, len(trial))
		for i, r := range trial {
			tau[i] = r.tau
			kappaDot[i] = r.KappaDot
		}
		return shoot.TauFromKappaDot(tau, kappaDot, tau0, tauStart)
	}

	res, err := shoot.Bisect(cfg.TauReioTarget, eval, shoot.Params{
		ZReioMax: cfg.ReionizationZStartMax, Width: cfg.DeltaZReio, TolTau: 1e-3, MaxIterations: 100,
	})
	if err != nil {
		return 0, Wrap(ConvergenceError, "shooting for tau_reio", err)
	}

	c := cfg
	c.ZReio = res.ZReio
	scheme, err := buildReionizeScheme(c, xeBefore, fHe)
	if err != nil {
		return 0, err
	}
	applyReionization(rows, scheme, c, fHe, nH)
	return res.ZReio, nil
}

// finalize runs C7 (derive) and builds the interpolators C8 serves
// queries from.
func finalize(rows []sampleRow, g *grid.Grid, cfg Config, fHe, nH float64, bg cosmo.Background, logger *slog.Logger) (*Handle, error) {
	n := len(rows)
	tauInc := make([]float64, n)
	zInc := make([]float64, n)
	kappaDotInc := make([]float64, n)
	rOfTauInc := make([]float64, n)
	xeInc := make([]float64, n)
	tbInc := make([]float64, n)
	cb2Inc := make([]float64, n)

	for i, r := range rows {
		j := n - 1 - i
		tauInc[j] = r.tau
		zInc[j] = r.z
		kappaDotInc[j] = r.KappaDot
		xeInc[j] = r.Xe
		tbInc[j] = r.TMat
		cb2Inc[j] = soundSpeedSquared(r.TMat)

		st, err := bg.AtTau(r.tau, cosmo.Normal)
		if err != nil {
			return nil, Wrap(ConvergenceError, "querying background at finalize", err)
		}
		rhoGamma := st.RhoGamma
		if rhoGamma == 0 {
			rhoGamma = 1
		}
		rOfTauInc[j] = 0.75 * st.RhoB / rhoGamma
	}

	cols, epochs, err := derive.Run(tauInc, zInc, kappaDotInc, rOfTauInc, tauInc[0], kappaDotInc[0], derive.Params{
		ComputeDampingScale: cfg.ComputeDampingScale, SmoothRadius: 3,
		ZRecMin: 800, ZRecMax: 1500,
	})
	if err != nil {
		return nil, Wrap(ConvergenceError, "derived-quantity pass", err)
	}

	var rdRecCol []float64
	if cfg.ComputeDampingScale {
		rdRecCol = make([]float64, n)
		for i := range tauInc {
			rd2, err := derive.DampingScale(tauInc[:i+1], rOfTauInc[:i+1], kappaDotInc[:i+1], tauInc[0], kappaDotInc[0])
			if err != nil {
				rd2 = 0
			}
			rdRecCol[i] = math.Sqrt(math.Max(rd2, 0))
		}
	} else {
		rdRecCol = make([]float64, n)
	}

	h := &Handle{cfg: cfg, z: zInc, tau: tauInc, log: logger}
	h.xeSpline = interpolate.NewSpline(zInc, xeInc)
	h.xeLinear = interpolate.NewLinear(zInc, xeInc)
	h.kappaDotSpline = interpolate.NewSpline(zInc, kappaDotInc)
	h.tbSpline = interpolate.NewSpline(zInc, tbInc)
	h.cb2Spline = interpolate.NewSpline(zInc, cb2Inc)
	h.tauDragSpline = interpolate.NewSpline(zInc, cols.TauDrag)
	h.rdSpline = interpolate.NewSpline(zInc, rdRecCol)
	h.rateSpline = interpolate.NewSpline(zInc, cols.Rate)
	h.kappaSpline = interpolate.NewSpline(zInc, cols.Kappa)
	h.gSpline = interpolate.NewSpline(zInc, cols.G)
	h.gPrimeSpline = interpolate.NewSpline(zInc, cols.GPrime)
	h.gDPrimeSpline = interpolate.NewSpline(zInc, cols.GDPrime)

	switch cfg.ReioParametrization {
	case "half_tanh":
		h.useLinear, h.linearBelowZ = true, 2*cfg.ZReio
	case "inter":
		h.useLinear, h.linearBelowZ = true, 50
	}

	// zInc is stored descending (zInc[0] = z_initial, zInc[n-1] = 0),
	// so the "initial" (z_initial) boundary values for extrapolation
	// live at index 0.
	h.tauDragIni = cols.TauDrag[0]
	h.hphysIni = hPhysAt(bg, zInc[0])
	h.hprimeIni = hPhysDerivAt(bg, zInc[0])
	h.xeIni = xeInc[0]
	h.kappaDotIni = kappaDotInc[0]
	h.rdIni = rdRecCol[0]
	h.cb2Ini = cb2Inc[0]

	rsRec, daRec, err := soundHorizonAndDistance(bg, epochs.ZRec)
	if err != nil {
		return nil, Wrap(ConvergenceError, "querying background at z_rec", err)
	}
	rsDrag, _, err := soundHorizonAndDistance(bg, epochs.ZDrag)
	if err != nil {
		return nil, Wrap(ConvergenceError, "querying background at z_drag", err)
	}
	rdRec := h.rdSpline.Eval(epochs.ZRec)

	tauReio := cfg.TauReioTarget
	if cfg.ReioZOrTau == ReioByRedshift && cfg.ReioParametrization != "" && cfg.ReioParametrization != "none" {
		tauStart, err := bg.TauOfZ(cfg.ReionizationZStartMax)
		if err != nil {
			return nil, Wrap(DomainError, "locating reionization-start conformal time", err)
		}
		tauReio, err = shoot.TauFromKappaDot(tauInc, kappaDotInc, tauInc[n-1], tauStart)
		if err != nil {
			return nil, Wrap(ConvergenceError, "integrating tau_reio", err)
		}
	}

	h.scalars = Scalars{
		ZRec: epochs.ZRec, ZDrag: epochs.ZDrag, ZReio: cfg.ZReio, TauReio: tauReio,
		RsRec: rsRec, RsDrag: rsDrag, DARec: daRec, RDRec: rdRec,
		TauFS: epochs.TauFS, TauCut: epochs.TauCut,
	}
	return h, nil
}

// soundHorizonAndDistance queries the background cosmology at redshift
// z for the sound horizon and angular diameter distance, the
// cosmo.Long-detail fields the recombination/drag scalar summaries
// need.
func soundHorizonAndDistance(bg cosmo.Background, z float64) (rs, dA float64, err error) {
	tau, err := bg.TauOfZ(z)
	if err != nil {
		return 0, 0, err
	}
	st, err := bg.AtTau(tau, cosmo.Long)
	if err != nil {
		return 0, 0, err
	}
	return st.SoundHorizon, st.AngularDiameterDistance, nil
}

func hPhysAt(bg cosmo.Background, z float64) float64 {
	tau, err := bg.TauOfZ(z)
	if err != nil {
		return 0
	}
	st, err := bg.AtTau(tau, cosmo.Short)
	if err != nil {
		return 0
	}
	return st.H
}

func hPhysDerivAt(bg cosmo.Background, z float64) float64 {
	tau, err := bg.TauOfZ(z)
	if err != nil {
		return 0
	}
	st, err := bg.AtTau(tau, cosmo.Normal)
	if err != nil {
		return 0
	}
	return st.HPrime
}

// soundSpeedSquared is the leading-order baryon sound speed squared,
// k_B*T_b/(m_H*c^2), in the units spec.md §3 lists c_b^2 in.
func soundSpeedSquared(tMat float64) float64 {
	const cb2Coeff = constants.BoltzmannMks / (constants.HMassMks * constants.SpeedOfLightMks * constants.SpeedOfLightMks)
	return cb2Coeff * tMat
}

// At implements the interpolation service of component C8, dispatching
// between asymptotic extrapolation above z_initial, linear
// interpolation near a derivative discontinuity, or cubic spline
// otherwise.
func (h *Handle) At(z float64, mode interpolate.CursorMode, cur *interpolate.Cursor) (Row, error) {
	if z < 0 {
		return Row{}, NewError(DomainError, "z=%g must be non-negative", z)
	}
	zInitial := h.z[0]
	if z > zInitial {
		return h.extrapolate(z), nil
	}
	if h.useLinear && z < h.linearBelowZ {
		return h.linearRow(z), nil
	}
	return h.splineRow(z, mode, cur), nil
}

func (h *Handle) splineRow(z float64, mode interpolate.CursorMode, cur *interpolate.Cursor) Row {
	return Row{
		Z: z,
		Xe: h.xeSpline.EvalCursor(z, mode, cur),
		KappaDot: h.kappaDotSpline.EvalCursor(z, mode, cur),
		KappaDDot: h.kappaDotSpline.Deriv(z, 1),
		KappaDDDot: h.kappaDotSpline.Deriv(z, 2),
		ExpNegKappa: math.Exp(h.kappaSpline.EvalCursor(z, mode, cur)),
		G: h.gSpline.EvalCursor(z, mode, cur),
		GPrime: h.gPrimeSpline.EvalCursor(z, mode, cur),
		GDPrime: h.gDPrimeSpline.EvalCursor(z, mode, cur),
		TB: h.tbSpline.EvalCursor(z, mode, cur),
		Cb2: h.cb2Spline.EvalCursor(z, mode, cur),
		TauDrag: h.tauDragSpline.EvalCursor(z, mode, cur),
		RD: h.rdSpline.EvalCursor(z, mode, cur),
		Rate: h.rateSpline.EvalCursor(z, mode, cur),
	}
}

func (h *Handle) linearRow(z float64) Row {
	return Row{
		Z: z,
		Xe: h.xeLinear.Eval(z),
		KappaDot: h.kappaDotSpline.Eval(z),
		KappaDDot: h.kappaDotSpline.Deriv(z, 1),
		KappaDDDot: h.kappaDotSpline.Deriv(z, 2),
		ExpNegKappa: math.Exp(h.kappaSpline.Eval(z)),
		G: h.gSpline.Eval(z), GPrime: h.gPrimeSpline.Eval(z), GDPrime: h.gDPrimeSpline.Eval(z),
		TB: h.tbSpline.Eval(z), Cb2: h.cb2Spline.Eval(z),
		TauDrag: h.tauDragSpline.Eval(z), RD: h.rdSpline.Eval(z), Rate: h.rateSpline.Eval(z),
	}
}

// extrapolate implements the above-z_initial asymptotic formulas of
// spec.md §4.8.
func (h *Handle) extrapolate(z float64) Row {
	zIni := h.z[0]
	ratio := (1 + z) / (1 + zIni)

	kappaDot := h.kappaDotIni * ratio * ratio
	tauDrag := h.tauDragIni * ratio * ratio
	rd := h.rdIni * math.Pow(ratio, -1.5)

	hphys := h.hphysIni
	kappaDDot := -hphys * 2 / (1 + z) * kappaDot
	kappaDDDot := (hphys*hphys/(1+z) - h.hprimeIni) * 2 / (1 + z) * kappaDot

	return Row{
		Z: z, Xe: h.xeIni,
		KappaDot: kappaDot, KappaDDot: kappaDDot, KappaDDDot: kappaDDDot,
		ExpNegKappa: 0, G: 0, GPrime: 0, GDPrime: 0,
		TB: h.cfg.TCmb * (1 + z), Cb2: h.cb2Ini * ratio,
		TauDrag: tauDrag, RD: rd, Rate: kappaDot,
	}
}
