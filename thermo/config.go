package thermo

import (
	"fmt"
	"strings"

	"github.com/cosmogo/thermohistory/configfile"
	"github.com/cosmogo/thermohistory/schedule"
)

// ReioMode selects whether reionization is driven by a target redshift
// or a target integrated optical depth (spec.md §6, reio_z_or_tau).
type ReioMode int

const (
	ReioByRedshift ReioMode = iota
	ReioByTau
)

// RecombinationEngine names the selectable recombination physics
// engine (spec.md §4.3).
type RecombinationEngine int

const (
	EngineR RecombinationEngine = iota // Peebles-style
	EngineH                            // wrapped single-call model
)

// YHeSource selects whether Y_He is given directly or derived from the
// BBN table.
type YHeSource int

const (
	YHeFixed YHeSource = iota
	YHeFromBBN
)

// Config collects the configuration fields of spec.md §6's table,
// playing the same role as the teacher's configfile.Vars-backed
// structs but as a plain Go struct: callers either build one directly
// or populate it from a configfile.Vars via LoadConfig.
type Config struct {
	H0         float64
	OmegaB     float64
	OmegaCDM   float64
	OmegaGamma float64
	OmegaLambda float64
	TCmb       float64

	YHeSource YHeSource
	YHeFixedValue float64
	NEff       float64 // for BBN Delta_Neff = NEff - 3.046

	Recombination RecombinationEngine
	HeSwitch      int

	ReioParametrization string // "none", "camb", "half_tanh", "bins_tanh", "many_tanh", "inter"
	ReioZOrTau          ReioMode
	ZReio               float64
	TauReioTarget       float64
	DeltaZReio          float64

	// BinsZ/BinsXe/BinsSharpness configure the "bins_tanh" scheme.
	BinsZ         []float64
	BinsXe        []float64
	BinsSharpness float64

	// ManyTanhZ/ManyTanhXe/ManyTanhWidth/ManyTanhXeHe1/ManyTanhXeHe2
	// configure the "many_tanh" scheme; ManyTanhXe entries may use
	// reionize.SentinelPostHe1/SentinelPostHe2.
	ManyTanhZ      []float64
	ManyTanhXe     []float64
	ManyTanhWidth  float64
	ManyTanhXeHe1  float64
	ManyTanhXeHe2  float64

	// InterZ/InterXe configure the "inter" scheme; the last InterXe
	// entry must be reionize.SentinelFromRecombination.
	InterZ  []float64
	InterXe []float64

	ComputeDampingScale   bool
	ComputeCb2Derivatives bool

	ZInitial          float64
	ZLinear           float64
	ReionizationZStartMax float64

	NzLog, NzLin, ReionizationSampling int

	AnnihilationFraction float64 // dark-matter-annihilation energy fraction, spec.md §8 scenario inputs
	DecayRate            float64
	OnTheSpot            bool

	Precision schedule.Precision
	Verbosity int // read from thermodynamics_verbose; Init does not consult it (the logger passed to Init decides what is reported)
}

// DefaultConfig returns a Config with the boundary/resolution defaults
// exercised by spec.md §8's scenarios.
func DefaultConfig() Config {
	return Config{
		TCmb: 2.7255, OmegaGamma: 5.4e-5,
		ReioParametrization: "none",
		ZInitial: 6000, ZLinear: 3500, ReionizationZStartMax: 50,
		NzLog: 500, NzLin: 2500, ReionizationSampling: 500,
		Precision: schedule.DefaultPrecision(),
	}
}

// LoadConfig reads a CLASS-style ".ini" parameter file under a
// "[thermodynamics]" header into a Config, built on configfile.Vars the
// way the teacher's own command-line tools load their parameter files.
// Fields not present in fname keep DefaultConfig's values.
func LoadConfig(fname string) (Config, error) {
	cfg := DefaultConfig()

	var yHeSource, recombination, reioZOrTau string
	var heSwitch, nzLog, nzLin, reioSampling, verbosity int64

	yHeSource, recombination, reioZOrTau = "fixed", "peebles", "redshift"
	heSwitch = int64(cfg.HeSwitch)
	nzLog, nzLin, reioSampling = int64(cfg.NzLog), int64(cfg.NzLin), int64(cfg.ReionizationSampling)
	verbosity = int64(cfg.Verbosity)

	v := configfile.NewVars("thermodynamics")
	v.Float(&cfg.H0, "H0", cfg.H0)
	v.Float(&cfg.OmegaB, "omega_b", cfg.OmegaB)
	v.Float(&cfg.OmegaCDM, "omega_cdm", cfg.OmegaCDM)
	v.Float(&cfg.OmegaGamma, "omega_gamma", cfg.OmegaGamma)
	v.Float(&cfg.OmegaLambda, "omega_lambda", cfg.OmegaLambda)
	v.Float(&cfg.TCmb, "T_cmb", cfg.TCmb)

	v.String(&yHeSource, "yhe_source", yHeSource)
	v.Float(&cfg.YHeFixedValue, "yhe", cfg.YHeFixedValue)
	v.Float(&cfg.NEff, "n_eff", cfg.NEff)

	v.String(&recombination, "recombination", recombination)
	v.Int(&heSwitch, "recfast_he_swift", heSwitch)

	v.String(&cfg.ReioParametrization, "reio_parametrization", cfg.ReioParametrization)
	v.String(&reioZOrTau, "reio_z_or_tau", reioZOrTau)
	v.Float(&cfg.ZReio, "z_reio", cfg.ZReio)
	v.Float(&cfg.TauReioTarget, "tau_reio", cfg.TauReioTarget)
	v.Float(&cfg.DeltaZReio, "reionization_width", cfg.DeltaZReio)

	v.Floats(&cfg.BinsZ, "binned_reio_z", cfg.BinsZ)
	v.Floats(&cfg.BinsXe, "binned_reio_xe", cfg.BinsXe)
	v.Float(&cfg.BinsSharpness, "binned_reio_step_sharpness", cfg.BinsSharpness)

	v.Floats(&cfg.ManyTanhZ, "many_tanh_z", cfg.ManyTanhZ)
	v.Floats(&cfg.ManyTanhXe, "many_tanh_xe", cfg.ManyTanhXe)
	v.Float(&cfg.ManyTanhWidth, "many_tanh_width", cfg.ManyTanhWidth)
	v.Float(&cfg.ManyTanhXeHe1, "many_tanh_xe_he1", cfg.ManyTanhXeHe1)
	v.Float(&cfg.ManyTanhXeHe2, "many_tanh_xe_he2", cfg.ManyTanhXeHe2)

	v.Floats(&cfg.InterZ, "reio_inter_z", cfg.InterZ)
	v.Floats(&cfg.InterXe, "reio_inter_xe", cfg.InterXe)

	v.Bool(&cfg.ComputeDampingScale, "compute_damping_scale", cfg.ComputeDampingScale)
	v.Bool(&cfg.ComputeCb2Derivatives, "compute_cb2_derivatives", cfg.ComputeCb2Derivatives)

	v.Float(&cfg.ZInitial, "z_initial", cfg.ZInitial)
	v.Float(&cfg.ZLinear, "z_linear", cfg.ZLinear)
	v.Float(&cfg.ReionizationZStartMax, "reionization_z_start_max", cfg.ReionizationZStartMax)
	v.Int(&nzLog, "thermo_Nz_log", nzLog)
	v.Int(&nzLin, "thermo_Nz_lin", nzLin)
	v.Int(&reioSampling, "reionization_sampling", reioSampling)

	v.Float(&cfg.AnnihilationFraction, "annihilation", cfg.AnnihilationFraction)
	v.Float(&cfg.DecayRate, "decay_fraction", cfg.DecayRate)
	v.Bool(&cfg.OnTheSpot, "on_the_spot", cfg.OnTheSpot)

	v.Int(&verbosity, "thermodynamics_verbose", verbosity)

	if err := configfile.Load(fname, v); err != nil {
		return Config{}, err
	}

	cfg.HeSwitch = int(heSwitch)
	cfg.NzLog, cfg.NzLin, cfg.ReionizationSampling = int(nzLog), int(nzLin), int(reioSampling)
	cfg.Verbosity = int(verbosity)

	switch strings.ToLower(yHeSource) {
	case "fixed":
		cfg.YHeSource = YHeFixed
	case "bbn":
		cfg.YHeSource = YHeFromBBN
	default:
		return Config{}, fmt.Errorf("thermo: unknown yhe_source %q", yHeSource)
	}

	switch strings.ToLower(recombination) {
	case "peebles", "recfast":
		cfg.Recombination = EngineR
	case "hyrec", "two_level":
		cfg.Recombination = EngineH
	default:
		return Config{}, fmt.Errorf("thermo: unknown recombination engine %q", recombination)
	}

	switch strings.ToLower(reioZOrTau) {
	case "redshift", "z":
		cfg.ReioZOrTau = ReioByRedshift
	case "tau":
		cfg.ReioZOrTau = ReioByTau
	default:
		return Config{}, fmt.Errorf("thermo: unknown reio_z_or_tau %q", reioZOrTau)
	}

	return cfg, nil
}

