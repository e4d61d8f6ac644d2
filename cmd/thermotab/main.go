// thermotab runs the thermodynamics compute phase for a parameter file
// or a set of scalar overrides and prints either the scalar summaries
// or a table of interpolated rows, mirroring the teacher's gtet_* family
// of small one-purpose command-line tools (los/main/gtet_prof.go in the
// reference pack) but built on cobra for its subcommand structure,
// adopted from the rest of the retrieved pack rather than the teacher.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cosmogo/thermohistory/interpolate"
	"github.com/cosmogo/thermohistory/thermo"
)

var (
	configFile string
	h0, omegaB, omegaCDM, omegaLambda, yHe float64
	zInitial                               float64
	reioParam                              string
	zReio, deltaZReio                      float64
	verbose                                bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "thermotab",
		Short: "Compute and query a cosmological recombination/reionization history",
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "CLASS-style .ini parameter file (overrides the flags below)")
	root.PersistentFlags().Float64Var(&h0, "H0", 67.36, "Hubble constant, km/s/Mpc")
	root.PersistentFlags().Float64Var(&omegaB, "omega-b", 0.02237, "physical baryon density")
	root.PersistentFlags().Float64Var(&omegaCDM, "omega-cdm", 0.1200, "physical cold dark matter density")
	root.PersistentFlags().Float64Var(&omegaLambda, "omega-lambda", 0.6847, "dark energy density parameter")
	root.PersistentFlags().Float64Var(&yHe, "yhe", 0.245, "fixed helium mass fraction")
	root.PersistentFlags().Float64Var(&zInitial, "z-initial", 6000, "starting redshift of the compute grid")
	root.PersistentFlags().StringVar(&reioParam, "reio", "camb", "reionization parametrization (none, camb, half_tanh)")
	root.PersistentFlags().Float64Var(&zReio, "z-reio", 7.6, "reionization midpoint redshift")
	root.PersistentFlags().Float64Var(&deltaZReio, "delta-z-reio", 0.5, "reionization step width")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "emit debug-level progress logging")

	root.AddCommand(scalarsCmd(), tableCmd())
	return root
}

func buildConfig() (thermo.Config, error) {
	if configFile != "" {
		return thermo.LoadConfig(configFile)
	}
	cfg := thermo.DefaultConfig()
	hh := (h0 / 100) * (h0 / 100)
	cfg.H0, cfg.OmegaB, cfg.OmegaCDM, cfg.OmegaLambda = h0, omegaB/hh, omegaCDM/hh, omegaLambda
	cfg.YHeSource, cfg.YHeFixedValue = thermo.YHeFixed, yHe
	cfg.ZInitial = zInitial
	cfg.ReioParametrization = reioParam
	cfg.ZReio, cfg.DeltaZReio = zReio, deltaZReio
	return cfg, nil
}

func runInit() (*thermo.Handle, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return thermo.Init(context.Background(), cfg, nil, logger)
}

func scalarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scalars",
		Short: "Print the scalar summary quantities (z_rec, z_drag, r_s, ...)",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := runInit()
			if err != nil {
				return err
			}
			sc := h.Scalars()
			fmt.Printf("z_rec       %.6g\n", sc.ZRec)
			fmt.Printf("z_drag      %.6g\n", sc.ZDrag)
			fmt.Printf("z_reio      %.6g\n", sc.ZReio)
			fmt.Printf("tau_reio    %.6g\n", sc.TauReio)
			fmt.Printf("r_s(z_rec)  %.6g\n", sc.RsRec)
			fmt.Printf("r_s(z_drag) %.6g\n", sc.RsDrag)
			fmt.Printf("d_A(z_rec)  %.6g\n", sc.DARec)
			fmt.Printf("r_d(z_rec)  %.6g\n", sc.RDRec)
			fmt.Printf("tau_fs      %.6g\n", sc.TauFS)
			fmt.Printf("tau_cut     %.6g\n", sc.TauCut)
			return nil
		},
	}
}

func tableCmd() *cobra.Command {
	var zMin, zMax float64
	var n int
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print a table of interpolated rows over [z-min, z-max]",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := runInit()
			if err != nil {
				return err
			}
			fmt.Println("# z\txe\tkappa_dot\tg\ttb\tcb2")
			var cur interpolate.Cursor
			for i := 0; i < n; i++ {
				frac := float64(i) / float64(n-1)
				z := zMin + frac*(zMax-zMin)
				row, err := h.At(z, interpolate.CloseBy, &cur)
				if err != nil {
					return err
				}
				fmt.Printf("%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\n", row.Z, row.Xe, row.KappaDot, row.G, row.TB, row.Cb2)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&zMin, "z-min", 0, "lowest queried redshift")
	cmd.Flags().Float64Var(&zMax, "z-max", 1500, "highest queried redshift")
	cmd.Flags().IntVar(&n, "n", 100, "number of rows to print")
	return cmd
}
