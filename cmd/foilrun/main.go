// Command foilrun batch-drives the external XFOIL binary: it builds a
// write-once batch of analysis cases (from a TOML run file or single-case
// flags), scripts one XFOIL session per case, and parses the polar output.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jberkman/foilrun/internal/batch"
	"github.com/jberkman/foilrun/internal/casefile"
	"github.com/jberkman/foilrun/internal/check"
	"github.com/jberkman/foilrun/internal/config"
	"github.com/jberkman/foilrun/internal/display"
	"github.com/jberkman/foilrun/internal/logging"
	"github.com/jberkman/foilrun/internal/pipeline"
)

const helpDescription = `
Batch-run XFOIL polar analyses from the command line.

Each case is serialized into XFOIL's command dialect up front and piped into
a one-shot subprocess; the run cannot be edited or resubmitted once started,
so set iteration limits high enough to converge on the first try. Failed
cases are reported per-result and never abort the rest of the batch.
`

var exampleUsage = strings.TrimSpace(`
  foilrun --foil 0012 --re 2e5 --alpha=-4:12:0.5
  foilrun --foil wing/s1223.dat --re 3e5 --alpha 0,5,10 --iter 200
  foilrun sweeps.toml
  foilrun check
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// caseFlags holds the single-case flag values merged into a Case when no
// run file is given.
type caseFlags struct {
	foil  string
	naca  bool
	re    float64
	mach  float64
	alpha string
	iter  int
}

func main() {
	// A .env beside the invocation can supply FOILRUN_* variables.
	_ = godotenv.Load()

	cfg := config.DefaultConfig()
	var cfgPath string
	var cf caseFlags

	root := &cobra.Command{
		Use:           "foilrun [run-file.toml]",
		Short:         "Batch-run XFOIL polar analyses",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       getVersion(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := layerConfig(cmd, &cfg, cfgPath); err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.CaseFile = args[0]
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, closeLog, err := logging.New(&cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			if !cfg.Quiet {
				display.PrintBanner()
			}

			b, err := buildBatch(cmd, &cfg, &cf)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if !cfg.DryRun {
				if err := check.CheckDeps(ctx, &cfg); err != nil {
					return err
				}
			}

			_, stats, err := pipeline.Run(ctx, &cfg, log, b)
			if err != nil {
				return err
			}
			if stats.Failed > 0 {
				return fmt.Errorf("%d of %d cases failed", stats.Failed, stats.Total)
			}
			return nil
		},
	}

	// Single-case definition (ignored when a run file is given).
	root.Flags().StringVar(&cf.foil, "foil", "", "NACA digits or path to an airfoil coordinate file")
	root.Flags().BoolVar(&cf.naca, "naca", false, "treat --foil as NACA digits (default: auto-detect)")
	root.Flags().Float64Var(&cf.re, "re", 0, "Reynolds number (omit or 0 for inviscid)")
	root.Flags().Float64Var(&cf.mach, "mach", 0, "freestream Mach number")
	root.Flags().StringVar(&cf.alpha, "alpha", "0", "angles of attack: list (0,2,4) or sweep (start:stop:step)")
	root.Flags().IntVar(&cf.iter, "iter", cfg.Iter, "viscous iteration limit per operating point")
	root.Flags().BoolVar(&cfg.SaveCp, "save-cp", cfg.SaveCp, "write surface Cp per angle of attack")
	root.Flags().BoolVar(&cfg.SaveGeometry, "save-geometry", cfg.SaveGeometry, "save loaded geometry")
	root.Flags().BoolVar(&cfg.Pane, "pane", cfg.Pane, "smooth paneling before analysis")
	root.Flags().BoolVarP(&cfg.Force, "force", "f", cfg.Force, "rerun cases whose polar already exists")
	root.Flags().BoolVarP(&cfg.DryRun, "dry-run", "d", cfg.DryRun, "print scripts without running XFOIL")

	// Runtime settings, shared with subcommands.
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.foilrun/config.toml)")
	root.PersistentFlags().StringVar(&cfg.XfoilPath, "xfoil", cfg.XfoilPath, "XFOIL binary path or name on PATH")
	root.PersistentFlags().StringVar(&cfg.WorkDir, "workdir", cfg.WorkDir, "artifact directory")
	root.PersistentFlags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-case XFOIL timeout (0 = none)")
	root.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "show XFOIL output and debug logs")
	root.PersistentFlags().BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, "warnings and errors only")
	root.PersistentFlags().StringVar((*string)(&cfg.ColorMode), "color", string(cfg.ColorMode), "color output: auto | always | never")
	root.PersistentFlags().StringVarP(&cfg.LogFile, "log", "l", cfg.LogFile, "append JSON logs to file")

	root.AddCommand(checkCommand(&cfg, &cfgPath))

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "foilrun: %v\n", err)
		os.Exit(1)
	}
}

// layerConfig applies file and environment configuration under any flags
// the user set explicitly.
func layerConfig(cmd *cobra.Command, cfg *config.Config, cfgPath string) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
	cmd.InheritedFlags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = config.DefaultConfigPath()
	}
	if cfgFile != "" && config.FileExists(cfgFile) {
		fc, err := config.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := config.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}
	return config.ApplyEnvConfig(cfg, changed)
}

// buildBatch resolves the batch definition: a TOML run file when given,
// otherwise a single case assembled from flags.
func buildBatch(cmd *cobra.Command, cfg *config.Config, cf *caseFlags) (*batch.Batch, error) {
	if cfg.CaseFile != "" {
		return casefile.Load(cfg.CaseFile, cfg)
	}

	if cf.foil == "" {
		return nil, fmt.Errorf("nothing to run: give a run file or --foil (see --help)")
	}
	alphas, err := casefile.ParseAlphaSpec(cf.alpha)
	if err != nil {
		return nil, err
	}

	// The flag default for --iter was captured before file/env layering.
	iter := cf.iter
	if !cmd.Flags().Changed("iter") {
		iter = cfg.Iter
	}

	naca := cf.naca
	if !cmd.Flags().Changed("naca") {
		naca = isDigits(cf.foil)
	}

	b := batch.New()
	c := batch.Case{
		Foil:         cf.foil,
		NACA:         naca,
		Viscous:      cf.re > 0,
		Re:           cf.re,
		Mach:         cf.mach,
		Alphas:       alphas,
		Iter:         iter,
		SaveCp:       cfg.SaveCp,
		SaveGeometry: cfg.SaveGeometry,
		Pane:         cfg.Pane,
	}
	if err := b.Add(c); err != nil {
		return nil, err
	}
	return b, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// checkCommand wires the `foilrun check` diagnostics flow.
func checkCommand(cfg *config.Config, cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the XFOIL binary is installed and scriptable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := layerConfig(cmd, cfg, *cfgPath); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log, closeLog, err := logging.New(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			check.RunCheck(ctx, cfg, log)
			return nil
		},
	}
}
