// internal/cli/options.go
package cli

import (
	"github.com/spf13/cobra"

	"renovrisk-core/engine"
	"renovrisk/internal/version"
)

// Handlers are the command implementations. The cli package only declares
// commands and flags; config resolution and I/O belong to the caller.
type Handlers struct {
	Simulate func(cmd *cobra.Command) error
	EMV      func(cmd *cobra.Command) error
	Validate func(cmd *cobra.Command) error
	Version  func(cmd *cobra.Command) error
}

// ConfigPath returns the --config value ("" when unset).
func ConfigPath(cmd *cobra.Command) string {
	p, _ := cmd.Flags().GetString("config")
	return p
}

// NewRoot builds the renovrisk command tree.
func NewRoot(h Handlers) *cobra.Command {
	root := &cobra.Command{
		Use:   "renovrisk",
		Short: "Monte Carlo risk analysis for renovation projects",
		Long: `renovrisk runs a Monte Carlo simulation over a renovation risk register and
reports the aggregate cost and schedule delta distributions, percentiles,
contingency reserve, EMV per risk, and a sensitivity ranking.

Register files are CSV (header row) or YAML (risks: list).
Every flag can also be set in the --config file or as RENOVRISK_<FLAG>.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("renovrisk version {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.String("config", "", "YAML config file")
	pf.BoolP("quiet", "q", false, "suppress non-essential log output")
	pf.String("log-level", "info", "log level: debug | info | warn | error")
	pf.String("log-format", "console", "log encoding: console | json")

	root.AddCommand(
		newSimulateCmd(h.Simulate),
		newEMVCmd(h.EMV),
		newValidateCmd(h.Validate),
		newVersionCmd(h.Version),
	)
	return root
}

func run(fn func(*cobra.Command) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error { return fn(cmd) }
}

func newSimulateCmd(fn func(*cobra.Command) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the Monte Carlo simulation over a risk register",
		Example: `  renovrisk simulate -r register.csv -n 20000 --seed 42
  renovrisk simulate -r register.yaml --base-cost 150000 --base-duration 120 --confidence 80
  renovrisk simulate -r register.csv -o csv > samples.csv`,
		Args: cobra.NoArgs,
		RunE: run(fn),
	}
	f := cmd.Flags()
	f.StringP("register", "r", "", "risk register file (.csv, .yaml, or '-' for CSV on stdin) [*]")
	f.IntP("iterations", "n", engine.DefaultIterations, "number of trials")
	f.Uint64("seed", 0, "random seed (default: drawn and reported)")
	f.String("percentiles", "10,50,90", "percentiles to report, each in (0,100)")
	f.String("shape", "triangular", "impact distribution: triangular | uniform")
	f.Float64("base-cost", 0, "baseline project cost; enables totals and contingency")
	f.Float64("base-duration", 0, "baseline project duration in days")
	f.Float64("confidence", engine.DefaultConfidence, "confidence level for the contingency reserve")
	f.Int("bins", engine.DefaultHistogramBins, "histogram bins")
	f.Int("curve-points", engine.DefaultCurvePoints, "S-curve points")
	f.IntP("threads", "t", 0, "worker threads (0 = all CPUs)")
	f.Int("batch-size", 0, "trials per batch (0 = auto)")
	f.StringP("output", "o", "text", "output: text | json | jsonl | csv")
	f.Bool("samples", false, "embed raw samples in json output")
	f.String("plot-dir", "", "write histogram and S-curve PNGs to this directory")
	f.Int("top", 5, "EMV entries to flag as top risks")
	f.Duration("timeout", 0, "stop after this long and report the completed trials")
	return cmd
}

func newEMVCmd(fn func(*cobra.Command) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emv",
		Short: "Print the closed-form expected monetary value of each risk",
		Args:  cobra.NoArgs,
		RunE:  run(fn),
	}
	f := cmd.Flags()
	f.StringP("register", "r", "", "risk register file [*]")
	f.String("shape", "triangular", "impact distribution: triangular | uniform")
	f.Int("top", 5, "EMV entries to flag as top risks")
	f.StringP("output", "o", "text", "output: text | json | jsonl | csv")
	return cmd
}

func newValidateCmd(fn func(*cobra.Command) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a risk register and report every invalid entry",
		Args:  cobra.NoArgs,
		RunE:  run(fn),
	}
	cmd.Flags().StringP("register", "r", "", "risk register file [*]")
	return cmd
}

func newVersionCmd(fn func(*cobra.Command) error) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		RunE:  run(fn),
	}
}
