// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"renovrisk-core/engine"
	"renovrisk-core/risk"
	"renovrisk-core/sensitivity"
	"renovrisk/internal/appcore"
	"renovrisk/internal/cli"
	"renovrisk/internal/config"
	"renovrisk/internal/logging"
	"renovrisk/internal/register"
	"renovrisk/internal/report"
	"renovrisk/internal/version"
	"renovrisk/internal/writers"
)

// exitCode is returned by handlers that already reported their failure.
type exitCode int

func (c exitCode) Error() string { return fmt.Sprintf("exit status %d", int(c)) }

type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

type runner struct {
	stdout io.Writer
	out    *bufio.Writer
	stderr io.Writer
	ran    bool
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	r := &runner{stdout: stdout, out: outw, stderr: stderr}
	root := cli.NewRoot(cli.Handlers{
		Simulate: r.simulate,
		EMV:      r.emv,
		Validate: r.validate,
		Version:  r.version,
	})
	root.SetArgs(argv)
	root.SetOut(outw)
	root.SetErr(stderr)

	err := root.ExecuteContext(parent)
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return 0
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return 3
	}

	var code exitCode
	switch {
	case err == nil:
		return 0
	case errors.As(err, &code):
		return int(code)
	case !r.ran:
		_, _ = fmt.Fprintf(stderr, "error: %v\nRun 'renovrisk --help' for usage.\n", err)
		return 2
	}
	_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
	return classify(err)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func classify(err error) int {
	var ue usageError
	switch {
	case errors.As(err, &ue),
		errors.Is(err, register.ErrLoad),
		errors.Is(err, risk.ErrInvalidRiskEntry),
		errors.Is(err, engine.ErrInvalidConfiguration):
		return 2
	case errors.Is(err, context.Canceled):
		return 130
	}
	return 3
}

func (r *runner) load(cmd *cobra.Command) (config.Run, error) {
	r.ran = true
	cfg, err := config.Load(cli.ConfigPath(cmd), cmd.Flags())
	if err != nil {
		return config.Run{}, usageError{err}
	}
	return cfg, nil
}

func checkFormat[T any](reg map[string]T, format string) error {
	if _, ok := reg[format]; ok {
		return nil
	}
	return usageError{fmt.Errorf("invalid --output %q (want %s)", format, strings.Join(writers.Formats(reg), " | "))}
}

func (r *runner) simulate(cmd *cobra.Command) error {
	cfg, err := r.load(cmd)
	if err != nil {
		return err
	}
	if err := checkFormat(writers.SimulationWriters, cfg.Output); err != nil {
		return err
	}
	log := logging.New(cfg.Log, cfg.Quiet, r.stderr)
	defer func() { _ = log.Sync() }()

	entries, err := register.Load(cfg.Register)
	if err != nil {
		return err
	}
	code := appcore.Simulate(cmd.Context(), r.stdout, r.stderr, log,
		appcore.Options{
			Engine:  cfg.EngineConfig(),
			Threads: cfg.Threads,
			Timeout: cfg.Timeout,
			PlotDir: cfg.PlotDir,
		},
		entries,
		appcore.NewSimulationWriterFactory(cfg.Output, cfg.Samples, cfg.Top),
	)
	if code != 0 {
		return exitCode(code)
	}
	return nil
}

func (r *runner) emv(cmd *cobra.Command) error {
	cfg, err := r.load(cmd)
	if err != nil {
		return err
	}
	if err := checkFormat(writers.EMVWriters, cfg.Output); err != nil {
		return err
	}
	shape, err := risk.ParseShape(cfg.Shape)
	if err != nil {
		return usageError{err}
	}
	entries, err := register.Load(cfg.Register)
	if err != nil {
		return err
	}
	if err := risk.Validate(entries); err != nil {
		return err
	}
	table := report.EMVTable(sensitivity.ComputeEMV(entries, shape), cfg.Top)
	return writers.WriteEMV(cfg.Output, r.out, table)
}

func (r *runner) validate(cmd *cobra.Command) error {
	cfg, err := r.load(cmd)
	if err != nil {
		return err
	}
	entries, err := register.Load(cfg.Register)
	if err != nil {
		return err
	}
	if err := risk.Validate(entries); err != nil {
		problems := []error{err}
		if j, ok := err.(interface{ Unwrap() []error }); ok {
			problems = j.Unwrap()
		}
		_, _ = fmt.Fprintf(r.out, "invalid: %d problem(s) in %s\n", len(problems), cfg.Register)
		for _, p := range problems {
			_, _ = fmt.Fprintf(r.out, "  - %v\n", p)
		}
		return exitCode(2)
	}
	threats := 0
	for _, e := range entries {
		if e.Kind == risk.Threat {
			threats++
		}
	}
	_, err = fmt.Fprintf(r.out, "ok: %d risks (%d threats, %d opportunities)\n", len(entries), threats, len(entries)-threats)
	return err
}

func (r *runner) version(*cobra.Command) error {
	r.ran = true
	_, err := fmt.Fprintf(r.out, "renovrisk version %s\n", version.Version)
	return err
}
