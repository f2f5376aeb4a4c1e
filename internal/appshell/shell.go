// internal/appshell/shell.go
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// ExitInterrupted is the conventional status after SIGINT.
const ExitInterrupted = 130

// RunFunc is the shape of app.RunContext.
type RunFunc func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

// Main hands the process arguments to run and exits with its status.
// Ctrl-C or SIGTERM cancel the simulation context so run can write the
// trials it finished. `renovrisk` with no arguments shows the command list.
func Main(run RunFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Status(ctx, run(ctx, Args(os.Args[1:]), os.Stdout, os.Stderr))
	stop() // cancels ctx, so the status is taken first
	os.Exit(code)
}

// Args turns a bare invocation into a help request.
func Args(argv []string) []string {
	if len(argv) == 0 {
		return []string{"--help"}
	}
	return argv
}

// Status reports ExitInterrupted when a signal landed while run was
// returning success; otherwise code is kept.
func Status(ctx context.Context, code int) int {
	if code == 0 && ctx.Err() != nil {
		return ExitInterrupted
	}
	return code
}
