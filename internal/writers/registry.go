// internal/writers/registry.go
package writers

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"syscall"

	"renovrisk/pkg/api"
)

// Simulation is the payload of a simulation writer. Trials carries the raw
// samples in trial order for the sample-oriented formats.
type Simulation struct {
	Doc    api.SimulationV1
	Trials []api.TrialV1
}

// Writer registries (format → handler). Register in init() blocks from the
// format files.
var (
	SimulationWriters = map[string]func(io.Writer, Simulation) error{}
	EMVWriters        = map[string]func(io.Writer, api.EMVTableV1) error{}
)

// Register helpers (idempotent last-wins)
func RegisterSimulation(format string, fn func(io.Writer, Simulation) error) {
	SimulationWriters[format] = fn
}
func RegisterEMV(format string, fn func(io.Writer, api.EMVTableV1) error) { EMVWriters[format] = fn }

// Dispatch helpers used by the app.
func WriteSimulation(format string, w io.Writer, s Simulation) error {
	fn, ok := SimulationWriters[format]
	if !ok {
		return fmt.Errorf("unknown simulation format %q (no writer registered)", format)
	}
	return fn(w, s)
}
func WriteEMV(format string, w io.Writer, t api.EMVTableV1) error {
	fn, ok := EMVWriters[format]
	if !ok {
		return fmt.Errorf("unknown emv format %q (no writer registered)", format)
	}
	return fn(w, t)
}

// Formats lists the registered formats of a registry, sorted.
func Formats[T any](reg map[string]T) []string {
	out := make([]string, 0, len(reg))
	for k := range reg {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsBrokenPipe reports whether err means the reader went away, as when the
// report is piped into head.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
