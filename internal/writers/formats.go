// internal/writers/formats.go
package writers

import (
	"io"

	"renovrisk/internal/output"
	"renovrisk/pkg/api"
)

func init() {
	RegisterSimulation(output.FormatText, func(w io.Writer, s Simulation) error {
		return output.WriteText(w, s.Doc)
	})
	RegisterSimulation(output.FormatJSON, func(w io.Writer, s Simulation) error {
		return output.WriteJSON(w, s.Doc)
	})
	RegisterSimulation(output.FormatCSV, func(w io.Writer, s Simulation) error {
		return output.WriteTrialsCSV(w, s.Trials)
	})
	RegisterSimulation(output.FormatJSONL, writeTrialsJSONL)

	RegisterEMV(output.FormatText, output.WriteEMVText)
	RegisterEMV(output.FormatJSON, output.WriteEMVJSON)
	RegisterEMV(output.FormatCSV, output.WriteEMVCSV)
	RegisterEMV(output.FormatJSONL, writeEMVJSONL)
}

// writeTrialsJSONL streams one TrialV1 per line.
func writeTrialsJSONL(w io.Writer, s Simulation) error {
	in, done := StartTrialJSONLWriter(w, 256)
	return feed(in, done, s.Trials)
}

func writeEMVJSONL(w io.Writer, t api.EMVTableV1) error {
	in, done := StartEMVJSONLWriter(w, 64)
	return feed(in, done, t.Entries)
}

// feed sends every item and waits for the writer. The writer drains its
// input after a failure, so sends never block on a dead stream.
func feed[T any](in chan<- T, done <-chan error, items []T) error {
	for _, it := range items {
		in <- it
	}
	close(in)
	return <-done
}
