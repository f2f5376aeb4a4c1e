package appcore

import (
	"renovrisk-core/engine"
	"renovrisk/internal/output"
	"renovrisk/internal/report"
	"renovrisk/internal/writers"
)

// SimulationWriterFactory turns an engine result into the payload a
// simulation writer expects.
type SimulationWriterFactory struct {
	Format  string
	Samples bool
	Top     int
}

func NewSimulationWriterFactory(format string, samples bool, top int) SimulationWriterFactory {
	return SimulationWriterFactory{Format: format, Samples: samples, Top: top}
}

// NeedTrials reports whether the format streams one row per trial.
func (w SimulationWriterFactory) NeedTrials() bool {
	return w.Format == output.FormatCSV || w.Format == output.FormatJSONL
}

// Payload builds the writer input for res.
func (w SimulationWriterFactory) Payload(res *engine.Result, runID, shape string) writers.Simulation {
	doc := report.Build(res, report.Meta{
		RunID:   runID,
		Shape:   shape,
		Top:     w.Top,
		Samples: w.Samples && w.Format == output.FormatJSON,
	})
	p := writers.Simulation{Doc: doc}
	if w.NeedTrials() {
		p.Trials = report.Trials(res)
	}
	return p
}
