// internal/pipeline/sim.go
package pipeline

import "renovrisk-core/engine"

// Simulator is the minimal capability the pipeline needs.
// Any engine (including fakes in tests) can satisfy this.
type Simulator interface {
	NumBatches() int
	SimulateBatch(idx int) engine.Batch
	Assemble(batches []engine.Batch) *engine.Result
}
