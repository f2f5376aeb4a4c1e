// internal/runutil/runutil.go
package runutil

import (
	"fmt"
	"runtime"
)

// MinAutoBatch keeps automatically chosen batches large enough that
// scheduling overhead stays small next to the sampling work.
const MinAutoBatch = 256

// ComputeThreads resolves --threads: 0 means all CPUs.
func ComputeThreads(threads int) int {
	if threads <= 0 {
		return runtime.NumCPU()
	}
	return threads
}

// ChooseBatchSize returns the batch size to run with and any warnings.
// An explicit size is kept as-is (samples never depend on it). With 0, the
// size targets about four batches per worker, bounded to
// [MinAutoBatch, maxBatch].
func ChooseBatchSize(iterations, threads, batchSize, maxBatch int) (int, []string) {
	var warns []string
	if batchSize > 0 {
		if batchSize > iterations {
			warns = append(warns, fmt.Sprintf("warning: --batch-size %d exceeds --iterations %d; running a single batch", batchSize, iterations))
		}
		if b := ceilDiv(iterations, batchSize); threads > 1 && b < threads {
			warns = append(warns, fmt.Sprintf("warning: only %d batches for %d workers; lower --batch-size to use them all", b, threads))
		}
		return batchSize, warns
	}
	if threads < 1 {
		threads = 1
	}
	b := ceilDiv(iterations, threads*4)
	if b < MinAutoBatch {
		b = MinAutoBatch
	}
	if maxBatch > 0 && b > maxBatch {
		b = maxBatch
	}
	return b, nil
}

// EffectiveThreads caps workers at the number of batches.
func EffectiveThreads(threads, batches int) int {
	if batches < 1 {
		return 1
	}
	if threads > batches {
		return batches
	}
	return threads
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
