// Package pipeline fans simulation batches out to a bounded worker pool and
// joins them back in batch order.
//
// The only contract to implement is Simulator. Batches are slotted by index,
// so the joined result is identical to a serial run for the same seed.
package pipeline
