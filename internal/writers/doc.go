// Package writers turns simulation results into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (text report, JSON/JSONL/CSV).
//   - Engine stays domain-only; Pipeline stays orchestration-only.
//   - JSON/JSONL go through pkg/api (v1) for a stable wire format.
package writers
