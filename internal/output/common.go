// internal/output/common.go
package output

// Output formats accepted by --output.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
)

// Canonical CSV header rows. Keep these as the single source of truth; all
// writers should use them.
var (
	TrialsCSVHeader = []string{"trial", "cost", "schedule"}
	EMVCSVHeader    = []string{"id", "kind", "probability", "cost_emv", "schedule_emv"}
)
