// pkg/api/simulation_v1.go
package api

// SchemaV1 tags every v1 document.
const SchemaV1 = "renovrisk/v1"

// SimulationV1 is the stable JSON schema of one simulation run.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type SimulationV1 struct {
	Schema      string    `json:"schema"`
	RunID       string    `json:"run_id"`
	Seed        uint64    `json:"seed,string"` // string: exceeds 2^53
	Requested   int       `json:"requested_iterations"`
	Iterations  int       `json:"iterations"`
	Partial     bool      `json:"partial,omitempty"`
	Shape       string    `json:"shape"`
	Percentiles []float64 `json:"percentiles"`

	Cost     DistributionV1 `json:"cost"`
	Schedule DistributionV1 `json:"schedule"`

	Sensitivity SensitivityV1 `json:"sensitivity"`
	EMV         EMVTableV1    `json:"emv"`
	Totals      *TotalsV1     `json:"totals,omitempty"`
	Warnings    []string      `json:"warnings,omitempty"`
	Samples     []TrialV1     `json:"samples,omitempty"`
}

// DistributionV1 summarizes one aggregate delta (cost in currency units,
// schedule in days).
type DistributionV1 struct {
	Mean        float64        `json:"mean"`
	StdDev      float64        `json:"std_dev"`
	Min         float64        `json:"min"`
	Max         float64        `json:"max"`
	Median      float64        `json:"median"`
	Percentiles []PercentileV1 `json:"percentiles"`
	Histogram   []BinV1        `json:"histogram,omitempty"`
	Curve       []CurvePointV1 `json:"s_curve,omitempty"`
}

type PercentileV1 struct {
	P     float64 `json:"p"`
	Value float64 `json:"value"`
}

type BinV1 struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

type CurvePointV1 struct {
	Value       float64 `json:"value"`
	Probability float64 `json:"probability"`
}

// SensitivityV1 lists ranked scores, strongest first.
type SensitivityV1 struct {
	Cost     []ScoreV1 `json:"cost"`
	Schedule []ScoreV1 `json:"schedule"`
}

type ScoreV1 struct {
	ID            string  `json:"id"`
	Score         float64 `json:"score"`
	VarianceShare float64 `json:"variance_share"`
}

// EMVTableV1 is the closed-form expected value table. Top holds the
// largest entries by absolute cost EMV.
type EMVTableV1 struct {
	Entries       []EMVV1  `json:"entries"`
	TotalCost     float64  `json:"total_cost"`
	TotalSchedule float64  `json:"total_schedule"`
	Top           []string `json:"top,omitempty"`
}

type EMVV1 struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Probability float64 `json:"probability"`
	Cost        float64 `json:"cost"`
	Schedule    float64 `json:"schedule"`
}

// TotalsV1 is baseline + delta, with the contingency reserve needed to reach
// Confidence.
type TotalsV1 struct {
	BaseCost     float64        `json:"base_cost"`
	BaseDuration float64        `json:"base_duration"`
	Cost         DistributionV1 `json:"cost"`
	Schedule     DistributionV1 `json:"schedule"`
	Contingency  ContingencyV1  `json:"contingency"`
}

type ContingencyV1 struct {
	Confidence      float64 `json:"confidence"`
	CostAt          float64 `json:"cost_at"`
	ScheduleAt      float64 `json:"schedule_at"`
	Cost            float64 `json:"cost"`
	Schedule        float64 `json:"schedule"`
	CostPercent     float64 `json:"cost_percent"`
	SchedulePercent float64 `json:"schedule_percent"`
}

// TrialV1 is one line of the jsonl sample stream.
type TrialV1 struct {
	Trial    int     `json:"trial"`
	Cost     float64 `json:"cost"`
	Schedule float64 `json:"schedule"`
}
