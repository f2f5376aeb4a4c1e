// internal/output/text.go
package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"renovrisk/pkg/api"
)

// errWriter keeps the first write error so the report body stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, a ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, a...)
}

func money(v float64) string { return fmt.Sprintf("%.2f", v) }

func pct(p float64) string { return "P" + strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", p), "0"), ".") }

// WriteText renders the human-readable simulation report.
func WriteText(w io.Writer, doc api.SimulationV1) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	ew := &errWriter{w: tw}

	ew.printf("run\t%s\n", doc.RunID)
	ew.printf("seed\t%d\n", doc.Seed)
	ew.printf("iterations\t%d of %d\n", doc.Iterations, doc.Requested)
	ew.printf("shape\t%s\n", doc.Shape)
	if doc.Partial {
		ew.printf("status\tPARTIAL (cancelled)\n")
	}

	ew.printf("\nAGGREGATE DELTA\tcost\tschedule (days)\n")
	distRows(ew, doc.Cost, doc.Schedule)

	if t := doc.Totals; t != nil {
		ew.printf("\nPROJECT TOTAL\tcost\tschedule (days)\n")
		ew.printf("baseline\t%s\t%s\n", money(t.BaseCost), money(t.BaseDuration))
		distRows(ew, t.Cost, t.Schedule)
		c := t.Contingency
		ew.printf("contingency @ %s\t%s (%s%%)\t%s (%s%%)\n", pct(c.Confidence),
			money(c.Cost), money(c.CostPercent), money(c.Schedule), money(c.SchedulePercent))
	}

	ew.printf("\nSENSITIVITY (cost)\tscore\tvariance share\n")
	for _, s := range doc.Sensitivity.Cost {
		ew.printf("%s\t%.4f\t%.4f\n", s.ID, s.Score, s.VarianceShare)
	}
	ew.printf("\nSENSITIVITY (schedule)\tscore\tvariance share\n")
	for _, s := range doc.Sensitivity.Schedule {
		ew.printf("%s\t%.4f\t%.4f\n", s.ID, s.Score, s.VarianceShare)
	}
	if ew.err == nil {
		ew.err = tw.Flush()
	}
	if ew.err != nil {
		return ew.err
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if err := WriteEMVText(w, doc.EMV); err != nil {
		return err
	}
	if len(doc.Warnings) > 0 {
		if _, err := fmt.Fprintln(w, "\nWARNINGS"); err != nil {
			return err
		}
		for _, m := range doc.Warnings {
			if _, err := fmt.Fprintf(w, "  - %s\n", m); err != nil {
				return err
			}
		}
	}
	return nil
}

func distRows(ew *errWriter, cost, sched api.DistributionV1) {
	ew.printf("mean\t%s\t%s\n", money(cost.Mean), money(sched.Mean))
	ew.printf("std dev\t%s\t%s\n", money(cost.StdDev), money(sched.StdDev))
	ew.printf("min\t%s\t%s\n", money(cost.Min), money(sched.Min))
	ew.printf("median\t%s\t%s\n", money(cost.Median), money(sched.Median))
	for i, pv := range cost.Percentiles {
		sv := 0.0
		if i < len(sched.Percentiles) {
			sv = sched.Percentiles[i].Value
		}
		ew.printf("%s\t%s\t%s\n", pct(pv.P), money(pv.Value), money(sv))
	}
	ew.printf("max\t%s\t%s\n", money(cost.Max), money(sched.Max))
}

// WriteEMVText renders the closed-form EMV table; entries listed in Top are
// starred.
func WriteEMVText(w io.Writer, t api.EMVTableV1) error {
	top := make(map[string]bool, len(t.Top))
	for _, id := range t.Top {
		top[id] = true
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	ew := &errWriter{w: tw}
	ew.printf("EMV\tkind\tprobability\tcost\tschedule (days)\n")
	for _, e := range t.Entries {
		mark := ""
		if top[e.ID] {
			mark = " *"
		}
		ew.printf("%s%s\t%s\t%.4g\t%s\t%s\n", e.ID, mark, e.Kind, e.Probability, money(e.Cost), money(e.Schedule))
	}
	ew.printf("total\t\t\t%s\t%s\n", money(t.TotalCost), money(t.TotalSchedule))
	if ew.err != nil {
		return ew.err
	}
	return tw.Flush()
}
