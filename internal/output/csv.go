// internal/output/csv.go
package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"renovrisk/pkg/api"
)

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// WriteTrialsCSV exports raw samples as trial,cost,schedule rows.
func WriteTrialsCSV(w io.Writer, trials []api.TrialV1) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TrialsCSVHeader); err != nil {
		return err
	}
	for _, t := range trials {
		if err := cw.Write([]string{strconv.Itoa(t.Trial), ftoa(t.Cost), ftoa(t.Schedule)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEMVCSV writes one row per register entry.
func WriteEMVCSV(w io.Writer, t api.EMVTableV1) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(EMVCSVHeader); err != nil {
		return err
	}
	for _, e := range t.Entries {
		if err := cw.Write([]string{e.ID, e.Kind, ftoa(e.Probability), ftoa(e.Cost), ftoa(e.Schedule)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
