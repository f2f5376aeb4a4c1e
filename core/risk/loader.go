// core/risk/loader.go
package risk

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Column names understood by ReadCSV. The Portuguese aliases are the
// headers written by the legacy spreadsheet register export.
var columnAliases = map[string]string{
	"id":                    "id",
	"id_risco":              "id",
	"description":           "description",
	"descricao_risco":       "description",
	"kind":                  "kind",
	"tipo_risco":            "kind",
	"probability":           "probability",
	"probabilidade_num":     "probability",
	"cost_min":              "cost_min",
	"efeito_custo_min":      "cost_min",
	"cost_max":              "cost_max",
	"efeito_custo_max":      "cost_max",
	"cost_most_likely":      "cost_most_likely",
	"schedule_min":          "schedule_min",
	"efeito_prazo_min_dias": "schedule_min",
	"schedule_max":          "schedule_max",
	"efeito_prazo_max_dias": "schedule_max",
	"schedule_most_likely":  "schedule_most_likely",
}

var requiredColumns = []string{"id", "kind", "probability", "cost_min", "cost_max", "schedule_min", "schedule_max"}

// LoadCSV reads a register file. Use "-" for stdin.
func LoadCSV(path string) ([]Entry, error) {
	if path == "-" {
		return ReadCSV(os.Stdin, "stdin")
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()
	return ReadCSV(fh, path)
}

// ReadCSV decodes a headered CSV register. Unknown columns are ignored so a
// full register export can be fed in unchanged. Entries are not validated.
func ReadCSV(r io.Reader, name string) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: header: %w", name, err)
	}
	col := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if canon, ok := columnAliases[key]; ok {
			if _, dup := col[canon]; !dup {
				col[canon] = i
			}
		}
	}
	for _, c := range requiredColumns {
		if _, ok := col[c]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", name, c)
		}
	}

	var list []Entry
	ln := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln++
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if blank(rec) {
			continue
		}
		cell := func(c string) string {
			i, ok := col[c]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		e := Entry{ID: cell("id"), Description: cell("description")}
		if e.Kind, err = ParseKind(cell("kind")); err != nil {
			return nil, fmt.Errorf("%s:%d %v", name, ln, err)
		}
		nums := []struct {
			col string
			dst *float64
		}{
			{"probability", &e.Probability},
			{"cost_min", &e.Cost.Min},
			{"cost_max", &e.Cost.Max},
			{"schedule_min", &e.Schedule.Min},
			{"schedule_max", &e.Schedule.Max},
		}
		for _, n := range nums {
			if *n.dst, err = parseNumber(cell(n.col)); err != nil {
				return nil, fmt.Errorf("%s:%d bad %s: %v", name, ln, n.col, err)
			}
		}
		if e.Cost.MostLikely, err = parseOptional(cell("cost_most_likely")); err != nil {
			return nil, fmt.Errorf("%s:%d bad cost_most_likely: %v", name, ln, err)
		}
		if e.Schedule.MostLikely, err = parseOptional(cell("schedule_most_likely")); err != nil {
			return nil, fmt.Errorf("%s:%d bad schedule_most_likely: %v", name, ln, err)
		}
		list = append(list, e)
	}
	return list, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// parseNumber treats an empty cell as zero impact, matching how the register
// leaves unused cost or schedule columns blank.
func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseOptional(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
