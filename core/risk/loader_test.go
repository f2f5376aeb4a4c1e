package risk

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadCSV_CanonicalHeaders(t *testing.T) {
	in := `id,kind,probability,cost_min,cost_max,cost_most_likely,schedule_min,schedule_max,description
# comment line
R1,threat,0.3,1000,3000,,2,5,Asbestos found
R2,opportunity,0.5,200,400,250,0,0,Bulk discount
`
	got, err := ReadCSV(strings.NewReader(in), "reg.csv")
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	want := []Entry{
		{ID: "R1", Description: "Asbestos found", Kind: Threat, Probability: 0.3,
			Cost: Range{Min: 1000, Max: 3000}, Schedule: Range{Min: 2, Max: 5}},
		{ID: "R2", Description: "Bulk discount", Kind: Opportunity, Probability: 0.5,
			Cost: Range{Min: 200, Max: 400, MostLikely: Float(250)}},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", d)
	}
}

func TestReadCSV_LegacyHeaders(t *testing.T) {
	in := "\ufeffID_Risco,Descricao_Risco,Tipo_Risco,Probabilidade_Num,Efeito_Custo_Min,Efeito_Custo_Max,Efeito_Prazo_Min_Dias,Efeito_Prazo_Max_Dias,Responsavel\n" +
		"R-01,Infiltração,Ameaça,0.2,5000,15000,,,Eng\n" +
		"R-02,Desconto,Oportunidade,0.4,1000,2000,3,6,Compras\n"
	got, err := ReadCSV(strings.NewReader(in), "legacy.csv")
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 entries, got %d", len(got))
	}
	if got[0].Kind != Threat || got[0].Schedule.Max != 0 || got[0].Cost.Max != 15000 {
		t.Fatalf("R-01 decoded wrong: %+v", got[0])
	}
	if got[1].Kind != Opportunity || got[1].Schedule.Min != 3 {
		t.Fatalf("R-02 decoded wrong: %+v", got[1])
	}
}

func TestReadCSV_Errors(t *testing.T) {
	cases := map[string]string{
		"missing column": "id,kind,probability\nR1,threat,0.1\n",
		"bad kind":       "id,kind,probability,cost_min,cost_max,schedule_min,schedule_max\nR1,issue,0.1,0,1,0,1\n",
		"bad number":     "id,kind,probability,cost_min,cost_max,schedule_min,schedule_max\nR1,threat,x,0,1,0,1\n",
	}
	for name, in := range cases {
		if _, err := ReadCSV(strings.NewReader(in), "r.csv"); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestReadCSV_EmptyInput(t *testing.T) {
	got, err := ReadCSV(strings.NewReader(""), "empty.csv")
	if err != nil || len(got) != 0 {
		t.Fatalf("empty input: %v %v", got, err)
	}
}

func TestLoadCSV_File(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "reg.csv")
	data := "id,kind,probability,cost_min,cost_max,schedule_min,schedule_max\nR1,threat,1,10,10,1,1\n"
	if err := os.WriteFile(fn, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := LoadCSV(fn)
	if err != nil || len(got) != 1 || got[0].Cost.Min != 10 {
		t.Fatalf("LoadCSV failed: %+v %v", got, err)
	}
	if _, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
