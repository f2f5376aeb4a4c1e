// internal/register/register.go
package register

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"renovrisk-core/risk"
)

// ErrLoad marks failures to read or decode a register file.
var ErrLoad = errors.New("cannot load risk register")

type loadError struct {
	path string
	err  error
}

func (e *loadError) Error() string        { return fmt.Sprintf("%s: %v", e.path, e.err) }
func (e *loadError) Unwrap() error        { return e.err }
func (e *loadError) Is(target error) bool { return target == ErrLoad }

// Load reads a register by extension: .yaml/.yml as YAML, anything else as
// CSV. "-" reads CSV from stdin.
func Load(path string) ([]risk.Entry, error) {
	if path == "" {
		return nil, &loadError{path: "register", err: errors.New("no register file given (use --register)")}
	}
	var (
		list []risk.Entry
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		list, err = LoadYAML(path)
	default:
		list, err = risk.LoadCSV(path)
	}
	if err != nil {
		return nil, &loadError{path: path, err: err}
	}
	return list, nil
}

type yamlRange struct {
	Min        float64  `yaml:"min"`
	Max        float64  `yaml:"max"`
	MostLikely *float64 `yaml:"most_likely"`
}

type yamlEntry struct {
	ID          string    `yaml:"id"`
	Description string    `yaml:"description"`
	Kind        string    `yaml:"kind"`
	Probability float64   `yaml:"probability"`
	Cost        yamlRange `yaml:"cost"`
	Schedule    yamlRange `yaml:"schedule"`
}

type yamlFile struct {
	Risks []yamlEntry `yaml:"risks"`
}

// LoadYAML reads a YAML register file.
func LoadYAML(path string) ([]risk.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeYAML(bytes.NewReader(data))
}

// DecodeYAML decodes a `risks:` document. Unknown keys are rejected so a
// typo cannot silently zero a field.
func DecodeYAML(r io.Reader) ([]risk.Entry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc yamlFile
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]risk.Entry, 0, len(doc.Risks))
	for i, y := range doc.Risks {
		kind, err := risk.ParseKind(y.Kind)
		if err != nil {
			return nil, fmt.Errorf("risks[%d] (%s): %w", i, y.ID, err)
		}
		out = append(out, risk.Entry{
			ID:          y.ID,
			Description: y.Description,
			Kind:        kind,
			Probability: y.Probability,
			Cost:        risk.Range{Min: y.Cost.Min, Max: y.Cost.Max, MostLikely: y.Cost.MostLikely},
			Schedule:    risk.Range{Min: y.Schedule.Min, Max: y.Schedule.Max, MostLikely: y.Schedule.MostLikely},
		})
	}
	return out, nil
}
