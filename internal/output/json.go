// internal/output/json.go
package output

import (
	"io"

	"renovrisk/internal/jsonutil"
	"renovrisk/pkg/api"
)

// WriteJSON writes the v1 simulation document (pretty-indented).
func WriteJSON(w io.Writer, doc api.SimulationV1) error {
	return jsonutil.EncodePretty(w, doc)
}

// WriteEMVJSON writes the v1 EMV table (pretty-indented).
func WriteEMVJSON(w io.Writer, t api.EMVTableV1) error {
	return jsonutil.EncodePretty(w, t)
}
