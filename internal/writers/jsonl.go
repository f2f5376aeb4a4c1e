// internal/writers/jsonl.go
package writers

import (
	"encoding/json"
	"io"

	"renovrisk/internal/jsonlutil"
	"renovrisk/pkg/api"
)

// StartTrialJSONLWriter streams each trial sample as one JSON line (v1).
func StartTrialJSONLWriter(out io.Writer, bufSize int) (chan<- api.TrialV1, <-chan error) {
	return jsonlutil.Start[api.TrialV1](out, bufSize,
		func(enc *json.Encoder, t api.TrialV1) error {
			return enc.Encode(t)
		},
		IsBrokenPipe,
	)
}

// StartEMVJSONLWriter streams each EMV entry as one JSON line (v1).
func StartEMVJSONLWriter(out io.Writer, bufSize int) (chan<- api.EMVV1, <-chan error) {
	return jsonlutil.Start[api.EMVV1](out, bufSize,
		func(enc *json.Encoder, e api.EMVV1) error {
			return enc.Encode(e)
		},
		IsBrokenPipe,
	)
}
