// internal/writers/jsonl.go
package writers

import (
	"encoding/json"
	"io"

	"mutalign/internal/jsonlutil"
	"mutalign/internal/output"
)

// StartJSONLWriter streams each row as one JSON line (v1).
func StartJSONLWriter(out io.Writer, bufSize int) (chan<- output.Row, <-chan error) {
	return jsonlutil.Start[output.Row](out, bufSize,
		func(enc *json.Encoder, r output.Row) error {
			return enc.Encode(output.ToAPI(r))
		},
		IsBrokenPipe,
	)
}
