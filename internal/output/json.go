// internal/output/json.go
package output

import (
	"encoding/json"
	"io"

	"mutalign/pkg/api"
)

func toAPIResults(rows []Row) []api.ResultV1 {
	out := make([]api.ResultV1, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToAPI(r))
	}
	return out
}

// WriteJSON writes a single JSON array of v1 results (pretty-indented).
func WriteJSON(w io.Writer, rows []Row) error {
	return EncodePretty(w, toAPIResults(rows))
}

// EncodePretty writes v as indented JSON to w.
func EncodePretty(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
