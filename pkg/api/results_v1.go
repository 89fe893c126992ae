// pkg/api/results_v1.go
package api

// ResultV1 is the stable JSON/JSONL schema for one query's best alignment.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
//
// Offset, Mutant and Score are absent when Found is false.
type ResultV1 struct {
	Query   int      `json:"query"` // 0-based position in the input
	QueryID string   `json:"query_id,omitempty"`
	Length  int      `json:"length"`
	Found   bool     `json:"found"`
	Offset  *int     `json:"offset,omitempty"`
	Mutant  *int     `json:"mutant,omitempty"`
	Score   *float64 `json:"score,omitempty"`
	Mutated string   `json:"mutated,omitempty"` // query with the gap inserted
}
