// internal/output/rows.go
package output

import (
	"fmt"
	"strconv"

	"mutalign/core/mutant"
	"mutalign/core/result"
	"mutalign/pkg/api"
)

// TSVHeader is the canonical header row for TSV output.
const TSVHeader = "query\toffset\tmutant\tscore\tfound"

// NA stands in for offset and mutant when a query has no result.
const NA = "NA"

// Row is one query's outcome as handed to the writers.
type Row struct {
	Index  int
	ID     string // optional FASTA record ID
	Query  []byte
	Result result.Result
}

// Name is the ID if present, else the 0-based index.
func (r Row) Name() string {
	if r.ID != "" {
		return r.ID
	}
	return strconv.Itoa(r.Index)
}

// TextLine is the classic one-line result, without trailing newline.
func TextLine(r result.Result) string {
	if !r.Found() {
		return "Offset n = " + NA + "\tMS(" + NA + ")"
	}
	return fmt.Sprintf("Offset n = %d\tMS(%d)", r.Offset, r.Mutant)
}

// TSVLine formats the TSVHeader columns, without trailing newline.
func TSVLine(row Row) string {
	r := row.Result
	if !r.Found() {
		return row.Name() + "\t" + NA + "\t" + NA + "\t" + NA + "\tfalse"
	}
	return fmt.Sprintf("%s\t%d\t%d\t%s\ttrue", row.Name(), r.Offset, r.Mutant,
		strconv.FormatFloat(r.Score, 'g', -1, 64))
}

// ToAPI converts a Row to the stable wire schema (v1).
func ToAPI(row Row) api.ResultV1 {
	v := api.ResultV1{Query: row.Index, QueryID: row.ID, Length: len(row.Query)}
	r := row.Result
	if !r.Found() {
		return v
	}
	off, mut, score := r.Offset, r.Mutant, r.Score
	v.Found = true
	v.Offset, v.Mutant, v.Score = &off, &mut, &score
	v.Mutated = string(mutant.Materialize(row.Query, r.Mutant))
	return v
}
