// Package input loads a batch problem: the legacy whitespace-separated input
// file, or weights plus FASTA reference and queries.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"mutalign/core/classify"
	"mutalign/core/engine"
	"mutalign/internal/fasta"
)

// ErrMalformed wraps every parse failure of the legacy format.
var ErrMalformed = errors.New("malformed input")

// maxToken bounds a single sequence token.
const maxToken = 64 << 20

// LoadLegacy reads the legacy input file at path ("-" for stdin).
func LoadLegacy(path string) (engine.Problem, error) {
	rc, err := fasta.Open(path)
	if err != nil {
		return engine.Problem{}, err
	}
	defer rc.Close()
	p, err := ParseLegacy(rc)
	if err != nil {
		return engine.Problem{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ParseLegacy reads whitespace-separated tokens: four weights (match,
// conservative, semi-conservative, mismatch), the reference, the number of
// queries, then that many queries. Tokens after the last query are ignored.
func ParseLegacy(r io.Reader) (engine.Problem, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxToken)
	sc.Split(bufio.ScanWords)

	next := func(what string) (string, error) {
		if sc.Scan() {
			return sc.Text(), nil
		}
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("%w: reading %s: %v", ErrMalformed, what, err)
		}
		return "", fmt.Errorf("%w: missing %s", ErrMalformed, what)
	}

	var p engine.Problem
	names := [...]string{"match", "conservative", "semi-conservative", "mismatch"}
	for i, name := range names {
		tok, err := next(name + " weight")
		if err != nil {
			return p, err
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return p, fmt.Errorf("%w: %s weight %q is not a number", ErrMalformed, name, tok)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return p, fmt.Errorf("%w: %s weight %q is not finite", ErrMalformed, name, tok)
		}
		p.Weights[i] = v
	}

	ref, err := next("reference sequence")
	if err != nil {
		return p, err
	}
	p.Reference = []byte(ref)

	tok, err := next("query count")
	if err != nil {
		return p, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return p, fmt.Errorf("%w: query count %q", ErrMalformed, tok)
	}

	p.Queries = make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		q, err := next(fmt.Sprintf("query %d of %d", i+1, n))
		if err != nil {
			return p, err
		}
		p.Queries = append(p.Queries, []byte(q))
	}
	return p, nil
}

// LoadFASTA builds a problem from a reference FASTA (first record used) and
// a queries FASTA (every record, in file order).
func LoadFASTA(w classify.Weights, refPath, queriesPath string) (engine.Problem, []string, error) {
	refs, err := fasta.ReadFile(refPath)
	if err != nil {
		return engine.Problem{}, nil, fmt.Errorf("reference: %w", err)
	}
	qs, err := fasta.ReadFile(queriesPath)
	if err != nil {
		return engine.Problem{}, nil, fmt.Errorf("queries: %w", err)
	}
	p := engine.Problem{Weights: w, Reference: refs[0].Seq, Queries: make([][]byte, len(qs))}
	ids := make([]string, len(qs))
	for i, r := range qs {
		p.Queries[i] = r.Seq
		ids[i] = r.ID
	}
	return p, ids, nil
}
